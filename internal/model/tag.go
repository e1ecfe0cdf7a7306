package model

// Tag 标签表，对应 tags
// 独立成表，修改标签名无需逐个更新社团
type Tag struct {
	ID   uint   `gorm:"primaryKey"                         json:"id"`
	Name string `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
}

// TableName 指定表名
func (Tag) TableName() string { return "tags" }
