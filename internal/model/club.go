package model

// Club 社团表，对应 clubs
// name 为自然键，大部分查询按名称进行
type Club struct {
	ID            uint   `gorm:"primaryKey"                            json:"id"`
	Code          string `gorm:"type:varchar(80)"                      json:"code"`
	Name          string `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
	Description   string `gorm:"type:text"                             json:"description"`
	FavoriteCount int    `gorm:"not null;default:0"                    json:"favorite_count"`
	BaseModel
}

// TableName 指定表名
func (Club) TableName() string { return "clubs" }
