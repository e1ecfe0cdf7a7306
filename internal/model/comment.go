package model

// Comment 评论表，对应 comments
// ParentID 指向被回复的评论；删除父评论不级联删除回复
type Comment struct {
	ID       uint   `gorm:"primaryKey"         json:"id"`
	UserID   *uint  `gorm:"index"              json:"user_id"`
	ClubID   *uint  `gorm:"index"              json:"club_id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ParentID *uint  `gorm:"index"              json:"parent_id"`
	BaseModel
}

// TableName 指定表名
func (Comment) TableName() string { return "comments" }
