package model

// ── 多对多关联表 ──
// 关联关系由 repository 显式维护，模型上不声明 ORM 关联字段

// ClubTag 社团-标签关联，对应 club_tags
type ClubTag struct {
	ClubID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey;index"`
}

// TableName 指定表名
func (ClubTag) TableName() string { return "club_tags" }

// UserClub 用户已加入的社团，对应 user_clubs
type UserClub struct {
	UserID uint `gorm:"primaryKey"`
	ClubID uint `gorm:"primaryKey;index"`
}

// TableName 指定表名
func (UserClub) TableName() string { return "user_clubs" }

// ClubFile 社团-文件关联，对应 club_files
type ClubFile struct {
	ClubID uint `gorm:"primaryKey"`
	FileID uint `gorm:"primaryKey;index"`
}

// TableName 指定表名
func (ClubFile) TableName() string { return "club_files" }
