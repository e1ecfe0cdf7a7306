package model

import "time"

// User 用户表，对应 users
type User struct {
	ID             uint       `gorm:"primaryKey"                            json:"id"`
	Username       string     `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	PasswordHash   string     `gorm:"type:varchar(255);not null"            json:"-"`
	FirstName      string     `gorm:"type:varchar(80)"                      json:"first_name"`
	LastName       string     `gorm:"type:varchar(80)"                      json:"last_name"`
	GraduationYear int        `gorm:"not null;default:0"                    json:"graduation_year"`
	LoginAttempts  int        `gorm:"not null;default:0"                    json:"-"`
	LockedUntil    *time.Time `                                             json:"-"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsLocked 账号是否处于锁定窗口内
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
