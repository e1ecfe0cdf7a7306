package model

// DefaultContentType 未指定 Content-Type 时的默认值（任意二进制数据）
const DefaultContentType = "application/octet-stream"

// File 上传文件表，对应 files
// 每个存储路径对应唯一一行，内容同时内联保存
type File struct {
	ID          uint   `gorm:"primaryKey"                                                  json:"id"`
	Path        string `gorm:"type:varchar(512);uniqueIndex;not null"                      json:"path"`
	Content     []byte `gorm:"not null"                                                    json:"-"`
	ContentType string `gorm:"type:varchar(120);not null;default:'application/octet-stream'" json:"content_type"`
	BaseModel
}

// TableName 指定表名
func (File) TableName() string { return "files" }
