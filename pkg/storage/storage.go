// Package storage 上传文件的磁盘存储，路径形如 <root>/<club>/<path>
package storage

import (
	"errors"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// ErrInvalidPath 路径为空或试图越出存储根目录
var ErrInvalidPath = errors.New("非法文件路径")

// ErrNotExist 文件不存在
var ErrNotExist = errors.New("文件不存在")

// Storage 基于 afero 的文件存储
type Storage struct {
	fs afero.Fs
}

// New 以 root 为根目录的本地磁盘存储
func New(root string) *Storage {
	return &Storage{fs: afero.NewBasePathFs(afero.NewOsFs(), root)}
}

// NewWithFs 使用给定文件系统（测试中传入 afero.NewMemMapFs()）
func NewWithFs(fs afero.Fs) *Storage {
	return &Storage{fs: fs}
}

// Key 由社团名与资源路径生成存储键，同时作为 File 记录的 path
func Key(clubName, resourcePath string) (string, error) {
	if !validSegment(clubName) {
		return "", ErrInvalidPath
	}
	rel := strings.TrimLeft(resourcePath, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(rel, "/") {
		if !validSegment(seg) {
			return "", ErrInvalidPath
		}
	}
	return path.Join(clubName, rel), nil
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, "/\\\x00")
}

// Write 写入文件，已存在时覆盖
func (s *Storage) Write(key string, data []byte) error {
	if dir := path.Dir(key); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return afero.WriteFile(s.fs, key, data, 0o644)
}

// Read 读取文件内容
func (s *Storage) Read(key string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, key)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotExist
	}
	return data, err
}

// Exists 文件是否存在（目录不算）
func (s *Storage) Exists(key string) (bool, error) {
	info, err := s.fs.Stat(key)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
