package service

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kuomat/penn-labs/internal/model"
	"github.com/kuomat/penn-labs/internal/repository"
	"github.com/kuomat/penn-labs/pkg/metrics"
	"github.com/kuomat/penn-labs/pkg/storage"
)

// ── 文件模块业务错误 ──

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrFileNotFound    = errors.New("file does not exist")
)

// FileDownload 下载内容
type FileDownload struct {
	Content     []byte
	ContentType string
	Name        string
}

// FileService 社团文件上传 / 下载
type FileService interface {
	// Upload 写入磁盘并关联文件记录，created 表示新建了文件记录
	Upload(ctx context.Context, clubName, resourcePath string, content []byte, contentType string) (created bool, err error)
	Download(ctx context.Context, clubName, resourcePath string) (*FileDownload, error)
}

type fileService struct {
	repo    *repository.Repository
	storage *storage.Storage
	logger  *zap.Logger
}

// NewFileService 创建 FileService 实例
func NewFileService(repo *repository.Repository, store *storage.Storage, logger *zap.Logger) FileService {
	return &fileService{repo: repo, storage: store, logger: logger}
}

func (s *fileService) club(ctx context.Context, name string) (*model.Club, error) {
	club, err := s.repo.Club.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		s.logger.Error("查询社团失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return club, nil
}

func (s *fileService) Upload(ctx context.Context, clubName, resourcePath string, content []byte, contentType string) (bool, error) {
	club, err := s.club(ctx, clubName)
	if err != nil {
		return false, err
	}
	if len(content) == 0 {
		return false, ErrEmptyFile
	}
	key, err := storage.Key(club.Name, resourcePath)
	if err != nil {
		return false, ErrInvalidFilePath
	}

	if err := s.storage.Write(key, content); err != nil {
		s.logger.Error("写入文件失败", zap.String("path", key), zap.Error(err))
		return false, err
	}

	var status int
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		file, st, err := ResolveFile(ctx, tx.File, key, content, contentType)
		if err != nil {
			return err
		}
		status = st
		if status == http.StatusCreated {
			if err := tx.File.Create(ctx, file); err != nil {
				return err
			}
		}
		return tx.Club.AttachFile(ctx, club.ID, file.ID)
	})
	if err != nil {
		s.logger.Error("保存文件记录失败", zap.String("path", key), zap.Error(err))
		return false, err
	}

	created := status == http.StatusCreated
	if created {
		metrics.FileUploads.WithLabelValues("created").Inc()
	} else {
		metrics.FileUploads.WithLabelValues("updated").Inc()
	}
	s.logger.Info("文件已上传", zap.String("path", key), zap.Bool("created", created))
	return created, nil
}

func (s *fileService) Download(ctx context.Context, clubName, resourcePath string) (*FileDownload, error) {
	club, err := s.club(ctx, clubName)
	if err != nil {
		return nil, err
	}
	key, err := storage.Key(club.Name, resourcePath)
	if err != nil {
		return nil, ErrInvalidFilePath
	}

	exists, err := s.storage.Exists(key)
	if err != nil {
		s.logger.Error("检查文件失败", zap.String("path", key), zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, ErrFileNotFound
	}

	file, err := s.repo.File.GetForClub(ctx, club.ID, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		s.logger.Error("查询文件记录失败", zap.String("path", key), zap.Error(err))
		return nil, err
	}

	// 以磁盘内容为准
	content, err := s.storage.Read(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	return &FileDownload{
		Content:     content,
		ContentType: file.ContentType,
		Name:        trimLeadingSlash(resourcePath),
	}, nil
}

func trimLeadingSlash(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}
