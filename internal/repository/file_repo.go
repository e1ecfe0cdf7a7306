package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kuomat/penn-labs/internal/model"
)

// FileRepository 文件记录数据访问接口
type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	GetByPath(ctx context.Context, path string) (*model.File, error)
	// GetForClub 仅返回已关联到指定社团的文件记录
	GetForClub(ctx context.Context, clubID uint, path string) (*model.File, error)
	FindFilesForClub(ctx context.Context, clubID uint) ([]model.File, error)
	PathsByClubIDs(ctx context.Context, clubIDs []uint) (map[uint][]string, error)
}

// fileRepo FileRepository 的 GORM 实现
type fileRepo struct {
	db *gorm.DB
}

// NewFileRepo 创建 FileRepository 实例
func NewFileRepo(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, file *model.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepo) GetByPath(ctx context.Context, path string) (*model.File, error) {
	var file model.File
	err := r.db.WithContext(ctx).
		Where("path = ?", path).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepo) GetForClub(ctx context.Context, clubID uint, path string) (*model.File, error) {
	var file model.File
	err := r.db.WithContext(ctx).
		Joins("JOIN club_files ON club_files.file_id = files.id").
		Where("club_files.club_id = ? AND files.path = ?", clubID, path).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepo) FindFilesForClub(ctx context.Context, clubID uint) ([]model.File, error) {
	var files []model.File
	err := r.db.WithContext(ctx).
		Select("files.id", "files.path", "files.content_type", "files.created_at", "files.updated_at").
		Joins("JOIN club_files ON club_files.file_id = files.id").
		Where("club_files.club_id = ?", clubID).
		Order("files.path ASC").
		Find(&files).Error
	return files, err
}

func (r *fileRepo) PathsByClubIDs(ctx context.Context, clubIDs []uint) (map[uint][]string, error) {
	result := make(map[uint][]string, len(clubIDs))
	if len(clubIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ClubID uint
		Path   string
	}
	err := r.db.WithContext(ctx).
		Table("club_files").
		Select("club_files.club_id AS club_id, files.path AS path").
		Joins("JOIN files ON files.id = club_files.file_id").
		Where("club_files.club_id IN ?", clubIDs).
		Order("files.path ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ClubID] = append(result[row.ClubID], row.Path)
	}
	return result, nil
}
