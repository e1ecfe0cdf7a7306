package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kuomat/penn-labs/internal/model"
)

// TagCount 标签及引用它的社团数量
type TagCount struct {
	Name      string
	ClubCount int64
}

// TagRepository 标签数据访问接口
type TagRepository interface {
	ListByNames(ctx context.Context, names []string) ([]model.Tag, error)
	// CreateMissing 为 ID 为 0 的标签插入新行，返回全部已持久化的标签
	CreateMissing(ctx context.Context, tags []model.Tag) ([]model.Tag, error)
	CountClubs(ctx context.Context) ([]TagCount, error)
	FindTagsForClub(ctx context.Context, clubID uint) ([]model.Tag, error)
	TagNamesByClubIDs(ctx context.Context, clubIDs []uint) (map[uint][]string, error)
}

// tagRepo TagRepository 的 GORM 实现
type tagRepo struct {
	db *gorm.DB
}

// NewTagRepo 创建 TagRepository 实例
func NewTagRepo(db *gorm.DB) TagRepository {
	return &tagRepo{db: db}
}

func (r *tagRepo) ListByNames(ctx context.Context, names []string) ([]model.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var tags []model.Tag
	err := r.db.WithContext(ctx).
		Where("name IN ?", names).
		Order("id ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepo) CreateMissing(ctx context.Context, tags []model.Tag) ([]model.Tag, error) {
	saved := make([]model.Tag, 0, len(tags))
	for _, t := range tags {
		if t.ID == 0 {
			if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
				return nil, err
			}
		}
		saved = append(saved, t)
	}
	return saved, nil
}

func (r *tagRepo) CountClubs(ctx context.Context) ([]TagCount, error) {
	var rows []TagCount
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.name AS name, COUNT(club_tags.club_id) AS club_count").
		Joins("LEFT JOIN club_tags ON club_tags.tag_id = tags.id").
		Group("tags.name").
		Order("tags.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *tagRepo) FindTagsForClub(ctx context.Context, clubID uint) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN club_tags ON club_tags.tag_id = tags.id").
		Where("club_tags.club_id = ?", clubID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepo) TagNamesByClubIDs(ctx context.Context, clubIDs []uint) (map[uint][]string, error) {
	result := make(map[uint][]string, len(clubIDs))
	if len(clubIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ClubID uint
		Name   string
	}
	err := r.db.WithContext(ctx).
		Table("club_tags").
		Select("club_tags.club_id AS club_id, tags.name AS name").
		Joins("JOIN tags ON tags.id = club_tags.tag_id").
		Where("club_tags.club_id IN ?", clubIDs).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ClubID] = append(result[row.ClubID], row.Name)
	}
	return result, nil
}
