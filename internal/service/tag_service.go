package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kuomat/penn-labs/internal/dto"
	"github.com/kuomat/penn-labs/internal/repository"
)

// TagService 标签查询接口
type TagService interface {
	// Counts 所有标签及其社团数，未被引用的标签计为 0
	Counts(ctx context.Context) ([]dto.TagCountResponse, error)
	// ClubNames 标签名精确匹配，未知标签返回空列表
	ClubNames(ctx context.Context, tag string) (*dto.TagClubsResponse, error)
}

type tagService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTagService 创建 TagService 实例
func NewTagService(repo *repository.Repository, logger *zap.Logger) TagService {
	return &tagService{repo: repo, logger: logger}
}

func (s *tagService) Counts(ctx context.Context) ([]dto.TagCountResponse, error) {
	rows, err := s.repo.Tag.CountClubs(ctx)
	if err != nil {
		s.logger.Error("统计标签失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TagCountResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, dto.TagCountResponse{Tag: r.Name, ClubCount: r.ClubCount})
	}
	return result, nil
}

func (s *tagService) ClubNames(ctx context.Context, tag string) (*dto.TagClubsResponse, error) {
	clubs, err := s.repo.Club.FindClubsForTag(ctx, tag)
	if err != nil {
		s.logger.Error("按标签查询社团失败", zap.String("tag", tag), zap.Error(err))
		return nil, err
	}

	names := make([]string, 0, len(clubs))
	for _, c := range clubs {
		names = append(names, c.Name)
	}
	return &dto.TagClubsResponse{Clubs: names}, nil
}
