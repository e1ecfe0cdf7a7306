package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kuomat/penn-labs/internal/dto"
	"github.com/kuomat/penn-labs/internal/model"
	"github.com/kuomat/penn-labs/internal/repository"
)

var ErrCommentNotFound = errors.New("comment not in database")

// CommentService 评论业务接口
type CommentService interface {
	Create(ctx context.Context, userID uint, clubName string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	// ListByClub 平铺返回，不重建回复树
	ListByClub(ctx context.Context, clubName string) ([]dto.CommentResponse, error)
	Get(ctx context.Context, id uint) (*dto.CommentResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	// Delete 不级联删除回复
	Delete(ctx context.Context, id uint) error
	// Reply club_id 取自父评论
	Reply(ctx context.Context, userID, parentID uint, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
}

type commentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCommentService 创建 CommentService 实例
func NewCommentService(repo *repository.Repository, logger *zap.Logger) CommentService {
	return &commentService{repo: repo, logger: logger}
}

func toCommentResponse(c *model.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:       c.ID,
		UserID:   c.UserID,
		ClubID:   c.ClubID,
		Content:  c.Content,
		ParentID: c.ParentID,
	}
}

func (s *commentService) clubID(ctx context.Context, name string) (uint, error) {
	club, err := s.repo.Club.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrClubNotFound
		}
		s.logger.Error("查询社团失败", zap.String("name", name), zap.Error(err))
		return 0, err
	}
	return club.ID, nil
}

func (s *commentService) find(ctx context.Context, id uint) (*model.Comment, error) {
	comment, err := s.repo.Comment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		s.logger.Error("查询评论失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Create(ctx context.Context, userID uint, clubName string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	clubID, err := s.clubID(ctx, clubName)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		UserID:  &userID,
		ClubID:  &clubID,
		Content: req.Comment,
	}
	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		s.logger.Error("创建评论失败", zap.Error(err))
		return nil, err
	}
	return toCommentResponse(comment), nil
}

func (s *commentService) ListByClub(ctx context.Context, clubName string) ([]dto.CommentResponse, error) {
	clubID, err := s.clubID(ctx, clubName)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.ListByClub(ctx, clubID)
	if err != nil {
		s.logger.Error("查询评论列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		result = append(result, *toCommentResponse(&comments[i]))
	}
	return result, nil
}

func (s *commentService) Get(ctx context.Context, id uint) (*dto.CommentResponse, error) {
	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCommentResponse(comment), nil
}

func (s *commentService) Update(ctx context.Context, id uint, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	comment.Content = req.Content
	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		s.logger.Error("更新评论失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return toCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Comment.Delete(ctx, id); err != nil {
		s.logger.Error("删除评论失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *commentService) Reply(ctx context.Context, userID, parentID uint, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	parent, err := s.find(ctx, parentID)
	if err != nil {
		return nil, err
	}

	reply := &model.Comment{
		UserID:   &userID,
		ClubID:   parent.ClubID,
		Content:  req.Comment,
		ParentID: &parent.ID,
	}
	if err := s.repo.Comment.Create(ctx, reply); err != nil {
		s.logger.Error("回复评论失败", zap.Uint("parent_id", parentID), zap.Error(err))
		return nil, err
	}
	return toCommentResponse(reply), nil
}
