package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kuomat/penn-labs/internal/dto"
	"github.com/kuomat/penn-labs/internal/service"
	"github.com/kuomat/penn-labs/pkg/response"
)

// CommentHandler 评论模块 HTTP 处理器
type CommentHandler struct {
	commentSvc service.CommentService
}

// NewCommentHandler 创建 CommentHandler
func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

// CreateComment 发表评论
// POST /api/clubs/:name/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "comment is required")
		return
	}

	comment, err := h.commentSvc.Create(c.Request.Context(), userID, c.Param("name"), &req)
	if err != nil {
		h.handleCommentError(c, err)
		return
	}
	response.Created(c, comment)
}

// ListComments 社团评论列表
// GET /api/clubs/:name/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.commentSvc.ListByClub(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleCommentError(c, err)
		return
	}
	response.OK(c, comments)
}

// GetComment 查询单条评论
// GET /api/clubs/comments/:id
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleCommentError(c, err)
		return
	}
	response.OK(c, comment)
}

// UpdateComment 修改评论内容
// PUT /api/clubs/comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "content is required")
		return
	}

	comment, err := h.commentSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCommentError(c, err)
		return
	}
	response.OK(c, comment)
}

// DeleteComment 删除评论
// DELETE /api/clubs/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleCommentError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "comment deleted"})
}

// ReplyComment 回复评论
// POST /api/clubs/comments/:id/reply
func (h *CommentHandler) ReplyComment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "comment is required")
		return
	}

	reply, err := h.commentSvc.Reply(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.handleCommentError(c, err)
		return
	}
	response.Created(c, reply)
}

func (h *CommentHandler) handleCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClubNotFound):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrCommentNotFound):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
