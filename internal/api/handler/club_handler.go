package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kuomat/penn-labs/internal/dto"
	"github.com/kuomat/penn-labs/internal/service"
	"github.com/kuomat/penn-labs/pkg/response"
)

// ClubHandler 社团模块 HTTP 处理器
type ClubHandler struct {
	clubSvc service.ClubService
}

// NewClubHandler 创建 ClubHandler
func NewClubHandler(clubSvc service.ClubService) *ClubHandler {
	return &ClubHandler{clubSvc: clubSvc}
}

// ListClubs 社团列表
// GET /api/clubs
func (h *ClubHandler) ListClubs(c *gin.Context) {
	clubs, err := h.clubSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, clubs)
}

// SearchClubs 按名称搜索
// GET /api/clubs/:name
func (h *ClubHandler) SearchClubs(c *gin.Context) {
	clubs, err := h.clubSvc.Search(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleClubError(c, c.Param("name"), err)
		return
	}
	response.OK(c, clubs)
}

// CreateClub 创建社团
// POST /api/clubs/new
func (h *ClubHandler) CreateClub(c *gin.Context) {
	var req dto.CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Not all required fields were sent")
		return
	}

	club, err := h.clubSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleClubError(c, req.Name, err)
		return
	}
	response.Created(c, club)
}

// FavoriteClub 收藏社团
// POST /api/clubs/fav/:name
func (h *ClubHandler) FavoriteClub(c *gin.Context) {
	name := c.Param("name")
	if err := h.clubSvc.Favorite(c.Request.Context(), name); err != nil {
		h.handleClubError(c, name, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: name + " favorited"})
}

// ModifyClub 部分更新社团
// PUT /api/clubs/mod/:name
func (h *ClubHandler) ModifyClub(c *gin.Context) {
	name := c.Param("name")

	var req dto.ModifyClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	club, err := h.clubSvc.Modify(c.Request.Context(), name, &req)
	if err != nil {
		h.handleClubError(c, name, err)
		return
	}
	response.OK(c, club)
}

// DeleteClub 删除社团
// DELETE /api/clubs/:name
func (h *ClubHandler) DeleteClub(c *gin.Context) {
	name := c.Param("name")
	if err := h.clubSvc.Delete(c.Request.Context(), name); err != nil {
		h.handleClubError(c, name, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: name + " deleted"})
}

// JoinClub 加入社团
// POST /api/clubs/join/:name
func (h *ClubHandler) JoinClub(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	name := c.Param("name")
	if err := h.clubSvc.Join(c.Request.Context(), userID, name); err != nil {
		h.handleClubError(c, name, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "joined " + name})
}

func (h *ClubHandler) handleClubError(c *gin.Context, name string, err error) {
	switch {
	case errors.Is(err, service.ErrNoClubMatch):
		response.NotFound(c, name+" not in database")
	case errors.Is(err, service.ErrClubNotFound):
		response.BadRequest(c, name+" not in database")
	case errors.Is(err, service.ErrClubExists):
		response.BadRequest(c, "Club name already exists")
	default:
		response.InternalError(c, err)
	}
}
