package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kuomat/penn-labs/internal/service"
	"github.com/kuomat/penn-labs/pkg/response"
)

// TagHandler 标签模块 HTTP 处理器
type TagHandler struct {
	tagSvc service.TagService
}

// NewTagHandler 创建 TagHandler
func NewTagHandler(tagSvc service.TagService) *TagHandler {
	return &TagHandler{tagSvc: tagSvc}
}

// CountTags 标签社团数统计
// GET /api/tags/count
func (h *TagHandler) CountTags(c *gin.Context) {
	counts, err := h.tagSvc.Counts(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, counts)
}

// ClubNames 某标签下的社团名称
// GET /api/tags/:tag/names
func (h *TagHandler) ClubNames(c *gin.Context) {
	result, err := h.tagSvc.ClubNames(c.Request.Context(), c.Param("tag"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, result)
}
