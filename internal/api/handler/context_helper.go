package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kuomat/penn-labs/internal/api/middleware"
	"github.com/kuomat/penn-labs/pkg/response"
)

// MustGetUserID 从 Gin 上下文中提取当前用户 ID。
// 会话中间件未注入时写入 400 响应并返回 false，调用方应直接 return。
func MustGetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.BadRequest(c, "login required")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.BadRequest(c, "login required")
		return 0, false
	}
	return id, true
}

// MustGetSessionID 从 Gin 上下文中提取当前会话 ID。
func MustGetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.ContextSessionID)
	if !exists {
		response.BadRequest(c, "login required")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.BadRequest(c, "login required")
		return "", false
	}
	return s, true
}

// parseIDParam 解析路径中的数字 ID，非法时写入 400
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
