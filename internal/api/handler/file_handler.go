package handler

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kuomat/penn-labs/internal/api/middleware"
	"github.com/kuomat/penn-labs/internal/service"
	"github.com/kuomat/penn-labs/pkg/response"
)

// FileHandler 文件模块 HTTP 处理器
type FileHandler struct {
	fileSvc service.FileService
}

// NewFileHandler 创建 FileHandler
func NewFileHandler(fileSvc service.FileService) *FileHandler {
	return &FileHandler{fileSvc: fileSvc}
}

// Upload 上传文件，请求体即文件原始字节
// PUT /api/clubs/:name/files/*path
func (h *FileHandler) Upload(c *gin.Context) {
	name := c.Param("name")

	body, err := c.GetRawData()
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		response.BadRequest(c, "failed to read request body")
		return
	}

	created, err := h.fileSvc.Upload(c.Request.Context(), name, c.Param("path"), body, c.GetHeader("Content-Type"))
	if err != nil {
		h.handleFileError(c, name, err)
		return
	}

	if created {
		c.Status(http.StatusCreated)
	} else {
		c.Status(http.StatusOK)
	}
}

// Download 下载文件，直接返回原始字节
// GET /api/clubs/:name/files/*path
func (h *FileHandler) Download(c *gin.Context) {
	name := c.Param("name")

	file, err := h.fileSvc.Download(c.Request.Context(), name, c.Param("path"))
	if err != nil {
		h.handleFileError(c, name, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *FileHandler) handleFileError(c *gin.Context, name string, err error) {
	switch {
	case errors.Is(err, service.ErrClubNotFound):
		response.BadRequest(c, name+" not in database")
	case errors.Is(err, service.ErrEmptyFile):
		response.BadRequest(c, name+" file is empty")
	case errors.Is(err, service.ErrInvalidFilePath):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrFileNotFound):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
