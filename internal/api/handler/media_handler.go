package handler

import (
	"AdBoard/internal/api/dto"
	"AdBoard/internal/pkg/response"
	"AdBoard/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// base64 膨胀与 JSON 字段的余量
const uploadBodySlack = 64 << 10

type MediaHandler struct {
	mediaSvc service.MediaService
	maxBody  int64
}

// NewMediaHandler maxBytes 为解码后文件的上限
func NewMediaHandler(mediaSvc service.MediaService, maxBytes int64) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
		maxBody:  maxBytes/3*4 + uploadBodySlack,
	}
}

// UploadURL GET 取 query 参数，POST 取 JSON 请求体
func (s *MediaHandler) UploadURL(c *gin.Context) {
	var req dto.UploadURLDTO
	var err error
	if c.Request.Method == http.MethodPost && c.Request.ContentLength != 0 {
		err = bindJSON(c, &req)
	} else {
		err = bindQuery(c, &req)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := s.mediaSvc.IssueUploadURL(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Upload 接收 base64 文件并写入对象存储
func (s *MediaHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody)

	var req dto.DirectUploadDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := s.mediaSvc.DirectUpload(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
