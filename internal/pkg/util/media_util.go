package util

import (
	"AdBoard/internal/pkg/consts"
	"path"
	"strings"
)

var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
	"webm": "video/webm",
}

// FileExt 小写扩展名，不含点；无扩展名时返回 jpg
func FileExt(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" {
		return "jpg"
	}
	return ext
}

// ContentTypeFor 根据扩展名推断 MIME，未知类型返回 application/octet-stream
func ContentTypeFor(filename string) string {
	if ct, ok := contentTypes[FileExt(filename)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ResolveContentType 客户端未指定或使用默认值时按扩展名推断
func ResolveContentType(filename, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" || declared == consts.DefaultContentType || declared == "application/octet-stream" {
		return ContentTypeFor(filename)
	}
	return declared
}

// IsVideo 是否为视频类型
func IsVideo(contentType string) bool {
	return strings.HasPrefix(contentType, consts.MimePrefixVideo+"/")
}
