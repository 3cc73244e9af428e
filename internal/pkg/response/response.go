package response

import (
	"AdBoard/internal/api/dto"
	"AdBoard/internal/model"
	"AdBoard/internal/service"
	stdjson "encoding/json"
	"errors"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const genericMessage = "internal error, please retry later"

// Success 成功返回，payload 自带 success 字段
func Success(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Fail 失败返回封装
func Fail(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Success:   false,
		Error:     message,
		Kind:      kind,
		Timestamp: model.FormatTime(time.Now()),
	})
}

// Error 按错误类别映射状态码，未知错误与存储错误不暴露细节
func Error(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, http.StatusBadRequest, kindOf(service.ErrValidation), err.Error())
		return
	}
	if isJSONError(err) {
		Fail(c, http.StatusBadRequest, kindOf(service.ErrMalformedInput), "request body is not valid JSON")
		return
	}

	kind, known := service.Classify(err)
	if !kind.Expose {
		if known {
			log.ErrorContext(ctx, "request failed", "kind", kind.Kind, "err", err)
		} else {
			log.ErrorContext(ctx, "unexpected error", "err", err)
		}
		Fail(c, kind.Status, kind.Kind, genericMessage)
		return
	}
	Fail(c, kind.Status, kind.Kind, err.Error())
}

func kindOf(err error) string {
	return service.ErrorMap[err].Kind
}

func isJSONError(err error) bool {
	var (
		syntaxErr    *json.SyntaxError
		typeErr      *json.UnmarshalTypeError
		stdSyntaxErr *stdjson.SyntaxError
		stdTypeErr   *stdjson.UnmarshalTypeError
	)
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.As(err, &stdSyntaxErr) || errors.As(err, &stdTypeErr)
}
