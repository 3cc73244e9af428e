package handler

import (
	"AdBoard/internal/model"
	"AdBoard/internal/pkg/util"
	"AdBoard/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// bindJSON 解析并校验请求体，解析失败归为 MalformedInput，规则不满足归为 ValidationError
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", service.ErrValidation, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %v", service.ErrMalformedInput, err)
	}
	return validate(obj)
}

func bindQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return fmt.Errorf("%w: %v", service.ErrMalformedInput, err)
	}
	return validate(obj)
}

func validate(obj any) error {
	if err := util.ValidateDTO(obj); err != nil {
		return fmt.Errorf("%w: %v", service.ErrValidation, err)
	}
	return nil
}

func now() string {
	return model.FormatTime(time.Now())
}
