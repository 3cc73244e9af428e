package handler

import (
	"AdBoard/internal/pkg/response"
	"AdBoard/internal/service"
	"context"

	"github.com/gin-gonic/gin"
)

type SweepHandler struct {
	sweepSvc service.SweepService
}

func NewSweepHandler(sweepSvc service.SweepService) *SweepHandler {
	return &SweepHandler{sweepSvc: sweepSvc}
}

// Trigger 手动触发一轮过期清理，客户端断开不会中断清理
func (s *SweepHandler) Trigger(c *gin.Context) {
	report, err := s.sweepSvc.Run(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, report)
}
