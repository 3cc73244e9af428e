package api

import (
	"AdBoard/internal/api/middleware"
	"AdBoard/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	if group.Metrics != nil {
		r.GET("/metrics", gin.WrapH(group.Metrics))
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "pong",
			})
		})

		adGroup := apiGroup.Group("/ads")
		{
			adGroup.POST("", group.AdHandler.CreateAd)
			adGroup.GET("", group.AdHandler.ListAds)
			adGroup.DELETE("", group.AdHandler.DeleteAd)
			adGroup.GET("/featured", group.AdHandler.ListFeaturedAds)
			adGroup.GET("/:id", group.AdHandler.GetAd)
			adGroup.POST("/:id/like", group.AdHandler.LikeAd)
			adGroup.POST("/:id/comments", group.AdHandler.AddComment)
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.GET("/presigned-url", group.MediaHandler.UploadURL)
			mediaGroup.POST("/presigned-url", group.MediaHandler.UploadURL)
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}

		adminGroup := apiGroup.Group("/admin")
		{
			adminGroup.POST("/sweep", group.SweepHandler.Trigger)
		}
	}

	return r
}
