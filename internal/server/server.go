package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"

	"github.com/HatmanStack/canvas-demo/internal/logger"
	"github.com/HatmanStack/canvas-demo/internal/server/handler"
)

func Start(host, port, apiKey string) {
	router := InitRouter(apiKey)
	if err := router.Run(host + ":" + port); err != nil {
		panic(err)
	}
}

func PermissionCheckMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestKey := c.GetHeader("API-KEY")
		if requestKey != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid API key",
			})
			return
		}
		c.Next()
	}
}

func InitRouter(apiKey string) *gin.Engine {
	router := gin.New()
	router.Use(ginzap.RecoveryWithZap(logger.ZapLogger, true))
	router.Use(ginzap.Ginzap(logger.ZapLogger, time.RFC3339Nano, true))
	router.Use(cors.Default())
	pprof.Register(router)

	apiGroup := router.Group("", PermissionCheckMiddleware(apiKey))
	apiGroup.POST("/image", handler.CreateImage)
	apiGroup.GET("/image", handler.GenerateImageFromGetRequest)

	apiGroup.POST("/inpainting", handler.CreateInpaintingImage)
	apiGroup.POST("/outpainting", handler.CreateOutpaintingImage)
	apiGroup.POST("/variation", handler.CreateImageVariation)
	apiGroup.POST("/conditioning", handler.CreateConditionedImage)
	apiGroup.POST("/color-guided", handler.CreateColorGuidedImage)
	apiGroup.POST("/background-removal", handler.CreateBackgroundRemoval)

	apiGroup.GET("/prompt", handler.GeneratePromptIdea)
	return router
}
