package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/HatmanStack/canvas-demo/internal/model"
)

func GinFailedWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, model.GenerationResponse{
		Status:  "failed",
		Message: message,
	})
}

func GinFailedWithMessageAndRequestId(c *gin.Context, status int, requestId string, message string) {
	c.JSON(status, model.GenerationResponse{
		RequestId: requestId,
		Status:    "failed",
		Message:   message,
	})
}
