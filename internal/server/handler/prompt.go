package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/HatmanStack/canvas-demo/internal/model"
	"github.com/HatmanStack/canvas-demo/internal/novacanvas"
)

// GeneratePromptIdea handles GET /prompt: Nova Lite expands a random seed
// concept into a ready-to-use image prompt.
func GeneratePromptIdea(c *gin.Context) {
	prompt, err := novacanvas.CanvasServiceApp.IdeatePrompt(c.Request.Context())
	if err != nil {
		failWithError(c, err)
		return
	}
	c.JSON(200, model.PromptResponse{
		Status: "completed",
		Prompt: prompt,
	})
}
