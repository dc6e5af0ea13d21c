package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/HatmanStack/canvas-demo/internal/novacanvas"
)

// CreateBackgroundRemoval handles POST /background-removal: the one task
// mode with no generation parameters, just the uploaded image.
func CreateBackgroundRemoval(c *gin.Context) {
	image, err := encodedImageFromForm(c, "image", true)
	if err != nil {
		failWithError(c, err)
		return
	}
	result, err := novacanvas.CanvasServiceApp.RemoveBackground(c.Request.Context(), image)
	if err != nil {
		failWithError(c, err)
		return
	}
	respondWithResult(c, result)
}
