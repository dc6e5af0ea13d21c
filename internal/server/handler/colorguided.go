package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HatmanStack/canvas-demo/internal/novacanvas"
)

// CreateColorGuidedImage handles POST /color-guided: generation constrained
// to a comma-separated hex palette, with an optional reference image upload.
// An empty palette falls back to the service's starter colors.
func CreateColorGuidedImage(c *gin.Context) {
	referenceImage, err := encodedImageFromForm(c, "reference_image", false)
	if err != nil {
		failWithError(c, err)
		return
	}
	result, err := novacanvas.CanvasServiceApp.ColorGuided(c.Request.Context(), novacanvas.ColorGuidedTask{
		Prompt:         c.PostForm("text"),
		NegativeText:   c.PostForm("negative_text"),
		Colors:         splitColors(c.PostForm("colors")),
		ReferenceImage: referenceImage,
		Config:         configFromForm(c),
	})
	if err != nil {
		failWithError(c, err)
		return
	}
	respondWithResult(c, result)
}

func splitColors(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	colors := make([]string, 0, len(parts))
	for _, part := range parts {
		colors = append(colors, strings.TrimSpace(part))
	}
	return colors
}
