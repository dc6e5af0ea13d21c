package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/HatmanStack/canvas-demo/internal/novacanvas"
	"github.com/HatmanStack/canvas-demo/internal/utils"
)

// CreateImageVariation handles POST /variation: multipart form with 1-5
// files in the repeated images field.
func CreateImageVariation(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.GinFailedWithMessage(c, 400, err.Error())
		return
	}
	fileHeaders := form.File["images"]
	encodedImages := make([]string, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		encoded, err := encodeUpload(c, fileHeader)
		if err != nil {
			failWithError(c, err)
			return
		}
		encodedImages = append(encodedImages, encoded)
	}
	result, err := novacanvas.CanvasServiceApp.Vary(c.Request.Context(), novacanvas.VariationTask{
		Images:             encodedImages,
		Text:               c.PostForm("text"),
		NegativeText:       c.PostForm("negative_text"),
		SimilarityStrength: formFloat(c, "similarity_strength", 0.7),
		Config:             configFromForm(c),
	})
	if err != nil {
		failWithError(c, err)
		return
	}
	respondWithResult(c, result)
}
