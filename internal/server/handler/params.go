package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HatmanStack/canvas-demo/internal/imageproc"
	"github.com/HatmanStack/canvas-demo/internal/model"
	"github.com/HatmanStack/canvas-demo/internal/novacanvas"
	"github.com/HatmanStack/canvas-demo/internal/utils"
)

// Uploads beyond this are rejected before decoding.
const maxUploadBytes = 20 << 20

var errUploadTooLarge = errors.New("uploaded image is too large")

func formInt(c *gin.Context, key string, fallback int) int {
	raw := c.PostForm(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func formFloat(c *gin.Context, key string, fallback float64) float64 {
	raw := c.PostForm(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

// configFromForm assembles the shared generation config from multipart
// fields, leaving zero values for the service defaults to fill.
func configFromForm(c *gin.Context) novacanvas.GenerationConfig {
	return novacanvas.GenerationConfig{
		Height:   formInt(c, "height", 0),
		Width:    formInt(c, "width", 0),
		Quality:  c.PostForm("quality"),
		CfgScale: formFloat(c, "cfg_scale", 0),
		Seed:     formInt(c, "seed", 0),
	}
}

// encodedImageFromForm reads one uploaded file field and runs it through the
// preprocessing and moderation pipeline. A missing optional field yields "".
func encodedImageFromForm(c *gin.Context, field string, required bool) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if !required && errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", novacanvas.ErrImageRequired
	}
	return encodeUpload(c, fileHeader)
}

func encodeUpload(c *gin.Context, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > maxUploadBytes {
		return "", errUploadTooLarge
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return novacanvas.CanvasServiceApp.EncodeImage(c.Request.Context(), data)
}

// failWithError maps service and pipeline errors onto HTTP statuses.
func failWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, novacanvas.ErrRateLimited):
		utils.GinFailedWithMessage(c, 429, err.Error())
	case errors.Is(err, novacanvas.ErrBedrockUnavailable):
		utils.GinFailedWithMessage(c, 502, err.Error())
	case errors.Is(err, errUploadTooLarge):
		utils.GinFailedWithMessage(c, 413, err.Error())
	case errors.Is(err, imageproc.ErrNotAppropriate):
		utils.GinFailedWithMessage(c, 400, "Image Not Appropriate")
	default:
		utils.GinFailedWithMessage(c, 400, err.Error())
	}
}

func respondWithResult(c *gin.Context, result *novacanvas.GenerationResult) {
	c.JSON(200, model.GenerationResponse{
		RequestId: result.RequestId,
		Status:    "completed",
		Images:    result.Images,
		Seed:      result.Seed,
	})
}
