package handler

import (
	"encoding/base64"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HatmanStack/canvas-demo/internal/model"
	"github.com/HatmanStack/canvas-demo/internal/novacanvas"
	"github.com/HatmanStack/canvas-demo/internal/utils"
)

// CreateImage handles POST /image: plain text-to-image from a JSON body.
func CreateImage(c *gin.Context) {
	var req model.TextToImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.GinFailedWithMessage(c, 400, err.Error())
		return
	}
	result, err := novacanvas.CanvasServiceApp.TextToImage(c.Request.Context(), novacanvas.TextToImageTask{
		Prompt:       req.Prompt,
		NegativeText: req.NegativeText,
		Config: novacanvas.GenerationConfig{
			Height:   req.Height,
			Width:    req.Width,
			Quality:  req.Quality,
			CfgScale: req.CfgScale,
			Seed:     req.Seed,
		},
	})
	if err != nil {
		failWithError(c, err)
		return
	}
	respondWithResult(c, result)
}

// GenerateImageFromGetRequest handles GET /image: text-to-image from query
// parameters. With format=png the first image is streamed as raw bytes.
func GenerateImageFromGetRequest(c *gin.Context) {
	seed, _ := strconv.Atoi(c.Query("seed"))
	cfgScale, _ := strconv.ParseFloat(c.Query("cfg_scale"), 64)
	height, _ := strconv.Atoi(c.Query("height"))
	width, _ := strconv.Atoi(c.Query("width"))
	result, err := novacanvas.CanvasServiceApp.TextToImage(c.Request.Context(), novacanvas.TextToImageTask{
		Prompt:       c.Query("prompt"),
		NegativeText: c.Query("negative_text"),
		Config: novacanvas.GenerationConfig{
			Height:   height,
			Width:    width,
			Quality:  c.Query("quality"),
			CfgScale: cfgScale,
			Seed:     seed,
		},
	})
	if err != nil {
		failWithError(c, err)
		return
	}
	if c.Query("format") == "png" {
		imageData, err := base64.StdEncoding.DecodeString(result.Images[0])
		if err != nil {
			utils.GinFailedWithMessageAndRequestId(c, 502, result.RequestId, "model returned malformed image data")
			return
		}
		c.Data(200, "image/png", imageData)
		return
	}
	respondWithResult(c, result)
}
