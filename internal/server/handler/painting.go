package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/HatmanStack/canvas-demo/internal/novacanvas"
)

// CreateInpaintingImage handles POST /inpainting: multipart form with an
// image file, an optional mask_image file, and scalar fields.
func CreateInpaintingImage(c *gin.Context) {
	task, err := paintingTaskFromForm(c)
	if err != nil {
		failWithError(c, err)
		return
	}
	result, err := novacanvas.CanvasServiceApp.Inpaint(c.Request.Context(), task)
	if err != nil {
		failWithError(c, err)
		return
	}
	respondWithResult(c, result)
}

// CreateOutpaintingImage handles POST /outpainting, adding the
// outpainting_mode field (DEFAULT or PRECISE) to the inpainting form.
func CreateOutpaintingImage(c *gin.Context) {
	task, err := paintingTaskFromForm(c)
	if err != nil {
		failWithError(c, err)
		return
	}
	task.OutpaintingMode = c.PostForm("outpainting_mode")
	result, err := novacanvas.CanvasServiceApp.Outpaint(c.Request.Context(), task)
	if err != nil {
		failWithError(c, err)
		return
	}
	respondWithResult(c, result)
}

func paintingTaskFromForm(c *gin.Context) (novacanvas.PaintingTask, error) {
	image, err := encodedImageFromForm(c, "image", true)
	if err != nil {
		return novacanvas.PaintingTask{}, err
	}
	maskImage, err := encodedImageFromForm(c, "mask_image", false)
	if err != nil {
		return novacanvas.PaintingTask{}, err
	}
	return novacanvas.PaintingTask{
		Image:        image,
		MaskPrompt:   c.PostForm("mask_prompt"),
		MaskImage:    maskImage,
		Text:         c.PostForm("text"),
		NegativeText: c.PostForm("negative_text"),
		Config:       configFromForm(c),
	}, nil
}
