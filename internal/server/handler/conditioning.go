package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/HatmanStack/canvas-demo/internal/novacanvas"
)

// CreateConditionedImage handles POST /conditioning: text-to-image guided by
// the layout of an uploaded condition image.
func CreateConditionedImage(c *gin.Context) {
	conditionImage, err := encodedImageFromForm(c, "condition_image", true)
	if err != nil {
		failWithError(c, err)
		return
	}
	result, err := novacanvas.CanvasServiceApp.Condition(c.Request.Context(), novacanvas.ConditioningTask{
		Prompt:          c.PostForm("text"),
		NegativeText:    c.PostForm("negative_text"),
		ConditionImage:  conditionImage,
		ControlMode:     c.PostForm("control_mode"),
		ControlStrength: formFloat(c, "control_strength", 0.7),
		Config:          configFromForm(c),
	})
	if err != nil {
		failWithError(c, err)
		return
	}
	respondWithResult(c, result)
}
