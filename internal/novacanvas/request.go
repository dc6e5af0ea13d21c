package novacanvas

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Bounds accepted by the Canvas model for generated output.
const (
	MinDimension = 320
	MaxDimension = 4096
	MaxPixels    = 4194304

	MaxPromptLength = 1024
	MaxPaletteSize  = 10
	MaxSourceImages = 5
)

// DefaultPalette seeds color guided generation when the caller provides none.
var DefaultPalette = []string{
	"#FF5733", "#33FF57", "#3357FF", "#FF33A1", "#33FFF5",
	"#FF8C33", "#8C33FF", "#33FF8C", "#FF3333", "#33A1FF",
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// TextToImageTask generates images from a text prompt alone.
type TextToImageTask struct {
	Prompt       string
	NegativeText string
	Config       GenerationConfig
}

// PaintingTask covers inpainting and outpainting: a source image plus exactly
// one of MaskPrompt or MaskImage. OutpaintingMode is only used when
// outpainting.
type PaintingTask struct {
	Image           string
	MaskPrompt      string
	MaskImage       string
	Text            string
	NegativeText    string
	OutpaintingMode string
	Config          GenerationConfig
}

// VariationTask generates a variation of up to five source images.
type VariationTask struct {
	Images             []string
	Text               string
	NegativeText       string
	SimilarityStrength float64
	Config             GenerationConfig
}

// ConditioningTask is a TEXT_IMAGE task guided by the layout of a condition
// image.
type ConditioningTask struct {
	Prompt          string
	NegativeText    string
	ConditionImage  string
	ControlMode     string
	ControlStrength float64
	Config          GenerationConfig
}

// ColorGuidedTask generates images constrained to a hex color palette, with
// an optional reference image.
type ColorGuidedTask struct {
	Prompt         string
	NegativeText   string
	Colors         []string
	ReferenceImage string
	Config         GenerationConfig
}

func buildTextToImageRequest(task TextToImageTask) ([]byte, error) {
	if err := validatePrompt(task.Prompt); err != nil {
		return nil, err
	}
	config, err := normalizeConfig(task.Config)
	if err != nil {
		return nil, err
	}
	return json.Marshal(canvasRequest{
		TaskType: TaskTypeTextImage,
		TextToImageParams: &textToImageParams{
			Text:         task.Prompt,
			NegativeText: task.NegativeText,
		},
		ImageGenerationConfig: config,
	})
}

func buildPaintingRequest(taskType string, task PaintingTask) ([]byte, error) {
	if task.Image == "" {
		return nil, ErrImageRequired
	}
	if task.MaskPrompt != "" && task.MaskImage != "" {
		return nil, ErrMaskConflict
	}
	if task.MaskPrompt == "" && task.MaskImage == "" {
		return nil, ErrMaskRequired
	}
	config, err := normalizeConfig(task.Config)
	if err != nil {
		return nil, err
	}
	params := &paintingParams{
		Image:        task.Image,
		MaskPrompt:   task.MaskPrompt,
		MaskImage:    task.MaskImage,
		Text:         task.Text,
		NegativeText: task.NegativeText,
	}
	request := canvasRequest{
		TaskType:              taskType,
		ImageGenerationConfig: config,
	}
	switch taskType {
	case TaskTypeInpainting:
		request.InPaintingParams = params
	case TaskTypeOutpainting:
		mode := task.OutpaintingMode
		if mode == "" {
			mode = OutpaintingModeDefault
		}
		if mode != OutpaintingModeDefault && mode != OutpaintingModePrecise {
			return nil, fmt.Errorf("%w: unknown outpainting mode %q", ErrInvalidParameter, mode)
		}
		params.OutPaintingMode = mode
		request.OutPaintingParams = params
	default:
		return nil, fmt.Errorf("%w: unknown painting task %q", ErrInvalidParameter, taskType)
	}
	return json.Marshal(request)
}

func buildVariationRequest(task VariationTask) ([]byte, error) {
	if len(task.Images) == 0 {
		return nil, ErrImageRequired
	}
	if len(task.Images) > MaxSourceImages {
		return nil, fmt.Errorf("%w: at most %d source images allowed", ErrInvalidParameter, MaxSourceImages)
	}
	if task.SimilarityStrength < 0.2 || task.SimilarityStrength > 1.0 {
		return nil, fmt.Errorf("%w: similarity strength must be within [0.2, 1.0]", ErrInvalidParameter)
	}
	config, err := normalizeConfig(task.Config)
	if err != nil {
		return nil, err
	}
	return json.Marshal(canvasRequest{
		TaskType: TaskTypeImageVariation,
		ImageVariationParams: &imageVariationParams{
			Images:             task.Images,
			SimilarityStrength: task.SimilarityStrength,
			Text:               task.Text,
			NegativeText:       task.NegativeText,
		},
		ImageGenerationConfig: config,
	})
}

func buildConditioningRequest(task ConditioningTask) ([]byte, error) {
	if task.ConditionImage == "" {
		return nil, ErrImageRequired
	}
	if err := validatePrompt(task.Prompt); err != nil {
		return nil, err
	}
	mode := task.ControlMode
	if mode == "" {
		mode = ControlModeCannyEdge
	}
	if mode != ControlModeCannyEdge && mode != ControlModeSegmentation {
		return nil, fmt.Errorf("%w: unknown control mode %q", ErrInvalidParameter, mode)
	}
	if task.ControlStrength < 0 || task.ControlStrength > 1.0 {
		return nil, fmt.Errorf("%w: control strength must be within [0, 1.0]", ErrInvalidParameter)
	}
	config, err := normalizeConfig(task.Config)
	if err != nil {
		return nil, err
	}
	return json.Marshal(canvasRequest{
		TaskType: TaskTypeTextImage,
		TextToImageParams: &textToImageParams{
			Text:            task.Prompt,
			NegativeText:    task.NegativeText,
			ConditionImage:  task.ConditionImage,
			ControlMode:     mode,
			ControlStrength: task.ControlStrength,
		},
		ImageGenerationConfig: config,
	})
}

func buildColorGuidedRequest(task ColorGuidedTask) ([]byte, error) {
	if err := validatePrompt(task.Prompt); err != nil {
		return nil, err
	}
	colors := task.Colors
	if len(colors) == 0 {
		colors = DefaultPalette
	}
	if len(colors) > MaxPaletteSize {
		return nil, fmt.Errorf("%w: at most %d palette colors allowed", ErrInvalidParameter, MaxPaletteSize)
	}
	for _, c := range colors {
		if !hexColorPattern.MatchString(c) {
			return nil, fmt.Errorf("%w: %q is not a hex color like #00FF00", ErrInvalidParameter, c)
		}
	}
	config, err := normalizeConfig(task.Config)
	if err != nil {
		return nil, err
	}
	return json.Marshal(canvasRequest{
		TaskType: TaskTypeColorGuided,
		ColorGuidedGenerationParams: &colorGuidedGenerationParams{
			Text:           task.Prompt,
			Colors:         colors,
			ReferenceImage: task.ReferenceImage,
			NegativeText:   task.NegativeText,
		},
		ImageGenerationConfig: config,
	})
}

// buildBackgroundRemovalRequest carries no generation config block.
func buildBackgroundRemovalRequest(image string) ([]byte, error) {
	if image == "" {
		return nil, ErrImageRequired
	}
	return json.Marshal(canvasRequest{
		TaskType:                TaskTypeBackgroundRemoval,
		BackgroundRemovalParams: &backgroundRemovalParams{Image: image},
	})
}

func validatePrompt(prompt string) error {
	if prompt == "" {
		return ErrPromptRequired
	}
	if len(prompt) > MaxPromptLength {
		return fmt.Errorf("%w: prompt exceeds %d characters", ErrInvalidParameter, MaxPromptLength)
	}
	return nil
}

// normalizeConfig fills defaults and checks the bounds the remote schema
// would otherwise reject after a full round trip.
func normalizeConfig(config GenerationConfig) (*GenerationConfig, error) {
	if config.NumberOfImages == 0 {
		config.NumberOfImages = 1
	}
	if config.Height == 0 {
		config.Height = 1024
	}
	if config.Width == 0 {
		config.Width = 1024
	}
	if config.Quality == "" {
		config.Quality = QualityStandard
	}
	if config.CfgScale == 0 {
		config.CfgScale = 8.0
	}
	if config.Quality != QualityStandard && config.Quality != QualityPremium {
		return nil, fmt.Errorf("%w: quality must be standard or premium", ErrInvalidParameter)
	}
	if config.Height < MinDimension || config.Height > MaxDimension ||
		config.Width < MinDimension || config.Width > MaxDimension {
		return nil, fmt.Errorf("%w: dimensions must be within [%d, %d]", ErrInvalidParameter, MinDimension, MaxDimension)
	}
	if config.Height*config.Width > MaxPixels {
		return nil, fmt.Errorf("%w: image size exceeds %d pixels", ErrInvalidParameter, MaxPixels)
	}
	if config.CfgScale < 1.0 || config.CfgScale > 20.0 {
		return nil, fmt.Errorf("%w: cfgScale must be within [1.0, 20.0]", ErrInvalidParameter)
	}
	if config.Seed < 0 {
		return nil, fmt.Errorf("%w: seed must not be negative", ErrInvalidParameter)
	}
	return &config, nil
}
