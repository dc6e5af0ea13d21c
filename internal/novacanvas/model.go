package novacanvas

// ServiceConfig is unmarshalled from the novaCanvas section of config.yaml.
type ServiceConfig struct {
	AccessKeyID string `mapstructure:"accessKeyId"`

	SecretAccessKey string `mapstructure:"secretAccessKey"`

	Region string `mapstructure:"region"` // bedrock region

	CanvasModelID string `mapstructure:"canvasModelId"`

	LiteModelID string `mapstructure:"liteModelId"` // prompt ideation model

	ArchiveBucket string `mapstructure:"archiveBucket"` // empty disables archiving and rate limiting

	ArchiveRegion string `mapstructure:"archiveRegion"`

	RateLimit int `mapstructure:"rateLimit"` // weighted requests per 20 minute window

	ModerationToken string `mapstructure:"moderationToken"` // empty disables the nsfw gate

	SeedsFile string `mapstructure:"seedsFile"`

	RequestTimeoutSeconds int `mapstructure:"requestTimeoutSeconds"`
}

// Canvas task types as named by the Bedrock API.
const (
	TaskTypeTextImage         = "TEXT_IMAGE"
	TaskTypeInpainting        = "INPAINTING"
	TaskTypeOutpainting       = "OUTPAINTING"
	TaskTypeImageVariation    = "IMAGE_VARIATION"
	TaskTypeColorGuided       = "COLOR_GUIDED_GENERATION"
	TaskTypeBackgroundRemoval = "BACKGROUND_REMOVAL"
)

const (
	QualityStandard = "standard"
	QualityPremium  = "premium"

	OutpaintingModeDefault = "DEFAULT"
	OutpaintingModePrecise = "PRECISE"

	ControlModeCannyEdge    = "CANNY_EDGE"
	ControlModeSegmentation = "SEGMENTATION"
)

// GenerationConfig is the shared imageGenerationConfig block.
type GenerationConfig struct {
	NumberOfImages int     `json:"numberOfImages"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	Quality        string  `json:"quality"`
	CfgScale       float64 `json:"cfgScale"`
	Seed           int     `json:"seed"`
}

type textToImageParams struct {
	Text            string  `json:"text"`
	NegativeText    string  `json:"negativeText,omitempty"`
	ConditionImage  string  `json:"conditionImage,omitempty"`
	ControlMode     string  `json:"controlMode,omitempty"`
	ControlStrength float64 `json:"controlStrength,omitempty"`
}

type paintingParams struct {
	Image           string `json:"image"`
	MaskPrompt      string `json:"maskPrompt,omitempty"`
	MaskImage       string `json:"maskImage,omitempty"`
	Text            string `json:"text,omitempty"`
	NegativeText    string `json:"negativeText,omitempty"`
	OutPaintingMode string `json:"outPaintingMode,omitempty"`
}

type imageVariationParams struct {
	Images             []string `json:"images"`
	SimilarityStrength float64  `json:"similarityStrength"`
	Text               string   `json:"text,omitempty"`
	NegativeText       string   `json:"negativeText,omitempty"`
}

type colorGuidedGenerationParams struct {
	Text           string   `json:"text"`
	Colors         []string `json:"colors"`
	ReferenceImage string   `json:"referenceImage,omitempty"`
	NegativeText   string   `json:"negativeText,omitempty"`
}

type backgroundRemovalParams struct {
	Image string `json:"image"`
}

// canvasRequest is the InvokeModel body envelope. Exactly one params block is
// set, keyed by TaskType.
type canvasRequest struct {
	TaskType                    string                       `json:"taskType"`
	TextToImageParams           *textToImageParams           `json:"textToImageParams,omitempty"`
	InPaintingParams            *paintingParams              `json:"inPaintingParams,omitempty"`
	OutPaintingParams           *paintingParams              `json:"outPaintingParams,omitempty"`
	ImageVariationParams        *imageVariationParams        `json:"imageVariationParams,omitempty"`
	ColorGuidedGenerationParams *colorGuidedGenerationParams `json:"colorGuidedGenerationParams,omitempty"`
	BackgroundRemovalParams     *backgroundRemovalParams     `json:"backgroundRemovalParams,omitempty"`
	ImageGenerationConfig       *GenerationConfig            `json:"imageGenerationConfig,omitempty"`
}

type canvasResponse struct {
	Images []string    `json:"images"`
	Error  interface{} `json:"error"`
}

// GenerationResult is what a completed Canvas call yields: base64 PNGs plus
// the seed echoed for reproducibility.
type GenerationResult struct {
	RequestId string

	Images []string

	Seed int
}
