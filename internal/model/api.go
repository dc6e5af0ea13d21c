package model

// TextToImageRequest is the JSON body of POST /image.
type TextToImageRequest struct {
	Prompt string `json:"prompt"`

	NegativeText string `json:"negative_text"`

	Height int `json:"height"`

	Width int `json:"width"`

	Quality string `json:"quality"` // standard, premium

	CfgScale float64 `json:"cfg_scale"`

	Seed int `json:"seed"`
}

// GenerationResponse is returned by every image task endpoint.
type GenerationResponse struct {
	RequestId string `json:"request_id,omitempty"`

	Status string `json:"status"` // completed, failed

	Message string `json:"message,omitempty"`

	Images []string `json:"images,omitempty"` // base64 png

	Seed int `json:"seed"`
}

// PromptResponse is returned by GET /prompt.
type PromptResponse struct {
	Status string `json:"status"`

	Prompt string `json:"prompt"`
}
