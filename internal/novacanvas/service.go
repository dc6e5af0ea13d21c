// Package novacanvas forwards image generation tasks to the Amazon Nova
// Canvas model on Bedrock and prompt ideation to Nova Lite.
package novacanvas

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/HatmanStack/canvas-demo/internal/imageproc"
	"github.com/HatmanStack/canvas-demo/internal/logger"
)

var (
	CanvasServiceApp *CanvasService

	ErrPromptRequired     = fmt.Errorf("prompt is required")
	ErrImageRequired      = fmt.Errorf("input image is required")
	ErrMaskConflict       = fmt.Errorf("you must specify either maskPrompt or maskImage, but not both")
	ErrMaskRequired       = fmt.Errorf("you must specify either maskPrompt or maskImage")
	ErrInvalidParameter   = fmt.Errorf("invalid parameter")
	ErrRateLimited        = fmt.Errorf("rate limit exceeded")
	ErrGenerationFailed   = fmt.Errorf("image generation error")
	ErrEmptyResponse      = fmt.Errorf("model returned no images")
	ErrBedrockClient      = fmt.Errorf("bedrock client error")
	ErrBedrockUnavailable = fmt.Errorf("bedrock unavailable")
	ErrIdeationDisabled   = fmt.Errorf("prompt ideation is not configured")
)

// CanvasService ties together the request builder, the moderation gate, the
// rate limiter, the Bedrock client and the result archive.
type CanvasService struct {
	config ServiceConfig

	invoker ModelInvoker

	limiter *RateLimiter // nil when no bucket is configured

	archive *Archive // nil when no bucket is configured

	moderator *imageproc.Moderator // nil when no token is configured

	ideator *PromptIdeator // nil when no seeds file is configured

	logger *logger.CustomLogger
}

type ServiceOption func(*CanvasService)

// WithInvoker replaces the Bedrock client, primarily for tests.
func WithInvoker(invoker ModelInvoker) ServiceOption {
	return func(s *CanvasService) {
		s.invoker = invoker
	}
}

// WithStore replaces the S3 object store backing the archive and rate
// limiter, primarily for tests.
func WithStore(store objectStore) ServiceOption {
	return func(s *CanvasService) {
		if s.config.RateLimit > 0 {
			s.limiter = NewRateLimiter(store, s.config.RateLimit)
		}
		s.archive = NewArchive(store)
	}
}

func NewCanvasService(ctx context.Context, config ServiceConfig, opts ...ServiceOption) (*CanvasService, error) {
	service := &CanvasService{
		config: config,
		logger: logger.NewCustomLogger().With("model", config.CanvasModelID),
	}
	for _, opt := range opts {
		opt(service)
	}
	if service.invoker == nil {
		client, err := NewBedrockClient(ctx, config)
		if err != nil {
			return nil, err
		}
		service.invoker = client
	}
	if service.archive == nil && config.ArchiveBucket != "" {
		store, err := newS3Store(ctx, config)
		if err != nil {
			return nil, err
		}
		service.archive = NewArchive(store)
		if config.RateLimit > 0 {
			service.limiter = NewRateLimiter(store, config.RateLimit)
		}
	}
	if config.ModerationToken != "" {
		service.moderator = imageproc.NewModerator(config.ModerationToken)
	}
	if config.SeedsFile != "" {
		ideator, err := NewPromptIdeator(config.SeedsFile)
		if err != nil {
			return nil, err
		}
		service.ideator = ideator
	}
	return service, nil
}

// Start initializes the package singleton used by the HTTP handlers.
func Start(ctx context.Context, config ServiceConfig) error {
	service, err := NewCanvasService(ctx, config)
	if err != nil {
		return err
	}
	CanvasServiceApp = service
	return nil
}

// EncodeImage normalizes an uploaded image for the Canvas API and, when
// moderation is configured, rejects inappropriate content.
func (s *CanvasService) EncodeImage(ctx context.Context, data []byte) (string, error) {
	encoded, err := imageproc.Normalize(data)
	if err != nil {
		return "", err
	}
	if s.moderator != nil {
		imageData, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return "", err
		}
		if err := s.moderator.Check(ctx, imageData); err != nil {
			return "", err
		}
	}
	return encoded, nil
}

func (s *CanvasService) TextToImage(ctx context.Context, task TextToImageTask) (*GenerationResult, error) {
	body, err := buildTextToImageRequest(task)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, body, task.Config)
}

func (s *CanvasService) Inpaint(ctx context.Context, task PaintingTask) (*GenerationResult, error) {
	body, err := buildPaintingRequest(TaskTypeInpainting, task)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, body, task.Config)
}

func (s *CanvasService) Outpaint(ctx context.Context, task PaintingTask) (*GenerationResult, error) {
	body, err := buildPaintingRequest(TaskTypeOutpainting, task)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, body, task.Config)
}

func (s *CanvasService) Vary(ctx context.Context, task VariationTask) (*GenerationResult, error) {
	body, err := buildVariationRequest(task)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, body, task.Config)
}

func (s *CanvasService) Condition(ctx context.Context, task ConditioningTask) (*GenerationResult, error) {
	body, err := buildConditioningRequest(task)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, body, task.Config)
}

func (s *CanvasService) ColorGuided(ctx context.Context, task ColorGuidedTask) (*GenerationResult, error) {
	body, err := buildColorGuidedRequest(task)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, body, task.Config)
}

func (s *CanvasService) RemoveBackground(ctx context.Context, image string) (*GenerationResult, error) {
	body, err := buildBackgroundRemovalRequest(image)
	if err != nil {
		return nil, err
	}
	// background removal carries no config block, bill it as standard
	return s.generate(ctx, body, GenerationConfig{Quality: QualityStandard})
}

// IdeatePrompt expands a random seed concept into a full image prompt via
// Nova Lite.
func (s *CanvasService) IdeatePrompt(ctx context.Context) (string, error) {
	if s.ideator == nil {
		return "", ErrIdeationDisabled
	}
	return s.invoker.Converse(ctx, s.config.LiteModelID, s.ideator.Instruction())
}

// generate is the single outbound round trip every task mode funnels into.
func (s *CanvasService) generate(ctx context.Context, body []byte, config GenerationConfig) (*GenerationResult, error) {
	requestId := uuid.New().String()
	if s.limiter != nil {
		if err := s.limiter.Reserve(ctx, config.Quality); err != nil {
			return nil, err
		}
	}
	s.logger.Infof("request %s invoking model", requestId)
	raw, err := s.invoker.InvokeModel(ctx, s.config.CanvasModelID, body)
	if err != nil {
		s.logger.Errorf("request %s failed: %s", requestId, err)
		return nil, err
	}
	var response canvasResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	if response.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, response.Error)
	}
	if len(response.Images) == 0 {
		return nil, ErrEmptyResponse
	}
	if s.archive != nil {
		s.archive.Store(ctx, body, response.Images[0])
	}
	s.logger.Infof("request %s completed, %d image(s)", requestId, len(response.Images))
	return &GenerationResult{
		RequestId: requestId,
		Images:    response.Images,
		Seed:      config.Seed,
	}, nil
}
