package imageproc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultModerationURL = "https://api-inference.huggingface.co/models/Falconsai/nsfw_image_detection"

	// Scores above this mark an image as not appropriate.
	nsfwScoreThreshold = 0.1

	maxModerationAttempts = 30
)

var ErrNotAppropriate = errors.New("image not appropriate")

// Moderator classifies images through the Hugging Face inference API before
// they are sent to Bedrock.
type Moderator struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

type ModeratorOption func(*Moderator)

func WithEndpoint(endpoint string) ModeratorOption {
	return func(m *Moderator) {
		m.endpoint = endpoint
	}
}

func WithHTTPClient(httpClient *http.Client) ModeratorOption {
	return func(m *Moderator) {
		m.httpClient = httpClient
	}
}

func NewModerator(token string, opts ...ModeratorOption) *Moderator {
	m := &Moderator{
		endpoint: DefaultModerationURL,
		token:    token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type moderationLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type moderationPending struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Check scores the image and returns ErrNotAppropriate when the nsfw score
// exceeds the threshold. The hosted classifier cold-starts, answering with an
// estimated warm-up time; those responses are retried.
func (m *Moderator) Check(ctx context.Context, imageData []byte) error {
	for attempt := 1; attempt <= maxModerationAttempts; attempt++ {
		labels, retryAfter, err := m.classify(ctx, imageData)
		if err != nil {
			return err
		}
		if retryAfter > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryAfter):
			}
			continue
		}
		for _, label := range labels {
			if label.Label == "nsfw" && label.Score > nsfwScoreThreshold {
				return ErrNotAppropriate
			}
		}
		return nil
	}
	return fmt.Errorf("moderation check failed after %d attempts", maxModerationAttempts)
}

func (m *Moderator) classify(ctx context.Context, imageData []byte) ([]moderationLabel, time.Duration, error) {
	request, err := http.NewRequestWithContext(ctx, "POST", m.endpoint, bytes.NewReader(imageData))
	if err != nil {
		return nil, 0, err
	}
	request.Header.Set("Authorization", "Bearer "+m.token)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-use-cache", "0")

	response, err := m.httpClient.Do(request)
	if err != nil {
		return nil, 0, fmt.Errorf("moderation request failed: %w", err)
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read moderation response: %w", err)
	}

	var labels []moderationLabel
	if err := json.Unmarshal(body, &labels); err == nil {
		return labels, 0, nil
	}
	var pending moderationPending
	if err := json.Unmarshal(body, &pending); err == nil && pending.Error != "" {
		retryAfter := time.Duration(pending.EstimatedTime * float64(time.Second))
		if retryAfter <= 0 {
			retryAfter = time.Second
		}
		return nil, retryAfter, nil
	}
	return nil, 0, fmt.Errorf("unexpected moderation response (%d): %s", response.StatusCode, string(body))
}
