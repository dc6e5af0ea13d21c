package novacanvas

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeInvoker struct {
	response     []byte
	err          error
	converseText string
	converseErr  error

	lastModelID string
	lastBody    []byte
	lastPrompt  string
}

func (f *fakeInvoker) InvokeModel(_ context.Context, modelID string, body []byte) ([]byte, error) {
	f.lastModelID = modelID
	f.lastBody = body
	return f.response, f.err
}

func (f *fakeInvoker) Converse(_ context.Context, modelID string, prompt string) (string, error) {
	f.lastModelID = modelID
	f.lastPrompt = prompt
	return f.converseText, f.converseErr
}

func canvasImagesResponse(images ...string) []byte {
	body, _ := json.Marshal(map[string]interface{}{"images": images})
	return body
}

func newTestService(t *testing.T, invoker ModelInvoker, opts ...ServiceOption) *CanvasService {
	t.Helper()
	config := ServiceConfig{
		CanvasModelID: "amazon.nova-canvas-v1:0",
		LiteModelID:   "us.amazon.nova-lite-v1:0",
	}
	service, err := NewCanvasService(context.Background(), config, append([]ServiceOption{WithInvoker(invoker)}, opts...)...)
	if err != nil {
		t.Fatalf("NewCanvasService failed: %v", err)
	}
	return service
}

func TestTextToImage(t *testing.T) {
	imageB64 := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	invoker := &fakeInvoker{response: canvasImagesResponse(imageB64)}
	service := newTestService(t, invoker)

	result, err := service.TextToImage(context.Background(), TextToImageTask{
		Prompt: "a lighthouse at dusk",
		Config: GenerationConfig{Seed: 42},
	})
	if err != nil {
		t.Fatalf("TextToImage failed: %v", err)
	}
	if invoker.lastModelID != "amazon.nova-canvas-v1:0" {
		t.Errorf("unexpected model id: %s", invoker.lastModelID)
	}
	if len(result.Images) != 1 || result.Images[0] != imageB64 {
		t.Errorf("unexpected images in result: %v", result.Images)
	}
	if result.Seed != 42 {
		t.Errorf("expected seed 42 echoed, got %d", result.Seed)
	}
	if result.RequestId == "" {
		t.Error("expected a request id")
	}
}

func TestTextToImageModelError(t *testing.T) {
	invoker := &fakeInvoker{response: []byte(`{"error": "content filtered"}`)}
	service := newTestService(t, invoker)

	_, err := service.TextToImage(context.Background(), TextToImageTask{Prompt: "p"})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "content filtered") {
		t.Errorf("remote message should be surfaced, got %q", err.Error())
	}
}

func TestTextToImageEmptyResponse(t *testing.T) {
	invoker := &fakeInvoker{response: []byte(`{"images": []}`)}
	service := newTestService(t, invoker)

	if _, err := service.TextToImage(context.Background(), TextToImageTask{Prompt: "p"}); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestTextToImageInvokerErrorPassesThrough(t *testing.T) {
	invoker := &fakeInvoker{err: fmt.Errorf("%w: throttled", ErrBedrockClient)}
	service := newTestService(t, invoker)

	if _, err := service.TextToImage(context.Background(), TextToImageTask{Prompt: "p"}); !errors.Is(err, ErrBedrockClient) {
		t.Fatalf("expected ErrBedrockClient, got %v", err)
	}
}

func TestGenerateArchivesRequestAndImage(t *testing.T) {
	imageB64 := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	invoker := &fakeInvoker{response: canvasImagesResponse(imageB64)}
	store := newMemStore()
	service := newTestService(t, invoker, WithStore(store))

	if _, err := service.TextToImage(context.Background(), TextToImageTask{Prompt: "p"}); err != nil {
		t.Fatalf("TextToImage failed: %v", err)
	}
	var sawResponse, sawImage bool
	for key, data := range store.objects {
		if strings.HasPrefix(key, "responses/") {
			sawResponse = true
			if !strings.Contains(string(data), "TEXT_IMAGE") {
				t.Error("archived body should be the request payload")
			}
		}
		if strings.HasPrefix(key, "images/") {
			sawImage = true
			if string(data) != "png-bytes" {
				t.Error("archived image should be the decoded png")
			}
		}
	}
	if !sawResponse || !sawImage {
		t.Errorf("expected request and image archived, got keys %v", keysOf(store.objects))
	}
}

func keysOf(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestGenerateRateLimited(t *testing.T) {
	invoker := &fakeInvoker{response: canvasImagesResponse("aW1n")}
	config := ServiceConfig{
		CanvasModelID: "amazon.nova-canvas-v1:0",
		RateLimit:     1,
	}
	service, err := NewCanvasService(context.Background(), config, WithInvoker(invoker), WithStore(newMemStore()))
	if err != nil {
		t.Fatalf("NewCanvasService failed: %v", err)
	}

	if _, err := service.TextToImage(context.Background(), TextToImageTask{Prompt: "p"}); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}
	if _, err := service.TextToImage(context.Background(), TextToImageTask{Prompt: "p"}); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestRemoveBackgroundBodyShape(t *testing.T) {
	invoker := &fakeInvoker{response: canvasImagesResponse("aW1n")}
	service := newTestService(t, invoker)

	if _, err := service.RemoveBackground(context.Background(), "aW1n"); err != nil {
		t.Fatalf("RemoveBackground failed: %v", err)
	}
	if strings.Contains(string(invoker.lastBody), "imageGenerationConfig") {
		t.Error("background removal body must not carry a config block")
	}
}

func TestIdeatePrompt(t *testing.T) {
	seedsFile := filepath.Join(t.TempDir(), "seeds.json")
	if err := os.WriteFile(seedsFile, []byte(`{"seeds": ["a paper lantern festival"]}`), 0644); err != nil {
		t.Fatal(err)
	}
	invoker := &fakeInvoker{converseText: "An expanded, vivid prompt."}
	config := ServiceConfig{
		CanvasModelID: "amazon.nova-canvas-v1:0",
		LiteModelID:   "us.amazon.nova-lite-v1:0",
		SeedsFile:     seedsFile,
	}
	service, err := NewCanvasService(context.Background(), config, WithInvoker(invoker))
	if err != nil {
		t.Fatalf("NewCanvasService failed: %v", err)
	}

	prompt, err := service.IdeatePrompt(context.Background())
	if err != nil {
		t.Fatalf("IdeatePrompt failed: %v", err)
	}
	if prompt != "An expanded, vivid prompt." {
		t.Errorf("unexpected prompt: %q", prompt)
	}
	if invoker.lastModelID != "us.amazon.nova-lite-v1:0" {
		t.Errorf("ideation should use the lite model, got %s", invoker.lastModelID)
	}
	if !strings.Contains(invoker.lastPrompt, "a paper lantern festival") {
		t.Error("instruction should embed the seed concept")
	}
}

func TestIdeatePromptDisabled(t *testing.T) {
	service := newTestService(t, &fakeInvoker{})
	if _, err := service.IdeatePrompt(context.Background()); !errors.Is(err, ErrIdeationDisabled) {
		t.Fatalf("expected ErrIdeationDisabled, got %v", err)
	}
}

func TestNewPromptIdeatorRejectsEmptySeeds(t *testing.T) {
	seedsFile := filepath.Join(t.TempDir(), "seeds.json")
	if err := os.WriteFile(seedsFile, []byte(`{"seeds": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewPromptIdeator(seedsFile); err == nil {
		t.Fatal("expected an error for an empty seeds list")
	}
}
