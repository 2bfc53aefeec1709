package gemini

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/hh-interviewer/internal/ai"
)

type fakeResponse struct {
	chunks []string
	err    error
}

type fakeModels struct {
	mu      sync.Mutex
	calls   []string
	configs []*genai.GenerateContentConfig
	queue   []fakeResponse
}

func (f *fakeModels) enqueue(err error, chunks ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{chunks: chunks, err: err})
}

func (f *fakeModels) next(model string, config *genai.GenerateContentConfig) fakeResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, model)
	f.configs = append(f.configs, config)
	if len(f.queue) == 0 {
		return fakeResponse{err: errors.New("unexpected call")}
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	res := f.next(model, config)
	if res.err != nil {
		return nil, res.err
	}
	return textResponse(strings.Join(res.chunks, "")), nil
}

func (f *fakeModels) GenerateContentStream(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	res := f.next(model, config)
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range res.chunks {
			if !yield(textResponse(c), nil) {
				return
			}
		}
		if res.err != nil {
			yield(nil, res.err)
		}
	}
}

func noWait(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	original := wait
	wait = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { wait = original })
	return &delays
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	delays := noWait(t)

	models := &fakeModels{}
	models.enqueue(genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(nil, "retry ok")

	g := newGenerator(models, Config{Model: "gemini-pro", MaxRetries: 2, Temperature: 0.4}, zap.NewNop())

	output, err := g.Invoke(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
	if len(*delays) != 1 || (*delays)[0] != retryBaseDelay {
		t.Fatalf("unexpected delays: %v", *delays)
	}
	for i, cfg := range models.configs {
		if cfg == nil || cfg.Temperature == nil || *cfg.Temperature != float32(0.4) {
			t.Fatalf("call %d: temperature not set", i)
		}
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	models.enqueue(tempErr)
	models.enqueue(tempErr)

	g := newGenerator(models, Config{MaxRetries: 2}, nil)

	_, err := g.Invoke(context.Background(), "prompt")
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
	if models.calls[0] != DefaultModel {
		t.Fatalf("expected default model, got %q", models.calls[0])
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})

	g := newGenerator(models, Config{MaxRetries: 3}, nil)

	if _, err := g.Invoke(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestGeneratorDoesNotRetryClientError(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	g := newGenerator(models, Config{MaxRetries: 3}, nil)
	if _, err := g.Invoke(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestGeneratorRejectsEmptyInput(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, "   ")

	g := newGenerator(models, Config{}, nil)
	if _, err := g.Invoke(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if _, err := g.Invoke(context.Background(), "prompt"); !errors.Is(err, ai.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGeneratorStream(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(genai.APIError{Code: http.StatusTooManyRequests, Message: "retry in 2s"})
	models.enqueue(nil, "Расскажите ", "о ", "себе.")

	g := newGenerator(models, Config{}, nil)

	var chunks []string
	for chunk, err := range g.Stream(context.Background(), "prompt") {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		chunks = append(chunks, chunk)
	}

	if strings.Join(chunks, "") != "Расскажите о себе." || len(chunks) != 3 {
		t.Fatalf("unexpected chunks: %q", chunks)
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected a retry before the first chunk, got %d calls", len(models.calls))
	}
}

func TestGeneratorStreamFailsAfterFirstChunk(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(genai.APIError{Code: http.StatusInternalServerError}, "Начало")

	g := newGenerator(models, Config{}, nil)

	text, err := ai.Collect(g.Stream(context.Background(), "prompt"), nil)
	if err == nil {
		t.Fatal("expected stream error")
	}
	if text != "Начало" {
		t.Fatalf("unexpected partial text: %q", text)
	}
	if len(models.calls) != 1 {
		t.Fatalf("started streams must not be retried, got %d calls", len(models.calls))
	}
}

func TestModel(t *testing.T) {
	var g *Generator
	if g.Model() != "" {
		t.Fatal("nil generator must report empty model")
	}
	if got := newGenerator(&fakeModels{}, Config{Model: " custom "}, nil).Model(); got != "custom" {
		t.Fatalf("unexpected model %q", got)
	}
}
