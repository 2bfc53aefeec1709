package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/hh-interviewer/internal/ai"
	"github.com/spigell/hh-interviewer/internal/logger"
	"github.com/spigell/hh-interviewer/internal/utils"
)

const (
	// ProviderName is used in logs and configuration.
	ProviderName = "gemini"

	// DefaultModel is used when the configuration names none.
	DefaultModel = "gemini-2.5-flash"

	defaultMaxRetries   = 3
	defaultMaxLogLength = 200

	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 8 * time.Second
	// maxQuotaDelay is the longest server-advertised delay worth waiting for.
	maxQuotaDelay = 20 * time.Second
)

var wait = utils.WaitFor

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

// Config holds Gemini generation settings.
type Config struct {
	Model        string  `mapstructure:"model"`
	MaxRetries   int     `mapstructure:"max-retries"`
	Temperature  float64 `mapstructure:"temperature"`
	MaxLogLength int     `mapstructure:"max-log-length"`
}

type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Generator implements ai.Provider on top of the Google GenAI client.
type Generator struct {
	models      modelsAPI
	model       string
	maxRetries  int
	temperature float64
	maxLogLen   int
	logger      *zap.Logger
}

var _ ai.Provider = (*Generator)(nil)

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey string, cfg Config, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, cfg, log), nil
}

func newGenerator(models modelsAPI, cfg Config, log *zap.Logger) *Generator {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLength
	}

	return &Generator{
		models:      models,
		model:       model,
		maxRetries:  cfg.MaxRetries,
		temperature: cfg.Temperature,
		maxLogLen:   cfg.MaxLogLength,
		logger:      logger.WithFields(log, logger.ProviderFields(ProviderName, model)...),
	}
}

// Invoke sends the prompt to Gemini and returns the textual response.
// Temporary API errors are retried with exponential backoff.
func (g *Generator) Invoke(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	g.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
	)

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config())
		if err == nil {
			output := strings.TrimSpace(responseText(resp))
			if output == "" {
				return "", ai.ErrEmptyResponse
			}

			g.logger.Debug("gemini generate content response",
				zap.Int("attempt", attempt),
				zap.Int("response_length", utf8.RuneCountInString(output)),
				zap.String("response_preview", utils.TruncateForLog(output, g.maxLogLen)),
			)
			return output, nil
		}

		lastErr = err
		if !g.backoff(ctx, attempt, err) {
			break
		}
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

// Stream sends the prompt to Gemini and yields the reply as it arrives.
// Errors before the first chunk are retried like Invoke; later errors end the stream.
func (g *Generator) Stream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if g == nil || g.models == nil {
			yield("", errors.New("gemini generator is not initialized"))
			return
		}

		prompt = strings.TrimSpace(prompt)
		if prompt == "" {
			yield("", errors.New("prompt must not be empty"))
			return
		}

		g.logger.Debug("gemini stream request",
			zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
			zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
		)

		for attempt := 1; attempt <= g.maxRetries; attempt++ {
			started := false
			var streamErr error

			for resp, err := range g.models.GenerateContentStream(ctx, g.model, genai.Text(prompt), g.config()) {
				if err != nil {
					streamErr = err
					break
				}
				text := responseText(resp)
				if text == "" {
					continue
				}
				started = true
				if !yield(text, nil) {
					return
				}
			}

			if streamErr == nil {
				return
			}
			if started || !g.backoff(ctx, attempt, streamErr) {
				yield("", fmt.Errorf("stream content: %w", streamErr))
				return
			}
		}
	}
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func (g *Generator) config() *genai.GenerateContentConfig {
	if g.temperature <= 0 {
		return nil
	}
	return &genai.GenerateContentConfig{Temperature: genai.Ptr(float32(g.temperature))}
}

// backoff reports whether another attempt should be made and waits before it.
func (g *Generator) backoff(ctx context.Context, attempt int, err error) bool {
	delay, ok := retryDelay(err, attempt)
	if !ok || attempt >= g.maxRetries {
		g.logger.Warn("gemini request failed", zap.Int("attempt", attempt), zap.Error(err))
		return false
	}

	g.logger.Info("gemini request failed, retrying",
		zap.Int("attempt", attempt),
		zap.Duration("delay", delay),
		zap.Error(err),
	)

	return wait(ctx, delay) == nil
}

// retryDelay classifies the error. Server errors and short quota delays are retried.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if m := retryAfterPattern.FindStringSubmatch(apiErr.Message); m != nil {
			seconds, parseErr := strconv.ParseFloat(m[1], 64)
			if parseErr == nil {
				delay := time.Duration(seconds * float64(time.Second))
				if delay > maxQuotaDelay {
					return 0, false
				}
				return delay, true
			}
		}
		return utils.Backoff(attempt, retryBaseDelay, retryMaxDelay), true
	case apiErr.Code >= http.StatusInternalServerError:
		return utils.Backoff(attempt, retryBaseDelay, retryMaxDelay), true
	default:
		return 0, false
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			builder.WriteString(part.Text)
		}
	}
	return builder.String()
}
