package ai

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrEmptyResponse is returned when a provider produced no text.
var ErrEmptyResponse = errors.New("provider returned empty response")

// Provider generates interviewer replies from a prompt.
type Provider interface {
	Invoke(ctx context.Context, prompt string) (string, error)
	// Stream yields reply chunks in order. A non-nil error ends the sequence.
	Stream(ctx context.Context, prompt string) iter.Seq2[string, error]
	Model() string
}

// Collect drains a stream, forwarding each chunk to onChunk when it is set.
// The accumulated text is returned even when the stream fails midway.
func Collect(seq iter.Seq2[string, error], onChunk func(string)) (string, error) {
	var sb strings.Builder
	for chunk, err := range seq {
		if err != nil {
			return sb.String(), err
		}
		if chunk == "" {
			continue
		}
		sb.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
