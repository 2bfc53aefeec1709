package offline

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/hh-interviewer/internal/ai"
)

func TestInvokeRotates(t *testing.T) {
	p := New("one", "two")

	for _, want := range []string{"one", "two", "one"} {
		got, err := p.Invoke(context.Background(), "prompt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}

	if len(p.Prompts()) != 3 {
		t.Fatalf("expected 3 recorded prompts, got %d", len(p.Prompts()))
	}
}

func TestStreamSplitsWords(t *testing.T) {
	p := New("Расскажите о себе")

	var chunks []string
	text, err := ai.Collect(p.Stream(context.Background(), "prompt"), func(c string) { chunks = append(chunks, c) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Расскажите о себе" {
		t.Fatalf("unexpected text %q", text)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %q", chunks)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().Invoke(ctx, "prompt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
