package ai

import (
	"errors"
	"iter"
	"testing"
)

func seq(chunks []string, err error) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
		if err != nil {
			yield("", err)
		}
	}
}

func TestCollect(t *testing.T) {
	var forwarded []string
	text, err := Collect(seq([]string{"При", "", "вет"}, nil), func(c string) { forwarded = append(forwarded, c) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Привет" {
		t.Fatalf("unexpected text %q", text)
	}
	if len(forwarded) != 2 {
		t.Fatalf("empty chunks must not be forwarded: %v", forwarded)
	}
}

func TestCollectKeepsPartialText(t *testing.T) {
	boom := errors.New("boom")
	text, err := Collect(seq([]string{"Частичный "}, boom), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected stream error, got %v", err)
	}
	if text != "Частичный " {
		t.Fatalf("unexpected partial text %q", text)
	}
}

func TestCollectEmpty(t *testing.T) {
	if _, err := Collect(seq([]string{" ", "\n"}, nil), nil); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}
