package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  Gemini  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "provider" || fields[0].String != "Gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}
}

func TestSessionFields(t *testing.T) {
	fields := SessionFields("s-1", "frontend", "")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldSessionID || fields[0].String != "s-1" {
		t.Fatalf("unexpected session field: %+v", fields[0])
	}

	if fields[1].Key != FieldPosition || fields[1].String != "frontend" {
		t.Fatalf("unexpected position field: %+v", fields[1])
	}
}

func TestWithSession(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	WithSession(logger, "s-2", "backend").Info("turn handled")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldSessionID] != "s-2" || ctx[FieldPosition] != "backend" {
		t.Fatalf("unexpected context: %+v", ctx)
	}

	// Ensure logging with the fallback logger does not panic.
	WithSession(nil, "s-3", "").Info("another log")
}

func TestProviderFields(t *testing.T) {
	fields := ProviderFields("  gemini  ", "model-v1")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldProvider || fields[0].String != "gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}

	if empty := ProviderFields("", ""); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}
