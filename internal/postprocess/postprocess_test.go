package postprocess

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		step   Processor
		input  string
		expect string
	}{
		{name: "role prefix", step: NewTrimRolePrefix(), input: "Интервьюер: Расскажите о себе.", expect: "Расскажите о себе."},
		{name: "bold role prefix", step: NewTrimRolePrefix(), input: "**Interviewer**: Hi", expect: "Hi"},
		{name: "no prefix", step: NewTrimRolePrefix(), input: "Интервьюер спросит позже", expect: "Интервьюер спросит позже"},
		{name: "blank lines", step: NewCollapseBlankLines(), input: "a\n\n\n \nb\r\n\r\n\r\nc", expect: "a\n\nb\n\nc"},
		{name: "short reply", step: NewLimitLength(20), input: "Коротко.", expect: "Коротко."},
		{name: "sentence cut", step: NewLimitLength(20), input: "Первое предложение. Второе очень длинное", expect: "Первое предложение."},
		{name: "hard cut", step: NewLimitLength(5), input: "абвгдежз", expect: "абвгд…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, _, err := tt.step.Apply(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("Apply(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestRunRejectsEmptyReply(t *testing.T) {
	_, err := Default(Config{}, nil).Run(context.Background(), "Интервьюер:   \n\n")
	if !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "require_text:") {
		t.Fatalf("error must name the step: %v", err)
	}
}

func TestRunSkipsDisabled(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	pipeline := Default(Config{Disabled: []string{"trim_role_prefix"}}, zap.New(core))

	got, err := pipeline.Run(context.Background(), "Интервьюер: Вопрос?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Интервьюер: Вопрос?" {
		t.Fatalf("disabled step was applied: %q", got)
	}

	if n := logs.FilterMessage("processor disabled").Len(); n != 1 {
		t.Fatalf("expected one disabled log entry, got %d", n)
	}
	if n := logs.FilterMessage("postprocess step").Len(); n != 3 {
		t.Fatalf("expected three step log entries, got %d", n)
	}
}

func TestDescribe(t *testing.T) {
	pipeline := Default(Config{MaxReplyRunes: 300, Disabled: []string{"collapse_blank_lines"}}, nil)

	statuses := pipeline.Describe()
	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}
	if statuses[1].Enabled || statuses[1].Reason != "disabled in config" {
		t.Fatalf("unexpected status for collapse_blank_lines: %+v", statuses[1])
	}
	if statuses[2].Details["max_runes"] != "300" {
		t.Fatalf("unexpected limit details: %+v", statuses[2])
	}
}
