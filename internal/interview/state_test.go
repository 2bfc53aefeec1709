package interview

import (
	"errors"
	"testing"
	"time"
)

func TestNewSessionStateCoversFirstTopic(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewSessionState("s-1", PositionFrontend, now)

	if s.CurrentTopic != TopicHTMLCSS {
		t.Fatalf("unexpected first topic: %s", s.CurrentTopic)
	}
	if !s.HasCovered(s.CurrentTopic) {
		t.Fatalf("current topic must be covered")
	}
	if len(s.ConversationHistory) != 1 || s.ConversationHistory[0].Role != RoleInterviewer {
		t.Fatalf("expected greeting turn, got %+v", s.ConversationHistory)
	}
	if s.Exchanges() != 0 {
		t.Fatalf("greeting is not an exchange")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSessionState("s-1", PositionBackend, time.Now())
	s.EvaluationHistory = append(s.EvaluationHistory, EvaluationRecord{
		Topic:      TopicHTTPAPI,
		Evaluation: Evaluation{OverallScore: 5, Strengths: []string{"a"}},
	})

	clone := s.Clone()
	clone.AppendTurn(RoleCandidate, "ответ", time.Now())
	clone.CoverTopic(TopicDatabases)
	clone.EvaluationHistory[0].Evaluation.Strengths[0] = "b"

	if len(s.ConversationHistory) != 1 {
		t.Fatalf("clone mutated history")
	}
	if s.HasCovered(TopicDatabases) {
		t.Fatalf("clone mutated covered topics")
	}
	if s.EvaluationHistory[0].Evaluation.Strengths[0] != "a" {
		t.Fatalf("clone mutated evaluation strengths")
	}
}

func TestCoverTopicIsIdempotent(t *testing.T) {
	s := NewSessionState("s-1", PositionBackend, time.Now())
	s.CoverTopic(TopicHTTPAPI)
	s.CoverTopic(WrapUp)

	if len(s.TopicsCovered) != 2 {
		t.Fatalf("expected 2 covered entries, got %v", s.TopicsCovered)
	}
	if s.CoveredCount() != 1 {
		t.Fatalf("wrap-up must not count as a topic")
	}
}

func TestNextTopicSkipsCovered(t *testing.T) {
	covered := []Topic{TopicHTMLCSS, TopicReact}
	if got := NextTopic(PositionFrontend, covered); got != TopicJavaScript {
		t.Fatalf("expected javascript, got %s", got)
	}

	if got := NextTopic(PositionBackend, Curriculum(PositionBackend)); got != WrapUp {
		t.Fatalf("expected wrap-up, got %s", got)
	}
}

func TestParsePosition(t *testing.T) {
	p, err := ParsePosition(" Frontend ")
	if err != nil || p != PositionFrontend {
		t.Fatalf("unexpected result %q (%v)", p, err)
	}

	if _, err := ParsePosition("designer"); !errors.Is(err, ErrUnknownPosition) {
		t.Fatalf("expected ErrUnknownPosition, got %v", err)
	}
}

func TestMasteryFor(t *testing.T) {
	tests := []struct {
		score  float64
		expect Mastery
	}{
		{score: 9, expect: MasteryAdvanced},
		{score: 7.5, expect: MasteryAdvanced},
		{score: 6, expect: MasteryIntermediate},
		{score: 4.5, expect: MasteryBeginner},
		{score: 4.4, expect: MasteryNovice},
	}

	for _, tt := range tests {
		if got := MasteryFor(tt.score); got != tt.expect {
			t.Fatalf("MasteryFor(%v) = %s, want %s", tt.score, got, tt.expect)
		}
	}
}

func TestProgressOf(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSessionState("s-1", PositionBackend, time.Now())
	for i := 0; i < 4; i++ {
		s.AppendTurn(RoleCandidate, "ответ", time.Now())
		s.AppendTurn(RoleInterviewer, "вопрос", time.Now())
		s.EvaluationHistory = append(s.EvaluationHistory, EvaluationRecord{Evaluation: Evaluation{OverallScore: 6}})
	}
	s.CoverTopic(TopicDatabases)
	s.CoverTopic(TopicConcurrency)

	p := ProgressOf(s, cfg)
	if p.TotalExchanges != 4 {
		t.Fatalf("expected 4 exchanges, got %d", p.TotalExchanges)
	}
	if p.AverageScore != 6 {
		t.Fatalf("expected average 6, got %v", p.AverageScore)
	}
	// 50 * 4/8 + 50 * 3/6
	if p.CompletionPercentage != 50 {
		t.Fatalf("expected 50%%, got %v", p.CompletionPercentage)
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{MaxExchanges: 10}.WithDefaults()
	if cfg.MaxExchanges != 10 {
		t.Fatalf("explicit value must be kept")
	}
	if cfg.MinExchanges != 8 || cfg.LLMErrorCeiling != 3 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
