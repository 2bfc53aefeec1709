package decision

import (
	"testing"
	"time"

	"github.com/spigell/hh-interviewer/internal/interview"
)

func TestDetectStopKeywordWinsOverEverything(t *testing.T) {
	s := newState(interview.PositionFrontend)
	answer(s, longAnswer, 2)
	say(s, "Давайте закончим, мне пора")

	got := NewDetector(interview.DefaultConfig()).Detect(s, testStart.Add(time.Minute))
	if !got.ShouldComplete || got.Reason != interview.ReasonUserRequested || !got.UserRequested {
		t.Fatalf("expected user requested completion, got %+v", got)
	}
}

func TestDetectStopKeywordOnlyInRecentWindow(t *testing.T) {
	s := newState(interview.PositionFrontend)
	answer(s, "стоп, я перепутал, сейчас отвечу заново", 5)
	answer(s, longAnswer, 5)
	answer(s, longAnswer, 5)
	say(s, longAnswer)

	got := NewDetector(interview.DefaultConfig()).Detect(s, testStart.Add(time.Minute))
	if got.ShouldComplete {
		t.Fatalf("stop outside of the last three turns must be ignored, got %+v", got)
	}
}

func TestDetectStopIgnoresWordParts(t *testing.T) {
	s := newState(interview.PositionFrontend)
	say(s, "event.stopPropagation() останавливает всплытие")

	if got := NewDetector(interview.DefaultConfig()).Detect(s, testStart); got.ShouldComplete {
		t.Fatalf("stopPropagation is not a stop request: %+v", got)
	}
}

func TestDetectLimitReachedRegardlessOfCoverage(t *testing.T) {
	s := newState(interview.PositionBackend)
	for i := 0; i < 25; i++ {
		answer(s, longAnswer, 6)
	}

	got := NewDetector(interview.DefaultConfig()).Detect(s, testStart.Add(time.Minute))
	if !got.ShouldComplete || got.Reason != interview.ReasonLimitReached {
		t.Fatalf("expected limit reached, got %+v", got)
	}
	if got.UserRequested {
		t.Fatalf("limit is not a user request")
	}
}

func TestDetectRules(t *testing.T) {
	cfg := interview.DefaultConfig()

	tests := []struct {
		name    string
		prepare func(s *interview.SessionState)
		now     time.Time
		expect  interview.CompletionReason
	}{
		{
			name: "curriculum exhausted",
			prepare: func(s *interview.SessionState) {
				answer(s, longAnswer, 5)
				s.CurrentTopic = interview.WrapUp
				s.CoverTopic(interview.WrapUp)
			},
			now:    testStart,
			expect: interview.ReasonCurriculumExhausted,
		},
		{
			name: "excellent result",
			prepare: func(s *interview.SessionState) {
				for i := 0; i < 8; i++ {
					answer(s, longAnswer, 9)
				}
			},
			now:    testStart,
			expect: interview.ReasonExcellentResult,
		},
		{
			name: "good coverage",
			prepare: func(s *interview.SessionState) {
				for i := 0; i < 8; i++ {
					answer(s, longAnswer, 7.5)
				}
				s.CoverTopic(interview.TopicDatabases)
				s.CoverTopic(interview.TopicConcurrency)
				s.CoverTopic(interview.TopicArchitecture)
			},
			now:    testStart,
			expect: interview.ReasonGoodCoverage,
		},
		{
			name: "minimum viable session",
			prepare: func(s *interview.SessionState) {
				for i := 0; i < 8; i++ {
					answer(s, longAnswer, 5)
				}
				s.CoverTopic(interview.TopicDatabases)
				s.CoverTopic(interview.TopicConcurrency)
			},
			now:    testStart.Add(10 * time.Minute),
			expect: interview.ReasonMinimumViable,
		},
		{
			name: "too short to judge",
			prepare: func(s *interview.SessionState) {
				for i := 0; i < 8; i++ {
					answer(s, longAnswer, 5)
				}
				s.CoverTopic(interview.TopicDatabases)
				s.CoverTopic(interview.TopicConcurrency)
			},
			now:    testStart.Add(2 * time.Minute),
			expect: interview.ReasonNone,
		},
		{
			name: "high scores but few exchanges",
			prepare: func(s *interview.SessionState) {
				for i := 0; i < 3; i++ {
					answer(s, longAnswer, 9.5)
				}
			},
			now:    testStart.Add(time.Hour),
			expect: interview.ReasonNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newState(interview.PositionBackend)
			tt.prepare(s)

			got := NewDetector(cfg).Detect(s, tt.now)
			if got.Reason != tt.expect {
				t.Fatalf("expected reason %q, got %+v", tt.expect, got)
			}
			if got.ShouldComplete != (tt.expect != interview.ReasonNone) {
				t.Fatalf("unexpected completion flag: %+v", got)
			}
		})
	}
}

func TestDetectReturnsProgress(t *testing.T) {
	s := newState(interview.PositionBackend)
	answer(s, longAnswer, 4)

	got := NewDetector(interview.DefaultConfig()).Detect(s, testStart)
	if got.Progress.TotalExchanges != 1 || got.Progress.AverageScore != 4 {
		t.Fatalf("unexpected progress: %+v", got.Progress)
	}
}

func TestLLMFailure(t *testing.T) {
	d := NewDetector(interview.DefaultConfig())
	s := newState(interview.PositionBackend)

	s.LLMErrorCount = 2
	if d.LLMFailure(s) {
		t.Fatalf("two errors are below the ceiling")
	}

	s.LLMErrorCount = 3
	if !d.LLMFailure(s) {
		t.Fatalf("three errors must force completion")
	}
}
