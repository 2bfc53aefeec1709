package decision

import (
	"time"

	"github.com/spigell/hh-interviewer/internal/interview"
	"github.com/spigell/hh-interviewer/internal/utils"
)

// Detector decides whether an interview should end.
type Detector struct {
	cfg interview.Config
}

// NewDetector creates a Detector. Zero config values fall back to defaults.
func NewDetector(cfg interview.Config) *Detector {
	return &Detector{cfg: cfg.WithDefaults()}
}

// Detect evaluates the completion rules in order; the first match wins.
// The state is expected to contain the current candidate turn.
func (d *Detector) Detect(s *interview.SessionState, now time.Time) interview.Completion {
	progress := interview.ProgressOf(s, d.cfg)
	done := func(reason interview.CompletionReason) interview.Completion {
		return interview.Completion{
			ShouldComplete: true,
			Reason:         reason,
			UserRequested:  reason == interview.ReasonUserRequested,
			Progress:       progress,
		}
	}

	if RequestedStop(s, d.cfg.StopWindow) {
		return done(interview.ReasonUserRequested)
	}

	exchanges := s.Exchanges()
	if exchanges >= d.cfg.MaxExchanges {
		return done(interview.ReasonLimitReached)
	}

	if s.CurrentTopic == interview.WrapUp {
		return done(interview.ReasonCurriculumExhausted)
	}

	avg := s.AverageScore()
	enough := exchanges >= d.cfg.MinExchanges
	covered := s.CoveredCount()

	if avg >= d.cfg.ExcellentScore && enough {
		return done(interview.ReasonExcellentResult)
	}

	if avg >= d.cfg.TargetScore && covered >= d.cfg.MinTopics && enough {
		return done(interview.ReasonGoodCoverage)
	}

	if now.Sub(s.SessionStart) >= d.cfg.MinDuration && enough && covered >= d.cfg.MinViableTopics {
		return done(interview.ReasonMinimumViable)
	}

	return interview.Completion{Progress: progress}
}

// LLMFailure reports whether the provider failed too often for the session to go on.
func (d *Detector) LLMFailure(s *interview.SessionState) bool {
	return s.LLMErrorCount >= d.cfg.LLMErrorCeiling
}

// RequestedStop reports whether any of the last window candidate turns asks to stop.
func RequestedStop(s *interview.SessionState, window int) bool {
	turns := s.CandidateTurns()
	if window > 0 && len(turns) > window {
		turns = turns[len(turns)-window:]
	}
	for _, t := range turns {
		if utils.ContainsAnyPhrase(utils.Normalize(t.Text), stopPhrases) {
			return true
		}
	}
	return false
}
