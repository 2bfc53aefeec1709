package interview

import "math"

// CompletionReason explains why an interview ended.
type CompletionReason string

const (
	ReasonNone                CompletionReason = ""
	ReasonUserRequested       CompletionReason = "user_requested"
	ReasonLimitReached        CompletionReason = "limit_reached"
	ReasonCurriculumExhausted CompletionReason = "curriculum_exhausted"
	ReasonExcellentResult     CompletionReason = "excellent_result"
	ReasonGoodCoverage        CompletionReason = "good_coverage"
	ReasonMinimumViable       CompletionReason = "minimum_viable_session"
	ReasonLLMFailure          CompletionReason = "llm_failure"
	ReasonPolicy              CompletionReason = "policy_decision"
	ReasonForced              CompletionReason = "forced"

	// ReasonAbandoned marks sessions reclaimed by the idle sweep. No report is produced.
	ReasonAbandoned CompletionReason = "abandoned"
)

// Completion is the verdict of the completion detector.
type Completion struct {
	ShouldComplete bool             `json:"should_complete"`
	Reason         CompletionReason `json:"reason,omitempty"`
	UserRequested  bool             `json:"user_requested"`
	Progress       Progress         `json:"progress"`
}

// Progress is a read-only status snapshot of a session.
type Progress struct {
	TotalExchanges       int     `json:"total_exchanges"`
	AverageScore         float64 `json:"average_score"`
	TopicsCovered        []Topic `json:"topics_covered"`
	CurrentTopic         Topic   `json:"current_topic"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// ProgressOf builds a snapshot of the state against the configured minimums.
func ProgressOf(s *SessionState, cfg Config) Progress {
	exchanges := s.Exchanges()
	curriculum := len(curricula[s.Position])

	var exchangePart, topicPart float64
	if cfg.MinExchanges > 0 {
		exchangePart = math.Min(1, float64(exchanges)/float64(cfg.MinExchanges))
	}
	if curriculum > 0 {
		topicPart = math.Min(1, float64(s.CoveredCount())/float64(curriculum))
	}

	return Progress{
		TotalExchanges:       exchanges,
		AverageScore:         Round(s.AverageScore(), 2),
		TopicsCovered:        append([]Topic(nil), s.TopicsCovered...),
		CurrentTopic:         s.CurrentTopic,
		CompletionPercentage: math.Min(100, Round(50*exchangePart+50*topicPart, 1)),
	}
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
