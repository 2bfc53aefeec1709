package interview

import "time"

// ReportKind tells which generation tier produced a report.
type ReportKind string

const (
	ReportFull     ReportKind = "full"
	ReportEmpty    ReportKind = "empty"
	ReportFallback ReportKind = "fallback"
)

const (
	RecommendationStrongHire = "strong_hire"
	RecommendationHire       = "hire"
	RecommendationConsider   = "consider"
	RecommendationNoHire     = "no_hire"
)

// TopicScore aggregates the answers given on one topic.
type TopicScore struct {
	Topic          Topic   `json:"topic" yaml:"topic"`
	Title          string  `json:"title" yaml:"title"`
	AverageScore   float64 `json:"average_score" yaml:"average_score"`
	TechnicalDepth float64 `json:"technical_depth" yaml:"technical_depth"`
	Answers        int     `json:"answers" yaml:"answers"`
}

// BehavioralScores are conversation-wide soft-skill estimates in [0, 10].
type BehavioralScores struct {
	Communication   float64 `json:"communication" yaml:"communication"`
	ProblemSolving  float64 `json:"problem_solving" yaml:"problem_solving"`
	LearningAbility float64 `json:"learning_ability" yaml:"learning_ability"`
	Adaptability    float64 `json:"adaptability" yaml:"adaptability"`
}

// Analytics describes the shape of the session.
type Analytics struct {
	DurationSeconds float64            `json:"duration_seconds" yaml:"duration_seconds"`
	QuestionCount   int                `json:"question_count" yaml:"question_count"`
	AnswerCount     int                `json:"answer_count" yaml:"answer_count"`
	TopicsCovered   []Topic            `json:"topics_covered" yaml:"topics_covered"`
	ActionCounts    map[ActionType]int `json:"action_counts,omitempty" yaml:"action_counts,omitempty"`
	LLMErrors       int                `json:"llm_errors" yaml:"llm_errors"`
	ChallengeOffer  bool               `json:"challenge_offered" yaml:"challenge_offered"`
}

// Report is the final, immutable result of an interview.
type Report struct {
	SessionID        string           `json:"session_id" yaml:"session_id"`
	Position         Position         `json:"position" yaml:"position"`
	Kind             ReportKind       `json:"kind" yaml:"kind"`
	FinalScore       float64          `json:"final_score" yaml:"final_score"`
	Level            string           `json:"level" yaml:"level"`
	Recommendation   string           `json:"recommendation" yaml:"recommendation"`
	Confidence       float64          `json:"confidence" yaml:"confidence"`
	CompletionReason CompletionReason `json:"completion_reason" yaml:"completion_reason"`
	UserRequested    bool             `json:"user_requested" yaml:"user_requested"`
	TopicScores      []TopicScore     `json:"topic_scores,omitempty" yaml:"topic_scores,omitempty"`
	StrongAreas      []TopicScore     `json:"strong_areas,omitempty" yaml:"strong_areas,omitempty"`
	WeakAreas        []TopicScore     `json:"weak_areas,omitempty" yaml:"weak_areas,omitempty"`
	Strengths        []string         `json:"strengths,omitempty" yaml:"strengths,omitempty"`
	Improvements     []string         `json:"improvements,omitempty" yaml:"improvements,omitempty"`
	Behavior         BehavioralScores `json:"behavior" yaml:"behavior"`
	Analytics        Analytics        `json:"analytics" yaml:"analytics"`
	Feedback         string           `json:"feedback" yaml:"feedback"`
	NextSteps        []string         `json:"next_steps,omitempty" yaml:"next_steps,omitempty"`
	GeneratedAt      time.Time        `json:"generated_at" yaml:"generated_at"`
}

// Clone returns a deep copy of the report.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}

	c := *r
	c.TopicScores = append([]TopicScore(nil), r.TopicScores...)
	c.StrongAreas = append([]TopicScore(nil), r.StrongAreas...)
	c.WeakAreas = append([]TopicScore(nil), r.WeakAreas...)
	c.Strengths = append([]string(nil), r.Strengths...)
	c.Improvements = append([]string(nil), r.Improvements...)
	c.NextSteps = append([]string(nil), r.NextSteps...)
	c.Analytics.TopicsCovered = append([]Topic(nil), r.Analytics.TopicsCovered...)
	if r.Analytics.ActionCounts != nil {
		c.Analytics.ActionCounts = make(map[ActionType]int, len(r.Analytics.ActionCounts))
		for k, v := range r.Analytics.ActionCounts {
			c.Analytics.ActionCounts[k] = v
		}
	}
	return &c
}
