package interview

// ActionType is the vocabulary of next-step decisions.
type ActionType string

const (
	ActionContinueTopic     ActionType = "continue_topic"
	ActionDeepDiveTopic     ActionType = "deep_dive_topic"
	ActionNextTopic         ActionType = "next_topic"
	ActionChangeTopic       ActionType = "change_topic"
	ActionOfferChallenge    ActionType = "offer_challenge"
	ActionCompleteInterview ActionType = "complete_interview"
)

// Priority is used for logging and analytics only.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// NextAction is the decision produced for one candidate turn.
type NextAction struct {
	Type        ActionType `json:"type"`
	TargetTopic Topic      `json:"target_topic,omitempty"`
	Rationale   string     `json:"rationale"`
	Confidence  float64    `json:"confidence"`
	Priority    Priority   `json:"priority"`
	Rule        int        `json:"rule"`
}

// MovesTopic reports whether applying the action switches the current topic.
func (a NextAction) MovesTopic() bool {
	return (a.Type == ActionNextTopic || a.Type == ActionChangeTopic) && a.TargetTopic != ""
}
