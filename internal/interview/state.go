package interview

import (
	"time"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleCandidate   Role = "candidate"
	RoleInterviewer Role = "interviewer"
)

// Turn is a single conversation message.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// EvaluationRecord binds an evaluation to the scored utterance.
type EvaluationRecord struct {
	Topic      Topic      `json:"topic"`
	Utterance  string     `json:"utterance"`
	Evaluation Evaluation `json:"evaluation"`
	Timestamp  time.Time  `json:"timestamp"`
}

// SessionState is the full mutable state of one interview.
// Instances are owned by a session store; callers work on clones.
type SessionState struct {
	SessionID               string             `json:"session_id"`
	Position                Position           `json:"position"`
	ConversationHistory     []Turn             `json:"conversation_history"`
	CurrentTopic            Topic              `json:"current_topic"`
	TopicsCovered           []Topic            `json:"topics_covered"`
	EvaluationHistory       []EvaluationRecord `json:"evaluation_history"`
	ActionsHistory          []NextAction       `json:"actions_history"`
	SessionStart            time.Time          `json:"session_start"`
	LastActivity            time.Time          `json:"last_activity"`
	LLMErrorCount           int                `json:"llm_error_count"`
	HasChallengeBeenOffered bool               `json:"has_challenge_been_offered"`
}

// NewSessionState builds the initial state: the greeting is recorded and the
// first curriculum topic is current and covered.
func NewSessionState(id string, position Position, now time.Time) *SessionState {
	first := WrapUp
	if c := curricula[position]; len(c) > 0 {
		first = c[0]
	}

	s := &SessionState{
		SessionID:    id,
		Position:     position,
		CurrentTopic: first,
		SessionStart: now,
		LastActivity: now,
	}
	s.CoverTopic(first)
	s.AppendTurn(RoleInterviewer, Greeting(position), now)

	return s
}

// Clone creates a deep copy of the session state.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}

	clone := *s
	clone.ConversationHistory = append([]Turn(nil), s.ConversationHistory...)
	clone.TopicsCovered = append([]Topic(nil), s.TopicsCovered...)
	clone.EvaluationHistory = make([]EvaluationRecord, len(s.EvaluationHistory))
	for i, rec := range s.EvaluationHistory {
		rec.Evaluation = rec.Evaluation.clone()
		clone.EvaluationHistory[i] = rec
	}
	clone.ActionsHistory = append([]NextAction(nil), s.ActionsHistory...)

	return &clone
}

// AppendTurn adds a message to the conversation history.
func (s *SessionState) AppendTurn(role Role, text string, at time.Time) {
	s.ConversationHistory = append(s.ConversationHistory, Turn{Role: role, Text: text, Timestamp: at})
	s.LastActivity = at
}

// CandidateTurns returns the candidate messages in order.
func (s *SessionState) CandidateTurns() []Turn {
	turns := make([]Turn, 0, len(s.ConversationHistory)/2+1)
	for _, t := range s.ConversationHistory {
		if t.Role == RoleCandidate {
			turns = append(turns, t)
		}
	}
	return turns
}

// Exchanges is the number of candidate turns. Every candidate turn gets
// exactly one interviewer reply, so this equals the number of exchanges.
func (s *SessionState) Exchanges() int {
	n := 0
	for _, t := range s.ConversationHistory {
		if t.Role == RoleCandidate {
			n++
		}
	}
	return n
}

// CoverTopic marks the topic as visited. The set never shrinks.
func (s *SessionState) CoverTopic(t Topic) {
	if s.HasCovered(t) {
		return
	}
	s.TopicsCovered = append(s.TopicsCovered, t)
}

// HasCovered reports whether the topic was visited.
func (s *SessionState) HasCovered(t Topic) bool {
	for _, c := range s.TopicsCovered {
		if c == t {
			return true
		}
	}
	return false
}

// CoveredCount returns the number of visited curriculum topics, WrapUp excluded.
func (s *SessionState) CoveredCount() int {
	n := 0
	for _, t := range s.TopicsCovered {
		if t != WrapUp {
			n++
		}
	}
	return n
}

// Scores returns overall scores of the evaluation history in order.
func (s *SessionState) Scores() []float64 {
	scores := make([]float64, 0, len(s.EvaluationHistory))
	for _, rec := range s.EvaluationHistory {
		scores = append(scores, rec.Evaluation.OverallScore)
	}
	return scores
}

// AverageScore returns the mean overall score, zero without evaluations.
func (s *SessionState) AverageScore() float64 {
	return Mean(s.Scores())
}

// TopicAnswers returns the evaluations recorded for the topic.
func (s *SessionState) TopicAnswers(t Topic) []Evaluation {
	var out []Evaluation
	for _, rec := range s.EvaluationHistory {
		if rec.Topic == t {
			out = append(out, rec.Evaluation)
		}
	}
	return out
}

// Mean returns the arithmetic mean, zero for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
