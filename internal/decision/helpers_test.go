package decision

import (
	"time"

	"github.com/spigell/hh-interviewer/internal/interview"
)

var testStart = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

const longAnswer = "Я бы начал с анализа требований и нагрузки на сервис"

func newState(p interview.Position) *interview.SessionState {
	return interview.NewSessionState("s-test", p, testStart)
}

// answer records a scored candidate turn followed by an interviewer reply.
func answer(s *interview.SessionState, text string, score float64) {
	at := testStart.Add(time.Duration(len(s.ConversationHistory)) * time.Minute)
	s.AppendTurn(interview.RoleCandidate, text, at)
	s.EvaluationHistory = append(s.EvaluationHistory, interview.EvaluationRecord{
		Topic:      s.CurrentTopic,
		Utterance:  text,
		Evaluation: scored(score),
		Timestamp:  at,
	})
	s.AppendTurn(interview.RoleInterviewer, "Следующий вопрос", at)
}

// say appends the current candidate turn without an evaluation.
func say(s *interview.SessionState, text string) {
	s.AppendTurn(interview.RoleCandidate, text, testStart.Add(time.Hour))
}

func scored(score float64) interview.Evaluation {
	return interview.Evaluation{
		Completeness:   score,
		TechnicalDepth: score,
		Structure:      score,
		Relevance:      score,
		OverallScore:   score,
		Mastery:        interview.MasteryFor(score),
	}
}
