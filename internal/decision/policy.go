package decision

import (
	"fmt"

	"github.com/spigell/hh-interviewer/internal/interview"
	"github.com/spigell/hh-interviewer/internal/utils"
)

// Policy chooses the next interviewer action with an ordered rule list.
// Rule order encodes priority; NextAction.Priority is informational only.
type Policy struct {
	cfg interview.Config
}

// NewPolicy creates a Policy. Zero config values fall back to defaults.
func NewPolicy(cfg interview.Config) *Policy {
	return &Policy{cfg: cfg.WithDefaults()}
}

// Decide returns the action for the current utterance. The state must already
// hold the utterance as its last candidate turn and must not yet hold ev in
// its evaluation history. The state is not modified.
func (p *Policy) Decide(utterance string, ev interview.Evaluation, s *interview.SessionState) interview.NextAction {
	text := utils.Normalize(utterance)
	challengeAsked := RequestedChallenge(text)
	next := interview.NextTopic(s.Position, s.TopicsCovered)

	scores := append(s.Scores(), ev.OverallScore)
	avg := interview.Mean(scores)

	topicAnswers := s.TopicAnswers(s.CurrentTopic)
	topicScores := make([]float64, 0, len(topicAnswers)+1)
	for _, a := range topicAnswers {
		topicScores = append(topicScores, a.OverallScore)
	}
	topicScores = append(topicScores, ev.OverallScore)
	topicMastery := interview.MasteryFor(interview.Mean(topicScores))

	// 1. Explicit request for a practical exercise.
	if challengeAsked && !s.HasChallengeBeenOffered {
		return action(1, interview.ActionOfferChallenge, "", 0.99, interview.PriorityCritical,
			"кандидат попросил практическое задание")
	}

	// 2. Short filler answers.
	if utils.RuneLen(text) < p.cfg.ShortUtteranceRunes && utils.ContainsAnyPhrase(text, fillerPhrases) {
		if p.previousTwoShort(s) {
			return action(2, interview.ActionChangeTopic, next, 0.8, interview.PriorityHigh,
				"третий подряд короткий ответ, меняем тему")
		}
		return action(2, interview.ActionDeepDiveTopic, "", 0.7, interview.PriorityMedium,
			"короткий ответ, уточняем вопрос")
	}

	// 3. Candidate does not know the topic.
	if ev.IsNegative && !challengeAsked {
		if next == interview.WrapUp {
			return action(3, interview.ActionCompleteInterview, "", 0.85, interview.PriorityHigh,
				"кандидат не знает тему, а новых тем не осталось")
		}
		return action(3, interview.ActionChangeTopic, next, 0.85, interview.PriorityHigh,
			"кандидат не знает тему")
	}

	// 4. Candidate shows potential for a practical task.
	if !s.HasChallengeBeenOffered && p.showsPotential(ev, scores, avg) {
		return action(4, interview.ActionOfferChallenge, "", 0.9, interview.PriorityHigh,
			fmt.Sprintf("кандидат показывает потенциал (средний балл %.1f)", avg))
	}

	// 5. Excellent aggregate result.
	if avg >= p.cfg.ExcellentScore && s.Exchanges() >= p.cfg.EarlyExitExchanges && s.CoveredCount() >= p.cfg.MinTopics {
		return action(5, interview.ActionCompleteInterview, "", 0.95, interview.PriorityHigh,
			fmt.Sprintf("отличный результат: средний балл %.1f", avg))
	}

	// 6. Good answer or mastered topic.
	if (ev.OverallScore >= p.cfg.GoodScore && !ev.NeedsReview) ||
		(topicMastery == interview.MasteryAdvanced && len(topicScores) >= 2) {
		return action(6, interview.ActionNextTopic, next, 0.85, interview.PriorityMedium,
			fmt.Sprintf("тема освоена (балл %.1f)", ev.OverallScore))
	}

	// 7. Topic starvation guard.
	if len(topicScores) >= p.cfg.MaxAnswersPerTopic {
		return action(7, interview.ActionNextTopic, next, 0.75, interview.PriorityMedium,
			fmt.Sprintf("по теме уже %d ответа", len(topicScores)))
	}

	// 8. Weak answer: same topic, another depth.
	if ev.OverallScore < p.cfg.LowScore || ev.Mastery == interview.MasteryBeginner || ev.Mastery == interview.MasteryNovice {
		return action(8, interview.ActionDeepDiveTopic, "", 0.7, interview.PriorityMedium,
			fmt.Sprintf("слабый ответ (балл %.1f), уточняем", ev.OverallScore))
	}

	// 9. Default.
	return action(9, interview.ActionContinueTopic, "", 0.6, interview.PriorityLow, "продолжаем тему")
}

// RequestedChallenge reports whether the normalized text asks for a practical task.
func RequestedChallenge(text string) bool {
	return utils.ContainsAnyPhrase(text, challengePhrases)
}

func (p *Policy) showsPotential(ev interview.Evaluation, scores []float64, avg float64) bool {
	if ev.OverallScore >= p.cfg.ChallengePotentialScore {
		return true
	}
	if len(scores) >= 3 && avg >= p.cfg.ChallengeAverageScore {
		return true
	}

	high := 0
	for _, s := range scores {
		if s >= p.cfg.HighAnswerScore {
			high++
		}
	}
	if high >= 2 {
		return true
	}

	return p.cfg.ForceEarlyChallenge && len(scores) == 1
}

// previousTwoShort checks the two candidate turns before the current one.
func (p *Policy) previousTwoShort(s *interview.SessionState) bool {
	turns := s.CandidateTurns()
	if len(turns) < 3 {
		return false
	}
	for _, t := range turns[len(turns)-3 : len(turns)-1] {
		if utils.RuneLen(t.Text) >= p.cfg.ShortUtteranceRunes {
			return false
		}
	}
	return true
}

func action(rule int, typ interview.ActionType, target interview.Topic, confidence float64, priority interview.Priority, rationale string) interview.NextAction {
	return interview.NextAction{
		Type:        typ,
		TargetTopic: target,
		Rationale:   rationale,
		Confidence:  confidence,
		Priority:    priority,
		Rule:        rule,
	}
}
