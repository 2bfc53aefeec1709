package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/hh-interviewer/internal/ai"
	"github.com/spigell/hh-interviewer/internal/interview"
	"github.com/spigell/hh-interviewer/internal/prompting"
	"github.com/spigell/hh-interviewer/internal/utils"
)

// alignMinHits is the keyword count a streamed reply needs to move the topic.
const alignMinHits = 2

// SubmitUtterance processes one candidate message and returns the interviewer reply.
// Unknown sessions are created when a valid position is given.
// Provider failures are answered with a canned reply; only missing or completed
// sessions and caller cancellation are returned as errors.
func (o *Orchestrator) SubmitUtterance(ctx context.Context, u Utterance) (*Reply, error) {
	id := strings.TrimSpace(u.SessionID)
	if id == "" {
		return nil, fmt.Errorf("submit utterance: %w", interview.ErrSessionNotFound)
	}

	e := o.lock(id)
	defer o.unlock(id, e)
	o.drain(id, e)

	s, err := o.loadOrCreate(id, u.Position)
	if err != nil {
		return nil, err
	}

	now := o.now()
	s.AppendTurn(interview.RoleCandidate, u.Text, now)

	if o.detector.LLMFailure(s) {
		c := interview.Completion{
			ShouldComplete: true,
			Reason:         interview.ReasonLLMFailure,
			Progress:       interview.ProgressOf(s, o.cfg),
		}
		return o.closeSession(ctx, s, c, u, false)
	}

	if c := o.detector.Detect(s, now); c.ShouldComplete {
		return o.closeSession(ctx, s, c, u, true)
	}

	topic := s.CurrentTopic
	ev := o.evaluator.Evaluate(u.Text, topic)
	action := o.policy.Decide(u.Text, ev, s)
	s.EvaluationHistory = append(s.EvaluationHistory, interview.EvaluationRecord{
		Topic:      topic,
		Utterance:  u.Text,
		Evaluation: ev,
		Timestamp:  now,
	})

	prompt := o.builder.Build(s, u.Text, ev, action)
	scored := s.Clone()
	apply(s, action)

	log := o.sessionLogger(s)
	log.Info("candidate turn scored",
		zap.String("answered_topic", string(topic)),
		zap.Float64("score", ev.OverallScore),
		zap.String("mastery", string(ev.Mastery)),
		zap.String("action", string(action.Type)),
		zap.Int("rule", action.Rule),
		zap.String("rationale", action.Rationale),
	)

	text, fallback, err := o.reply(ctx, prompt, u.OnChunk, func(attempt int) string {
		return prompting.Fallback(action, topic, attempt)
	}, s)
	if err != nil {
		// The action was never shown to the candidate, so it is not kept.
		o.keep(scored, log)
		return nil, err
	}

	s.AppendTurn(interview.RoleInterviewer, text, o.now())

	out := &Reply{
		SessionID:  id,
		Text:       text,
		Action:     &action,
		Evaluation: &ev,
		Fallback:   fallback,
	}

	if action.Type == interview.ActionCompleteInterview {
		c := interview.Completion{
			ShouldComplete: true,
			Reason:         policyReason(action),
			Progress:       interview.ProgressOf(s, o.cfg),
		}
		return o.finish(ctx, s, c, out), nil
	}

	if err := o.store.Update(id, s); err != nil {
		return nil, fmt.Errorf("submit utterance: %w", err)
	}
	if u.OnChunk != nil && !fallback {
		o.schedule(id, e, alignTopic(text))
	}

	out.CurrentTopic = s.CurrentTopic
	out.Progress = interview.ProgressOf(s, o.cfg)
	return out, nil
}

// closeSession produces the farewell and the report for a completed session.
// The provider is skipped when it already failed too often.
func (o *Orchestrator) closeSession(ctx context.Context, s *interview.SessionState, c interview.Completion, u Utterance, askProvider bool) (*Reply, error) {
	log := o.sessionLogger(s)
	log.Info("interview completed", zap.String("reason", string(c.Reason)), zap.Bool("user_requested", c.UserRequested))

	text, fallback := prompting.ClosingFallback(), true
	if askProvider {
		var err error
		prompt := o.builder.Closing(s, u.Text, c.Reason)
		text, fallback, err = o.reply(ctx, prompt, u.OnChunk, func(int) string { return prompting.ClosingFallback() }, s)
		if err != nil {
			o.keep(s, log)
			return nil, err
		}
	} else if u.OnChunk != nil {
		u.OnChunk(text)
	}

	s.AppendTurn(interview.RoleInterviewer, text, o.now())
	return o.finish(ctx, s, c, &Reply{SessionID: s.SessionID, Text: text, Fallback: fallback}), nil
}

func (o *Orchestrator) finish(ctx context.Context, s *interview.SessionState, c interview.Completion, out *Reply) *Reply {
	out.Report = o.finalize(ctx, s, c)
	out.IsComplete = true
	out.CurrentTopic = s.CurrentTopic
	out.Progress = interview.ProgressOf(s, o.cfg)
	return out
}

// reply calls the provider. Blocking replies go through the post-processing
// pipeline; streamed replies are stored as delivered. On provider failure the
// canned text is used and the error counter grows. The error is non-nil only
// when the caller's context is done.
func (o *Orchestrator) reply(ctx context.Context, prompt string, onChunk func(string), canned func(attempt int) string, s *interview.SessionState) (string, bool, error) {
	pctx, cancel := context.WithTimeout(ctx, o.cfg.ProviderTimeout)
	defer cancel()

	var raw string
	var err error
	if onChunk != nil {
		raw, err = ai.Collect(o.provider.Stream(pctx, prompt), onChunk)
	} else {
		raw, err = o.provider.Invoke(pctx, prompt)
	}

	if ctx.Err() != nil {
		return "", false, ctx.Err()
	}

	log := o.sessionLogger(s)
	streamed := strings.TrimSpace(raw)
	switch {
	case onChunk != nil && err == nil:
		// The candidate saw the raw chunks; history keeps the same text.
		return streamed, false, nil
	case onChunk != nil && streamed != "":
		// Part of the stream was delivered already; keep it rather than mixing in a canned text.
		s.LLMErrorCount++
		log.Warn("provider stream interrupted, keeping partial reply",
			zap.Error(err),
			zap.Int("llm_errors", s.LLMErrorCount),
		)
		return streamed, false, nil
	case err == nil:
		text, ppErr := o.pipeline.Run(ctx, raw)
		if ppErr == nil {
			return text, false, nil
		}
		err = ppErr
	}

	s.LLMErrorCount++
	log.Warn("provider failed, using canned reply",
		zap.Error(err),
		zap.String("model", o.provider.Model()),
		zap.Int("llm_errors", s.LLMErrorCount),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, 120)),
	)

	text := canned(s.LLMErrorCount - 1)
	if onChunk != nil {
		onChunk(text)
	}
	return text, true, nil
}

// keep stores the state of an interrupted turn: the candidate turn and the
// scoring stay, no reply is recorded.
func (o *Orchestrator) keep(s *interview.SessionState, log *zap.Logger) {
	if err := o.store.Update(s.SessionID, s); err != nil {
		log.Warn("storing interrupted turn failed", zap.Error(err))
		return
	}
	log.Info("turn interrupted by caller, reply not recorded")
}

func (o *Orchestrator) loadOrCreate(id string, position interview.Position) (*interview.SessionState, error) {
	if s := o.store.Get(id); s != nil {
		return s, nil
	}
	if o.store.HasReport(id) {
		return nil, fmt.Errorf("session %s: %w", id, interview.ErrSessionCompleted)
	}
	if !position.Valid() {
		return nil, fmt.Errorf("session %s: %w", id, interview.ErrSessionNotFound)
	}

	s := interview.NewSessionState(id, position, o.now())
	if err := o.store.Create(id, s); err != nil {
		return nil, err
	}
	o.sessionLogger(s).Info("session created on first contact")
	return s, nil
}

// apply records the action and moves the session accordingly.
func apply(s *interview.SessionState, a interview.NextAction) {
	s.ActionsHistory = append(s.ActionsHistory, a)
	if a.MovesTopic() {
		s.CurrentTopic = a.TargetTopic
		s.CoverTopic(a.TargetTopic)
	}
	if a.Type == interview.ActionOfferChallenge {
		s.HasChallengeBeenOffered = true
	}
}

func policyReason(a interview.NextAction) interview.CompletionReason {
	switch a.Rule {
	case 3:
		return interview.ReasonCurriculumExhausted
	case 5:
		return interview.ReasonExcellentResult
	default:
		return interview.ReasonPolicy
	}
}

// alignTopic moves the session to an unvisited topic when the streamed reply
// clearly switched to it.
func alignTopic(reply string) task {
	text := utils.Normalize(reply)
	return func(s *interview.SessionState) bool {
		current := utils.CountOccurrences(text, s.CurrentTopic.Keywords())

		var best interview.Topic
		hits := 0
		for _, t := range interview.Curriculum(s.Position) {
			if s.HasCovered(t) {
				continue
			}
			if n := utils.CountOccurrences(text, t.Keywords()); n > hits {
				best, hits = t, n
			}
		}

		if best == "" || hits < alignMinHits || hits <= current {
			return false
		}
		s.CurrentTopic = best
		s.CoverTopic(best)
		return true
	}
}
