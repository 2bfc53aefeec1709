package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/hh-interviewer/internal/interview"
)

// StartSession creates the session and returns the greeting. An empty id is
// replaced with a generated one. Starting an active session again returns its
// greeting without changes.
func (o *Orchestrator) StartSession(_ context.Context, id string, position interview.Position) (*Greeting, error) {
	if !position.Valid() {
		return nil, fmt.Errorf("start session: %w: %q", interview.ErrUnknownPosition, position)
	}

	id = strings.TrimSpace(id)
	if id == "" {
		id = o.newID()
	}

	e := o.lock(id)
	defer o.unlock(id, e)

	if o.store.HasReport(id) {
		return nil, fmt.Errorf("start session %s: %w", id, interview.ErrSessionCompleted)
	}

	if s := o.store.Get(id); s != nil {
		return greeting(s, true), nil
	}

	s := interview.NewSessionState(id, position, o.now())
	if err := o.store.Create(id, s); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	o.sessionLogger(s).Info("session started")
	return greeting(s, false), nil
}

// ForceComplete ends the session now and returns its report. For a session
// that is already reported the stored report is returned.
func (o *Orchestrator) ForceComplete(ctx context.Context, id string) (*interview.Report, error) {
	e := o.lock(id)
	defer o.unlock(id, e)

	if r := o.store.GetReport(id); r != nil {
		return r, nil
	}

	o.drain(id, e)
	s := o.store.Get(id)
	if s == nil {
		return nil, fmt.Errorf("force complete %s: %w", id, interview.ErrSessionNotFound)
	}

	c := interview.Completion{
		ShouldComplete: true,
		Reason:         interview.ReasonForced,
		Progress:       interview.ProgressOf(s, o.cfg),
	}
	o.sessionLogger(s).Info("interview completed", zap.String("reason", string(c.Reason)))
	return o.finalize(ctx, s, c), nil
}

// Progress returns the status snapshot of an active session.
func (o *Orchestrator) Progress(id string) (interview.Progress, error) {
	s := o.store.Get(id)
	if s == nil {
		if o.store.HasReport(id) {
			return interview.Progress{}, fmt.Errorf("progress %s: %w", id, interview.ErrSessionCompleted)
		}
		return interview.Progress{}, fmt.Errorf("progress %s: %w", id, interview.ErrSessionNotFound)
	}
	return interview.ProgressOf(s, o.cfg), nil
}

// Report returns the stored report of a completed session.
func (o *Orchestrator) Report(id string) (*interview.Report, error) {
	if r := o.store.GetReport(id); r != nil {
		return r, nil
	}
	return nil, fmt.Errorf("report %s: %w", id, interview.ErrSessionNotFound)
}

// finalize generates and stores the report exactly once per session.
// The caller must hold the session lock.
func (o *Orchestrator) finalize(ctx context.Context, s *interview.SessionState, c interview.Completion) *interview.Report {
	if r := o.store.GetReport(s.SessionID); r != nil {
		return r
	}

	log := o.sessionLogger(s)
	gctx, cancel := context.WithTimeout(ctx, o.cfg.ProviderTimeout)
	r := o.generator.Generate(gctx, s, c)
	cancel()
	if err := o.store.SaveReport(s.SessionID, r); err != nil {
		log.Warn("saving report in session store failed", zap.Error(err))
		if stored := o.store.GetReport(s.SessionID); stored != nil {
			return stored
		}
		return r
	}
	o.stats.record(r)

	if o.repo != nil {
		if err := o.repo.SaveReport(context.WithoutCancel(ctx), r); err != nil {
			log.Error("persisting report failed", zap.Error(err))
		}
	}

	log.Info("report stored",
		zap.String("kind", string(r.Kind)),
		zap.Float64("final_score", r.FinalScore),
		zap.String("recommendation", r.Recommendation),
	)
	return r
}

// Sweep deletes sessions idle for longer than the configured maximum.
// Busy sessions are skipped; idleness is checked again at deletion time.
func (o *Orchestrator) Sweep(now time.Time) int {
	cutoff := now.Add(-o.cfg.SessionMaxIdle)

	removed := 0
	for _, id := range o.store.IdleSince(cutoff) {
		e, ok := o.tryLock(id)
		if !ok {
			continue
		}
		if o.store.DeleteIfIdle(id, cutoff) {
			removed++
			o.logger.Info("idle session removed",
				zap.String("session_id", id),
				zap.String("reason", string(interview.ReasonAbandoned)),
			)
		}
		o.unlock(id, e)
	}
	return removed
}

// RunCleanup sweeps idle sessions every interval until ctx is done.
func (o *Orchestrator) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = o.cfg.SessionMaxIdle / 4
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := o.Sweep(o.now()); n > 0 {
				o.logger.Debug("cleanup sweep finished", zap.Int("removed", n))
			}
		}
	}
}

func greeting(s *interview.SessionState, resumed bool) *Greeting {
	text := interview.Greeting(s.Position)
	if len(s.ConversationHistory) > 0 {
		text = s.ConversationHistory[0].Text
	}
	return &Greeting{
		SessionID:    s.SessionID,
		Text:         text,
		Position:     s.Position,
		CurrentTopic: s.CurrentTopic,
		Resumed:      resumed,
	}
}
