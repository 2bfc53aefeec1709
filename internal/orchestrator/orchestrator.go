// Package orchestrator runs interview turns end to end: it scores answers,
// picks the next step, asks the language model for the interviewer reply and
// produces the final report.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/hh-interviewer/internal/ai"
	"github.com/spigell/hh-interviewer/internal/decision"
	"github.com/spigell/hh-interviewer/internal/evaluation"
	"github.com/spigell/hh-interviewer/internal/interview"
	"github.com/spigell/hh-interviewer/internal/logger"
	"github.com/spigell/hh-interviewer/internal/postprocess"
	"github.com/spigell/hh-interviewer/internal/prompting"
	"github.com/spigell/hh-interviewer/internal/report"
	"github.com/spigell/hh-interviewer/internal/session"
)

// ReportRepository is the cold store for finished reports.
type ReportRepository interface {
	SaveReport(ctx context.Context, r *interview.Report) error
}

// Greeting is returned when a session starts.
type Greeting struct {
	SessionID    string             `json:"session_id"`
	Text         string             `json:"text"`
	Position     interview.Position `json:"position"`
	CurrentTopic interview.Topic    `json:"current_topic"`
	// Resumed is set when the session already existed.
	Resumed bool `json:"resumed"`
}

// Utterance is one candidate message.
type Utterance struct {
	SessionID string
	Text      string
	// Position is used only to create the session on first contact.
	Position interview.Position
	// OnChunk switches the provider to streaming and receives reply chunks as they arrive.
	OnChunk func(chunk string)
}

// Reply is the interviewer answer to one utterance.
type Reply struct {
	SessionID    string                `json:"session_id"`
	Text         string                `json:"text"`
	IsComplete   bool                  `json:"is_complete"`
	Report       *interview.Report     `json:"report,omitempty"`
	CurrentTopic interview.Topic       `json:"current_topic"`
	Progress     interview.Progress    `json:"progress"`
	Action       *interview.NextAction `json:"action,omitempty"`
	Evaluation   *interview.Evaluation `json:"evaluation,omitempty"`
	// Fallback is set when the text is a canned reply.
	Fallback bool `json:"fallback"`
}

// Orchestrator coordinates interview sessions.
type Orchestrator struct {
	store    session.Store
	provider ai.Provider
	repo     ReportRepository

	cfg       interview.Config
	evaluator *evaluation.Evaluator
	detector  *decision.Detector
	policy    *decision.Policy
	builder   *prompting.Builder
	pipeline  *postprocess.Pipeline
	generator *report.Generator

	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	mu      sync.Mutex
	entries map[string]*entry

	stats stats
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger.OrNop(l) }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithConfig sets the engine thresholds.
func WithConfig(cfg interview.Config) Option {
	return func(o *Orchestrator) { o.cfg = cfg.WithDefaults() }
}

// WithReportRepository persists finished reports.
func WithReportRepository(r ReportRepository) Option {
	return func(o *Orchestrator) { o.repo = r }
}

// WithPipeline replaces the reply post-processing pipeline.
func WithPipeline(p *postprocess.Pipeline) Option {
	return func(o *Orchestrator) { o.pipeline = p }
}

// WithGenerator replaces the report generator.
func WithGenerator(g *report.Generator) Option {
	return func(o *Orchestrator) { o.generator = g }
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(f func() string) Option {
	return func(o *Orchestrator) { o.newID = f }
}

// New creates an Orchestrator. A nil store is replaced with an in-memory one.
func New(store session.Store, provider ai.Provider, opts ...Option) (*Orchestrator, error) {
	if provider == nil {
		return nil, errors.New("orchestrator: provider is required")
	}
	if store == nil {
		store = session.NewMemoryStore()
	}

	o := &Orchestrator{
		store:    store,
		provider: provider,
		cfg:      interview.DefaultConfig(),
		logger:   zap.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
		entries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(o)
	}

	o.evaluator = evaluation.New(o.cfg)
	o.detector = decision.NewDetector(o.cfg)
	o.policy = decision.NewPolicy(o.cfg)
	o.builder = prompting.NewBuilder(o.cfg.HistoryWindow)
	if o.pipeline == nil {
		o.pipeline = postprocess.Default(postprocess.Config{}, o.logger)
	}
	if o.generator == nil {
		o.generator = report.New(report.Config{},
			report.WithProvider(provider),
			report.WithLogger(o.logger),
			report.WithClock(o.now),
		)
	}

	return o, nil
}

// Config returns the effective engine thresholds.
func (o *Orchestrator) Config() interview.Config {
	return o.cfg
}

func (o *Orchestrator) sessionLogger(s *interview.SessionState) *zap.Logger {
	return logger.WithFields(o.logger, logger.SessionFields(s.SessionID, string(s.Position), string(s.CurrentTopic))...)
}
