// Package report turns a finished interview into a hire recommendation.
package report

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/hh-interviewer/internal/ai"
	"github.com/spigell/hh-interviewer/internal/interview"
	"github.com/spigell/hh-interviewer/internal/logger"
)

type rung struct {
	minScore       float64
	minStrong      int
	maxWeak        int
	level          string
	recommendation string
	confidence     float64
}

// ladder is checked top to bottom. maxWeak < 0 means no limit.
var ladder = []rung{
	{minScore: 8.5, minStrong: 3, maxWeak: 0, level: "Senior", recommendation: interview.RecommendationStrongHire, confidence: 0.9},
	{minScore: 7.5, maxWeak: 1, level: "Middle+", recommendation: interview.RecommendationHire, confidence: 0.8},
	{minScore: 6.5, maxWeak: -1, level: "Middle", recommendation: interview.RecommendationHire, confidence: 0.7},
	{minScore: 5.0, maxWeak: -1, level: "Junior", recommendation: interview.RecommendationConsider, confidence: 0.6},
	{minScore: 0, maxWeak: -1, level: "Trainee", recommendation: interview.RecommendationNoHire, confidence: 0.4},
}

// Generator builds reports.
type Generator struct {
	cfg      Config
	provider ai.Provider
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithProvider enables LLM-written feedback.
func WithProvider(p ai.Provider) Option {
	return func(g *Generator) { g.provider = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = logger.OrNop(l) }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator. Zero config values fall back to defaults.
func New(cfg Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:    cfg.withDefaults(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the report for the state. It never fails: without
// evaluations an empty report is produced, and a failing full generation
// degrades to a fallback report.
func (g *Generator) Generate(ctx context.Context, s *interview.SessionState, c interview.Completion) *interview.Report {
	log := logger.WithSession(g.logger, s.SessionID, string(s.Position))

	if len(s.EvaluationHistory) == 0 {
		log.Info("generating empty report", zap.String("reason", string(c.Reason)))
		return g.empty(s, c)
	}

	r, err := g.safeFull(ctx, s, c)
	if err != nil {
		log.Error("full report generation failed, using fallback",
			zap.Error(err),
			zap.Int("discarded_evaluations", len(s.EvaluationHistory)),
			zap.Float64("discarded_average_score", interview.Round(s.AverageScore(), 2)),
			zap.Int("discarded_topics", s.CoveredCount()),
		)
		return g.fallback(s, c)
	}

	log.Info("report generated",
		zap.Float64("final_score", r.FinalScore),
		zap.String("level", r.Level),
		zap.String("recommendation", r.Recommendation),
	)
	return r
}

func (g *Generator) safeFull(ctx context.Context, s *interview.SessionState, c interview.Completion) (r *interview.Report, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	return g.full(ctx, s, c), nil
}

func (g *Generator) full(ctx context.Context, s *interview.SessionState, c interview.Completion) *interview.Report {
	r := g.base(s, c, interview.ReportFull)
	r.FinalScore = interview.Round(s.AverageScore(), 1)
	r.TopicScores = topicScores(s)

	for _, ts := range r.TopicScores {
		switch {
		case ts.AverageScore >= g.cfg.StrongTopicScore:
			r.StrongAreas = append(r.StrongAreas, ts)
		case ts.AverageScore < g.cfg.WeakTopicScore:
			r.WeakAreas = append(r.WeakAreas, ts)
		}
	}

	step := decide(r.FinalScore, len(r.StrongAreas), len(r.WeakAreas))
	r.Level, r.Recommendation, r.Confidence = step.level, step.recommendation, step.confidence

	var strengths, improvements []string
	for _, rec := range s.EvaluationHistory {
		strengths = append(strengths, rec.Evaluation.Strengths...)
		improvements = append(improvements, rec.Evaluation.Improvements...)
	}
	r.Strengths = topK(strengths, g.cfg.TopK)
	r.Improvements = topK(improvements, g.cfg.TopK)
	r.Behavior = g.behavior(s)

	n := g.narrate(ctx, r)
	r.Feedback, r.NextSteps = n.Feedback, n.NextSteps
	return r
}

func (g *Generator) empty(s *interview.SessionState, c interview.Completion) *interview.Report {
	r := g.base(s, c, interview.ReportEmpty)
	r.Level = "Не определён"
	r.Recommendation = interview.RecommendationNoHire

	if c.Reason == interview.ReasonLLMFailure || s.LLMErrorCount > 0 {
		r.Feedback = "Интервью не удалось провести из-за сбоя языковой модели. Оценка кандидата не проводилась."
		r.Improvements = []string{"Повторить интервью после восстановления сервиса"}
	} else {
		r.Feedback = "Кандидат не дал ни одного ответа, поэтому оценить его знания невозможно."
		r.Improvements = []string{"Ответить хотя бы на несколько вопросов интервью"}
	}
	r.NextSteps = []string{"Назначить повторное интервью"}
	return r
}

func (g *Generator) fallback(s *interview.SessionState, c interview.Completion) *interview.Report {
	r := g.base(s, c, interview.ReportFallback)
	r.FinalScore = interview.Round(s.AverageScore(), 1)
	r.Level = "Не определён"
	r.Recommendation = interview.RecommendationConsider
	r.Confidence = 0.3
	r.Feedback = "Подробный отчёт сформировать не удалось. Рекомендуется просмотреть запись интервью вручную."
	r.NextSteps = []string{"Провести ручную оценку интервью"}
	return r
}

func (g *Generator) base(s *interview.SessionState, c interview.Completion, kind interview.ReportKind) *interview.Report {
	topics := make([]interview.Topic, 0, len(s.TopicsCovered))
	for _, t := range s.TopicsCovered {
		if t != interview.WrapUp {
			topics = append(topics, t)
		}
	}

	counts := make(map[interview.ActionType]int)
	for _, a := range s.ActionsHistory {
		counts[a.Type]++
	}

	answers := s.Exchanges()
	return &interview.Report{
		SessionID:        s.SessionID,
		Position:         s.Position,
		Kind:             kind,
		CompletionReason: c.Reason,
		UserRequested:    c.UserRequested,
		Analytics: interview.Analytics{
			DurationSeconds: interview.Round(s.LastActivity.Sub(s.SessionStart).Seconds(), 1),
			QuestionCount:   len(s.ConversationHistory) - answers,
			AnswerCount:     answers,
			TopicsCovered:   topics,
			ActionCounts:    counts,
			LLMErrors:       s.LLMErrorCount,
			ChallengeOffer:  s.HasChallengeBeenOffered,
		},
		GeneratedAt: g.now(),
	}
}

func decide(score float64, strong, weak int) rung {
	for _, r := range ladder {
		if score < r.minScore || strong < r.minStrong {
			continue
		}
		if r.maxWeak >= 0 && weak > r.maxWeak {
			continue
		}
		return r
	}
	return ladder[len(ladder)-1]
}

// topicScores aggregates answers per topic in order of first appearance.
func topicScores(s *interview.SessionState) []interview.TopicScore {
	var order []interview.Topic
	overall := make(map[interview.Topic][]float64)
	depth := make(map[interview.Topic][]float64)

	for _, rec := range s.EvaluationHistory {
		if _, ok := overall[rec.Topic]; !ok {
			order = append(order, rec.Topic)
		}
		overall[rec.Topic] = append(overall[rec.Topic], rec.Evaluation.OverallScore)
		depth[rec.Topic] = append(depth[rec.Topic], rec.Evaluation.TechnicalDepth)
	}

	out := make([]interview.TopicScore, 0, len(order))
	for _, t := range order {
		out = append(out, interview.TopicScore{
			Topic:          t,
			Title:          t.Title(),
			AverageScore:   interview.Round(interview.Mean(overall[t]), 1),
			TechnicalDepth: interview.Round(interview.Mean(depth[t]), 1),
			Answers:        len(overall[t]),
		})
	}
	return out
}

// topK returns the k most frequent items. Ties keep the order of first appearance.
func topK(items []string, k int) []string {
	type entry struct {
		item  string
		count int
	}

	index := make(map[string]int)
	var entries []entry
	for _, it := range items {
		if i, ok := index[it]; ok {
			entries[i].count++
			continue
		}
		index[it] = len(entries)
		entries = append(entries, entry{item: it, count: 1})
	}

	slices.SortStableFunc(entries, func(a, b entry) int { return b.count - a.count })

	if len(entries) > k {
		entries = entries[:k]
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.item)
	}
	return out
}
