package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/hh-interviewer/internal/interview"
	"github.com/spigell/hh-interviewer/internal/prompting"
	"github.com/spigell/hh-interviewer/internal/utils"
)

//go:embed feedback.md
var feedbackTemplate string

const maxLogLength = 200

type narrative struct {
	Feedback  string   `mapstructure:"feedback"`
	NextSteps []string `mapstructure:"next_steps"`
}

// narrate asks the provider for the feedback text. The heuristic text is used
// when no provider is set, when the interview ended because the provider kept
// failing, or when its reply cannot be parsed.
func (g *Generator) narrate(ctx context.Context, r *interview.Report) narrative {
	fallback := heuristicNarrative(r)
	if g.provider == nil || r.CompletionReason == interview.ReasonLLMFailure {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.FeedbackTimeout)
	defer cancel()

	raw, err := g.provider.Invoke(ctx, feedbackPrompt(r))
	if err != nil {
		g.logger.Warn("report feedback generation failed", zap.Error(err))
		return fallback
	}

	n, err := parseNarrative(raw)
	if err != nil {
		g.logger.Warn("report feedback is malformed",
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, maxLogLength)),
		)
		return fallback
	}
	if len(n.NextSteps) == 0 {
		n.NextSteps = fallback.NextSteps
	}
	return n
}

func feedbackPrompt(r *interview.Report) string {
	return strings.NewReplacer(
		"{{POSITION}}", prompting.PositionTitle(r.Position),
		"{{SCORE}}", fmt.Sprintf("%.1f", r.FinalScore),
		"{{LEVEL}}", r.Level,
		"{{STRONG}}", joinOrDash(areaTitles(r.StrongAreas)),
		"{{WEAK}}", joinOrDash(areaTitles(r.WeakAreas)),
		"{{STRENGTHS}}", joinOrDash(r.Strengths),
		"{{IMPROVEMENTS}}", joinOrDash(r.Improvements),
	).Replace(feedbackTemplate)
}

func parseNarrative(raw string) (narrative, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return narrative{}, fmt.Errorf("parse feedback response: %w", err)
	}

	var n narrative
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &n,
	})
	if err != nil {
		return narrative{}, err
	}
	if err := decoder.Decode(data); err != nil {
		return narrative{}, fmt.Errorf("decode feedback response: %w", err)
	}

	n.Feedback = strings.TrimSpace(n.Feedback)
	if n.Feedback == "" {
		return narrative{}, fmt.Errorf("feedback response has no text")
	}

	steps := n.NextSteps[:0]
	for _, s := range n.NextSteps {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	n.NextSteps = steps
	return n, nil
}

// extractJSON strips code fences and any text around the outermost object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start != -1 && end > start {
		raw = raw[start : end+1]
	}
	return strings.TrimSpace(raw)
}

func heuristicNarrative(r *interview.Report) narrative {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Итоговый балл %.1f из 10, оценочный уровень: %s.", r.FinalScore, r.Level)
	if strong := areaTitles(r.StrongAreas); len(strong) > 0 {
		fmt.Fprintf(&sb, " Уверенные знания: %s.", strings.Join(strong, ", "))
	}
	if weak := areaTitles(r.WeakAreas); len(weak) > 0 {
		fmt.Fprintf(&sb, " Стоит подтянуть: %s.", strings.Join(weak, ", "))
	}

	var steps []string
	for _, a := range r.WeakAreas {
		steps = append(steps, "Углубить знания по теме «"+a.Title+"»")
	}
	steps = append(steps, r.Improvements...)
	if len(steps) == 0 {
		steps = []string{"Продолжать развиваться в выбранном направлении"}
	}
	if len(steps) > 3 {
		steps = steps[:3]
	}

	return narrative{Feedback: sb.String(), NextSteps: steps}
}

func areaTitles(areas []interview.TopicScore) []string {
	titles := make([]string, 0, len(areas))
	for _, a := range areas {
		titles = append(titles, a.Title)
	}
	return titles
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "нет"
	}
	return strings.Join(items, ", ")
}
