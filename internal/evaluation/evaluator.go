package evaluation

import (
	"math"
	"strings"

	"github.com/spigell/hh-interviewer/internal/interview"
	"github.com/spigell/hh-interviewer/internal/utils"
)

const (
	negativeScore  = 3.0
	codeBonus      = 2.0
	structuredHigh = 8.0
	// wrapUpRelevance is used for topics without a dictionary.
	wrapUpRelevance = 5.0
)

// Evaluator scores candidate answers with lexical heuristics.
type Evaluator struct {
	cfg interview.Config
}

// New creates an Evaluator. Zero config values fall back to defaults.
func New(cfg interview.Config) *Evaluator {
	return &Evaluator{cfg: cfg.WithDefaults()}
}

// Evaluate scores the utterance against the topic. It never fails: empty
// input yields a valid, very low score.
func (e *Evaluator) Evaluate(utterance string, topic interview.Topic) interview.Evaluation {
	text := utils.Normalize(utterance)
	length := float64(utils.RuneLen(text))
	keywords := topic.Keywords()

	relevance := wrapUpRelevance
	if len(keywords) > 0 {
		matches := utils.CountOccurrences(text, keywords)
		relevance = math.Min(10, float64(matches)/float64(len(keywords))*e.cfg.RelevanceScale)
	}

	terms := utils.CountDistinct(text, technicalTerms)
	hasCode := containsAny(strings.ToLower(utterance), codeMarkers)

	depth := float64(terms) * 2
	if hasCode {
		depth += codeBonus
	}
	depth += lengthBonus(length)
	depth = math.Min(10, depth)

	completeness := math.Min(10, length/20+float64(terms)*0.7)
	structure := structureScore(text, length)
	negative := IsNegative(utterance)

	var overall float64
	if negative {
		overall = negativeScore
	} else {
		overall = (completeness + depth + structure + relevance) / 4
		switch {
		case length > 300 && terms >= 5:
			overall += 1
		case length > 150 && terms >= 3:
			overall += 0.5
		}
		overall = math.Min(10, overall)
	}

	ev := interview.Evaluation{
		Completeness:   interview.Round(completeness, 1),
		TechnicalDepth: interview.Round(depth, 1),
		Structure:      interview.Round(structure, 1),
		Relevance:      interview.Round(relevance, 1),
		OverallScore:   interview.Round(overall, 1),
		IsNegative:     negative,
		HasCode:        hasCode,
		TechnicalTerms: terms,
	}
	ev.NeedsReview = !negative && len(keywords) > 0 && ev.Relevance < e.cfg.ReviewRelevance
	ev.Mastery = interview.MasteryFor(ev.OverallScore)
	ev.Strengths, ev.Improvements = feedback(ev, topic)

	return ev
}

// IsNegative reports whether the whole trimmed answer is, starts with or ends
// with a negation phrase. A negation in the middle of a longer answer does not count.
func IsNegative(utterance string) bool {
	text := utils.TrimPunctuation(utils.Normalize(utterance))
	if text == "" {
		return false
	}

	for _, p := range exactNegations {
		if text == p {
			return true
		}
	}

	for _, p := range negationPhrases {
		if text == p || utils.HasPrefixPhrase(text, p) || utils.HasSuffixPhrase(text, p) {
			return true
		}
	}

	return false
}

func lengthBonus(length float64) float64 {
	switch {
	case length > 300:
		return 2
	case length > 150:
		return 1
	default:
		return 0
	}
}

func structureScore(text string, length float64) float64 {
	words := len(strings.Fields(text))
	punct := strings.Count(text, ",") + strings.Count(text, ".") + strings.Count(text, ";") + strings.Count(text, ":")

	dense := words >= 10 && float64(punct)/float64(words) >= 0.15
	if utils.ContainsAnyPhrase(text, connectives) || enumerated(text) || dense || length > 250 {
		return structuredHigh
	}

	switch {
	case length > 100:
		return 6
	case length > 40:
		return 4
	default:
		return 2
	}
}

func enumerated(text string) bool {
	return (strings.Contains(text, "1.") && strings.Contains(text, "2.")) ||
		(strings.Contains(text, "1)") && strings.Contains(text, "2)"))
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func feedback(ev interview.Evaluation, topic interview.Topic) (strengths, improvements []string) {
	if ev.IsNegative {
		return nil, []string{"Изучить тему «" + topic.Title() + "»"}
	}

	if ev.TechnicalDepth >= 7 {
		strengths = append(strengths, "Глубокое техническое понимание")
	}
	if ev.Relevance >= 7 {
		strengths = append(strengths, "Ответы по существу темы")
	}
	if ev.Structure >= structuredHigh {
		strengths = append(strengths, "Структурированное изложение")
	}
	if ev.HasCode {
		strengths = append(strengths, "Подкрепляет ответы примерами кода")
	}
	if ev.Completeness >= 7 {
		strengths = append(strengths, "Развёрнутые ответы")
	}

	if ev.TechnicalDepth < 4 {
		improvements = append(improvements, "Добавлять больше технических деталей")
	}
	if ev.Relevance < 4 {
		improvements = append(improvements, "Точнее отвечать на вопрос по теме")
	}
	if ev.Completeness < 4 {
		improvements = append(improvements, "Давать более развёрнутые ответы")
	}
	if ev.Structure < 5 {
		improvements = append(improvements, "Структурировать ответ: тезис, пример, вывод")
	}

	return strengths, improvements
}
