package prompting

import (
	"fmt"
	"strings"

	_ "embed"

	"github.com/spigell/hh-interviewer/internal/interview"
)

//go:embed interviewer.md
var interviewerTemplate string

//go:embed closing.md
var closingTemplate string

const (
	maxUtteranceRunes   = 2000
	maxHistoryTurnRunes = 400
	defaultHistory      = 12
)

var instructions = map[interview.ActionType]string{
	interview.ActionContinueTopic: "Продолжи текущую тему: задай следующий вопрос того же уровня сложности.",
	interview.ActionDeepDiveTopic: "Останься в текущей теме, но зайди с другой стороны: задай уточняющий или " +
		"более простой наводящий вопрос.",
	interview.ActionNextTopic: "Коротко отметь ответ и переходи к следующей теме: задай первый вопрос по ней.",
	interview.ActionChangeTopic: "Поддержи кандидата, не задерживайся на текущей теме и переходи к следующей " +
		"теме с простого вопроса.",
	interview.ActionOfferChallenge: "Предложи кандидату небольшое практическое задание по текущей теме: " +
		"опиши условие в 2-3 предложениях и попроси рассказать решение.",
	interview.ActionCompleteInterview: "Поблагодари кандидата и заверши интервью, новых вопросов не задавай.",
}

// wrapUpInstruction replaces the move instruction once no curriculum topic is left.
const wrapUpInstruction = "Все темы пройдены. Коротко отметь ответ, поблагодари кандидата и спроси, " +
	"хочет ли он что-то добавить. Новых технических вопросов не задавай."

var positionTitles = map[interview.Position]string{
	interview.PositionFrontend:  "фронтенд-разработчика",
	interview.PositionBackend:   "бэкенд-разработчика",
	interview.PositionFullstack: "fullstack-разработчика",
}

var reasonTitles = map[interview.CompletionReason]string{
	interview.ReasonUserRequested:       "кандидат попросил закончить",
	interview.ReasonLimitReached:        "достигнут лимит вопросов",
	interview.ReasonCurriculumExhausted: "все темы пройдены",
	interview.ReasonExcellentResult:     "кандидат показал отличный результат",
	interview.ReasonGoodCoverage:        "темы раскрыты достаточно полно",
	interview.ReasonMinimumViable:       "собрано достаточно информации",
	interview.ReasonPolicy:              "собрано достаточно информации",
	interview.ReasonLLMFailure:          "технические неполадки",
	interview.ReasonForced:              "интервью остановлено",
}

// Builder renders prompts for the LLM provider.
type Builder struct {
	historyWindow int
}

// NewBuilder creates a Builder that includes up to historyWindow recent turns.
func NewBuilder(historyWindow int) *Builder {
	if historyWindow <= 0 {
		historyWindow = defaultHistory
	}
	return &Builder{historyWindow: historyWindow}
}

// Build renders the interviewer prompt for one turn.
func (b *Builder) Build(s *interview.SessionState, utterance string, ev interview.Evaluation, action interview.NextAction) string {
	target := s.CurrentTopic
	if action.MovesTopic() {
		target = action.TargetTopic
	}

	replacer := strings.NewReplacer(
		"{{POSITION}}", PositionTitle(s.Position),
		"{{TOPIC}}", s.CurrentTopic.Title(),
		"{{TARGET_TOPIC}}", target.Title(),
		"{{EVALUATION}}", summarize(ev),
		"{{INSTRUCTION}}", instructionFor(action),
		"{{HISTORY}}", b.history(s),
		"{{UTTERANCE}}", Sanitize(utterance, maxUtteranceRunes),
	)
	return replacer.Replace(interviewerTemplate)
}

// Closing renders the farewell prompt.
func (b *Builder) Closing(s *interview.SessionState, utterance string, reason interview.CompletionReason) string {
	topics := make([]string, 0, len(s.TopicsCovered))
	for _, t := range s.TopicsCovered {
		if t != interview.WrapUp {
			topics = append(topics, t.Title())
		}
	}

	replacer := strings.NewReplacer(
		"{{POSITION}}", PositionTitle(s.Position),
		"{{REASON}}", ReasonTitle(reason),
		"{{TOPICS}}", strings.Join(topics, ", "),
		"{{UTTERANCE}}", Sanitize(utterance, maxUtteranceRunes),
	)
	return replacer.Replace(closingTemplate)
}

// Instruction returns the directive for the action type.
func Instruction(t interview.ActionType) string {
	if text, ok := instructions[t]; ok {
		return text
	}
	return instructions[interview.ActionContinueTopic]
}

func instructionFor(a interview.NextAction) string {
	if a.MovesTopic() && a.TargetTopic == interview.WrapUp {
		return wrapUpInstruction
	}
	return Instruction(a.Type)
}

// PositionTitle returns the Russian position name used in prompts.
func PositionTitle(p interview.Position) string {
	if title, ok := positionTitles[p]; ok {
		return title
	}
	return string(p)
}

// ReasonTitle returns a human-readable completion reason.
func ReasonTitle(r interview.CompletionReason) string {
	if title, ok := reasonTitles[r]; ok {
		return title
	}
	return string(r)
}

// Sanitize makes candidate text safe to embed: it is trimmed, bracketed role
// markers are neutralized, fences are broken and the length is capped.
func Sanitize(s string, limit int) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("[", "(", "]", ")", `"""`, `''`, "{{", "{ {", "}}", "} }").Replace(s)

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		kept = append(kept, line)
	}
	s = strings.Join(kept, "\n")

	if limit > 0 {
		if runes := []rune(s); len(runes) > limit {
			s = string(runes[:limit])
		}
	}

	if s == "" {
		return "(пустой ответ)"
	}
	return s
}

func (b *Builder) history(s *interview.SessionState) string {
	turns := s.ConversationHistory
	if len(turns) > b.historyWindow {
		turns = turns[len(turns)-b.historyWindow:]
	}

	var sb strings.Builder
	for _, t := range turns {
		who := "Интервьюер"
		if t.Role == interview.RoleCandidate {
			who = "Кандидат"
		}
		fmt.Fprintf(&sb, "%s: %s\n", who, strings.ReplaceAll(Sanitize(t.Text, maxHistoryTurnRunes), "\n", " "))
	}

	if sb.Len() == 0 {
		return "(пусто)"
	}
	return strings.TrimRight(sb.String(), "\n")
}

func summarize(ev interview.Evaluation) string {
	if ev.IsNegative {
		return "кандидат не знает ответа"
	}
	return fmt.Sprintf("%.1f из 10 (уровень: %s, глубина %.1f, релевантность %.1f)",
		ev.OverallScore, ev.Mastery, ev.TechnicalDepth, ev.Relevance)
}
