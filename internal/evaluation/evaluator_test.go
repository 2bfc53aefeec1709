package evaluation

import (
	"testing"

	"github.com/spigell/hh-interviewer/internal/interview"
)

const richReactAnswer = "Во-первых, компонент в React это функция, которая возвращает JSX. " +
	"Например, хук useState хранит состояние, а useEffect запускает побочные эффекты после рендера. " +
	"Во-вторых, виртуальный DOM позволяет оптимизировать рендер: React сравнивает деревья и применяет " +
	"минимальные изменения. Также важно мемоизировать компоненты через memo, чтобы избежать лишних " +
	"рендеров и снизить нагрузку."

func TestEvaluateRichAnswer(t *testing.T) {
	ev := New(interview.DefaultConfig()).Evaluate(richReactAnswer, interview.TopicReact)

	if ev.IsNegative {
		t.Fatalf("rich answer must not be negative")
	}
	if ev.Relevance != 10 {
		t.Fatalf("expected capped relevance, got %v", ev.Relevance)
	}
	if ev.Structure != 8 {
		t.Fatalf("expected structured answer, got %v", ev.Structure)
	}
	if ev.OverallScore < 8 || ev.OverallScore > 10 {
		t.Fatalf("unexpected overall score %v", ev.OverallScore)
	}
	if ev.Mastery != interview.MasteryAdvanced {
		t.Fatalf("expected advanced mastery, got %s", ev.Mastery)
	}
	if len(ev.Strengths) == 0 {
		t.Fatalf("expected strengths for a rich answer")
	}
}

func TestEvaluateShortAnswer(t *testing.T) {
	ev := New(interview.DefaultConfig()).Evaluate("Замыкание это функция", interview.TopicJavaScript)

	if ev.IsNegative {
		t.Fatalf("short answer is not a negation")
	}
	if ev.OverallScore >= 4.5 {
		t.Fatalf("expected a low score, got %v", ev.OverallScore)
	}
	if ev.Mastery != interview.MasteryNovice {
		t.Fatalf("expected novice mastery, got %s", ev.Mastery)
	}
	if len(ev.Improvements) == 0 {
		t.Fatalf("expected improvement suggestions")
	}
}

func TestEvaluateNegativeScoresExactlyThree(t *testing.T) {
	e := New(interview.DefaultConfig())

	for _, text := range []string{"не знаю", "Не знаю.", "К сожалению, не знаю", "нет", "I don't know"} {
		ev := e.Evaluate(text, interview.TopicDatabases)
		if !ev.IsNegative {
			t.Fatalf("%q must be negative", text)
		}
		if ev.OverallScore != 3 {
			t.Fatalf("%q: expected overall 3, got %v", text, ev.OverallScore)
		}
	}
}

func TestEvaluateEmptyUtterance(t *testing.T) {
	ev := New(interview.DefaultConfig()).Evaluate("   ", interview.TopicHTTPAPI)

	if ev.IsNegative {
		t.Fatalf("empty input is not a negation")
	}
	if ev.OverallScore < 0 || ev.OverallScore >= 1 {
		t.Fatalf("expected a very low score, got %v", ev.OverallScore)
	}
	if ev.Mastery != interview.MasteryNovice {
		t.Fatalf("expected novice, got %s", ev.Mastery)
	}
}

func TestEvaluateWrapUpHasNeutralRelevance(t *testing.T) {
	ev := New(interview.DefaultConfig()).Evaluate("Спасибо, вопросов нет", interview.WrapUp)
	if ev.Relevance != 5 {
		t.Fatalf("expected neutral relevance, got %v", ev.Relevance)
	}
	if ev.NeedsReview {
		t.Fatalf("wrap-up answers are never flagged for review")
	}
}

func TestIsNegative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		expect bool
	}{
		{name: "exact", text: "не знаю", expect: true},
		{name: "prefix", text: "не знаю точно, но думаю это функция", expect: true},
		{name: "suffix", text: "честно говоря, понятия не имею", expect: true},
		{name: "bare no", text: "Нет!", expect: true},
		{name: "no as a start of an answer", text: "Нет, это работает через event loop и очередь микрозадач", expect: false},
		{name: "mention inside", text: "Многие говорят не знаю, но индекс ускоряет поиск по таблице", expect: false},
		{name: "word boundary", text: "не знающий", expect: false},
		{name: "empty", text: "", expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsNegative(tt.text); got != tt.expect {
				t.Fatalf("IsNegative(%q) = %v, want %v", tt.text, got, tt.expect)
			}
		})
	}
}
