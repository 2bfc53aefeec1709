package interview

import (
	"fmt"
	"strings"
)

// Position is the target role category of an interview.
type Position string

const (
	PositionFrontend  Position = "frontend"
	PositionBackend   Position = "backend"
	PositionFullstack Position = "fullstack"
)

// Topic identifies a subject area of a position curriculum.
type Topic string

// WrapUp is the terminal pseudo-topic reached once the curriculum is exhausted.
const WrapUp Topic = "wrap-up"

const (
	TopicHTMLCSS         Topic = "html_css"
	TopicJavaScript      Topic = "javascript"
	TopicReact           Topic = "react"
	TopicStateManagement Topic = "state_management"
	TopicWebPerformance  Topic = "web_performance"
	TopicFrontendTesting Topic = "frontend_testing"
	TopicHTTPAPI         Topic = "http_api"
	TopicDatabases       Topic = "databases"
	TopicConcurrency     Topic = "concurrency"
	TopicArchitecture    Topic = "architecture"
	TopicSecurity        Topic = "security"
	TopicDevOps          Topic = "devops"
)

type topicInfo struct {
	title    string
	keywords []string
}

// Keywords are lowercase stems matched as substrings.
var topics = map[Topic]topicInfo{
	TopicHTMLCSS: {
		title: "HTML и CSS",
		keywords: []string{"html", "css", "flex", "grid", "селектор", "семантик", "верстк",
			"адаптив", "media", "блочн", "специфичност", "box-sizing"},
	},
	TopicJavaScript: {
		title: "JavaScript",
		keywords: []string{"замыкани", "closure", "promise", "async", "await", "event loop",
			"прототип", "prototype", "this", "область видимости", "scope", "hoisting", "callback"},
	},
	TopicReact: {
		title: "React",
		keywords: []string{"react", "компонент", "component", "hook", "хук", "useeffect",
			"usestate", "props", "jsx", "virtual dom", "виртуальн", "рендер", "render"},
	},
	TopicStateManagement: {
		title: "Управление состоянием",
		keywords: []string{"redux", "mobx", "store", "состояни", "state", "context", "reducer",
			"action", "селектор", "zustand", "иммутабельн", "immutable"},
	},
	TopicWebPerformance: {
		title: "Производительность фронтенда",
		keywords: []string{"lazy", "ленив", "bundle", "бандл", "кэш", "cache", "memo",
			"lighthouse", "оптимиз", "debounce", "throttle", "code splitting"},
	},
	TopicFrontendTesting: {
		title: "Тестирование фронтенда",
		keywords: []string{"jest", "тест", "test", "mock", "мок", "testing library", "e2e",
			"cypress", "playwright", "покрыти", "coverage", "snapshot"},
	},
	TopicHTTPAPI: {
		title: "HTTP и API",
		keywords: []string{"http", "rest", "api", "grpc", "status", "статус", "заголов", "header",
			"json", "идемпотент", "graphql", "endpoint"},
	},
	TopicDatabases: {
		title: "Базы данных",
		keywords: []string{"sql", "индекс", "index", "транзакц", "transaction", "join",
			"нормализ", "postgres", "mysql", "nosql", "изоляци", "запрос"},
	},
	TopicConcurrency: {
		title: "Конкурентность",
		keywords: []string{"поток", "thread", "goroutine", "горутин", "mutex", "мьютекс",
			"канал", "channel", "гонк", "race", "deadlock", "блокировк"},
	},
	TopicArchitecture: {
		title: "Архитектура",
		keywords: []string{"микросервис", "microservice", "монолит", "паттерн", "pattern",
			"solid", "слой", "layer", "очеред", "queue", "масштабир", "ddd"},
	},
	TopicSecurity: {
		title: "Безопасность",
		keywords: []string{"xss", "csrf", "sql injection", "инъекц", "jwt", "oauth", "токен",
			"token", "шифрован", "хеш", "hash", "cors"},
	},
	TopicDevOps: {
		title: "DevOps и инфраструктура",
		keywords: []string{"docker", "kubernetes", "k8s", "ci/cd", "pipeline", "деплой",
			"deploy", "мониторинг", "логирован", "nginx", "terraform", "helm"},
	},
	WrapUp: {
		title: "Завершение интервью",
	},
}

var curricula = map[Position][]Topic{
	PositionFrontend: {
		TopicHTMLCSS, TopicJavaScript, TopicReact, TopicStateManagement,
		TopicWebPerformance, TopicFrontendTesting,
	},
	PositionBackend: {
		TopicHTTPAPI, TopicDatabases, TopicConcurrency, TopicArchitecture,
		TopicSecurity, TopicDevOps,
	},
	PositionFullstack: {
		TopicJavaScript, TopicReact, TopicHTTPAPI, TopicDatabases,
		TopicArchitecture, TopicDevOps,
	},
}

var greetings = map[Position]string{
	PositionFrontend: "Здравствуйте! Я проведу с вами техническое интервью на позицию фронтенд-разработчика. " +
		"Начнём с основ: расскажите, как вы подходите к вёрстке адаптивных страниц?",
	PositionBackend: "Здравствуйте! Я проведу с вами техническое интервью на позицию бэкенд-разработчика. " +
		"Для начала расскажите, как вы проектируете HTTP API и на что обращаете внимание?",
	PositionFullstack: "Здравствуйте! Я проведу с вами техническое интервью на позицию fullstack-разработчика. " +
		"Начнём с JavaScript: что такое замыкание и где вы его применяли?",
}

// Positions returns the supported positions in display order.
func Positions() []Position {
	return []Position{PositionFrontend, PositionBackend, PositionFullstack}
}

// ParsePosition converts user input into a Position.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := curricula[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPosition, s)
	}
	return p, nil
}

// Valid reports whether p is one of the supported positions.
func (p Position) Valid() bool {
	_, ok := curricula[p]
	return ok
}

// Curriculum returns a copy of the ordered topic list of the position.
func Curriculum(p Position) []Topic {
	return append([]Topic(nil), curricula[p]...)
}

// NextTopic returns the first curriculum topic absent from covered, or WrapUp.
func NextTopic(p Position, covered []Topic) Topic {
	seen := make(map[Topic]struct{}, len(covered))
	for _, t := range covered {
		seen[t] = struct{}{}
	}
	for _, t := range curricula[p] {
		if _, ok := seen[t]; !ok {
			return t
		}
	}
	return WrapUp
}

// Greeting returns the opening line for the position.
func Greeting(p Position) string {
	return greetings[p]
}

// Title returns the human-readable topic name.
func (t Topic) Title() string {
	if info, ok := topics[t]; ok {
		return info.title
	}
	return string(t)
}

// Keywords returns the topic dictionary. WrapUp and unknown topics have none.
func (t Topic) Keywords() []string {
	return topics[t].keywords
}
