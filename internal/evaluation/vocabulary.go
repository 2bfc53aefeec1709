package evaluation

// technicalTerms is the global vocabulary counted for technical depth.
var technicalTerms = []string{
	"алгоритм", "сложност", "o(n", "big o", "структур данных", "хеш", "hash", "кэш", "cache",
	"индекс", "транзакц", "асинхрон", "async", "promise", "event loop", "поток", "thread",
	"goroutine", "mutex", "блокировк", "api", "http", "rest", "grpc", "sql", "nosql",
	"микросервис", "паттерн", "pattern", "solid", "dependency injection", "интерфейс",
	"interface", "компонент", "component", "рендер", "render", "оптимиз", "профилир",
	"масштабир", "нагрузк", "latency", "throughput", "сериализ", "json", "протокол",
	"docker", "kubernetes", "ci/cd", "тест", "mock", "рефактор", "typescript", "замыкани",
}

// connectives mark an enumerated or reasoned answer.
var connectives = []string{
	"во-первых", "во-вторых", "в-третьих", "например", "к примеру", "кроме того", "также",
	"потому что", "поэтому", "следовательно", "однако", "с одной стороны", "с другой стороны",
	"firstly", "secondly", "for example", "for instance", "because", "therefore", "however",
	"in addition", "on the other hand",
}

// codeMarkers indicate the answer contains a code sample.
var codeMarkers = []string{
	"```", "=>", "();", "function ", "func ", "const ", "let ", "return ", "select ", "{ ", "};",
}

// negationPhrases mark an answer where the candidate admits not knowing.
var negationPhrases = []string{
	"не знаю", "я не знаю", "не помню", "не уверен", "не уверена", "без понятия",
	"понятия не имею", "не сталкивался", "не сталкивалась", "не знаком", "не знакома",
	"затрудняюсь ответить", "i don't know", "i dont know", "no idea", "not sure", "idk",
}

// exactNegations count only when they are the whole answer.
var exactNegations = []string{"нет", "no", "nope", "пас", "не"}
