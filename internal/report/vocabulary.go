package report

// connectives mark reasoned speech.
var connectives = []string{
	"потому что", "поэтому", "например", "во-первых", "во-вторых", "кроме того", "однако",
	"следовательно", "таким образом", "в итоге", "because", "therefore", "for example", "however",
}

// solutionWords signal problem-solving talk.
var solutionWords = []string{
	"решени", "реши", "подход", "оптимизир", "исправ", "алгоритм", "шаг", "сначала", "затем",
	"проблем", "отлад", "профилир", "trade-off", "компромисс", "вариант", "solution", "approach",
	"debug", "fix",
}
