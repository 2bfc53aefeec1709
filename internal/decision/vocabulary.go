package decision

// stopPhrases end the interview on the candidate's request.
var stopPhrases = []string{
	"стоп", "хватит", "давай закончим", "давайте закончим", "закончим интервью",
	"заканчиваем", "завершим интервью", "завершить интервью", "на этом все",
	"stop", "that's enough", "finish", "end the interview", "let's end",
}

// challengePhrases are explicit requests for a practical exercise.
var challengePhrases = []string{
	"давай практику", "давайте практику", "хочу практику", "дай задачу", "дайте задачу",
	"давай задачу", "давайте задачу", "практическое задание", "практическую задачу",
	"лайвкодинг", "live coding", "practical task", "give me a task", "coding exercise",
}

// fillerPhrases are acknowledgements and short non-answers.
var fillerPhrases = []string{
	"ок", "окей", "ok", "okay", "да", "ага", "угу", "понятно", "ясно", "хорошо", "ладно",
	"дальше", "next", "yes", "yeah", "sure", "hmm", "хм", "ммм", "не знаю", "нет", "no", "idk",
}
