package prompting

import (
	"fmt"

	"github.com/spigell/hh-interviewer/internal/interview"
)

var fallbackReplies = map[interview.ActionType][]string{
	interview.ActionContinueTopic: {
		"Спасибо за ответ. Продолжим тему «%s»: расскажите, как бы вы применили это на практике?",
		"Понял вас. Давайте ещё немного про «%s»: с какими проблемами вы сталкивались в этой области?",
	},
	interview.ActionDeepDiveTopic: {
		"Давайте попробуем зайти с другой стороны. Что вы знаете о базовых понятиях темы «%s»?",
		"Хорошо, уточню вопрос. Приведите, пожалуйста, пример из опыта по теме «%s».",
	},
	interview.ActionNextTopic: {
		"Отлично, тогда перейдём к теме «%s». Расскажите, с чем вы в ней работали?",
		"Хорошо, двигаемся дальше. Тема «%s»: какие подходы вы используете чаще всего?",
	},
	interview.ActionChangeTopic: {
		"Ничего страшного, давайте сменим тему. Поговорим про «%s»: что вам в ней знакомо?",
		"Это нормально, не всё можно знать. Перейдём к теме «%s»: расскажите о своём опыте.",
	},
	interview.ActionOfferChallenge: {
		"Предлагаю небольшое практическое задание по теме «%s»: опишите, как бы вы решили типичную задачу из этой области шаг за шагом.",
	},
	interview.ActionCompleteInterview: {
		"Спасибо за интервью! На этом мы закончим, подробный отчёт будет подготовлен в ближайшее время.",
	},
}

const wrapUpReply = "Спасибо, по всем темам мы прошлись. Хотите что-нибудь добавить перед завершением?"

// Fallback returns a canned interviewer reply used when the provider fails.
// The result is deterministic for the attempt number and never empty.
func Fallback(action interview.NextAction, current interview.Topic, attempt int) string {
	topic := current
	if action.MovesTopic() {
		topic = action.TargetTopic
	}
	if topic == interview.WrapUp && action.Type != interview.ActionCompleteInterview {
		return wrapUpReply
	}

	replies, ok := fallbackReplies[action.Type]
	if !ok {
		replies = fallbackReplies[interview.ActionContinueTopic]
	}
	if attempt < 0 {
		attempt = 0
	}

	reply := replies[attempt%len(replies)]
	if action.Type == interview.ActionCompleteInterview {
		return reply
	}
	return fmt.Sprintf(reply, topic.Title())
}

// ClosingFallback is the farewell used when the provider cannot produce one.
func ClosingFallback() string {
	return fallbackReplies[interview.ActionCompleteInterview][0]
}
