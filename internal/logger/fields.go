package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the LLM provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the LLM model identifier.
	FieldModel = "ai_model"
	// FieldSessionID identifies the interview session.
	FieldSessionID = "session_id"
	// FieldPosition is the interviewed position.
	FieldPosition = "position"
	// FieldTopic is the current interview topic.
	FieldTopic = "topic"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// ProviderFields describe the LLM provider and model. Empty values are skipped.
func ProviderFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// SessionFields describe an interview session.
func SessionFields(sessionID, position, topic string) []zap.Field {
	return StringFields(
		StringField{Key: FieldSessionID, Value: sessionID},
		StringField{Key: FieldPosition, Value: position},
		StringField{Key: FieldTopic, Value: topic},
	)
}

// WithSession returns a logger scoped to the session.
func WithSession(logger *zap.Logger, sessionID, position string) *zap.Logger {
	return WithFields(logger, SessionFields(sessionID, position, "")...)
}
