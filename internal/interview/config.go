package interview

import "time"

// Config holds the thresholds of the decision engine.
type Config struct {
	// Completion.
	MaxExchanges       int           `mapstructure:"max-exchanges"`
	MinExchanges       int           `mapstructure:"min-exchanges"`
	ExcellentScore     float64       `mapstructure:"excellent-score"`
	TargetScore        float64       `mapstructure:"target-score"`
	MinTopics          int           `mapstructure:"min-topics"`
	MinViableTopics    int           `mapstructure:"min-viable-topics"`
	MinDuration        time.Duration `mapstructure:"min-duration"`
	StopWindow         int           `mapstructure:"stop-window"`
	LLMErrorCeiling    int           `mapstructure:"llm-error-ceiling"`
	EarlyExitExchanges int           `mapstructure:"early-exit-exchanges"`

	// Policy.
	ShortUtteranceRunes     int     `mapstructure:"short-utterance-runes"`
	ChallengePotentialScore float64 `mapstructure:"challenge-potential-score"`
	ChallengeAverageScore   float64 `mapstructure:"challenge-average-score"`
	HighAnswerScore         float64 `mapstructure:"high-answer-score"`
	GoodScore               float64 `mapstructure:"good-score"`
	LowScore                float64 `mapstructure:"low-score"`
	MaxAnswersPerTopic      int     `mapstructure:"max-answers-per-topic"`
	// ForceEarlyChallenge offers the challenge right after the first scored
	// answer. Meant for short demo sessions.
	ForceEarlyChallenge bool `mapstructure:"force-early-challenge"`

	// Evaluation.
	RelevanceScale  float64 `mapstructure:"relevance-scale"`
	ReviewRelevance float64 `mapstructure:"review-relevance"`

	// Lifecycle.
	SessionMaxIdle  time.Duration `mapstructure:"session-max-idle"`
	ProviderTimeout time.Duration `mapstructure:"provider-timeout"`
	HistoryWindow   int           `mapstructure:"history-window"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MaxExchanges:       25,
		MinExchanges:       8,
		ExcellentScore:     8.5,
		TargetScore:        7.0,
		MinTopics:          4,
		MinViableTopics:    3,
		MinDuration:        5 * time.Minute,
		StopWindow:         3,
		LLMErrorCeiling:    3,
		EarlyExitExchanges: 6,

		ShortUtteranceRunes:     15,
		ChallengePotentialScore: 8.0,
		ChallengeAverageScore:   7.0,
		HighAnswerScore:         7.5,
		GoodScore:               7.0,
		LowScore:                5.0,
		MaxAnswersPerTopic:      3,

		RelevanceScale:  30,
		ReviewRelevance: 2,

		SessionMaxIdle:  2 * time.Hour,
		ProviderTimeout: 60 * time.Second,
		HistoryWindow:   12,
	}
}

// WithDefaults fills zero-valued fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	setInt(&c.MaxExchanges, d.MaxExchanges)
	setInt(&c.MinExchanges, d.MinExchanges)
	setFloat(&c.ExcellentScore, d.ExcellentScore)
	setFloat(&c.TargetScore, d.TargetScore)
	setInt(&c.MinTopics, d.MinTopics)
	setInt(&c.MinViableTopics, d.MinViableTopics)
	setDuration(&c.MinDuration, d.MinDuration)
	setInt(&c.StopWindow, d.StopWindow)
	setInt(&c.LLMErrorCeiling, d.LLMErrorCeiling)
	setInt(&c.EarlyExitExchanges, d.EarlyExitExchanges)
	setInt(&c.ShortUtteranceRunes, d.ShortUtteranceRunes)
	setFloat(&c.ChallengePotentialScore, d.ChallengePotentialScore)
	setFloat(&c.ChallengeAverageScore, d.ChallengeAverageScore)
	setFloat(&c.HighAnswerScore, d.HighAnswerScore)
	setFloat(&c.GoodScore, d.GoodScore)
	setFloat(&c.LowScore, d.LowScore)
	setInt(&c.MaxAnswersPerTopic, d.MaxAnswersPerTopic)
	setFloat(&c.RelevanceScale, d.RelevanceScale)
	setFloat(&c.ReviewRelevance, d.ReviewRelevance)
	setDuration(&c.SessionMaxIdle, d.SessionMaxIdle)
	setDuration(&c.ProviderTimeout, d.ProviderTimeout)
	setInt(&c.HistoryWindow, d.HistoryWindow)
	return c
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func setFloat(v *float64, def float64) {
	if *v <= 0 {
		*v = def
	}
}

func setDuration(v *time.Duration, def time.Duration) {
	if *v <= 0 {
		*v = def
	}
}
