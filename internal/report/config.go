package report

import "time"

// Config holds the report thresholds.
type Config struct {
	TopK             int     `mapstructure:"top-k"`
	StrongTopicScore float64 `mapstructure:"strong-topic-score"`
	WeakTopicScore   float64 `mapstructure:"weak-topic-score"`

	// Adaptability is judged on the variance and the least-squares slope of
	// the score series.
	LowVariance  float64 `mapstructure:"low-variance"`
	HighVariance float64 `mapstructure:"high-variance"`
	TrendSlope   float64 `mapstructure:"trend-slope"`

	FeedbackTimeout time.Duration `mapstructure:"feedback-timeout"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		TopK:             5,
		StrongTopicScore: 7.5,
		WeakTopicScore:   6,
		LowVariance:      1,
		HighVariance:     4,
		TrendSlope:       0.2,
		FeedbackTimeout:  30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TopK <= 0 {
		c.TopK = d.TopK
	}
	if c.StrongTopicScore <= 0 {
		c.StrongTopicScore = d.StrongTopicScore
	}
	if c.WeakTopicScore <= 0 {
		c.WeakTopicScore = d.WeakTopicScore
	}
	if c.LowVariance <= 0 {
		c.LowVariance = d.LowVariance
	}
	if c.HighVariance <= 0 {
		c.HighVariance = d.HighVariance
	}
	if c.TrendSlope <= 0 {
		c.TrendSlope = d.TrendSlope
	}
	if c.FeedbackTimeout <= 0 {
		c.FeedbackTimeout = d.FeedbackTimeout
	}
	return c
}
