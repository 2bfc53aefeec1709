package postprocess

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrEmptyReply is returned when nothing is left of the provider reply.
var ErrEmptyReply = errors.New("empty reply")

// Processor is a single post-processing step applied to a provider reply.
type Processor interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, text string) (string, Step, error)
}

// Step describes the result of executing a processor.
type Step struct {
	Before int
	After  int
}

// Config contains settings consumed by the processors.
type Config struct {
	MaxReplyRunes int      `mapstructure:"max-reply-runes"`
	Disabled      []string `mapstructure:"disabled"`
}

// Status represents runtime information about a processor.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Pipeline runs processors in order.
type Pipeline struct {
	steps  []Processor
	logger *zap.Logger
}

// Default builds the standard pipeline and disables the steps listed in cfg.
func Default(cfg Config, logger *zap.Logger) *Pipeline {
	steps := []Processor{
		NewTrimRolePrefix(),
		NewCollapseBlankLines(),
		NewLimitLength(cfg.MaxReplyRunes),
		NewRequireText(),
	}
	for _, name := range cfg.Disabled {
		DisableByName(steps, name, "disabled in config")
	}
	return New(logger, steps...)
}

// New creates a pipeline from the given processors.
func New(logger *zap.Logger, steps ...Processor) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{steps: steps, logger: logger}
}

// DisableByName marks a processor with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Processor, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the enabled processors sequentially.
func (p *Pipeline) Run(ctx context.Context, text string) (string, error) {
	for _, step := range p.steps {
		if !step.IsEnabled() {
			p.logger.Debug("processor disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, text)
		if err != nil {
			return "", fmt.Errorf("%s: %w", step.Name(), err)
		}

		p.logger.Debug("postprocess step",
			zap.String("name", step.Name()),
			zap.Int("before", info.Before),
			zap.Int("after", info.After),
		)
		text = next
	}

	return text, nil
}

// Describe returns status entries for the pipeline processors.
func (p *Pipeline) Describe() []Status {
	statuses := make([]Status, 0, len(p.steps))
	for _, step := range p.steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
