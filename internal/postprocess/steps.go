package postprocess

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/hh-interviewer/internal/utils"
)

// DefaultMaxReplyRunes caps interviewer replies.
const DefaultMaxReplyRunes = 1200

// toggle holds the enable state shared by all processors.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

var rolePrefix = regexp.MustCompile(`(?i)^\s*(\*\*)?(интервьюер|interviewer|assistant|ассистент)(\*\*)?\s*:\s*`)

type trimRolePrefix struct{ toggle }

// NewTrimRolePrefix creates a processor that drops a leading "Интервьюер:" label.
func NewTrimRolePrefix() Processor {
	return &trimRolePrefix{}
}

func (p *trimRolePrefix) Name() string { return "trim_role_prefix" }

func (p *trimRolePrefix) Apply(_ context.Context, text string) (string, Step, error) {
	before := utils.RuneLen(text)
	text = strings.TrimSpace(rolePrefix.ReplaceAllString(strings.TrimSpace(text), ""))
	return text, Step{Before: before, After: utils.RuneLen(text)}, nil
}

func (p *trimRolePrefix) Status() Status {
	return Status{Name: p.Name(), Enabled: p.IsEnabled(), Reason: p.reason}
}

var blankLines = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)

type collapseBlankLines struct{ toggle }

// NewCollapseBlankLines creates a processor that squeezes runs of blank lines into one.
func NewCollapseBlankLines() Processor {
	return &collapseBlankLines{}
}

func (p *collapseBlankLines) Name() string { return "collapse_blank_lines" }

func (p *collapseBlankLines) Apply(_ context.Context, text string) (string, Step, error) {
	before := utils.RuneLen(text)
	text = blankLines.ReplaceAllString(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	return text, Step{Before: before, After: utils.RuneLen(text)}, nil
}

func (p *collapseBlankLines) Status() Status {
	return Status{Name: p.Name(), Enabled: p.IsEnabled(), Reason: p.reason}
}

type limitLength struct {
	toggle
	max int
}

// NewLimitLength creates a processor that cuts long replies at the last sentence
// boundary before max runes.
func NewLimitLength(limit int) Processor {
	if limit <= 0 {
		limit = DefaultMaxReplyRunes
	}
	return &limitLength{max: limit}
}

func (p *limitLength) Name() string { return "limit_length" }

func (p *limitLength) Apply(_ context.Context, text string) (string, Step, error) {
	runes := []rune(text)
	before := len(runes)
	if before <= p.max {
		return text, Step{Before: before, After: before}, nil
	}

	cut := runes[:p.max]
	end := -1
	for i := len(cut) - 1; i >= 0; i-- {
		if cut[i] == '.' || cut[i] == '?' || cut[i] == '!' {
			end = i + 1
			break
		}
	}
	// No sentence boundary in the second half: keep the hard cut.
	if end < p.max/2 {
		text = strings.TrimSpace(string(cut)) + "…"
	} else {
		text = strings.TrimSpace(string(cut[:end]))
	}

	return text, Step{Before: before, After: utils.RuneLen(text)}, nil
}

func (p *limitLength) Status() Status {
	return Status{
		Name:    p.Name(),
		Enabled: p.IsEnabled(),
		Reason:  p.reason,
		Details: map[string]string{"max_runes": strconv.Itoa(p.max)},
	}
}

type requireText struct{ toggle }

// NewRequireText creates a processor that rejects replies without visible text.
func NewRequireText() Processor {
	return &requireText{}
}

func (p *requireText) Name() string { return "require_text" }

func (p *requireText) Apply(_ context.Context, text string) (string, Step, error) {
	n := utils.RuneLen(text)
	if strings.TrimSpace(text) == "" {
		return "", Step{Before: n}, ErrEmptyReply
	}
	return text, Step{Before: n, After: n}, nil
}

func (p *requireText) Status() Status {
	return Status{Name: p.Name(), Enabled: p.IsEnabled(), Reason: p.reason}
}
