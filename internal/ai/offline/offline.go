// Package offline provides a scripted provider for runs without network access.
package offline

import (
	"context"
	"iter"
	"strings"
	"sync"

	"github.com/spigell/hh-interviewer/internal/ai"
)

// ProviderName is used in logs and configuration.
const ProviderName = "offline"

var defaultReplies = []string{
	"Спасибо. Расскажите, пожалуйста, подробнее: как бы вы применили это в реальном проекте?",
	"Понятно. С какими трудностями вы сталкивались в этой области и как их решали?",
	"Хорошо. Приведите пример из вашего опыта, который это иллюстрирует.",
	"Интересно. Какие альтернативные подходы вы знаете и чем они отличаются?",
}

// Provider replies with scripted lines in rotation.
type Provider struct {
	mu      sync.Mutex
	replies []string
	next    int
	prompts []string
}

var _ ai.Provider = (*Provider)(nil)

// New creates a Provider. Without replies a built-in Russian script is used.
func New(replies ...string) *Provider {
	if len(replies) == 0 {
		replies = defaultReplies
	}
	return &Provider{replies: append([]string(nil), replies...)}
}

// Invoke returns the next scripted reply.
func (p *Provider) Invoke(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.prompts = append(p.prompts, prompt)
	reply := p.replies[p.next%len(p.replies)]
	p.next++
	return reply, nil
}

// Stream yields the next scripted reply word by word.
func (p *Provider) Stream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		reply, err := p.Invoke(ctx, prompt)
		if err != nil {
			yield("", err)
			return
		}

		words := strings.SplitAfter(reply, " ")
		for _, w := range words {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(w, nil) {
				return
			}
		}
	}
}

// Model returns the provider name.
func (p *Provider) Model() string { return ProviderName }

// Prompts returns the prompts received so far.
func (p *Provider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}
