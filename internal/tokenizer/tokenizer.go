package tokenizer

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhong93/multilang-captions/internal/caption"
)

// EngineToken is a surface form with the engine's native part-of-speech tag.
type EngineToken struct {
	Text string
	Tag  string
}

// Engine is an external tagging engine for one model language.
//
// EnsureReady performs the engine's one-time resource acquisition (for
// example fetching a language model). It may be slow; it must be idempotent
// and safe to retry after a failure.
type Engine interface {
	EnsureReady(ctx context.Context) error
	Tag(ctx context.Context, text string) ([]EngineToken, error)
}

// EngineProvider constructs the engine for a family and model language.
type EngineProvider func(family Family, modelLang string) Engine

// Tokenizer turns raw text into part-of-speech tagged tokens.
type Tokenizer interface {
	Tag(ctx context.Context, text string) ([]caption.Token, error)
}

// engineTokenizer adapts an engine to the Tokenizer contract, mapping native
// tags through the family's static table.
type engineTokenizer struct {
	engine Engine
	mapTag func(string) string

	mu    sync.Mutex
	ready bool
}

func (t *engineTokenizer) Tag(ctx context.Context, text string) ([]caption.Token, error) {
	if text == "" {
		return []caption.Token{}, nil
	}
	if err := t.ensureReady(ctx); err != nil {
		return nil, fmt.Errorf("tokenizer engine not ready: %w", err)
	}
	raw, err := t.engine.Tag(ctx, text)
	if err != nil {
		return nil, err
	}
	tokens := make([]caption.Token, 0, len(raw))
	for _, tok := range raw {
		tokens = append(tokens, caption.Token{
			Text: tok.Text,
			Tag:  t.mapTag(tok.Tag),
		})
	}
	return tokens, nil
}

// ensureReady runs the engine's acquisition step at most once per process
// lifetime. A failed attempt does not latch; the next call retries.
func (t *engineTokenizer) ensureReady(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ready {
		return nil
	}
	if err := t.engine.EnsureReady(ctx); err != nil {
		return err
	}
	t.ready = true
	return nil
}
