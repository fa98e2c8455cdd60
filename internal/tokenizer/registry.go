package tokenizer

import (
	"sync"
)

// Registry maps language codes to tokenizers. Tokenizers are shared per
// (family, model language) so the engine's one-time model acquisition runs
// once for all regional variants.
type Registry struct {
	provider EngineProvider

	mu         sync.Mutex
	tokenizers map[variant]*engineTokenizer
}

func NewRegistry(provider EngineProvider) *Registry {
	return &Registry{
		provider:   provider,
		tokenizers: make(map[variant]*engineTokenizer),
	}
}

// For returns the tokenizer for a language code, or
// UnsupportedLanguageError for anything outside the supported set.
func (r *Registry) For(lang string) (Tokenizer, error) {
	v, ok := supported[lang]
	if !ok {
		return nil, &UnsupportedLanguageError{Language: lang}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokenizers[v]; ok {
		return t, nil
	}
	t := &engineTokenizer{
		engine: r.provider(v.family, v.modelLang),
		mapTag: tagMapper(v.family),
	}
	r.tokenizers[v] = t
	return t, nil
}
