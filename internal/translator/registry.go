package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhong93/multilang-captions/internal/dictionary"
)

// Registry maps language pairs to translators. The Chinese-to-English pair
// gets a dictionary-backed translator; every other pair routes all lookups
// through the phrase service.
type Registry struct {
	dicts   *dictionary.Store
	service PhraseService
}

func NewRegistry(dicts *dictionary.Store, service PhraseService) *Registry {
	return &Registry{
		dicts:   dicts,
		service: service,
	}
}

// For returns the translator for a language pair. Loading the dictionary
// for the specialized pair can fail (MissingDictionaryError); that failure
// is structural and aborts the caller's operation.
func (r *Registry) For(ctx context.Context, src, dst string) (Translator, error) {
	if strings.HasPrefix(src, "zh") && strings.HasPrefix(dst, "en") {
		dict, err := r.dicts.Load(ctx, baseLang(src), baseLang(dst))
		if err != nil {
			return nil, fmt.Errorf("failed to load %s-%s dictionary: %w", src, dst, err)
		}
		return &DictTranslator{
			dict:    dict,
			service: r.service,
			dst:     baseLang(dst),
		}, nil
	}
	return &ServiceTranslator{
		service: r.service,
		src:     baseLang(src),
		dst:     dst,
	}, nil
}

// baseLang strips the regional subtag ("zh-TW" -> "zh").
func baseLang(lang string) string {
	base, _, _ := strings.Cut(lang, "-")
	return base
}

// DictTranslator consults the dictionary for word lookups and the phrase
// service for whole sentences.
type DictTranslator struct {
	dict    dictionary.Dictionary
	service PhraseService
	dst     string
}

func (t *DictTranslator) Word(_ context.Context, word, tag string) (string, error) {
	if err := checkWordTag(tag); err != nil {
		return "", err
	}
	translation, ok := t.dict.Lookup(word)
	if !ok {
		return "", fmt.Errorf("%q: %w", word, ErrNotFound)
	}
	return translation, nil
}

func (t *DictTranslator) Phrase(ctx context.Context, text string) (string, error) {
	// Source language left to the service's detection.
	return t.service.Translate(ctx, text, "", t.dst)
}

// ServiceTranslator routes every lookup through the phrase service; a word
// is a degenerate one-word phrase.
type ServiceTranslator struct {
	service PhraseService
	src     string
	dst     string
}

func (t *ServiceTranslator) Word(ctx context.Context, word, tag string) (string, error) {
	if err := checkWordTag(tag); err != nil {
		return "", err
	}
	return t.Phrase(ctx, word)
}

func (t *ServiceTranslator) Phrase(ctx context.Context, text string) (string, error) {
	return t.service.Translate(ctx, text, t.src, t.dst)
}
