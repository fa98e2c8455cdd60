package translator

import (
	"context"
	"errors"
	"fmt"
)

// Translator resolves translations at two granularities: single dictionary
// words and whole phrases.
type Translator interface {
	// Word translates a single word given its part-of-speech tag. It
	// fails with UnsupportedPartOfSpeechError for tags outside the
	// allowed set and with ErrNotFound when a dictionary-backed
	// translator has no entry; callers decide whether to fall back.
	Word(ctx context.Context, word, tag string) (string, error)

	// Phrase translates whole text via the phrase service. Service
	// errors propagate verbatim.
	Phrase(ctx context.Context, text string) (string, error)
}

// PhraseService is the external machine-translation collaborator. src may
// be empty to let the service detect the source language.
type PhraseService interface {
	Translate(ctx context.Context, text, src, dst string) (string, error)
}

// ErrNotFound reports a word absent from the dictionary. Expected and
// recoverable; batch callers record it as an absent translation.
var ErrNotFound = errors.New("word not in dictionary")

// UnsupportedPartOfSpeechError reports a word lookup for a tag outside the
// allowed set. This signals a caller-side logic error, not missing data.
type UnsupportedPartOfSpeechError struct {
	Tag string
}

func (e *UnsupportedPartOfSpeechError) Error() string {
	return fmt.Sprintf("unsupported part of speech (%s)", e.Tag)
}

// wordTags is the fixed set of tags eligible for word-level lookup.
var wordTags = map[string]struct{}{
	"NOUN":  {},
	"ADJ":   {},
	"VERB":  {},
	"PRON":  {},
	"ADV":   {},
	"PROPN": {},
	"ADP":   {},
}

func checkWordTag(tag string) error {
	if _, ok := wordTags[tag]; !ok {
		return &UnsupportedPartOfSpeechError{Tag: tag}
	}
	return nil
}
