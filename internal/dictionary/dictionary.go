package dictionary

import (
	"fmt"
	"slices"
)

// Dictionary maps a source word (case-sensitive, script preserved) to its
// candidate translations. The first candidate is the preferred gloss.
type Dictionary map[string][]string

// Lookup returns the preferred translation for a word.
func (d Dictionary) Lookup(word string) (string, bool) {
	candidates, ok := d[word]
	if !ok || len(candidates) == 0 {
		return "", false
	}
	return candidates[0], true
}

// Candidates returns every known translation for a word.
func (d Dictionary) Candidates(word string) []string {
	return d[word]
}

// add appends a candidate; entries are only ever added, never removed.
func (d Dictionary) add(word, gloss string) {
	if word == "" || gloss == "" {
		return
	}
	if slices.Contains(d[word], gloss) {
		return
	}
	d[word] = append(d[word], gloss)
}

// MissingDictionaryError indicates a required dictionary file is absent for
// a language pair. Both directions are required for a pair to be considered
// configured.
type MissingDictionaryError struct {
	Src  string
	Dst  string
	Path string
}

func (e *MissingDictionaryError) Error() string {
	return fmt.Sprintf("no dictionary for %s->%s: %s does not exist", e.Src, e.Dst, e.Path)
}
