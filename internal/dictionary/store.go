package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/jhong93/multilang-captions/pkg/log"
)

const (
	// DefaultMaxGlossLen bounds the lexicon glosses merged into a
	// dictionary; longer definitions read like sentences, not captions.
	DefaultMaxGlossLen = 15

	// DefaultCacheSize bounds how many language pairs stay memoized.
	DefaultCacheSize = 25

	lexiconLanguage = "ja"
)

// Store loads and memoizes merged dictionaries per language pair for the
// process lifetime. Loads are guarded so each pair is built at most once
// even under concurrent requests.
type Store struct {
	dir         string
	maxGlossLen int

	cache *lru.Cache[pairKey, Dictionary]
	group singleflight.Group
}

type pairKey struct {
	src string
	dst string
}

type Option func(*Store)

func WithMaxGlossLen(n int) Option {
	return func(s *Store) {
		s.maxGlossLen = n
	}
}

func NewStore(dir string, opts ...Option) (*Store, error) {
	cache, err := lru.New[pairKey, Dictionary](DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create dictionary cache: %w", err)
	}
	s := &Store{
		dir:         dir,
		maxGlossLen: DefaultMaxGlossLen,
		cache:       cache,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load builds the merged dictionary for (src, dst): the union of the
// forward file, the reverse file read back inverted, and, for Japanese
// sources, the supplementary lexicon. The result is memoized.
func (s *Store) Load(ctx context.Context, src, dst string) (Dictionary, error) {
	key := pairKey{src: src, dst: dst}
	if d, ok := s.cache.Get(key); ok {
		return d, nil
	}

	v, err, _ := s.group.Do(src+"|"+dst, func() (any, error) {
		if d, ok := s.cache.Get(key); ok {
			return d, nil
		}
		d, err := s.build(ctx, src, dst)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, d)
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Dictionary), nil
}

func (s *Store) build(ctx context.Context, src, dst string) (Dictionary, error) {
	forwardPath := filepath.Join(s.dir, src+"-"+dst+".tsv")
	reversePath := filepath.Join(s.dir, dst+"-"+src+".tsv")
	for _, path := range []string{forwardPath, reversePath} {
		if _, err := os.Stat(path); err != nil {
			return nil, &MissingDictionaryError{Src: src, Dst: dst, Path: path}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := make(Dictionary)
	if err := readPairs(forwardPath, func(word, gloss string) {
		d.add(word, gloss)
	}); err != nil {
		return nil, err
	}
	// The reverse file maps dst words back to src words; invert on read.
	if err := readPairs(reversePath, func(word, gloss string) {
		d.add(gloss, word)
	}); err != nil {
		return nil, err
	}

	if src == lexiconLanguage {
		lexiconPath := filepath.Join(s.dir, lexiconLanguage+"-lexicon.u8")
		if _, err := os.Stat(lexiconPath); err == nil {
			merged, err := s.mergeLexicon(d, lexiconPath)
			if err != nil {
				return nil, err
			}
			log.Info("Merged %d lexicon entries into %s-%s", merged, src, dst)
		}
	}

	if len(d) == 0 {
		return nil, fmt.Errorf("dictionary %s-%s is empty after merge", src, dst)
	}
	log.Info("Loaded dictionary %s-%s with %d entries", src, dst, len(d))
	return d, nil
}

// readPairs streams a tab-separated dictionary file; '#' lines and blanks
// are skipped.
func readPairs(path string, add func(word, gloss string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dictionary file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, gloss, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		add(strings.TrimSpace(word), strings.TrimSpace(gloss))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read dictionary file %s: %w", path, err)
	}
	return nil
}

// Lexicon entries look like `KANJI [READING] /gloss one/gloss two/`; the
// reading form is optional.
var lexiconRe = regexp.MustCompile(`^(\S+)(?:\s+\[([^\]]+)\])?\s+/(.+)/$`)

// mergeLexicon adds lexicon entries whose shortest gloss fits within the
// configured threshold. Both the kanji and the reading form key the gloss.
func (s *Store) mergeLexicon(d Dictionary, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open lexicon file: %w", err)
	}
	defer f.Close()

	merged := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := lexiconRe.FindStringSubmatch(line)
		if m == nil {
			log.Warn("Skipping unparseable lexicon line: %s", line)
			continue
		}
		gloss := shortestGloss(strings.Split(m[3], "/"))
		if gloss == "" || len(gloss) > s.maxGlossLen {
			continue
		}
		d.add(m[1], gloss)
		if m[2] != "" {
			d.add(m[2], gloss)
		}
		merged++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read lexicon file %s: %w", path, err)
	}
	return merged, nil
}

// shortestGloss picks the shortest candidate after stripping parenthetical
// annotations.
func shortestGloss(candidates []string) string {
	best := ""
	for _, c := range candidates {
		c, _, _ = strings.Cut(c, " (")
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if best == "" || len(c) <= len(best) {
			best = c
		}
	}
	return best
}
