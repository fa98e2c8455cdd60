package transcache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/jhong93/multilang-captions/internal/caption"
	"github.com/jhong93/multilang-captions/internal/library"
	"github.com/jhong93/multilang-captions/internal/translator"
	"github.com/jhong93/multilang-captions/pkg/file"
	"github.com/jhong93/multilang-captions/pkg/log"
)

const contentHashLen = 8

// TranslatorSource hands out a translator for a language pair.
type TranslatorSource interface {
	For(ctx context.Context, src, dst string) (translator.Translator, error)
}

// Cache materializes per-video translation artifacts on disk: word
// translation records under cached/ and full translated tracks under
// translated/. Concurrent requests for the same artifact are collapsed so
// each is produced at most once.
type Cache struct {
	translators  TranslatorSource
	resolveGroup singleflight.Group
	trackGroup   singleflight.Group
}

func NewCache(translators TranslatorSource) *Cache {
	return &Cache{translators: translators}
}

// ContentHash identifies a token set by the md5 of its distinct texts,
// sorted and concatenated. Tags and duplicates do not affect the hash.
func ContentHash(tokens []caption.Token) string {
	seen := make(map[string]struct{}, len(tokens))
	texts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token.Text]; ok {
			continue
		}
		seen[token.Text] = struct{}{}
		texts = append(texts, token.Text)
	}
	sort.Strings(texts)
	sum := md5.Sum([]byte(strings.Join(texts, "")))
	return hex.EncodeToString(sum[:])[:contentHashLen]
}

// Resolve returns per-word translations for the given tokens, serving a
// cached record when one exists for the same content hash. Words that
// cannot be translated map to null; a later occurrence of the same word
// with a translatable tag wins over an earlier failure.
func (c *Cache) Resolve(
	ctx context.Context,
	videoDir string,
	src string,
	dst string,
	tokens []caption.Token,
) (map[string]*string, error) {
	path := library.TranslationCachePath(videoDir, src, dst, ContentHash(tokens))

	result, err, _ := c.resolveGroup.Do(path, func() (interface{}, error) {
		if file.Exists(path) {
			log.Debug("Translation cache hit: %s -> %s, %s", src, dst, videoDir)
			return readResolved(path)
		}

		log.Info("Translating words: %s -> %s, %s", src, dst, videoDir)
		tr, err := c.translators.For(ctx, src, dst)
		if err != nil {
			return nil, err
		}

		translations := make(map[string]*string, len(tokens))
		for _, token := range tokens {
			word, err := tr.Word(ctx, token.Text, token.Tag)
			if err != nil {
				log.Debug("Cannot translate %q (%s): %v", token.Text, token.Tag, err)
				if _, ok := translations[token.Text]; !ok {
					translations[token.Text] = nil
				}
				continue
			}
			translations[token.Text] = &word
		}

		if err := writeResolved(path, translations); err != nil {
			return nil, err
		}
		return translations, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]*string), nil
}

func readResolved(path string) (map[string]*string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation cache: %w", err)
	}
	var translations map[string]*string
	if err := json.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("corrupt translation cache %s: %w", path, err)
	}
	return translations, nil
}

func writeResolved(path string, translations map[string]*string) error {
	data, err := json.Marshal(translations)
	if err != nil {
		return err
	}
	if err := file.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := file.WriteAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write translation cache: %w", err)
	}
	return nil
}

// TranslateTrack produces a machine-translated caption track from a
// video's native track, returning the output path. An existing output is
// reused as-is. Empty lines and lines the service cannot translate are
// dropped from the output.
func (c *Cache) TranslateTrack(
	ctx context.Context,
	videoDir string,
	src string,
	dst string,
) (string, error) {
	outPath := library.TranslatedTrackPath(videoDir, dst)

	_, err, _ := c.trackGroup.Do(outPath, func() (interface{}, error) {
		if file.Exists(outPath) {
			return nil, nil
		}

		data, err := os.ReadFile(library.NativeTrackPath(videoDir, src))
		if err != nil {
			return nil, fmt.Errorf("failed to read native track: %w", err)
		}
		lines, err := caption.Parse(data)
		if err != nil {
			return nil, err
		}

		tr, err := c.translators.For(ctx, src, dst)
		if err != nil {
			return nil, err
		}

		log.Info("Translating track: %s -> %s, %s", src, dst, videoDir)
		translated := make([]caption.Line, 0, len(lines))
		for _, line := range lines {
			text := strings.TrimSpace(line.Text)
			if text == "" {
				continue
			}
			phrase, err := tr.Phrase(ctx, text)
			if err != nil {
				log.Warn("Cannot translate line %q: %v", text, err)
				continue
			}
			translated = append(translated, caption.Line{
				Start: line.Start,
				End:   line.End,
				Text:  phrase,
			})
		}

		if err := file.EnsureDir(filepath.Dir(outPath)); err != nil {
			return nil, err
		}
		if err := file.WriteAtomic(outPath, caption.Serialize(translated)); err != nil {
			return nil, fmt.Errorf("failed to write translated track: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return "", err
	}
	return outPath, nil
}
