package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jhong93/multilang-captions/internal/caption"
	"github.com/jhong93/multilang-captions/internal/library"
	"github.com/jhong93/multilang-captions/internal/tokenizer"
	"github.com/jhong93/multilang-captions/internal/transcache"
	"github.com/jhong93/multilang-captions/pkg/file"
	"github.com/jhong93/multilang-captions/pkg/log"
)

// VideoListing is a library video plus the destination languages a viewer
// can select for it.
type VideoListing struct {
	library.Video
	SelectableLanguages []string `json:"selectable_languages"`
}

// CaptionService orchestrates the caption pipeline: locating tracks,
// tokenizing them, and producing word and track translations on demand.
type CaptionService struct {
	scanner    *library.Scanner
	tokenizers *tokenizer.Registry
	cache      *transcache.Cache
}

func NewCaptionService(
	scanner *library.Scanner,
	tokenizers *tokenizer.Registry,
	cache *transcache.Cache,
) *CaptionService {
	return &CaptionService{
		scanner:    scanner,
		tokenizers: tokenizers,
		cache:      cache,
	}
}

// Videos lists the library with selectable caption languages per video.
func (s *CaptionService) Videos(ctx context.Context) ([]VideoListing, error) {
	videos, err := s.scanner.List(ctx)
	if err != nil {
		return nil, err
	}
	listings := make([]VideoListing, 0, len(videos))
	for _, video := range videos {
		listings = append(listings, VideoListing{
			Video:               video,
			SelectableLanguages: library.OtherLanguages(video.CaptionLanguages),
		})
	}
	return listings, nil
}

// Video returns one video's listing.
func (s *CaptionService) Video(ctx context.Context, videoID string) (VideoListing, error) {
	if _, err := s.videoDir(videoID); err != nil {
		return VideoListing{}, err
	}
	video, err := s.scanner.Lookup(ctx, videoID)
	if err != nil {
		return VideoListing{}, err
	}
	return VideoListing{
		Video:               video,
		SelectableLanguages: library.OtherLanguages(video.CaptionLanguages),
	}, nil
}

// CaptionsFor serves a video's caption track in the requested language,
// tokenized line by line. A native track is preferred; otherwise a
// previously translated track is reused, and failing that a new one is
// produced from the orig language.
func (s *CaptionService) CaptionsFor(
	ctx context.Context,
	videoID string,
	lang string,
	orig string,
) ([]caption.Line, error) {
	if !tokenizer.Supported(lang) {
		return nil, &tokenizer.UnsupportedLanguageError{Language: lang}
	}
	videoDir, err := s.videoDir(videoID)
	if err != nil {
		return nil, err
	}

	path := library.NativeTrackPath(videoDir, lang)
	if !file.Exists(path) {
		path = library.TranslatedTrackPath(videoDir, lang)
		if !file.Exists(path) {
			if orig == "" {
				return nil, NewError(ErrValidation, "no original language to translate")
			}
			path, err = s.cache.TranslateTrack(ctx, videoDir, orig, lang)
			if err != nil {
				return nil, err
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read caption track: %w", err)
	}
	lines, err := caption.Parse(data)
	if err != nil {
		return nil, err
	}
	return s.withTokens(ctx, lines, lang)
}

// WordTranslationsFor returns per-word translations for a video's native
// track in src, targeting dst.
func (s *CaptionService) WordTranslationsFor(
	ctx context.Context,
	videoID string,
	src string,
	dst string,
) (map[string]*string, error) {
	if src == dst {
		return nil, NewError(ErrValidation, "source language cannot equal destination language")
	}
	videoDir, err := s.videoDir(videoID)
	if err != nil {
		return nil, err
	}

	path := library.NativeTrackPath(videoDir, src)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read native track for %s: %w", src, err)
	}
	lines, err := caption.Parse(data)
	if err != nil {
		return nil, err
	}

	tokens, err := s.collectTokens(ctx, lines, src)
	if err != nil {
		return nil, err
	}
	return s.cache.Resolve(ctx, videoDir, src, dst, tokens)
}

// ThumbnailPath resolves a video's thumbnail image on disk.
func (s *CaptionService) ThumbnailPath(videoID string) (string, error) {
	videoDir, err := s.videoDir(videoID)
	if err != nil {
		return "", err
	}
	path := library.ThumbnailPath(videoDir)
	if !file.Exists(path) {
		return "", fmt.Errorf("thumbnail for %s: %w", videoID, os.ErrNotExist)
	}
	return path, nil
}

func (s *CaptionService) videoDir(videoID string) (string, error) {
	dir, err := s.scanner.VideoDir(videoID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		return "", WrapError(err, ErrValidation, "bad video id")
	}
	return dir, nil
}

// withTokens tags every line. A line whose tagging fails is served
// untokenized rather than dropped.
func (s *CaptionService) withTokens(
	ctx context.Context,
	lines []caption.Line,
	lang string,
) ([]caption.Line, error) {
	tk, err := s.tokenizers.For(lang)
	if err != nil {
		return nil, err
	}
	out := make([]caption.Line, 0, len(lines))
	for _, line := range lines {
		tokens, err := tk.Tag(ctx, line.Text)
		if err != nil {
			log.Warn("Cannot tokenize line %q: %v", line.Text, err)
			out = append(out, line)
			continue
		}
		out = append(out, line.WithTokens(tokens))
	}
	return out, nil
}

// collectTokens gathers the distinct (trimmed word, tag) pairs of a track
// in first-seen order.
func (s *CaptionService) collectTokens(
	ctx context.Context,
	lines []caption.Line,
	lang string,
) ([]caption.Token, error) {
	tk, err := s.tokenizers.For(lang)
	if err != nil {
		return nil, err
	}
	seen := make(map[caption.Token]struct{})
	ordered := make([]caption.Token, 0)
	for _, line := range lines {
		tokens, err := tk.Tag(ctx, line.Text)
		if err != nil {
			return nil, err
		}
		for _, token := range tokens {
			text := strings.TrimSpace(token.Text)
			if text == "" {
				continue
			}
			key := caption.Token{Text: text, Tag: token.Tag}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			ordered = append(ordered, key)
		}
	}
	return ordered, nil
}
