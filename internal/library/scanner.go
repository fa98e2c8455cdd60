package library

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/jhong93/multilang-captions/internal/caption"
	"github.com/jhong93/multilang-captions/internal/persistence"
	"github.com/jhong93/multilang-captions/internal/tokenizer"
	"github.com/jhong93/multilang-captions/pkg/file"
	"github.com/jhong93/multilang-captions/pkg/log"
)

// MetaStore caches scanned video metadata so listings do not reread
// video.info.json and rescan tracks on every request.
type MetaStore interface {
	GetVideoMeta(ctx context.Context, videoID string, now time.Time) (persistence.VideoMeta, bool, error)
	PutVideoMeta(ctx context.Context, meta persistence.VideoMeta) error
}

type scannerOptions struct {
	store MetaStore
	ttl   time.Duration
}

type Option func(*scannerOptions)

func WithMetaStore(store MetaStore) Option {
	return func(o *scannerOptions) {
		o.store = store
	}
}

func WithMetaTTL(ttl time.Duration) Option {
	return func(o *scannerOptions) {
		o.ttl = ttl
	}
}

// Scanner reads the video cache directory laid out by the acquisition
// service. It never writes video content; derived caption artifacts are
// written elsewhere.
type Scanner struct {
	cacheDir string
	store    MetaStore
	ttl      time.Duration
}

func NewScanner(cacheDir string, opts ...Option) *Scanner {
	options := scannerOptions{
		ttl: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Scanner{
		cacheDir: cacheDir,
		store:    options.store,
		ttl:      options.ttl,
	}
}

var videoIDRe = regexp.MustCompile(`^[-\w]+$`)

// VideoDir resolves and validates a video ID against the cache directory.
func (s *Scanner) VideoDir(videoID string) (string, error) {
	if !videoIDRe.MatchString(videoID) {
		return "", fmt.Errorf("invalid video id: %q", videoID)
	}
	dir := filepath.Join(s.cacheDir, videoID)
	if !file.IsDir(dir) {
		return "", fmt.Errorf("video %s: %w", videoID, os.ErrNotExist)
	}
	return dir, nil
}

// List returns every video in the cache directory.
func (s *Scanner) List(ctx context.Context) ([]Video, error) {
	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}
	videos := make([]Video, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		video, err := s.Lookup(ctx, entry.Name())
		if err != nil {
			log.Warn("Skipping unreadable video dir %s: %v", entry.Name(), err)
			continue
		}
		videos = append(videos, video)
	}
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].ID < videos[j].ID
	})
	return videos, nil
}

// Lookup returns one video's metadata, served from the meta store when a
// fresh entry exists.
func (s *Scanner) Lookup(ctx context.Context, videoID string) (Video, error) {
	dir, err := s.VideoDir(videoID)
	if err != nil {
		return Video{}, err
	}

	now := time.Now()
	if s.store != nil {
		meta, ok, err := s.store.GetVideoMeta(ctx, videoID, now)
		if err != nil {
			log.Warn("Meta cache read failed for %s: %v", videoID, err)
		} else if ok {
			return videoFromMeta(meta), nil
		}
	}

	video, err := s.scan(videoID, dir)
	if err != nil {
		return Video{}, err
	}

	if s.store != nil {
		err := s.store.PutVideoMeta(ctx, persistence.VideoMeta{
			VideoID:   video.ID,
			Title:     video.Title,
			Languages: video.CaptionLanguages,
			ExpiresAt: now.Add(s.ttl),
			UpdatedAt: now,
		})
		if err != nil {
			log.Warn("Meta cache write failed for %s: %v", videoID, err)
		}
	}
	return video, nil
}

func (s *Scanner) scan(videoID, dir string) (Video, error) {
	title := ""
	if data, err := os.ReadFile(InfoPath(dir)); err == nil {
		var info videoInfo
		if err := json.Unmarshal(data, &info); err != nil {
			return Video{}, fmt.Errorf("failed to parse %s: %w", InfoPath(dir), err)
		}
		title = info.Title
	}

	langs, err := CaptionLanguages(dir)
	if err != nil {
		return Video{}, err
	}

	return Video{
		ID:               videoID,
		Title:            title,
		CaptionLanguages: langs,
		LanguageNames:    DisplayNames(langs),
	}, nil
}

func videoFromMeta(meta persistence.VideoMeta) Video {
	return Video{
		ID:               meta.VideoID,
		Title:            meta.Title,
		CaptionLanguages: meta.Languages,
		LanguageNames:    DisplayNames(meta.Languages),
	}
}

var trackRe = regexp.MustCompile(`^video\.([-\w]+)\.vtt$`)

// CaptionLanguages lists the native caption languages of a video directory
// from track filenames. A bare `video.vtt` with no language code is probed
// from its content.
func CaptionLanguages(videoDir string) ([]string, error) {
	entries, err := os.ReadDir(videoDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read video directory: %w", err)
	}
	languages := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if m := trackRe.FindStringSubmatch(entry.Name()); m != nil {
			if m[1] == "info" {
				continue
			}
			languages = append(languages, m[1])
			continue
		}
		if entry.Name() == "video.vtt" {
			if lang := probeTrackLanguage(filepath.Join(videoDir, entry.Name())); lang != "" {
				languages = append(languages, lang)
			}
		}
	}
	sort.Strings(languages)
	return languages, nil
}

// probeTrackLanguage detects a track's language from its cue text, voting
// across lines.
func probeTrackLanguage(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	lines, err := caption.Parse(data)
	if err != nil {
		log.Warn("Cannot probe language of %s: %v", path, err)
		return ""
	}

	votes := make(map[string]int)
	for _, line := range lines {
		lang := whatlanggo.DetectLang(line.Text).Iso6391()
		if lang == "" {
			continue
		}
		votes[lang]++
	}
	var topLang string
	var topCount int
	for lang, count := range votes {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}
	return topLang
}

// OtherLanguages returns the destination languages selectable for a video
// given its native caption languages. English regional variants are only
// offered when natively present; bare "en" is offered when no English
// track exists.
func OtherLanguages(native []string) []string {
	if len(native) == 0 {
		return nil
	}
	nativeSet := make(map[string]struct{}, len(native))
	hasEnglish := false
	for _, lang := range native {
		nativeSet[lang] = struct{}{}
		if strings.HasPrefix(lang, "en") {
			hasEnglish = true
		}
	}

	languages := make([]string, 0)
	for _, lang := range tokenizer.Languages() {
		_, isNative := nativeSet[lang]
		if isNative || !strings.HasPrefix(lang, "en") || (!hasEnglish && lang == "en") {
			languages = append(languages, lang)
		}
	}
	return languages
}

var languageNamer = display.English.Languages()

// DisplayNames maps language codes to human-readable names.
func DisplayNames(langs []string) map[string]string {
	if len(langs) == 0 {
		return nil
	}
	names := make(map[string]string, len(langs))
	for _, code := range langs {
		tag, err := language.Parse(code)
		if err != nil {
			names[code] = code
			continue
		}
		names[code] = languageNamer.Name(tag)
	}
	return names
}
