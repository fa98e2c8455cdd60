package library

import "path/filepath"

// Per-video directory layout. Native tracks sit next to the metadata
// record; derived artifacts live in the translated/ and cached/ subdirs.

func NativeTrackPath(videoDir, lang string) string {
	return filepath.Join(videoDir, "video."+lang+".vtt")
}

func TranslatedTrackPath(videoDir, lang string) string {
	return filepath.Join(videoDir, "translated", "video."+lang+".vtt")
}

func TranslationCachePath(videoDir, src, dst, contentHash string) string {
	return filepath.Join(videoDir, "cached", src+"."+dst+"."+contentHash+".json")
}

func InfoPath(videoDir string) string {
	return filepath.Join(videoDir, "video.info.json")
}

func ThumbnailPath(videoDir string) string {
	return filepath.Join(videoDir, "video.jpg")
}
