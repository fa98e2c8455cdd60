package persistence

import "time"

// VideoMeta is a cached snapshot of one video directory's scan result.
// Entries expire so filesystem changes become visible without restarts.
type VideoMeta struct {
	VideoID   string
	Title     string
	Languages []string
	ExpiresAt time.Time
	UpdatedAt time.Time
}
