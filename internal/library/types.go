package library

// Video describes one cached video directory: its metadata record and the
// caption tracks available on disk.
type Video struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	CaptionLanguages []string          `json:"caption_languages"`
	LanguageNames    map[string]string `json:"language_names,omitempty"`
}

// videoInfo is the subset of the acquisition service's metadata record the
// library reads.
type videoInfo struct {
	Title string `json:"title"`
}
