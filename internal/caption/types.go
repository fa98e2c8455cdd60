package caption

// Token is a single word of caption text annotated with a normalized
// part-of-speech tag. Tag is empty when the tokenizer's native tag has no
// known mapping.
type Token struct {
	Text string `json:"text"`
	Tag  string `json:"tag,omitempty"`
}

// Line represents a single time-coded caption line.
type Line struct {
	Start  float64 `json:"start"` // seconds
	End    float64 `json:"end"`   // seconds
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens,omitempty"`
}

// WithTokens returns a copy of the line with tokens populated. The receiver
// is never mutated.
func (l Line) WithTokens(tokens []Token) Line {
	l.Tokens = tokens
	return l
}

// FormatError indicates a malformed caption track.
type FormatError struct {
	Detail string
}

func (e *FormatError) Error() string {
	return "malformed caption track: " + e.Detail
}
