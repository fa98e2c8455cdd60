package caption

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse reads a WebVTT caption track into an ordered sequence of lines.
// The header block, cue identifiers and NOTE/STYLE/REGION blocks are
// skipped; a bad time code fails with FormatError.
func Parse(data []byte) ([]Line, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	lines := make([]Line, 0)
	for _, block := range splitBlocks(text) {
		rows := strings.Split(block, "\n")

		head := strings.TrimSpace(rows[0])
		if strings.HasPrefix(head, "WEBVTT") ||
			strings.HasPrefix(head, "NOTE") ||
			strings.HasPrefix(head, "STYLE") ||
			strings.HasPrefix(head, "REGION") {
			continue
		}

		// A cue may open with an identifier line before the time line.
		timeRow := 0
		if !strings.Contains(rows[0], "-->") {
			if len(rows) < 2 || !strings.Contains(rows[1], "-->") {
				return nil, &FormatError{Detail: fmt.Sprintf("cue without time code: %q", head)}
			}
			timeRow = 1
		}

		start, end, err := parseCueTimes(rows[timeRow])
		if err != nil {
			return nil, err
		}

		lines = append(lines, Line{
			Start: start,
			End:   end,
			Text:  strings.Join(rows[timeRow+1:], "\n"),
		})
	}
	return lines, nil
}

// Serialize is the inverse of Parse for well-formed input; timings
// round-trip at millisecond precision.
func Serialize(lines []Line) []byte {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, line := range lines {
		b.WriteString(FormatTime(line.Start))
		b.WriteString(" --> ")
		b.WriteString(FormatTime(line.End))
		b.WriteString("\n")
		b.WriteString(line.Text)
		b.WriteString("\n\n")
	}
	return []byte(b.String())
}

// ParseTime parses a `[HH:]MM:SS.mmm` time code into seconds. The hour
// field is optional and treated as zero when absent.
func ParseTime(s string) (float64, error) {
	fields := strings.Split(strings.TrimSpace(s), ":")
	if len(fields) != 2 && len(fields) != 3 {
		return 0, &FormatError{Detail: fmt.Sprintf("bad time code: %q", s)}
	}

	seconds, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil || seconds < 0 {
		return 0, &FormatError{Detail: fmt.Sprintf("bad seconds field: %q", s)}
	}
	minutes, err := strconv.Atoi(fields[len(fields)-2])
	if err != nil || minutes < 0 {
		return 0, &FormatError{Detail: fmt.Sprintf("bad minutes field: %q", s)}
	}
	seconds += float64(minutes) * 60

	if len(fields) == 3 {
		hours, err := strconv.Atoi(fields[0])
		if err != nil || hours < 0 {
			return 0, &FormatError{Detail: fmt.Sprintf("bad hours field: %q", s)}
		}
		seconds += float64(hours) * 3600
	}
	return seconds, nil
}

// FormatTime is the canonical formatter for derived tracks: all four
// fields, zero-padded, hours unbounded rather than wrapped at 24.
func FormatTime(t float64) string {
	millis := int(math.Floor(t*1000)) % 1000
	seconds := int(math.Floor(t)) % 60
	minutes := int(math.Floor(t/60)) % 60
	hours := int(math.Floor(t / 3600))
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

func parseCueTimes(row string) (float64, float64, error) {
	arrow := strings.Index(row, "-->")
	if arrow < 0 {
		return 0, 0, &FormatError{Detail: fmt.Sprintf("bad cue time line: %q", row)}
	}
	start, err := ParseTime(row[:arrow])
	if err != nil {
		return 0, 0, err
	}
	// Cue settings may trail the end time code.
	endField := strings.Fields(row[arrow+len("-->"):])
	if len(endField) == 0 {
		return 0, 0, &FormatError{Detail: fmt.Sprintf("missing end time: %q", row)}
	}
	end, err := ParseTime(endField[0])
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, &FormatError{Detail: fmt.Sprintf("cue ends before it starts: %q", row)}
	}
	return start, end, nil
}

func splitBlocks(text string) []string {
	blocks := make([]string, 0)
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}
