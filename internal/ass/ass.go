// Package ass converts Advanced SubStation Alpha scripts into timeline
// records. Only the [Events] section is read; styles and positioning are
// discarded.
package ass

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"pinyinsub/internal/timeline"
)

// ErrNoEvents is returned when the script has no [Events] section.
var ErrNoEvents = errors.New("ass script has no events section")

var (
	overrideBlock = regexp.MustCompile(`\{[^}]*\}`)
	drawingMode   = regexp.MustCompile(`\\p[1-9]`)
)

// defaultFormat is the v4+ event layout used when a script omits its Format line.
var defaultFormat = []string{"layer", "start", "end", "style", "name", "marginl", "marginr", "marginv", "effect", "text"}

// ReadFile converts the script at path.
func ReadFile(path string) ([]timeline.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ass: %w", err)
	}
	records, err := Convert(data)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}
	return records, nil
}

// Convert extracts dialogue events as records sorted by start time. Comment
// events, drawings and events with no visible text are dropped, as are exact
// duplicates produced by layered effects.
func Convert(data []byte) ([]timeline.Record, error) {
	content := strings.TrimPrefix(string(data), "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	inEvents := false
	sawEvents := false
	format := defaultFormat
	seen := make(map[string]struct{})
	var records []timeline.Record

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inEvents = strings.EqualFold(line, "[Events]")
			if inEvents {
				sawEvents = true
			}
			continue
		}
		if !inEvents {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "format":
			format = parseFormat(value)
		case "dialogue":
			rec, ok, err := parseDialogue(value, format)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			dedupe := fmt.Sprintf("%d|%d|%s", rec.Start, rec.End, rec.Content())
			if _, dup := seen[dedupe]; dup {
				continue
			}
			seen[dedupe] = struct{}{}
			records = append(records, rec)
		}
	}
	if !sawEvents {
		return nil, ErrNoEvents
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Start < records[j].Start
	})
	for i := range records {
		records[i].Index = i + 1
	}
	return records, nil
}

func parseFormat(value string) []string {
	fields := strings.Split(value, ",")
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, strings.ToLower(strings.TrimSpace(field)))
	}
	return out
}

func parseDialogue(value string, format []string) (timeline.Record, bool, error) {
	var rec timeline.Record
	parts := splitFields(value, len(format))
	if len(parts) < len(format) {
		return rec, false, nil
	}
	fields := make(map[string]string, len(format))
	for i, name := range format {
		fields[name] = parts[i]
	}

	start, err := ParseTimestamp(fields["start"])
	if err != nil {
		return rec, false, err
	}
	end, err := ParseTimestamp(fields["end"])
	if err != nil {
		return rec, false, err
	}

	text := fields["text"]
	if drawingMode.MatchString(text) {
		return rec, false, nil
	}
	lines := TextLines(text)
	if len(lines) == 0 {
		return rec, false, nil
	}
	rec.Start = start
	rec.End = end
	rec.Lines = lines
	return rec, true, nil
}

// splitFields splits on commas into at most n fields so the final text field
// keeps its own commas.
func splitFields(s string, n int) []string {
	parts := strings.SplitN(s, ",", n)
	for i := range parts {
		if i < len(parts)-1 {
			parts[i] = strings.TrimSpace(parts[i])
		}
	}
	return parts
}

// TextLines strips override blocks and expands ASS line break escapes.
func TextLines(text string) []string {
	text = overrideBlock.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, `\N`, "\n")
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = strings.ReplaceAll(text, `\h`, " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ParseTimestamp reads the H:MM:SS.cc form used by ASS scripts.
func ParseTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	hms := strings.Split(value, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid ass timestamp %q", value)
	}
	secText, fracText, _ := strings.Cut(hms[2], ".")
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(secText)
	if errH != nil || errM != nil || errS != nil {
		return 0, fmt.Errorf("invalid ass timestamp %q", value)
	}
	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
	if fracText != "" {
		if len(fracText) > 3 {
			fracText = fracText[:3]
		}
		frac, err := strconv.Atoi(fracText)
		if err != nil {
			return 0, fmt.Errorf("invalid ass timestamp %q", value)
		}
		for i := len(fracText); i < 3; i++ {
			frac *= 10
		}
		d += time.Duration(frac) * time.Millisecond
	}
	return d, nil
}
