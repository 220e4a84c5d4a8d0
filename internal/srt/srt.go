package srt

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pinyinsub/internal/timeline"
)

// ErrNoCues is returned when non-empty input holds no parseable cue.
var ErrNoCues = errors.New("no subtitle cues found")

const timingArrow = "-->"

// ReadFile parses the SRT file at path.
func ReadFile(path string) ([]timeline.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// Parse decodes SRT data into records in file order.
func Parse(data []byte) ([]timeline.Record, error) {
	content := strings.TrimPrefix(string(data), "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	var records []timeline.Record
	for _, block := range splitBlocks(content) {
		rec, ok := parseBlock(block)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, ErrNoCues
	}
	return records, nil
}

// splitBlocks groups lines separated by one or more blank lines.
func splitBlocks(content string) [][]string {
	var (
		blocks  [][]string
		current []string
	)
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, strings.TrimRight(line, " \t"))
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func parseBlock(lines []string) (timeline.Record, bool) {
	var rec timeline.Record
	pos := 0
	if isNumeric(lines[0]) {
		rec.Index, _ = strconv.Atoi(strings.TrimSpace(lines[0]))
		pos++
	}
	if pos >= len(lines) || !strings.Contains(lines[pos], timingArrow) {
		return rec, false
	}
	start, end, err := parseTiming(lines[pos])
	if err != nil {
		return rec, false
	}
	rec.Start = start
	rec.End = end
	rec.Lines = append([]string(nil), lines[pos+1:]...)
	return rec, true
}

func parseTiming(line string) (time.Duration, time.Duration, error) {
	parts := strings.SplitN(line, timingArrow, 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	// Position hints such as "X1:100 X2:200" may trail the end timestamp.
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseTimestamp converts HH:MM:SS,mmm (or HH:MM:SS.mmm) into a duration.
func ParseTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	negative := strings.HasPrefix(hms[0], "-")
	hours, errH := strconv.Atoi(strings.TrimPrefix(hms[0], "-"))
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := parseFraction(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	if negative {
		d = -d
	}
	return d, nil
}

// parseFraction reads the fractional part as milliseconds, so ",5" is 500ms
// and ",0500" is 50ms.
func parseFraction(value string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("empty fraction")
	}
	digits := value
	switch {
	case len(digits) < 3:
		digits += strings.Repeat("0", 3-len(digits))
	case len(digits) > 3:
		digits = digits[:3]
	}
	if _, err := strconv.Atoi(value); err != nil {
		return 0, err
	}
	return strconv.Atoi(digits)
}

// FormatTimestamp renders a duration as HH:MM:SS,mmm. Negative values clamp to zero.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalMillis := d.Milliseconds()
	hours := totalMillis / 3_600_000
	minutes := (totalMillis / 60_000) % 60
	seconds := (totalMillis / 1000) % 60
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// Compose encodes records as SRT using each record's Index.
func Compose(records []timeline.Record) []byte {
	var sb strings.Builder
	for i, rec := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d\n", rec.Index)
		fmt.Fprintf(&sb, "%s %s %s\n", FormatTimestamp(rec.Start), timingArrow, FormatTimestamp(rec.End))
		for _, line := range rec.Lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return []byte(sb.String())
}

func isNumeric(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	_, err := strconv.Atoi(value)
	return err == nil
}
