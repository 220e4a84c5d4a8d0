package srt

import (
	"regexp"
	"strings"

	"pinyinsub/internal/timeline"
)

var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)subtitles? by`),
	regexp.MustCompile(`(?i)synced? and corrected`),
	regexp.MustCompile(`(?i)advertise (your|yours?) product`),
	regexp.MustCompile(`(?i)http(s)?://`),
	regexp.MustCompile(`(?i)\bwww\.`),
	regexp.MustCompile(`(?i)\bsubscene\b`),
	regexp.MustCompile(`(?i)\byts\b`),
	regexp.MustCompile(`(?i)\byify\b`),
	regexp.MustCompile(`字幕[组組]`),
}

// CleanStats reports the effects of subtitle cleanup.
type CleanStats struct {
	RemovedCues int
}

// Clean removes advertisement cues and trailing whitespace from lines.
// Indices are left untouched; callers reindex when needed.
func Clean(records []timeline.Record) ([]timeline.Record, CleanStats) {
	cleaned := make([]timeline.Record, 0, len(records))
	var stats CleanStats
	for _, rec := range records {
		if isAdvertisement(rec) {
			stats.RemovedCues++
			continue
		}
		out := rec
		out.Lines = make([]string, len(rec.Lines))
		for i, line := range rec.Lines {
			out.Lines[i] = strings.TrimRight(line, " \t")
		}
		cleaned = append(cleaned, out)
	}
	return cleaned, stats
}

func isAdvertisement(rec timeline.Record) bool {
	payload := strings.TrimSpace(strings.Join(rec.Lines, " "))
	if payload == "" {
		return false
	}
	for _, pattern := range adPatterns {
		if pattern.MatchString(payload) {
			return true
		}
	}
	return false
}
