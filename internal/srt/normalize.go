package srt

import (
	"strings"

	"pinyinsub/internal/timeline"
)

// Normalize drops unusable records and returns the rest sorted by start with
// fresh 1-based indices. A record is unusable when its content is blank or its
// start is negative. Records that do not end after they start are dropped as
// well, zero-length cues included. Callers that need malformed timing
// reported should sort with timeline.Reindex instead.
func Normalize(records []timeline.Record) []timeline.Record {
	kept := make([]timeline.Record, 0, len(records))
	for _, rec := range records {
		if skip(rec) {
			continue
		}
		kept = append(kept, rec)
	}
	return timeline.Reindex(kept)
}

func skip(rec timeline.Record) bool {
	if strings.TrimSpace(rec.Content()) == "" {
		return true
	}
	if rec.Start < 0 {
		return true
	}
	return rec.Start >= rec.End
}
