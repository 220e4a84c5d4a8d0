package timeline

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Source tags which input stream a record came from.
type Source int

const (
	SourceUnset Source = iota
	SourcePrimary
	SourceSecondary
	SourceFused
)

func (s Source) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceSecondary:
		return "secondary"
	case SourceFused:
		return "fused"
	default:
		return "unset"
	}
}

// Record is one timed text unit of a subtitle timeline.
type Record struct {
	Index  int
	Start  time.Duration
	End    time.Duration
	Lines  []string
	Source Source
}

// Content returns the record lines joined with newlines.
func (r Record) Content() string {
	return strings.Join(r.Lines, "\n")
}

// Duration reports how long the record is displayed.
func (r Record) Duration() time.Duration {
	return r.End - r.Start
}

// Valid reports whether the record satisfies End >= Start.
func (r Record) Valid() bool {
	return r.End >= r.Start
}

// clone returns a copy whose Lines slice is not shared with r.
func (r Record) clone() Record {
	out := r
	if r.Lines != nil {
		out.Lines = append([]string(nil), r.Lines...)
	}
	return out
}

// ErrMalformedRecord marks records whose end precedes their start.
var ErrMalformedRecord = errors.New("malformed record")

// RecordError identifies the offending record of a rejected input stream.
type RecordError struct {
	Stream   string
	Position int
	Start    time.Duration
	End      time.Duration
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s record %d: end %s precedes start %s", e.Stream, e.Position, e.End, e.Start)
}

func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}

func validate(stream string, records []Record) error {
	for i, rec := range records {
		if !rec.Valid() {
			return &RecordError{Stream: stream, Position: i, Start: rec.Start, End: rec.End}
		}
	}
	return nil
}
