package timeline

import (
	"sort"
	"time"
)

// MergeOptions controls the pairwise merge.
type MergeOptions struct {
	// Tolerance is the maximum boundary difference for two records to be
	// treated as the same time slot.
	Tolerance      time.Duration
	PrimaryColor   Color
	SecondaryColor Color
}

// Merge interleaves two timelines that are each sorted by start time.
//
// Records that share a time slot within tolerance on both boundaries are
// fused into one record whose lines are the secondary lines followed by the
// primary lines. Overlapping records that do not qualify are emitted as an
// adjacent pair, earliest start first. A record that ends strictly before the
// other stream's current record starts passes through alone. The result is
// ordered by start; on equal starts primary content precedes secondary.
//
// Inputs must already be sorted by start; unsorted input is not detected and
// produces a poorly ordered result. A record with End < Start in either
// stream fails the whole call before anything is produced.
func Merge(primary, secondary []Record, opts MergeOptions) ([]Record, error) {
	out, _, err := merge(primary, secondary, opts)
	return out, err
}

type mergeStats struct {
	passthrough int
	fused       int
	paired      int
}

func merge(primary, secondary []Record, opts MergeOptions) ([]Record, mergeStats, error) {
	var stats mergeStats
	if err := validate("primary", primary); err != nil {
		return nil, stats, err
	}
	if err := validate("secondary", secondary); err != nil {
		return nil, stats, err
	}

	tol := opts.Tolerance
	if tol < 0 {
		tol = 0
	}

	out := make([]Record, 0, len(primary)+len(secondary))
	i, j := 0, 0
	for i < len(primary) || j < len(secondary) {
		switch {
		case j >= len(secondary):
			out = append(out, tint(primary[i], SourcePrimary, opts.PrimaryColor))
			stats.passthrough++
			i++
		case i >= len(primary):
			out = append(out, tint(secondary[j], SourceSecondary, opts.SecondaryColor))
			stats.passthrough++
			j++
		default:
			a, b := primary[i], secondary[j]
			switch {
			case a.End < b.Start:
				out = append(out, tint(a, SourcePrimary, opts.PrimaryColor))
				stats.passthrough++
				i++
			case b.End < a.Start:
				out = append(out, tint(b, SourceSecondary, opts.SecondaryColor))
				stats.passthrough++
				j++
			case within(a.Start, b.Start, tol) && within(a.End, b.End, tol):
				out = append(out, fuse(a, b, opts.PrimaryColor))
				stats.fused++
				i++
				j++
			default:
				first := tint(a, SourcePrimary, opts.PrimaryColor)
				second := tint(b, SourceSecondary, opts.SecondaryColor)
				if b.Start < a.Start {
					first, second = second, first
				}
				out = append(out, first, second)
				stats.paired++
				i++
				j++
			}
		}
	}
	sortChronologically(out)
	return out, stats, nil
}

// sortChronologically restores start order across pair-emitted records. A
// secondary record only precedes primary content that starts later.
func sortChronologically(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Start != records[j].Start {
			return records[i].Start < records[j].Start
		}
		return tieRank(records[i].Source) < tieRank(records[j].Source)
	})
}

func tieRank(s Source) int {
	if s == SourceSecondary {
		return 1
	}
	return 0
}

func within(x, y, tol time.Duration) bool {
	d := x - y
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func tint(rec Record, source Source, c Color) Record {
	out := rec.clone()
	out.Source = source
	out.Lines = WrapLines(rec.Lines, c)
	return out
}

// fuse joins a primary and a secondary record sharing a slot. The span covers
// both records; only the primary portion carries the primary color.
func fuse(a, b Record, primaryColor Color) Record {
	lines := make([]string, 0, len(a.Lines)+len(b.Lines))
	lines = append(lines, b.Lines...)
	lines = append(lines, WrapLines(a.Lines, primaryColor)...)
	return Record{
		Start:  min(a.Start, b.Start),
		End:    max(a.End, b.End),
		Lines:  lines,
		Source: SourceFused,
	}
}
