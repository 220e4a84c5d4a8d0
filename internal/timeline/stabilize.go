package timeline

import (
	"sort"
	"time"
)

// Axis selects which boundary the stabilizer operates on.
type Axis int

const (
	AxisStart Axis = iota
	AxisEnd
)

func (a Axis) String() string {
	if a == AxisEnd {
		return "end"
	}
	return "start"
}

// Stabilize snaps near-coincident starts, then near-coincident ends.
func Stabilize(records []Record, tol time.Duration, width int) []Record {
	out, _ := stabilize(records, tol, width)
	return out
}

func stabilize(records []Record, tol time.Duration, width int) ([]Record, [2]int) {
	var snapped [2]int
	out, n := stabilizeAxis(records, AxisStart, tol, width)
	snapped[AxisStart] = n
	out, n = stabilizeAxis(out, AxisEnd, tol, width)
	snapped[AxisEnd] = n
	return out, snapped
}

// StabilizeAxis aligns boundaries on one axis. Records are visited in axis
// order through a sliding window of width records: the first record of the
// window is the anchor and each following record whose original value lies
// within tol of the anchor's original value takes the anchor's current value.
// The scan of a window stops at the first record outside tolerance. Because
// the anchor's value may itself have been snapped, a cluster of close values
// collapses onto its earliest member.
//
// End snaps that would move an end before its record's start are skipped.
// The result is returned in input order and is not reindexed.
func StabilizeAxis(records []Record, axis Axis, tol time.Duration, width int) []Record {
	out, _ := stabilizeAxis(records, axis, tol, width)
	return out
}

func stabilizeAxis(records []Record, axis Axis, tol time.Duration, width int) ([]Record, int) {
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = rec.clone()
	}
	if width < 2 || len(out) < 2 {
		return out, 0
	}

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return axisValue(out[order[x]], axis) < axisValue(out[order[y]], axis)
	})

	original := make([]time.Duration, len(order))
	for pos, idx := range order {
		original[pos] = axisValue(out[idx], axis)
	}

	snapped := 0
	for pos := range order {
		anchor := axisValue(out[order[pos]], axis)
		for k := 1; k < width && pos+k < len(order); k++ {
			if original[pos+k]-original[pos] > tol {
				break
			}
			target := &out[order[pos+k]]
			if axisValue(*target, axis) == anchor {
				continue
			}
			if axis == AxisEnd && anchor < target.Start {
				continue
			}
			setAxisValue(target, axis, anchor)
			snapped++
		}
	}
	return out, snapped
}

func axisValue(r Record, axis Axis) time.Duration {
	if axis == AxisEnd {
		return r.End
	}
	return r.Start
}

func setAxisValue(r *Record, axis Axis, v time.Duration) {
	if axis == AxisEnd {
		r.End = v
		return
	}
	r.Start = v
}
