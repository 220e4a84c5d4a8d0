package timeline

import "sort"

// Reindex returns a copy of records stably sorted by start time with indices
// assigned 1..n. Records sharing a start keep their relative order.
func Reindex(records []Record) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = rec.clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	for i := range out {
		out[i].Index = i + 1
	}
	return out
}
