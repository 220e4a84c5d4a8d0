// Package timeline merges two presorted subtitle timelines into a single
// chronological, visually non-conflicting sequence.
//
// The pipeline is Merge (pairwise walk with a tolerance window), Stabilize
// (snap near-coincident boundaries together along the start and end axes) and
// Reindex (stable sort by start, contiguous 1-based indices). Combine runs all
// three with a single Options value. Every stage is a pure function over
// record values; inputs are never mutated.
package timeline
