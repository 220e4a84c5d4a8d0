// Package history persists a ledger of subtitle generation runs in SQLite.
//
// Each Generate call records one row per processed video with the chosen
// tracks, mode, cue counts and outcome, so `pinyinsub history` can show what
// was produced and why a run failed.
package history
