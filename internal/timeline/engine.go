package timeline

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultTolerance   = 600 * time.Millisecond
	DefaultWindowWidth = 2
)

// Mode selects how the two timelines are combined.
type Mode int

const (
	// ModeFuse merges pairwise, stabilizes boundaries and reindexes.
	ModeFuse Mode = iota
	// ModeConcat appends both colored timelines and reindexes. Overlapping
	// records are left overlapping.
	ModeConcat
)

func (m Mode) String() string {
	if m == ModeConcat {
		return "concat"
	}
	return "fuse"
}

// ParseMode resolves a mode name. Empty input selects ModeFuse.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "fuse":
		return ModeFuse, nil
	case "concat":
		return ModeConcat, nil
	default:
		return ModeFuse, fmt.Errorf("unknown merge mode %q", value)
	}
}

// Options configures Combine.
type Options struct {
	Tolerance      time.Duration
	WindowWidth    int
	PrimaryColor   Color
	SecondaryColor Color
	Mode           Mode
	Stabilize      bool
}

// DefaultOptions returns the recommended settings: fuse mode with a 600ms
// tolerance and stabilization over a window of two.
func DefaultOptions() Options {
	return Options{
		Tolerance:   DefaultTolerance,
		WindowWidth: DefaultWindowWidth,
		Mode:        ModeFuse,
		Stabilize:   true,
	}
}

// Stats summarizes what Combine did to the inputs.
type Stats struct {
	Passthrough  int
	Fused        int
	Paired       int
	StartSnapped int
	EndSnapped   int
}

// Result is the combined timeline with its stats.
type Result struct {
	Records []Record
	Stats   Stats
}

// Combine produces the final timeline from a primary and a secondary
// timeline, both sorted by start. Either may be empty.
func Combine(primary, secondary []Record, opts Options) (Result, error) {
	if opts.Tolerance < 0 {
		return Result{}, fmt.Errorf("tolerance must be non-negative, got %s", opts.Tolerance)
	}
	if opts.WindowWidth < 0 {
		return Result{}, fmt.Errorf("window width must be non-negative, got %d", opts.WindowWidth)
	}

	if opts.Mode == ModeConcat {
		return concat(primary, secondary, opts)
	}

	merged, ms, err := merge(primary, secondary, MergeOptions{
		Tolerance:      opts.Tolerance,
		PrimaryColor:   opts.PrimaryColor,
		SecondaryColor: opts.SecondaryColor,
	})
	if err != nil {
		return Result{}, err
	}
	stats := Stats{Passthrough: ms.passthrough, Fused: ms.fused, Paired: ms.paired}

	if opts.Stabilize {
		var snapped [2]int
		merged, snapped = stabilize(merged, opts.Tolerance, opts.WindowWidth)
		stats.StartSnapped = snapped[AxisStart]
		stats.EndSnapped = snapped[AxisEnd]
	}
	return Result{Records: Reindex(merged), Stats: stats}, nil
}

func concat(primary, secondary []Record, opts Options) (Result, error) {
	if err := validate("primary", primary); err != nil {
		return Result{}, err
	}
	if err := validate("secondary", secondary); err != nil {
		return Result{}, err
	}
	out := make([]Record, 0, len(primary)+len(secondary))
	for _, rec := range primary {
		out = append(out, tint(rec, SourcePrimary, opts.PrimaryColor))
	}
	for _, rec := range secondary {
		out = append(out, tint(rec, SourceSecondary, opts.SecondaryColor))
	}
	return Result{
		Records: Reindex(out),
		Stats:   Stats{Passthrough: len(out)},
	}, nil
}
