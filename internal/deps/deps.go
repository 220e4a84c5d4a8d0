// Package deps checks that the external tools pinyinsub shells out to are installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"pinyinsub/internal/config"
)

// Requirement defines an external dependency pinyinsub relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries the configured toolchain needs.
func Requirements(cfg *config.Config) []Requirement {
	mkvmerge, mkvextract := "mkvmerge", "mkvextract"
	if cfg != nil {
		mkvmerge, mkvextract = cfg.Tools.Mkvmerge, cfg.Tools.Mkvextract
	}
	return []Requirement{
		{
			Name:        "mkvmerge",
			Command:     mkvmerge,
			Description: "Lists container tracks and muxes generated subtitles",
		},
		{
			Name:        "mkvextract",
			Command:     mkvextract,
			Description: "Extracts embedded subtitle tracks",
			// External .srt/.ass sidecars work without it.
			Optional: true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			if path, err := exec.LookPath(cmd); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				status.Available = true
				status.Command = path
			}
		}
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the statuses of required dependencies that are unavailable.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
