package mkvtool

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"pinyinsub/internal/logging"
)

// Runner executes an external command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Toolkit holds the MKVToolNix binary names and the runner used to invoke them.
type Toolkit struct {
	mkvmerge   string
	mkvextract string
	run        Runner
	logger     *slog.Logger
}

// New constructs a toolkit. Empty binary names fall back to the defaults on PATH.
func New(mkvmerge, mkvextract string, logger *slog.Logger) *Toolkit {
	if strings.TrimSpace(mkvmerge) == "" {
		mkvmerge = "mkvmerge"
	}
	if strings.TrimSpace(mkvextract) == "" {
		mkvextract = "mkvextract"
	}
	return &Toolkit{
		mkvmerge:   mkvmerge,
		mkvextract: mkvextract,
		run:        defaultRunner,
		logger:     logging.NewComponentLogger(logger, "mkvtool"),
	}
}

// WithRunner allows injecting a custom command runner for tests.
func (t *Toolkit) WithRunner(r Runner) *Toolkit {
	if t != nil && r != nil {
		t.run = r
	}
	return t
}

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(string(output))
		}
		return output, fmt.Errorf("%w: %s", err, detail)
	}
	return output, nil
}
