package mkvtool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"pinyinsub/internal/logging"
)

// Extract writes track trackID of path to outPath.
func (t *Toolkit) Extract(ctx context.Context, path string, trackID int, outPath string) error {
	if path == "" || outPath == "" {
		return errors.New("mkvextract: source and output paths are required")
	}
	if trackID < 0 {
		return fmt.Errorf("mkvextract: invalid track id %d", trackID)
	}

	target := strconv.Itoa(trackID) + ":" + outPath
	if _, err := t.run(ctx, t.mkvextract, path, "tracks", target); err != nil {
		return fmt.Errorf("mkvextract track %d: %w", trackID, err)
	}
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("mkvextract did not produce output file: %w", err)
	}

	t.logger.Debug("subtitle track extracted",
		logging.String(logging.FieldVideo, path),
		logging.Int("track_id", trackID),
		logging.String("output", outPath),
	)
	return nil
}
