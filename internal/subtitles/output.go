package subtitles

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"pinyinsub/internal/fileutil"
)

const lockRetryDelay = 100 * time.Millisecond

// writeOutput replaces path with data while holding an exclusive lock keyed
// on the output path, so two runs targeting the same video serialize.
func (s *Service) writeOutput(ctx context.Context, path string, data []byte) error {
	lockPath, err := s.lockPathFor(path)
	if err != nil {
		return err
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock output %s: %w", filepath.Base(path), err)
	}
	if !locked {
		return fmt.Errorf("lock output %s: not acquired", filepath.Base(path))
	}
	defer func() { _ = lock.Unlock() }()

	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// lockPathFor places lock files under <state_dir>/locks rather than next to
// the videos.
func (s *Service) lockPathFor(output string) (string, error) {
	dir := strings.TrimSpace(s.config.Paths.StateDir)
	if dir == "" {
		dir = os.TempDir()
	}
	dir = filepath.Join(dir, "locks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create lock dir: %w", err)
	}
	abs, err := filepath.Abs(output)
	if err != nil {
		abs = output
	}
	sum := sha1.Sum([]byte(abs))
	return filepath.Join(dir, hex.EncodeToString(sum[:])+".lock"), nil
}
