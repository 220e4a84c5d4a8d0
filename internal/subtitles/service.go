package subtitles

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"pinyinsub/internal/config"
	"pinyinsub/internal/history"
	"pinyinsub/internal/logging"
	"pinyinsub/internal/mkvtool"
)

// LoadResult reports what Load found at a path.
type LoadResult int

const (
	LoadInvalid LoadResult = iota
	LoadFile
	LoadDir
)

func (r LoadResult) String() string {
	switch r {
	case LoadFile:
		return "file"
	case LoadDir:
		return "directory"
	default:
		return "invalid"
	}
}

// ContainerTools is the subset of MKVToolNix operations the service needs.
type ContainerTools interface {
	Identify(ctx context.Context, path string) (mkvtool.Info, error)
	Extract(ctx context.Context, path string, trackID int, outPath string) error
	MuxSubtitle(ctx context.Context, req mkvtool.MuxRequest) (mkvtool.MuxResult, error)
}

// RunRecorder stores one entry per generated video.
type RunRecorder interface {
	Record(ctx context.Context, run history.Run) (history.Run, error)
}

// Service generates pinyin subtitles for a loaded file or directory.
type Service struct {
	config   *config.Config
	tools    ContainerTools
	logger   *slog.Logger
	history  RunRecorder
	validate *validator.Validate
	now      func() time.Time
	newID    func() string

	mu     sync.RWMutex
	path   string
	loaded LoadResult
	ready  bool
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithHistory records every generation attempt.
func WithHistory(r RunRecorder) ServiceOption {
	return func(s *Service) {
		s.history = r
	}
}

// WithClock overrides the time source (used in tests).
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds a service around the given container tools.
func NewService(cfg *config.Config, tools ContainerTools, logger *slog.Logger, opts ...ServiceOption) *Service {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Service{
		config:   cfg,
		tools:    tools,
		logger:   logging.NewComponentLogger(logger, "subtitles"),
		validate: newRequestValidator(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load points the service at a video file or a directory of videos. The path
// is remembered even when it is invalid, so later calls fail consistently.
func (s *Service) Load(path string) LoadResult {
	result := LoadFile
	info, err := os.Stat(path)
	switch {
	case err != nil:
		result = LoadInvalid
	case info.IsDir():
		result = LoadDir
	}

	s.mu.Lock()
	s.path = path
	s.loaded = result
	s.ready = true
	s.mu.Unlock()

	s.logger.Debug("path loaded",
		logging.String("path", path),
		logging.String("result", result.String()),
	)
	return result
}

func (s *Service) loadedPath() (string, LoadResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready || s.loaded == LoadInvalid {
		return "", LoadInvalid, ErrNotLoaded
	}
	return s.path, s.loaded, nil
}

func (s *Service) concurrency() int {
	if n := s.config.Batch.Concurrency; n > 0 {
		return n
	}
	return runtime.NumCPU()
}
