package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"pinyinsub/internal/config"
	"pinyinsub/internal/history"
	"pinyinsub/internal/logging"
	"pinyinsub/internal/mkvtool"
	"pinyinsub/internal/subtitles"
)

// newContainerTools builds the MKVToolNix wrapper; tests swap it for a fake.
var newContainerTools = func(cfg *config.Config, logger *slog.Logger) subtitles.ContainerTools {
	return mkvtool.New(cfg.Tools.Mkvmerge, cfg.Tools.Mkvextract, logger)
}

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		if level := c.resolvedLogLevel(cfg); level != cfg.Logging.Level {
			cfg.Logging.Level = level
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) resolvedLogLevel(cfg *config.Config) string {
	if c.logLevelFlag != nil {
		if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
			return level
		}
	}
	if cfg == nil {
		return "info"
	}
	return cfg.Logging.Level
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return logger, nil
}

// openHistory returns nil when history is disabled. Open failures are logged
// and generation continues without a ledger.
func (c *commandContext) openHistory(ctx context.Context, logger *slog.Logger) *history.Store {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(ctx, cfg.HistoryPath())
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir or delete history.db"),
			logging.String(logging.FieldImpact, "this run will not appear in pinyinsub history"),
		)
		return nil
	}
	return store
}

func (c *commandContext) newService(cfg *config.Config, logger *slog.Logger, store *history.Store) *subtitles.Service {
	var opts []subtitles.ServiceOption
	if store != nil {
		opts = append(opts, subtitles.WithHistory(store))
	}
	return subtitles.NewService(cfg, newContainerTools(cfg, logger), logger, opts...)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
