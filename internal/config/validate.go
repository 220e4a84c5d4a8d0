package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validatePinyin(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMerge() error {
	if c.Merge.ToleranceMS < 0 || c.Merge.ToleranceMS > maxToleranceMS {
		return fmt.Errorf("merge.tolerance_ms must be between 0 and %d", maxToleranceMS)
	}
	if c.Merge.WindowWidth < 1 || c.Merge.WindowWidth > maxWindowWidth {
		return fmt.Errorf("merge.window_width must be between 1 and %d", maxWindowWidth)
	}
	if _, err := c.MergeOptions(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePinyin() error {
	if _, err := c.PinyinStyle(); err != nil {
		return err
	}
	if _, _, err := c.AnnotateColors(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOutput() error {
	suffix := c.Output.Suffix
	if !strings.HasSuffix(strings.ToLower(suffix), ".srt") {
		return errors.New("output.suffix must end with .srt")
	}
	if strings.ContainsAny(suffix, `/\`) {
		return errors.New("output.suffix must not contain path separators")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Concurrency < 0 || c.Batch.Concurrency > maxBatchConcurrency {
		return fmt.Errorf("batch.concurrency must be between 0 and %d", maxBatchConcurrency)
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.RetentionDays < 0 {
		return errors.New("history.retention_days must be non-negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
