package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMerge()
	c.normalizePinyin()
	c.normalizeOutput()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMerge() {
	c.Merge.Mode = strings.ToLower(strings.TrimSpace(c.Merge.Mode))
	if c.Merge.Mode == "" {
		c.Merge.Mode = defaultMergeMode
	}
	c.Merge.PrimaryColor = strings.ToLower(strings.TrimSpace(c.Merge.PrimaryColor))
	c.Merge.SecondaryColor = strings.ToLower(strings.TrimSpace(c.Merge.SecondaryColor))
}

func (c *Config) normalizePinyin() {
	c.Pinyin.Style = strings.ToLower(strings.TrimSpace(c.Pinyin.Style))
	if c.Pinyin.Style == "" {
		c.Pinyin.Style = defaultPinyinStyle
	}
	c.Pinyin.HanziColor = strings.ToLower(strings.TrimSpace(c.Pinyin.HanziColor))
	c.Pinyin.PinyinColor = strings.ToLower(strings.TrimSpace(c.Pinyin.PinyinColor))
}

func (c *Config) normalizeOutput() {
	if c.Output.Suffix == "" {
		c.Output.Suffix = defaultOutputSuffix
	}
	c.Output.MuxLanguage = strings.ToLower(strings.TrimSpace(c.Output.MuxLanguage))
	if c.Output.MuxLanguage == "" {
		c.Output.MuxLanguage = defaultMuxLanguage
	}
}

func (c *Config) normalizeTools() {
	c.Tools.Mkvmerge = strings.TrimSpace(c.Tools.Mkvmerge)
	if c.Tools.Mkvmerge == "" {
		c.Tools.Mkvmerge = defaultMkvmerge
	}
	c.Tools.Mkvextract = strings.TrimSpace(c.Tools.Mkvextract)
	if c.Tools.Mkvextract == "" {
		c.Tools.Mkvextract = defaultMkvextract
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv(logLevelEnv); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
