package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"pinyinsub/internal/pinyin"
	"pinyinsub/internal/timeline"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	StateDir string `toml:"state_dir"`
}

// Merge contains timeline merge settings.
type Merge struct {
	ToleranceMS    int    `toml:"tolerance_ms"`
	WindowWidth    int    `toml:"window_width"`
	Stabilize      bool   `toml:"stabilize"`
	Mode           string `toml:"mode"`
	PrimaryColor   string `toml:"primary_color"`
	SecondaryColor string `toml:"secondary_color"`
}

// Pinyin contains transliteration settings.
type Pinyin struct {
	Style       string `toml:"style"`
	HanziColor  string `toml:"hanzi_color"`
	PinyinColor string `toml:"pinyin_color"`
}

// Output contains settings for generated subtitle files.
type Output struct {
	Suffix      string `toml:"suffix"`
	StripAds    bool   `toml:"strip_ads"`
	MuxIntoMKV  bool   `toml:"mux_into_mkv"`
	MuxLanguage string `toml:"mux_language"`
}

// Tools names the external MKVToolNix executables.
type Tools struct {
	Mkvmerge   string `toml:"mkvmerge"`
	Mkvextract string `toml:"mkvextract"`
}

// Batch controls directory processing.
type Batch struct {
	// Concurrency bounds parallel videos; 0 means one per CPU.
	Concurrency int `toml:"concurrency"`
}

// History controls the run ledger.
type History struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for pinyinsub.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Merge   Merge   `toml:"merge"`
	Pinyin  Pinyin  `toml:"pinyin"`
	Output  Output  `toml:"output"`
	Tools   Tools   `toml:"tools"`
	Batch   Batch   `toml:"batch"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pinyinsub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the location of the run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// MergeOptions converts the [merge] section into engine options.
func (c *Config) MergeOptions() (timeline.Options, error) {
	mode, err := timeline.ParseMode(c.Merge.Mode)
	if err != nil {
		return timeline.Options{}, fmt.Errorf("merge.mode: %w", err)
	}
	primary, err := timeline.ParseColor(c.Merge.PrimaryColor)
	if err != nil {
		return timeline.Options{}, fmt.Errorf("merge.primary_color: %w", err)
	}
	secondary, err := timeline.ParseColor(c.Merge.SecondaryColor)
	if err != nil {
		return timeline.Options{}, fmt.Errorf("merge.secondary_color: %w", err)
	}
	return timeline.Options{
		Tolerance:      time.Duration(c.Merge.ToleranceMS) * time.Millisecond,
		WindowWidth:    c.Merge.WindowWidth,
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		Mode:           mode,
		Stabilize:      c.Merge.Stabilize,
	}, nil
}

// PinyinStyle returns the configured transliteration style.
func (c *Config) PinyinStyle() (pinyin.Style, error) {
	style, err := pinyin.ParseStyle(c.Pinyin.Style)
	if err != nil {
		return pinyin.StyleTone, fmt.Errorf("pinyin.style: %w", err)
	}
	return style, nil
}

// AnnotateColors returns the hanzi and pinyin line colors.
func (c *Config) AnnotateColors() (timeline.Color, timeline.Color, error) {
	hanzi, err := timeline.ParseColor(c.Pinyin.HanziColor)
	if err != nil {
		return timeline.ColorNone, timeline.ColorNone, fmt.Errorf("pinyin.hanzi_color: %w", err)
	}
	py, err := timeline.ParseColor(c.Pinyin.PinyinColor)
	if err != nil {
		return timeline.ColorNone, timeline.ColorNone, fmt.Errorf("pinyin.pinyin_color: %w", err)
	}
	return hanzi, py, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
