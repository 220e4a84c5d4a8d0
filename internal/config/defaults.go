package config

const (
	defaultConfigPath       = "~/.config/pinyinsub/config.toml"
	defaultLogDir           = "~/.local/share/pinyinsub/logs"
	defaultStateDir         = "~/.local/share/pinyinsub"
	defaultToleranceMS      = 600
	defaultWindowWidth      = 2
	defaultMergeMode        = "fuse"
	defaultPinyinStyle      = "tone"
	defaultHanziColor       = "white"
	defaultPinyinColor      = "cyan"
	defaultOutputSuffix     = " generated.srt"
	defaultMuxLanguage      = "zh"
	defaultMkvmerge         = "mkvmerge"
	defaultMkvextract       = "mkvextract"
	defaultHistoryRetention = 90
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	maxToleranceMS          = 10_000
	maxWindowWidth          = 16
	maxBatchConcurrency     = 64
	logLevelEnv             = "PINYINSUB_LOG_LEVEL"
)

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Merge: Merge{
			ToleranceMS: defaultToleranceMS,
			WindowWidth: defaultWindowWidth,
			Stabilize:   true,
			Mode:        defaultMergeMode,
		},
		Pinyin: Pinyin{
			Style:       defaultPinyinStyle,
			HanziColor:  defaultHanziColor,
			PinyinColor: defaultPinyinColor,
		},
		Output: Output{
			Suffix:      defaultOutputSuffix,
			StripAds:    true,
			MuxLanguage: defaultMuxLanguage,
		},
		Tools: Tools{
			Mkvmerge:   defaultMkvmerge,
			Mkvextract: defaultMkvextract,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultHistoryRetention,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
