package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pinyinsub/internal/config"
	"pinyinsub/internal/logging"
	"pinyinsub/internal/subtitles"
)

type mergeFlags struct {
	tolerance   int
	window      int
	noStabilize bool
	concat      bool
}

func (f *mergeFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.tolerance, "tolerance", 0, "Fuse tolerance in milliseconds (default: merge.tolerance_ms)")
	cmd.Flags().IntVar(&f.window, "window", 0, "Stabilizer window width (default: merge.window_width)")
	cmd.Flags().BoolVar(&f.noStabilize, "no-stabilize", false, "Skip boundary stabilization")
	cmd.Flags().BoolVar(&f.concat, "concat", false, "Interleave both timelines without fusing")
}

// apply copies changed flags onto cfg and revalidates it.
func (f *mergeFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("tolerance") {
		cfg.Merge.ToleranceMS = f.tolerance
	}
	if cmd.Flags().Changed("window") {
		cfg.Merge.WindowWidth = f.window
	}
	if f.noStabilize {
		cfg.Merge.Stabilize = false
	}
	if f.concat {
		cfg.Merge.Mode = "concat"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var chineseID string
	var withID string
	var modeFlag string
	var mux bool
	var merge mergeFlags

	cmd := &cobra.Command{
		Use:   "generate <video-or-directory>",
		Short: "Write '<name> generated.srt' with pinyin next to each video",
		Long: `Generate a Chinese subtitle annotated with pinyin.

Use 'pinyinsub tracks' to find ids. Embedded tracks use their numeric id,
sidecar files use ext-<n>. With --with the second language is merged onto the
same timeline; --mode picks how the Chinese side is shown:

  with_chinese_and_pinyin  characters and pinyin (default)
  with_pinyin              pinyin only
  without_pinyin           characters in cyan, no pinyin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			cfg := *loaded
			if err := merge.apply(cmd, &cfg); err != nil {
				return err
			}

			req := subtitles.GenerateRequest{ChineseID: strings.TrimSpace(chineseID), Mux: mux}
			if strings.TrimSpace(withID) != "" {
				mode, err := subtitles.ParseAdditionalMode(modeFlag)
				if err != nil {
					return err
				}
				req.Additional = &subtitles.AdditionalLanguage{Mode: mode, SubtitleID: strings.TrimSpace(withID)}
			} else if cmd.Flags().Changed("mode") {
				return errors.New("--mode requires --with")
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			store := ctx.openHistory(cmd.Context(), logger)
			if store != nil {
				defer store.Close()
				if days := cfg.History.RetentionDays; days > 0 {
					if removed, err := store.Prune(cmd.Context(), time.Now().AddDate(0, 0, -days)); err != nil {
						logger.Debug("history prune failed", logging.Error(err))
					} else if removed > 0 {
						logger.Debug("history pruned", logging.Int("removed", int(removed)))
					}
				}
			}

			service := ctx.newService(&cfg, logger, store)
			if service.Load(args[0]) == subtitles.LoadInvalid {
				return fmt.Errorf("path %q does not exist", args[0])
			}

			result, err := service.Generate(cmd.Context(), req)
			out := cmd.OutOrStdout()
			for _, file := range result.Files {
				line := fmt.Sprintf("Generated %s (cues: %d", file.OutputPath, file.CueCount)
				if req.Additional != nil {
					line += fmt.Sprintf(", fused: %d", file.Stats.Fused)
				}
				line += ")"
				if file.Muxed {
					line += " and muxed into " + file.SourcePath
				}
				fmt.Fprintln(out, line)
			}
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&chineseID, "chinese", "", "Chinese subtitle id (track number or ext-<n>)")
	cmd.Flags().StringVar(&withID, "with", "", "Second-language subtitle id to merge")
	cmd.Flags().StringVar(&modeFlag, "mode", string(subtitles.ModeWithChineseAndPinyin), "Presentation when merging: with_chinese_and_pinyin, with_pinyin, without_pinyin")
	cmd.Flags().BoolVar(&mux, "mux", false, "Also embed the result into MKV sources")
	merge.register(cmd)
	_ = cmd.MarkFlagRequired("chinese")
	return cmd
}
