package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pinyinsub/internal/ass"
	"pinyinsub/internal/fileutil"
	"pinyinsub/internal/srt"
	"pinyinsub/internal/timeline"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var primaryColor string
	var secondaryColor string
	var merge mergeFlags

	cmd := &cobra.Command{
		Use:   "merge <primary.srt|ass> <secondary.srt|ass>",
		Short: "Merge two subtitle files onto one timeline",
		Long: `Merge two subtitle files without any pinyin processing.

Cues whose start and end both lie within the tolerance are fused into one
cue with the secondary text above the primary text. Everything else is
interleaved chronologically and boundaries of neighbouring cues are snapped
together.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			cfg := *loaded
			if cmd.Flags().Changed("primary-color") {
				cfg.Merge.PrimaryColor = primaryColor
			}
			if cmd.Flags().Changed("secondary-color") {
				cfg.Merge.SecondaryColor = secondaryColor
			}
			if err := merge.apply(cmd, &cfg); err != nil {
				return err
			}
			opts, err := cfg.MergeOptions()
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				return errors.New("--output is required")
			}

			primary, err := readSubtitleFile(args[0])
			if err != nil {
				return err
			}
			secondary, err := readSubtitleFile(args[1])
			if err != nil {
				return err
			}

			result, err := timeline.Combine(primary, secondary, opts)
			if err != nil {
				var recErr *timeline.RecordError
				if errors.As(err, &recErr) {
					return fmt.Errorf("%s cue starting at %s ends before it starts: %w", recErr.Stream, srt.FormatTimestamp(recErr.Start), err)
				}
				return err
			}
			if err := fileutil.WriteFileAtomic(target, srt.Compose(result.Records), 0o644); err != nil {
				return err
			}

			stats := result.Stats
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (cues: %d, fused: %d, paired: %d, snapped: %d/%d)\n",
				target, len(result.Records), stats.Fused, stats.Paired, stats.StartSnapped, stats.EndSnapped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination SRT file")
	cmd.Flags().StringVar(&primaryColor, "primary-color", "", "Color for primary text (white, cyan, yellow, green, none)")
	cmd.Flags().StringVar(&secondaryColor, "secondary-color", "", "Color for secondary text")
	merge.register(cmd)
	return cmd
}

// readSubtitleFile loads an SRT or ASS file as records sorted by start. Cues
// are passed on as written so malformed timing reaches the merge engine.
func readSubtitleFile(path string) ([]timeline.Record, error) {
	var (
		records []timeline.Record
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ass", ".ssa":
		records, err = ass.ReadFile(path)
	default:
		records, err = srt.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return timeline.Reindex(records), nil
}
