package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"pinyinsub/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools and show where pinyinsub keeps its files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			fmt.Fprintln(out, sectionHeader("Tools", colorize))
			for _, line := range dependencyLines(statuses) {
				fmt.Fprintln(out, line.render(colorize))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, sectionHeader("Configuration", colorize))
			configLine := statusLine{"Config", statusInfo, ctx.configPath}
			if _, err := os.Stat(ctx.configPath); errors.Is(err, os.ErrNotExist) {
				configLine = statusLine{"Config", statusWarn, "not found, using defaults (run pinyinsub config init)"}
			}
			historyLine := statusLine{"History", statusInfo, "disabled"}
			if cfg.History.Enabled {
				historyLine.message = cfg.HistoryPath()
			}
			for _, line := range []statusLine{
				configLine,
				{"Logs", statusInfo, cfg.Paths.LogDir},
				historyLine,
				{"Tolerance", statusInfo, strconv.Itoa(cfg.Merge.ToleranceMS) + "ms"},
				{"Stabilize", statusInfo, yesNo(cfg.Merge.Stabilize) + ", window " + strconv.Itoa(cfg.Merge.WindowWidth)},
			} {
				fmt.Fprintln(out, line.render(colorize))
			}

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) missing", len(missing))
			}
			return nil
		},
	}
}
