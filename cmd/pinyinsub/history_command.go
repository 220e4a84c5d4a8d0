package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"pinyinsub/internal/history"
)

type runView struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	Status      string `json:"status"`
	Mode        string `json:"mode"`
	ChineseID   string `json:"chinese_id"`
	SecondaryID string `json:"secondary_id,omitempty"`
	CueCount    int    `json:"cue_count"`
	FusedCount  int    `json:"fused_count"`
	DurationMS  int64  `json:"duration_ms"`
	SourcePath  string `json:"source_path"`
	OutputPath  string `json:"output_path,omitempty"`
	Error       string `json:"error,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent generation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			path := cfg.HistoryPath()
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				if jsonOutput {
					return writeJSON(cmd, []runView{})
				}
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}

			store, err := history.Open(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			views := make([]runView, 0, len(runs))
			for _, run := range runs {
				views = append(views, runView{
					ID:          run.ID,
					CreatedAt:   run.CreatedAt.Local().Format(time.RFC3339),
					Status:      string(run.Status),
					Mode:        run.Mode,
					ChineseID:   run.ChineseID,
					SecondaryID: run.SecondaryID,
					CueCount:    run.CueCount,
					FusedCount:  run.FusedCount,
					DurationMS:  run.Duration.Milliseconds(),
					SourcePath:  run.SourcePath,
					OutputPath:  run.OutputPath,
					Error:       run.Error,
				})
			}

			if jsonOutput {
				return writeJSON(cmd, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistoryTable(views))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderHistoryTable(views []runView) string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		ids := v.ChineseID
		if v.SecondaryID != "" {
			ids += " + " + v.SecondaryID
		}
		status := v.Status
		if v.Error != "" {
			status += ": " + v.Error
		}
		rows = append(rows, []string{
			v.CreatedAt,
			filepath.Base(v.SourcePath),
			v.Mode,
			ids,
			strconv.Itoa(v.CueCount),
			strconv.Itoa(v.FusedCount),
			status,
		})
	}
	return renderTable(
		[]string{"When", "Video", "Mode", "Tracks", "Cues", "Fused", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}
