package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pinyinsub/internal/language"
	"pinyinsub/internal/logging"
	"pinyinsub/internal/subtitles"
)

type trackView struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Language string `json:"language,omitempty"`
	Codec    string `json:"codec"`
	Chinese  bool   `json:"chinese"`
	Detail   string `json:"detail,omitempty"`
}

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tracks <video-or-directory>",
		Short: "List embedded and sidecar subtitles usable as --chinese/--with ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			service := ctx.newService(cfg, logger, nil)
			if service.Load(args[0]) == subtitles.LoadInvalid {
				return fmt.Errorf("path %q does not exist", args[0])
			}

			var views []trackView
			embedded, err := service.EmbeddedSubtitles(cmd.Context())
			if err != nil {
				if errors.Is(err, subtitles.ErrNotLoaded) {
					return err
				}
				logging.WarnWithContext(logger, "embedded subtitles unavailable", "identify_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "install mkvtoolnix or check pinyinsub status"),
					logging.String(logging.FieldImpact, "only sidecar subtitles are listed"),
				)
			}
			for _, sub := range embedded {
				views = append(views, embeddedView(sub))
			}

			external, err := service.ExternalSubtitles()
			if err != nil {
				return err
			}
			for _, sub := range external {
				views = append(views, trackView{
					ID:       sub.ID,
					Source:   "sidecar",
					Language: sub.Language,
					Codec:    strings.TrimPrefix(string(sub.Format), "."),
					Chinese:  language.IsChinese(sub.Language),
					Detail:   filepath.Base(sub.Path),
				})
			}

			if jsonOutput {
				if views == nil {
					views = []trackView{}
				}
				return writeJSON(cmd, views)
			}
			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No subtitles found")
				return nil
			}
			fmt.Fprintln(out, renderTracksTable(views))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func embeddedView(sub subtitles.EmbeddedSubtitle) trackView {
	var flags []string
	if sub.Default {
		flags = append(flags, "default")
	}
	if sub.Forced {
		flags = append(flags, "forced")
	}
	detail := sub.Name
	if len(flags) > 0 {
		detail = strings.TrimSpace(detail + " (" + strings.Join(flags, ", ") + ")")
	}
	return trackView{
		ID:       strconv.Itoa(sub.ID),
		Source:   "embedded",
		Language: sub.Language,
		Codec:    sub.Codec.String(),
		Chinese:  sub.IsChinese(),
		Detail:   detail,
	}
}

func renderTracksTable(views []trackView) string {
	table := make([][]string, 0, len(views))
	for _, v := range views {
		lang := "-"
		if v.Language != "" {
			lang = fmt.Sprintf("%s (%s)", language.DisplayName(v.Language), v.Language)
		}
		table = append(table, []string{v.ID, v.Source, lang, v.Codec, yesNo(v.Chinese), v.Detail})
	}
	return renderTable(
		[]string{"ID", "Source", "Language", "Codec", "Chinese", "Detail"},
		table,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}
