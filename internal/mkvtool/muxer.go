package mkvtool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pinyinsub/internal/language"
	"pinyinsub/internal/logging"
)

// MuxRequest describes a subtitle to embed into an MKV.
type MuxRequest struct {
	MKVPath       string
	SubtitlePath  string
	Language      string // ISO 639-1 or 639-2
	TrackName     string
	Default       bool
	RemoveSidecar bool
}

// MuxResult reports the outcome of subtitle muxing.
type MuxResult struct {
	OutputPath     string
	SidecarRemoved bool
}

// MuxSubtitle embeds the subtitle into the MKV. A temporary file is written
// next to the source and renamed over it on success.
func (t *Toolkit) MuxSubtitle(ctx context.Context, req MuxRequest) (MuxResult, error) {
	if strings.TrimSpace(req.MKVPath) == "" {
		return MuxResult{}, errors.New("MKV path is required")
	}
	if strings.TrimSpace(req.SubtitlePath) == "" {
		return MuxResult{}, errors.New("subtitle path is required")
	}
	if !strings.EqualFold(filepath.Ext(req.MKVPath), ".mkv") {
		return MuxResult{}, fmt.Errorf("cannot mux into %s: not an MKV file", filepath.Base(req.MKVPath))
	}
	if _, err := os.Stat(req.MKVPath); err != nil {
		return MuxResult{}, fmt.Errorf("source MKV not found: %w", err)
	}
	if _, err := os.Stat(req.SubtitlePath); err != nil {
		return MuxResult{}, fmt.Errorf("subtitle file not found %q: %w", req.SubtitlePath, err)
	}

	dir := filepath.Dir(req.MKVPath)
	tmpPath := filepath.Join(dir, ".mux-"+filepath.Base(req.MKVPath)+".tmp")
	args := buildMuxArgs(req, tmpPath)

	t.logger.Debug("executing mkvmerge",
		logging.String("mkv_path", req.MKVPath),
		logging.String("language", req.Language),
		logging.Bool("default_track", req.Default),
	)

	if _, err := t.run(ctx, t.mkvmerge, args...); err != nil {
		_ = os.Remove(tmpPath)
		return MuxResult{}, fmt.Errorf("mkvmerge failed: %w", err)
	}
	if _, err := os.Stat(tmpPath); err != nil {
		return MuxResult{}, fmt.Errorf("mkvmerge did not produce output file: %w", err)
	}
	if err := os.Rename(tmpPath, req.MKVPath); err != nil {
		_ = os.Remove(tmpPath)
		return MuxResult{}, fmt.Errorf("failed to replace original MKV: %w", err)
	}

	result := MuxResult{OutputPath: req.MKVPath}
	if req.RemoveSidecar {
		if err := os.Remove(req.SubtitlePath); err != nil {
			logging.WarnWithContext(t.logger, "failed to remove sidecar SRT after muxing", "sidecar_removal_failed",
				logging.Error(err),
				logging.String("srt_path", req.SubtitlePath),
				logging.String(logging.FieldImpact, "generated SRT left next to the video"),
			)
		} else {
			result.SidecarRemoved = true
		}
	}

	t.logger.Info("subtitle muxed into MKV",
		logging.String(logging.FieldEventType, "subtitle_mux_complete"),
		logging.String("mkv_path", req.MKVPath),
		logging.Bool("sidecar_removed", result.SidecarRemoved),
	)
	return result, nil
}

func buildMuxArgs(req MuxRequest, outputPath string) []string {
	trackName := strings.TrimSpace(req.TrackName)
	if trackName == "" {
		trackName = language.DisplayName(req.Language)
	}
	defaultFlag := "0:no"
	if req.Default {
		defaultFlag = "0:yes"
	}
	return []string{
		"-o", outputPath,
		req.MKVPath,
		"--language", "0:" + language.ToISO3(req.Language),
		"--track-name", "0:" + trackName,
		"--default-track", defaultFlag,
		req.SubtitlePath,
	}
}
