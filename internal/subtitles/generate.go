package subtitles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pinyinsub/internal/ass"
	"pinyinsub/internal/history"
	"pinyinsub/internal/logging"
	"pinyinsub/internal/mkvtool"
	"pinyinsub/internal/pinyin"
	"pinyinsub/internal/srt"
	"pinyinsub/internal/timeline"
)

// FileResult describes the subtitle generated for one video.
type FileResult struct {
	RunID      string
	SourcePath string
	OutputPath string
	CueCount   int
	Stats      timeline.Stats
	Muxed      bool
	Duration   time.Duration
}

// Result collects the per-video outcomes of Generate.
type Result struct {
	Files []FileResult
}

// Generate builds the pinyin subtitle for the loaded file, or for every video
// of the loaded directory. In directory mode the first failure cancels the
// remaining videos and is returned together with the files already written.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (Result, error) {
	if err := s.validateRequest(req); err != nil {
		return Result{}, err
	}
	path, kind, err := s.loadedPath()
	if err != nil {
		return Result{}, err
	}

	if kind != LoadDir {
		file, err := s.generateFile(ctx, path, req)
		if err != nil {
			return Result{}, err
		}
		return Result{Files: []FileResult{file}}, nil
	}

	videos, err := supportedVideos(path)
	if err != nil {
		return Result{}, err
	}
	if len(videos) == 0 {
		return Result{}, fmt.Errorf("%w: no .mkv or .mp4 files in %s", ErrNoSubtitlesFound, path)
	}

	files := make([]FileResult, len(videos))
	done := make([]bool, len(videos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i, video := range videos {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, err := s.generateFile(gctx, video, req)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(video), err)
			}
			files[i] = file
			done[i] = true
			return nil
		})
	}
	waitErr := g.Wait()

	result := Result{Files: make([]FileResult, 0, len(videos))}
	for i, ok := range done {
		if ok {
			result.Files = append(result.Files, files[i])
		}
	}
	return result, waitErr
}

func (s *Service) generateFile(ctx context.Context, video string, req GenerateRequest) (FileResult, error) {
	started := s.now()
	runID := s.newID()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, s.logger).With(logging.String(logging.FieldVideo, video))

	logger.Info("subtitle generation started",
		logging.String(logging.FieldEventType, "generate_start"),
		logging.String("mode", req.ModeName()),
		logging.String("chinese_id", req.ChineseID),
		logging.String("secondary_id", req.secondaryID()),
	)

	file, err := s.produce(ctx, video, req, logger)
	file.RunID = runID
	file.SourcePath = video
	file.Duration = s.now().Sub(started)
	s.recordRun(ctx, req, file, started, err, logger)

	if err != nil {
		logging.ErrorWithContext(logger, "subtitle generation failed", "generate_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, errorHint(err)),
		)
		return FileResult{}, err
	}
	logger.Info("subtitle generation complete",
		logging.String(logging.FieldEventType, "generate_complete"),
		logging.String("output", file.OutputPath),
		logging.Int("cues", file.CueCount),
		logging.Int("fused", file.Stats.Fused),
		logging.Duration("elapsed", file.Duration),
	)
	return file, nil
}

func (s *Service) produce(ctx context.Context, video string, req GenerateRequest, logger *slog.Logger) (FileResult, error) {
	workDir, err := os.MkdirTemp("", "pinyinsub-")
	if err != nil {
		return FileResult{}, fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Debug("work dir cleanup failed", logging.Error(err))
		}
	}()

	embedded, err := s.embeddedTracks(ctx, video)
	if err != nil {
		return FileResult{}, err
	}
	external, err := externalSubtitles(video, s.config.Output.Suffix)
	if err != nil {
		return FileResult{}, err
	}
	src := sources{video: video, workDir: workDir, embedded: embedded, external: external}

	chinese, err := s.loadSubtitle(ctx, src, req.ChineseID, true, logger)
	if err != nil {
		return FileResult{}, fmt.Errorf("chinese subtitle %s: %w", req.ChineseID, err)
	}

	records, stats, err := s.compose(ctx, src, chinese, req, logger)
	if err != nil {
		return FileResult{}, err
	}

	outputPath := outputPathFor(video, s.config.Output.Suffix)
	if err := s.writeOutput(ctx, outputPath, srt.Compose(records)); err != nil {
		return FileResult{}, err
	}
	file := FileResult{OutputPath: outputPath, CueCount: len(records), Stats: stats}

	if s.shouldMux(video, req) {
		if _, err := s.tools.MuxSubtitle(ctx, mkvtool.MuxRequest{
			MKVPath:      video,
			SubtitlePath: outputPath,
			Language:     s.config.Output.MuxLanguage,
			TrackName:    muxTrackName(req),
		}); err != nil {
			return file, fmt.Errorf("mux subtitle: %w", err)
		}
		file.Muxed = true
	}
	return file, nil
}

// compose annotates the Chinese records according to the request and merges
// the additional language when one is selected.
func (s *Service) compose(ctx context.Context, src sources, chinese []timeline.Record, req GenerateRequest, logger *slog.Logger) ([]timeline.Record, timeline.Stats, error) {
	style, err := s.config.PinyinStyle()
	if err != nil {
		return nil, timeline.Stats{}, err
	}
	hanziColor, pinyinColor, err := s.config.AnnotateColors()
	if err != nil {
		return nil, timeline.Stats{}, err
	}
	annotate := pinyin.AnnotateOptions{
		KeepHanzi:   true,
		HanziColor:  hanziColor,
		PinyinColor: pinyinColor,
	}
	tr := pinyin.New(style)

	if req.Additional == nil {
		out := timeline.Reindex(pinyin.Annotate(chinese, tr, annotate))
		return out, timeline.Stats{Passthrough: len(out)}, nil
	}

	opts, err := s.config.MergeOptions()
	if err != nil {
		return nil, timeline.Stats{}, err
	}
	primary := chinese
	switch req.Additional.Mode {
	case ModeWithPinyin:
		annotate.KeepHanzi = false
		primary = pinyin.Annotate(chinese, tr, annotate)
		opts.PrimaryColor = timeline.ColorNone
	case ModeWithChineseAndPinyin:
		primary = pinyin.Annotate(chinese, tr, annotate)
		opts.PrimaryColor = timeline.ColorNone
	case ModeWithoutPinyin:
		if opts.PrimaryColor == timeline.ColorNone {
			opts.PrimaryColor = timeline.ColorCyan
		}
	}

	secondary, err := s.loadSubtitle(ctx, src, req.Additional.SubtitleID, false, logger)
	if err != nil {
		return nil, timeline.Stats{}, fmt.Errorf("additional subtitle %s: %w", req.Additional.SubtitleID, err)
	}

	result, err := timeline.Combine(primary, secondary, opts)
	if err != nil {
		return nil, timeline.Stats{}, fmt.Errorf("merge timelines: %w", err)
	}
	logger.Debug("timelines merged",
		logging.String("merge_mode", opts.Mode.String()),
		logging.Int("primary_records", len(primary)),
		logging.Int("secondary_records", len(secondary)),
		logging.Int("fused", result.Stats.Fused),
		logging.Int("paired", result.Stats.Paired),
		logging.Int("start_snapped", result.Stats.StartSnapped),
		logging.Int("end_snapped", result.Stats.EndSnapped),
	)
	return result.Records, result.Stats, nil
}

type sources struct {
	video    string
	workDir  string
	embedded []EmbeddedSubtitle
	external []ExternalSubtitle
}

// loadSubtitle resolves id to records. Embedded tracks are extracted into the
// work dir first; when requireChinese is set only Chinese tracks qualify.
func (s *Service) loadSubtitle(ctx context.Context, src sources, id string, requireChinese bool, logger *slog.Logger) ([]timeline.Record, error) {
	if len(src.embedded) == 0 && len(src.external) == 0 {
		return nil, ErrNoSubtitlesFound
	}

	var (
		records []timeline.Record
		err     error
	)
	if isEmbeddedID(id) {
		records, err = s.loadEmbedded(ctx, src, id, requireChinese)
	} else {
		records, err = loadExternal(src.external, id)
	}
	if err != nil {
		return nil, err
	}

	// Unusable cues are dropped here, so timing errors never reach Combine.
	records = srt.Normalize(records)
	if s.config.Output.StripAds {
		var cleaned srt.CleanStats
		records, cleaned = srt.Clean(records)
		if cleaned.RemovedCues > 0 {
			logger.Debug("advertisement cues removed",
				logging.String("subtitle_id", id),
				logging.Int("removed", cleaned.RemovedCues),
			)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: subtitle %s has no usable cues", ErrNoSubtitlesFound, id)
	}
	return records, nil
}

func (s *Service) loadEmbedded(ctx context.Context, src sources, id string, requireChinese bool) ([]timeline.Record, error) {
	trackID, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("%w: bad track id %q", ErrNoSubtitlesFound, id)
	}
	var track *EmbeddedSubtitle
	for i := range src.embedded {
		if src.embedded[i].ID == trackID {
			track = &src.embedded[i]
			break
		}
	}
	if track == nil {
		if requireChinese {
			return nil, ErrNoChineseFound
		}
		return nil, ErrNoSubtitlesFound
	}
	if requireChinese && !track.IsChinese() {
		return nil, fmt.Errorf("%w: track %d is tagged %q", ErrNoChineseFound, trackID, track.Language)
	}
	if track.Codec == mkvtool.CodecUnsupported {
		return nil, fmt.Errorf("%w: track %d", ErrCodecNotSupported, trackID)
	}

	outPath := filepath.Join(src.workDir, fmt.Sprintf("track-%d%s", trackID, track.Codec.Extension()))
	if err := s.tools.Extract(ctx, src.video, trackID, outPath); err != nil {
		return nil, fmt.Errorf("extract track %d: %w", trackID, err)
	}
	if track.Codec == mkvtool.CodecASS {
		return ass.ReadFile(outPath)
	}
	return srt.ReadFile(outPath)
}

func loadExternal(external []ExternalSubtitle, id string) ([]timeline.Record, error) {
	for _, sub := range external {
		if sub.ID != id {
			continue
		}
		if sub.Format == FormatASS {
			return ass.ReadFile(sub.Path)
		}
		return srt.ReadFile(sub.Path)
	}
	return nil, fmt.Errorf("%w: no sidecar %s", ErrNoSubtitlesFound, id)
}

func (s *Service) shouldMux(video string, req GenerateRequest) bool {
	if !req.Mux && !s.config.Output.MuxIntoMKV {
		return false
	}
	return strings.EqualFold(filepath.Ext(video), ".mkv")
}

func muxTrackName(req GenerateRequest) string {
	switch req.ModeName() {
	case string(ModeWithoutPinyin):
		return "Chinese (bilingual)"
	case string(ModeWithPinyin):
		return "Pinyin (bilingual)"
	case string(ModeWithChineseAndPinyin):
		return "Chinese + Pinyin (bilingual)"
	default:
		return "Chinese + Pinyin"
	}
}

func outputPathFor(video, suffix string) string {
	return strings.TrimSuffix(video, filepath.Ext(video)) + suffix
}

func (s *Service) recordRun(ctx context.Context, req GenerateRequest, file FileResult, started time.Time, runErr error, logger *slog.Logger) {
	if s.history == nil {
		return
	}
	run := history.Run{
		ID:          file.RunID,
		SourcePath:  file.SourcePath,
		OutputPath:  file.OutputPath,
		Mode:        req.ModeName(),
		ChineseID:   req.ChineseID,
		SecondaryID: req.secondaryID(),
		CueCount:    file.CueCount,
		FusedCount:  file.Stats.Fused,
		Status:      history.StatusSucceeded,
		Duration:    file.Duration,
		CreatedAt:   started,
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	}
	// Recording failures are logged only.
	if _, err := s.history.Record(context.WithoutCancel(ctx), run); err != nil {
		logging.WarnWithContext(logger, "failed to record run history", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions or delete history.db"),
			logging.String(logging.FieldImpact, "run missing from pinyinsub history"),
		)
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, ErrNoChineseFound):
		return "pick a track tagged chi/zho or a sidecar id (see pinyinsub tracks)"
	case errors.Is(err, ErrCodecNotSupported):
		return "image subtitles (PGS/VobSub) need OCR first"
	case errors.Is(err, ErrNoSubtitlesFound):
		return "list available ids with pinyinsub tracks"
	default:
		return "rerun with --log-level debug for details"
	}
}
