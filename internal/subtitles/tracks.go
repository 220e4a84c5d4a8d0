package subtitles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"pinyinsub/internal/language"
	"pinyinsub/internal/mkvtool"
)

var videoExtensions = map[string]struct{}{
	".mkv": {},
	".mp4": {},
}

// SidecarFormat is the file format of an external subtitle.
type SidecarFormat string

const (
	FormatSRT SidecarFormat = ".srt"
	FormatASS SidecarFormat = ".ass"
)

// EmbeddedSubtitle is a subtitle track stored inside the container.
type EmbeddedSubtitle struct {
	ID       int
	Language string
	Codec    mkvtool.SubtitleCodec
	Name     string
	Default  bool
	Forced   bool
}

// IsChinese reports whether the track is tagged as any Chinese variant.
func (e EmbeddedSubtitle) IsChinese() bool {
	return language.IsChinese(e.Language)
}

// ExternalSubtitle is a sidecar file next to the video. Language is taken
// from a tag between the video name and the extension (show.zh.srt) and is
// empty when there is none.
type ExternalSubtitle struct {
	ID       string
	Path     string
	Format   SidecarFormat
	Language string
}

// EmbeddedSubtitles lists the readable subtitle tracks of the loaded file.
// For a directory the first video in it is inspected.
func (s *Service) EmbeddedSubtitles(ctx context.Context) ([]EmbeddedSubtitle, error) {
	video, err := s.representativeVideo()
	if err != nil || video == "" {
		return nil, err
	}
	all, err := s.embeddedTracks(ctx, video)
	if err != nil {
		return nil, err
	}
	supported := make([]EmbeddedSubtitle, 0, len(all))
	for _, sub := range all {
		if sub.Codec != mkvtool.CodecUnsupported {
			supported = append(supported, sub)
		}
	}
	return supported, nil
}

// ExternalSubtitles lists sidecar subtitles of the loaded file, or of the
// first video when a directory is loaded.
func (s *Service) ExternalSubtitles() ([]ExternalSubtitle, error) {
	video, err := s.representativeVideo()
	if err != nil || video == "" {
		return nil, err
	}
	return externalSubtitles(video, s.config.Output.Suffix)
}

func (s *Service) representativeVideo() (string, error) {
	path, kind, err := s.loadedPath()
	if err != nil {
		return "", err
	}
	if kind != LoadDir {
		return path, nil
	}
	videos, err := supportedVideos(path)
	if err != nil {
		return "", err
	}
	if len(videos) == 0 {
		return "", nil
	}
	return videos[0], nil
}

// embeddedTracks returns every subtitle track, including unsupported codecs.
func (s *Service) embeddedTracks(ctx context.Context, video string) ([]EmbeddedSubtitle, error) {
	info, err := s.tools.Identify(ctx, video)
	if err != nil {
		return nil, fmt.Errorf("identify %s: %w", filepath.Base(video), err)
	}
	tracks := info.SubtitleTracks()
	out := make([]EmbeddedSubtitle, 0, len(tracks))
	for _, track := range tracks {
		out = append(out, EmbeddedSubtitle{
			ID:       track.ID,
			Language: track.LanguageCode(),
			Codec:    track.SubtitleCodec(),
			Name:     track.Properties.TrackName,
			Default:  track.Properties.DefaultTrack,
			Forced:   track.Properties.ForcedTrack,
		})
	}
	return out, nil
}

// supportedVideos returns the .mkv/.mp4 files directly inside dir, sorted by name.
func supportedVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var videos []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := videoExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			videos = append(videos, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(videos)
	return videos, nil
}

// externalSubtitles finds files sharing the video's base name. SRT files come
// before ASS files, each group sorted by name, and ids follow that order.
// Files ending in the output suffix are previous results and are skipped.
func externalSubtitles(video, outputSuffix string) ([]ExternalSubtitle, error) {
	dir := filepath.Dir(video)
	base := strings.TrimSuffix(filepath.Base(video), filepath.Ext(video))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var srts, asses []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, base) {
			continue
		}
		if outputSuffix != "" && strings.HasSuffix(name, outputSuffix) {
			continue
		}
		switch SidecarFormat(strings.ToLower(filepath.Ext(name))) {
		case FormatSRT:
			srts = append(srts, name)
		case FormatASS:
			asses = append(asses, name)
		}
	}
	sort.Strings(srts)
	sort.Strings(asses)

	out := make([]ExternalSubtitle, 0, len(srts)+len(asses))
	for _, name := range append(srts, asses...) {
		ext := filepath.Ext(name)
		out = append(out, ExternalSubtitle{
			ID:       externalID(len(out)),
			Path:     filepath.Join(dir, name),
			Format:   SidecarFormat(strings.ToLower(ext)),
			Language: sidecarLanguage(strings.TrimSuffix(strings.TrimPrefix(name, base), ext)),
		})
	}
	return out, nil
}

// sidecarLanguage reads the last dot-separated tag, so ".forced.zh-Hans"
// and ".chi" both resolve.
func sidecarLanguage(tag string) string {
	tag = strings.Trim(tag, ". _-")
	if tag == "" {
		return ""
	}
	if i := strings.LastIndex(tag, "."); i >= 0 {
		tag = tag[i+1:]
	}
	return language.ToISO2(tag)
}

func externalID(index int) string {
	return "ext-" + strconv.Itoa(index)
}

// isEmbeddedID reports whether id names a container track rather than a sidecar.
func isEmbeddedID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
