package mkvtool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pinyinsub/internal/language"
	"pinyinsub/internal/logging"
)

// SubtitleCodec classifies subtitle tracks by the converter they need.
type SubtitleCodec int

const (
	CodecUnsupported SubtitleCodec = iota
	CodecASS
	CodecSRT
)

func (c SubtitleCodec) String() string {
	switch c {
	case CodecASS:
		return "ass"
	case CodecSRT:
		return "srt"
	default:
		return "unsupported"
	}
}

// Extension returns the file extension extracted tracks of this codec use.
func (c SubtitleCodec) Extension() string {
	switch c {
	case CodecASS:
		return ".ass"
	case CodecSRT:
		return ".srt"
	default:
		return ".bin"
	}
}

// Info is the decoded `mkvmerge -J` identification output.
type Info struct {
	FileName string  `json:"file_name"`
	Tracks   []Track `json:"tracks"`
	raw      []byte
}

// Track describes one track of the container.
type Track struct {
	ID         int        `json:"id"`
	Type       string     `json:"type"`
	Codec      string     `json:"codec"`
	Properties Properties `json:"properties"`
}

// Properties holds the track metadata used for subtitle selection.
type Properties struct {
	CodecID      string `json:"codec_id"`
	Language     string `json:"language"`
	LanguageIETF string `json:"language_ietf"`
	TrackName    string `json:"track_name"`
	DefaultTrack bool   `json:"default_track"`
	ForcedTrack  bool   `json:"forced_track"`
}

// IsSubtitle reports whether the track carries subtitles.
func (t Track) IsSubtitle() bool {
	return t.Type == "subtitles"
}

// SubtitleCodec maps the track codec onto a supported converter.
func (t Track) SubtitleCodec() SubtitleCodec {
	switch strings.ToUpper(t.Properties.CodecID) {
	case "S_TEXT/ASS", "S_TEXT/SSA", "S_ASS", "S_SSA":
		return CodecASS
	case "S_TEXT/UTF8", "S_TEXT/ASCII":
		return CodecSRT
	}
	codec := strings.ToLower(t.Codec)
	switch {
	case strings.Contains(codec, "substationalpha"), strings.Contains(codec, "ass"), strings.Contains(codec, "ssa"):
		return CodecASS
	case strings.Contains(codec, "subrip"), strings.Contains(codec, "srt"):
		return CodecSRT
	default:
		return CodecUnsupported
	}
}

// LanguageCode returns the track language as ISO 639-1 when known.
func (t Track) LanguageCode() string {
	return language.FromTrack(t.Properties.Language, t.Properties.LanguageIETF)
}

// SubtitleTracks returns the subtitle tracks in container order.
func (i Info) SubtitleTracks() []Track {
	var out []Track
	for _, track := range i.Tracks {
		if track.IsSubtitle() {
			out = append(out, track)
		}
	}
	return out
}

// Raw returns a copy of the undecoded JSON.
func (i Info) Raw() []byte {
	return append([]byte(nil), i.raw...)
}

// Identify lists the tracks of a Matroska (or any mkvmerge-readable) file.
func (t *Toolkit) Identify(ctx context.Context, path string) (Info, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Info{}, errors.New("mkvmerge identify: empty path")
	}
	output, err := t.run(ctx, t.mkvmerge, "-J", path)
	if err != nil {
		return Info{}, fmt.Errorf("mkvmerge identify: %w", err)
	}

	var info Info
	if err := json.Unmarshal(output, &info); err != nil {
		return Info{}, fmt.Errorf("mkvmerge identify parse: %w", err)
	}
	info.raw = append([]byte(nil), output...)

	t.logger.Debug("container identified",
		logging.String(logging.FieldVideo, path),
		logging.Int("track_count", len(info.Tracks)),
		logging.Int("subtitle_tracks", len(info.SubtitleTracks())),
	)
	return info, nil
}
