package mkvtool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const identifyJSON = `{
  "file_name": "/media/show.mkv",
  "tracks": [
    {"id": 0, "type": "video", "codec": "AVC/H.264/MPEG-4p10", "properties": {"codec_id": "V_MPEG4/ISO/AVC", "language": "und"}},
    {"id": 1, "type": "audio", "codec": "AAC", "properties": {"codec_id": "A_AAC", "language": "chi"}},
    {"id": 2, "type": "subtitles", "codec": "SubStationAlpha", "properties": {"codec_id": "S_TEXT/ASS", "language": "chi", "language_ietf": "zh-Hans", "track_name": "简体"}},
    {"id": 3, "type": "subtitles", "codec": "SubRip/SRT", "properties": {"codec_id": "S_TEXT/UTF8", "language": "eng", "default_track": true}},
    {"id": 4, "type": "subtitles", "codec": "HDMV PGS", "properties": {"codec_id": "S_HDMV/PGS", "language": "eng"}}
  ]
}`

type call struct {
	name string
	args []string
}

func fakeRunner(calls *[]call, output []byte, err error, effect func(args []string)) Runner {
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, call{name: name, args: append([]string(nil), args...)})
		if effect != nil {
			effect(args)
		}
		return output, err
	}
}

func TestIdentify(t *testing.T) {
	var calls []call
	tk := New("mkvmerge-custom", "", nil).WithRunner(fakeRunner(&calls, []byte(identifyJSON), nil, nil))

	info, err := tk.Identify(context.Background(), "/media/show.mkv")
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if len(calls) != 1 || calls[0].name != "mkvmerge-custom" || !reflect.DeepEqual(calls[0].args, []string{"-J", "/media/show.mkv"}) {
		t.Fatalf("unexpected invocation: %+v", calls)
	}

	subs := info.SubtitleTracks()
	if len(subs) != 3 {
		t.Fatalf("expected 3 subtitle tracks, got %d", len(subs))
	}
	tests := []struct {
		track Track
		codec SubtitleCodec
		lang  string
	}{
		{subs[0], CodecASS, "zh"},
		{subs[1], CodecSRT, "en"},
		{subs[2], CodecUnsupported, "en"},
	}
	for _, tt := range tests {
		if got := tt.track.SubtitleCodec(); got != tt.codec {
			t.Errorf("track %d codec = %s, want %s", tt.track.ID, got, tt.codec)
		}
		if got := tt.track.LanguageCode(); got != tt.lang {
			t.Errorf("track %d language = %q, want %q", tt.track.ID, got, tt.lang)
		}
	}
	if subs[0].Properties.TrackName != "简体" {
		t.Errorf("track name = %q", subs[0].Properties.TrackName)
	}
	if !strings.Contains(string(info.Raw()), "SubStationAlpha") {
		t.Error("expected raw JSON to be retained")
	}
}

func TestIdentifyErrors(t *testing.T) {
	var calls []call
	tk := New("", "", nil).WithRunner(fakeRunner(&calls, nil, errors.New("exit status 2"), nil))
	if _, err := tk.Identify(context.Background(), "/x.mkv"); err == nil {
		t.Fatal("expected runner error")
	}
	if _, err := tk.Identify(context.Background(), " "); err == nil {
		t.Fatal("expected empty path error")
	}

	tk.WithRunner(fakeRunner(&calls, []byte("not json"), nil, nil))
	if _, err := tk.Identify(context.Background(), "/x.mkv"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSubtitleCodecFallsBackToCodecName(t *testing.T) {
	tests := []struct {
		codec string
		want  SubtitleCodec
	}{
		{"SubStationAlpha", CodecASS},
		{"SubRip/SRT", CodecSRT},
		{"VobSub", CodecUnsupported},
	}
	for _, tt := range tests {
		track := Track{Type: "subtitles", Codec: tt.codec}
		if got := track.SubtitleCodec(); got != tt.want {
			t.Errorf("codec %q = %s, want %s", tt.codec, got, tt.want)
		}
	}
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "track.ass")
	var calls []call
	tk := New("", "mkvextract", nil).WithRunner(fakeRunner(&calls, nil, nil, func(args []string) {
		_ = os.WriteFile(out, []byte("[Events]\n"), 0o644)
	}))

	if err := tk.Extract(context.Background(), "/media/show.mkv", 2, out); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []string{"/media/show.mkv", "tracks", "2:" + out}
	if calls[0].name != "mkvextract" || !reflect.DeepEqual(calls[0].args, want) {
		t.Fatalf("unexpected invocation: %+v", calls[0])
	}

	missing := filepath.Join(dir, "missing.srt")
	tk.WithRunner(fakeRunner(&calls, nil, nil, nil))
	if err := tk.Extract(context.Background(), "/media/show.mkv", 3, missing); err == nil {
		t.Fatal("expected error when output is not produced")
	}
	if err := tk.Extract(context.Background(), "/media/show.mkv", -1, out); err == nil {
		t.Fatal("expected error for negative track id")
	}
}

func TestMuxSubtitle(t *testing.T) {
	dir := t.TempDir()
	mkv := filepath.Join(dir, "show.mkv")
	srtPath := filepath.Join(dir, "show generated.srt")
	for _, p := range []string{mkv, srtPath} {
		if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	var calls []call
	tk := New("", "", nil).WithRunner(fakeRunner(&calls, nil, nil, func(args []string) {
		_ = os.WriteFile(args[1], []byte("muxed"), 0o644)
	}))

	result, err := tk.MuxSubtitle(context.Background(), MuxRequest{
		MKVPath:       mkv,
		SubtitlePath:  srtPath,
		Language:      "zh",
		Default:       true,
		RemoveSidecar: true,
	})
	if err != nil {
		t.Fatalf("MuxSubtitle: %v", err)
	}
	if !result.SidecarRemoved {
		t.Error("expected sidecar removal")
	}
	data, err := os.ReadFile(mkv)
	if err != nil || string(data) != "muxed" {
		t.Fatalf("expected MKV replaced, got %q err=%v", data, err)
	}

	args := calls[0].args
	joined := strings.Join(args, " ")
	for _, want := range []string{"--language 0:zho", "--track-name 0:Chinese", "--default-track 0:yes"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %v", want, args)
		}
	}
	if args[len(args)-1] != srtPath {
		t.Errorf("subtitle should be the last input, got %v", args)
	}
}

func TestMuxSubtitleValidation(t *testing.T) {
	dir := t.TempDir()
	mp4 := filepath.Join(dir, "show.mp4")
	if err := os.WriteFile(mp4, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tk := New("", "", nil)

	if _, err := tk.MuxSubtitle(context.Background(), MuxRequest{SubtitlePath: "x.srt"}); err == nil {
		t.Error("expected error for missing MKV path")
	}
	if _, err := tk.MuxSubtitle(context.Background(), MuxRequest{MKVPath: mp4, SubtitlePath: "x.srt"}); err == nil {
		t.Error("expected error for non-MKV container")
	}

	mkv := filepath.Join(dir, "show.mkv")
	srtPath := filepath.Join(dir, "show.srt")
	for _, p := range []string{mkv, srtPath} {
		if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	var calls []call
	tk.WithRunner(fakeRunner(&calls, nil, errors.New("exit status 2"), nil))
	if _, err := tk.MuxSubtitle(context.Background(), MuxRequest{MKVPath: mkv, SubtitlePath: srtPath}); err == nil {
		t.Error("expected mkvmerge failure")
	}
	if data, _ := os.ReadFile(mkv); string(data) != "data" {
		t.Errorf("original MKV modified on failure: %q", data)
	}
}
