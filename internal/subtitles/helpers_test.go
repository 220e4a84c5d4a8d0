package subtitles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pinyinsub/internal/config"
	"pinyinsub/internal/history"
	"pinyinsub/internal/mkvtool"
)

const chineseASS = `[Script Info]
ScriptType: v4.00+

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:03.00,Default,,0,0,0,,你好
Dialogue: 0,0:00:05.00,0:00:07.00,Default,,0,0,0,,谢谢
`

const chineseSRT = `1
00:00:01,000 --> 00:00:03,000
你好

2
00:00:05,000 --> 00:00:07,000
谢谢
`

const englishSRT = `1
00:00:01,100 --> 00:00:03,200
Hello

2
00:00:10,000 --> 00:00:12,000
Bye
`

type fakeTools struct {
	mu          sync.Mutex
	tracks      []mkvtool.Track
	content     map[int]string
	identifyErr error
	extracted   []int
	muxed       []mkvtool.MuxRequest
}

func newFakeTools() *fakeTools {
	return &fakeTools{
		tracks: []mkvtool.Track{
			{ID: 0, Type: "video", Codec: "AVC/H.264/MPEG-4p10"},
			{ID: 2, Type: "subtitles", Codec: "SubStationAlpha", Properties: mkvtool.Properties{CodecID: "S_TEXT/ASS", Language: "chi", TrackName: "简体"}},
			{ID: 3, Type: "subtitles", Codec: "SubRip/SRT", Properties: mkvtool.Properties{CodecID: "S_TEXT/UTF8", Language: "eng"}},
			{ID: 4, Type: "subtitles", Codec: "HDMV PGS", Properties: mkvtool.Properties{CodecID: "S_HDMV/PGS", Language: "chi"}},
		},
		content: map[int]string{
			2: chineseASS,
			3: englishSRT,
		},
	}
}

func (f *fakeTools) Identify(_ context.Context, path string) (mkvtool.Info, error) {
	if f.identifyErr != nil {
		return mkvtool.Info{}, f.identifyErr
	}
	return mkvtool.Info{FileName: path, Tracks: f.tracks}, nil
}

func (f *fakeTools) Extract(_ context.Context, _ string, trackID int, outPath string) error {
	f.mu.Lock()
	f.extracted = append(f.extracted, trackID)
	f.mu.Unlock()
	data, ok := f.content[trackID]
	if !ok {
		return errors.New("no such track")
	}
	return os.WriteFile(outPath, []byte(data), 0o644)
}

func (f *fakeTools) MuxSubtitle(_ context.Context, req mkvtool.MuxRequest) (mkvtool.MuxResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muxed = append(f.muxed, req)
	return mkvtool.MuxResult{OutputPath: req.MKVPath}, nil
}

type fakeRecorder struct {
	mu   sync.Mutex
	runs []history.Run
}

func (r *fakeRecorder) Record(_ context.Context, run history.Run) (history.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return run, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	return &cfg
}

func newTestService(t *testing.T, tools *fakeTools, opts ...ServiceOption) *Service {
	t.Helper()
	opts = append([]ServiceOption{WithClock(func() time.Time {
		return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	})}, opts...)
	return NewService(testConfig(t), tools, nil, opts...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
