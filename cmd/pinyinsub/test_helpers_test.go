package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pinyinsub/internal/config"
	"pinyinsub/internal/mkvtool"
	"pinyinsub/internal/subtitles"
)

const testChineseSRT = `1
00:00:01,000 --> 00:00:03,000
你好

2
00:00:05,000 --> 00:00:07,000
谢谢
`

const testEnglishSRT = `1
00:00:01,100 --> 00:00:03,200
Hello

2
00:00:10,000 --> 00:00:12,000
Bye
`

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
	mediaDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("PINYINSUB_LOG_LEVEL", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(homeDir, ".config", "pinyinsub", "config.toml"),
		stateDir:   filepath.Join(base, "state"),
		mediaDir:   filepath.Join(base, "media"),
	}
	content := fmt.Sprintf("[paths]\nlog_dir = %q\nstate_dir = %q\n\n[logging]\nlevel = \"error\"\n",
		filepath.Join(base, "logs"), env.stateDir)
	writeTestFile(t, env.configPath, content)
	if err := os.MkdirAll(env.mediaDir, 0o755); err != nil {
		t.Fatalf("mkdir media: %v", err)
	}

	stubContainerTools(t, &fakeContainerTools{})
	return env
}

// fakeContainerTools reports a single video stream, so only sidecars are usable.
type fakeContainerTools struct {
	tracks []mkvtool.Track
}

func (f *fakeContainerTools) Identify(_ context.Context, path string) (mkvtool.Info, error) {
	tracks := append([]mkvtool.Track{{ID: 0, Type: "video", Codec: "AVC/H.264/MPEG-4p10"}}, f.tracks...)
	return mkvtool.Info{FileName: path, Tracks: tracks}, nil
}

func (f *fakeContainerTools) Extract(context.Context, string, int, string) error {
	return fmt.Errorf("extract not supported in tests")
}

func (f *fakeContainerTools) MuxSubtitle(_ context.Context, req mkvtool.MuxRequest) (mkvtool.MuxResult, error) {
	return mkvtool.MuxResult{OutputPath: req.MKVPath}, nil
}

func stubContainerTools(t *testing.T, tools subtitles.ContainerTools) {
	t.Helper()
	orig := newContainerTools
	t.Cleanup(func() { newContainerTools = orig })
	newContainerTools = func(*config.Config, *slog.Logger) subtitles.ContainerTools {
		return tools
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
