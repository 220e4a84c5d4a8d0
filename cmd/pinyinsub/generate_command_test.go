package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pinyinsub/internal/mkvtool"
)

func TestGenerateAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	video := filepath.Join(env.mediaDir, "ep01.mkv")
	writeTestFile(t, video, "")
	writeTestFile(t, filepath.Join(env.mediaDir, "ep01.en.srt"), testEnglishSRT)
	writeTestFile(t, filepath.Join(env.mediaDir, "ep01.zh.srt"), testChineseSRT)

	out, _, err := runCLI(t, []string{"generate", video, "--chinese", "ext-1", "--with", "ext-0"}, env.configPath)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	output := filepath.Join(env.mediaDir, "ep01 generated.srt")
	requireContains(t, out, "Generated "+output+" (cues: 3, fused: 1)")

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	requireContains(t, string(data), "Hello\n<font color=\"#ffffff\">你好</font>\n<font color=\"#00ffff\">nǐ hǎo</font>\n")

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var runs []runView
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Mode != "with_chinese_and_pinyin" || runs[0].ChineseID != "ext-1" || runs[0].SecondaryID != "ext-0" || runs[0].Status != "succeeded" {
		t.Fatalf("unexpected run: %+v", runs[0])
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history table: %v", err)
	}
	requireContains(t, out, "ep01.mkv")
	requireContains(t, out, "ext-1 + ext-0")
}

func TestGenerateFailureIsRecorded(t *testing.T) {
	env := setupCLITestEnv(t)
	video := filepath.Join(env.mediaDir, "ep01.mkv")
	writeTestFile(t, video, "")

	_, _, err := runCLI(t, []string{"generate", video, "--chinese", "ext-0"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no subtitles found") {
		t.Fatalf("expected no subtitles error, got %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, `"status": "failed"`)
}

func TestGenerateFlagValidation(t *testing.T) {
	env := setupCLITestEnv(t)
	video := filepath.Join(env.mediaDir, "ep01.mkv")
	writeTestFile(t, video, "")

	cases := [][]string{
		{"generate", video},
		{"generate", video, "--chinese", "2", "--mode", "with_pinyin"},
		{"generate", video, "--chinese", "2", "--with", "3", "--mode", "karaoke"},
		{"generate", filepath.Join(env.mediaDir, "missing.mkv"), "--chinese", "2"},
		{"generate", video, "--chinese", "2", "--window", "0"},
	}
	for _, args := range cases {
		if _, _, err := runCLI(t, args, env.configPath); err == nil {
			t.Errorf("expected error for %v", args[2:])
		}
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded yet")
}

func TestTracksJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	stubContainerTools(t, &fakeContainerTools{tracks: []mkvtool.Track{
		{ID: 2, Type: "subtitles", Codec: "SubStationAlpha", Properties: mkvtool.Properties{CodecID: "S_TEXT/ASS", Language: "chi", DefaultTrack: true}},
		{ID: 3, Type: "subtitles", Codec: "HDMV PGS", Properties: mkvtool.Properties{CodecID: "S_HDMV/PGS", Language: "eng"}},
	}})
	video := filepath.Join(env.mediaDir, "ep01.mkv")
	writeTestFile(t, video, "")
	writeTestFile(t, filepath.Join(env.mediaDir, "ep01.en.srt"), testEnglishSRT)

	out, _, err := runCLI(t, []string{"tracks", video, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("tracks: %v", err)
	}
	var views []trackView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode tracks: %v\n%s", err, out)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 tracks, got %+v", views)
	}
	if views[0].ID != "2" || views[0].Source != "embedded" || !views[0].Chinese || views[0].Codec != "ass" || views[0].Detail != "(default)" {
		t.Errorf("unexpected embedded view: %+v", views[0])
	}
	if views[1].ID != "ext-0" || views[1].Source != "sidecar" || views[1].Language != "en" || views[1].Chinese {
		t.Errorf("unexpected sidecar view: %+v", views[1])
	}

	out, _, err = runCLI(t, []string{"tracks", video}, env.configPath)
	if err != nil {
		t.Fatalf("tracks table: %v", err)
	}
	requireContains(t, out, "Chinese (zh)")
	requireContains(t, out, "ep01.en.srt")
}
