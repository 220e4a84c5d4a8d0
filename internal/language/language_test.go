package language

import "testing"

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"eng", "en"},
		{"fre", "fr"},
		{"ger", "de"},
		{"zho", "zh"},
		{"chi", "zh"},
		{"cmn", "zh"},
		{"zh-Hans", "zh"},
		{"zh_Hant_TW", "zh"},
		{"en-US", "en"},
		{"chinese", "zh"},
		{"Mandarin", "zh"},
		{"xy", "xy"},
		{"", ""},
		{" ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToISO2(tt.input)
			if result != tt.expected {
				t.Errorf("ToISO2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToISO3(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"zh", "zho"},
		{"chi", "zho"},
		{"zh-Hans-CN", "zho"},
		{"en", "eng"},
		{"fr", "fra"},
		{"abc", "abc"},
		{"", "und"},
		{"xy", "und"},
	}
	for _, tt := range tests {
		if got := ToISO3(tt.input); got != tt.expected {
			t.Errorf("ToISO3(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"chi", "Chinese"},
		{"zh-Hant", "Chinese"},
		{"eng", "English"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestIsChinese(t *testing.T) {
	for _, code := range []string{"chi", "zho", "zh", "zh-Hans", "yue", "cmn", "Chinese"} {
		if !IsChinese(code) {
			t.Errorf("IsChinese(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"eng", "jpn", "", "und", "ja-JP"} {
		if IsChinese(code) {
			t.Errorf("IsChinese(%q) = true, want false", code)
		}
	}
}

func TestFromTrack(t *testing.T) {
	tests := []struct {
		legacy string
		ietf   string
		want   string
	}{
		{"chi", "zh-Hans", "zh"},
		{"eng", "", "en"},
		{"und", "", ""},
		{"", "", ""},
		{"chi", "und", "zh"},
		{"tlh", "", "tlh"},
	}
	for _, tt := range tests {
		if got := FromTrack(tt.legacy, tt.ietf); got != tt.want {
			t.Errorf("FromTrack(%q, %q) = %q, want %q", tt.legacy, tt.ietf, got, tt.want)
		}
	}
}
