// Package pinyin annotates Chinese subtitle text with Hanyu Pinyin.
package pinyin

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	gopinyin "github.com/mozillazg/go-pinyin"
	"golang.org/x/text/width"

	"pinyinsub/internal/timeline"
)

// Style selects how tones are written.
type Style int

const (
	// StyleTone marks tones with diacritics (nǐ hǎo).
	StyleTone Style = iota
	// StyleToneNumber appends the tone number (ni3 hao3).
	StyleToneNumber
	// StylePlain drops tones (ni hao).
	StylePlain
)

func (s Style) String() string {
	switch s {
	case StyleToneNumber:
		return "tone_number"
	case StylePlain:
		return "plain"
	default:
		return "tone"
	}
}

// ParseStyle resolves a style name. Empty input selects StyleTone.
func ParseStyle(value string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "tone":
		return StyleTone, nil
	case "tone_number", "number", "tone3":
		return StyleToneNumber, nil
	case "plain", "normal":
		return StylePlain, nil
	default:
		return StyleTone, fmt.Errorf("unknown pinyin style %q", value)
	}
}

var (
	markupTag = regexp.MustCompile(`<[^>]*>|\{[^}]*\}`)

	cjkPunctuation = strings.NewReplacer(
		"。", ".",
		"、", ",",
		"「", "\"",
		"」", "\"",
		"『", "\"",
		"』", "\"",
		"《", "\"",
		"》", "\"",
		"…", "...",
		"—", "-",
	)
)

// Transliterator converts Han characters to pinyin syllables.
type Transliterator struct {
	args gopinyin.Args
}

// New returns a transliterator for the given style.
func New(style Style) *Transliterator {
	args := gopinyin.NewArgs()
	switch style {
	case StyleToneNumber:
		args.Style = gopinyin.Tone3
	case StylePlain:
		args.Style = gopinyin.Normal
	default:
		args.Style = gopinyin.Tone
	}
	return &Transliterator{args: args}
}

// ToPinyin transliterates text line by line. Han characters become space
// separated syllables; other runs are kept with fullwidth forms narrowed, and
// punctuation is attached to the preceding syllable. Markup is stripped.
func (t *Transliterator) ToPinyin(text string) string {
	text = markupTag.ReplaceAllString(text, "")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if converted := t.line(line); converted != "" {
			out = append(out, converted)
		}
	}
	return strings.Join(out, "\n")
}

func (t *Transliterator) line(line string) string {
	var (
		tokens  []string
		pending strings.Builder
	)
	flush := func() {
		segment := strings.TrimSpace(width.Narrow.String(cjkPunctuation.Replace(pending.String())))
		pending.Reset()
		if segment == "" {
			return
		}
		if isPunctuation(segment) && len(tokens) > 0 {
			tokens[len(tokens)-1] += segment
			return
		}
		tokens = append(tokens, segment)
	}

	for _, r := range line {
		if !unicode.Is(unicode.Han, r) {
			pending.WriteRune(r)
			continue
		}
		flush()
		tokens = append(tokens, t.syllable(r))
	}
	flush()
	return strings.Join(tokens, " ")
}

func (t *Transliterator) syllable(r rune) string {
	result := gopinyin.Pinyin(string(r), t.args)
	if len(result) == 0 || len(result[0]) == 0 || result[0][0] == "" {
		return string(r)
	}
	return result[0][0]
}

func isPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// ContainsHan reports whether text has at least one Han character.
func ContainsHan(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// AnnotateOptions controls how pinyin is attached to records.
type AnnotateOptions struct {
	KeepHanzi   bool
	HanziColor  timeline.Color
	PinyinColor timeline.Color
}

// DefaultAnnotateOptions keeps the characters in white above cyan pinyin.
func DefaultAnnotateOptions() AnnotateOptions {
	return AnnotateOptions{
		KeepHanzi:   true,
		HanziColor:  timeline.ColorWhite,
		PinyinColor: timeline.ColorCyan,
	}
}

// Annotate returns copies of records with pinyin lines added below the
// original text, or replacing it when KeepHanzi is false. Records without any
// Han character are left as they are apart from the hanzi color.
func Annotate(records []timeline.Record, tr *Transliterator, opts AnnotateOptions) []timeline.Record {
	out := make([]timeline.Record, len(records))
	for i, rec := range records {
		out[i] = rec
		if !ContainsHan(rec.Content()) {
			out[i].Lines = timeline.WrapLines(rec.Lines, opts.HanziColor)
			continue
		}
		py := strings.Split(tr.ToPinyin(rec.Content()), "\n")
		lines := make([]string, 0, len(rec.Lines)+len(py))
		if opts.KeepHanzi {
			lines = append(lines, timeline.WrapLines(rec.Lines, opts.HanziColor)...)
		}
		lines = append(lines, timeline.WrapLines(py, opts.PinyinColor)...)
		out[i].Lines = lines
	}
	return out
}
