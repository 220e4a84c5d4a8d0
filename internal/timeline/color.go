package timeline

import (
	"fmt"
	"strings"
)

// Color is a named entry of the fixed subtitle palette.
type Color int

const (
	ColorNone Color = iota
	ColorWhite
	ColorCyan
	ColorYellow
	ColorGreen
)

var palette = []struct {
	color Color
	name  string
	hex   string
}{
	{ColorWhite, "white", "#ffffff"},
	{ColorCyan, "cyan", "#00ffff"},
	{ColorYellow, "yellow", "#ffff00"},
	{ColorGreen, "green", "#00ff00"},
}

// Hex returns the #rrggbb value, or an empty string for ColorNone.
func (c Color) Hex() string {
	for _, entry := range palette {
		if entry.color == c {
			return entry.hex
		}
	}
	return ""
}

func (c Color) String() string {
	for _, entry := range palette {
		if entry.color == c {
			return entry.name
		}
	}
	return "none"
}

// ParseColor resolves a palette name or hex value. Empty input and "none" yield ColorNone.
func ParseColor(value string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || v == "none" {
		return ColorNone, nil
	}
	for _, entry := range palette {
		if v == entry.name || v == entry.hex {
			return entry.color, nil
		}
	}
	return ColorNone, fmt.Errorf("unknown color %q", value)
}

// Wrap annotates text with a font color tag. ColorNone returns text unchanged.
func Wrap(text string, c Color) string {
	hex := c.Hex()
	if hex == "" {
		return text
	}
	return `<font color="` + hex + `">` + text + `</font>`
}

// WrapLines wraps a multi-line block as one unit, so the opening tag lands on
// the first line and the closing tag on the last.
func WrapLines(lines []string, c Color) []string {
	if c == ColorNone || len(lines) == 0 {
		return append([]string(nil), lines...)
	}
	return strings.Split(Wrap(strings.Join(lines, "\n"), c), "\n")
}
