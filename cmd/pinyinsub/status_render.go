package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"pinyinsub/internal/deps"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 16
	statusIndent     = "  "
)

var statusKinds = map[statusKind]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// statusLine is one "label: [KIND] message" row of the status report.
type statusLine struct {
	label   string
	kind    statusKind
	message string
}

func (l statusLine) render(colorize bool) string {
	style := statusKinds[l.kind]
	text := "[" + style.label + "]"
	if l.message != "" {
		text += " " + l.message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, l.label+":", text)
	if colorize && style.color != "" {
		return style.color + line + ansiReset
	}
	return line
}

func sectionHeader(title string, colorize bool) string {
	line := "== " + strings.TrimSpace(title) + " =="
	if colorize {
		return ansiBlue + line + ansiReset
	}
	return line
}

// dependencyLines reports each binary, then a summary naming the missing ones.
func dependencyLines(statuses []deps.Status) []statusLine {
	lines := make([]statusLine, 0, len(statuses)+1)
	var missing []string
	worst := statusOK
	for _, st := range statuses {
		if st.Available {
			lines = append(lines, statusLine{st.Name, statusOK, "found at " + st.Command})
			continue
		}
		kind := statusError
		if st.Optional {
			kind = statusWarn
		}
		worst = max(worst, kind)
		lines = append(lines, statusLine{st.Name, kind, st.Detail})
		missing = append(missing, st.Name)
	}
	if len(missing) == 0 {
		return append(lines, statusLine{"Summary", statusOK, "all tools available"})
	}
	return append(lines, statusLine{"Summary", worst, "missing " + strings.Join(missing, ", ") + " (install mkvtoolnix)"})
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
