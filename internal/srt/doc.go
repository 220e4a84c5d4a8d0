// Package srt reads and writes SubRip subtitle files as timeline records.
//
// Parsing is forgiving: CRLF line endings, a UTF-8 byte order mark, period
// millisecond separators and missing cue numbers are accepted, and blocks
// that cannot be understood are skipped. Compose always writes canonical SRT.
package srt
