// Package logging assembles structured slog loggers for pinyinsub.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so a generation run tags every line
// with its run identifier. A no-op logger is provided for tests and for
// wiring code that cannot fail.
package logging
