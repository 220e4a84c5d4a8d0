// Package mkvtool wraps the MKVToolNix command line tools.
//
// Identify decodes `mkvmerge -J` track listings, Extract pulls a single
// track out with mkvextract, and Muxer embeds a generated subtitle back into
// its container. Every command goes through a Runner so tests can replace
// the external binaries.
package mkvtool
