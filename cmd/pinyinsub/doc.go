// Package main hosts the pinyinsub CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the subtitle
// service around MKVToolNix, and exposes track listing, generation, direct
// timeline merging, run history, and dependency status. Behaviour lives in
// the internal packages; commands only translate flags and render output.
package main
