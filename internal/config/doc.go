// Package config loads, normalizes, and validates pinyinsub configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// reads TOML files and converts the merge and pinyin sections into the
// option types the engine packages consume. Always obtain settings through
// this package so downstream code receives sanitized paths and clear
// validation errors.
package config
