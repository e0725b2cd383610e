// Package config loads, normalizes, and validates sheetpipe configuration.
//
// It supplies defaults, reads TOML files, expands tilde paths and resolves the
// raw, output and log locations against a base directory, so the command
// receives absolute paths and canonical option names.
package config
