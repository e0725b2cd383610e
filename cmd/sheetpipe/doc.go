// Package main hosts the sheetpipe CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration, builds the logger and the
// processor, and renders run results as terminal tables. Processing, run
// inspection and SQL queries are implemented by the sheetpipe package; this
// package only wires them to flags and output.
package main
