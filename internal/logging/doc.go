// Package logging builds the slog loggers used by the sheetpipe command.
//
// Records are written as "timestamp - LEVEL - message key=value" lines to the
// console and, when a log file is configured, to that file as well.
package logging
