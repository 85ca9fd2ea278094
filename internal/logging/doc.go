// Package logging assembles structured slog loggers and formatting helpers used
// across pipedeck.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so catalog, engine, and API code
// emit log lines with the same keys. Warnings for failures that are recovered
// locally (an unreadable snapshot, a backup file that could not be written)
// go through WarnWithContext so every such line carries an event type, a
// hint, and the user-facing impact.
//
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
