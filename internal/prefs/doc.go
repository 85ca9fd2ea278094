// Package prefs provides the durable key-value store that holds the pipeline
// catalog snapshot and the active-pipeline marker.
//
// Every backend offers atomic replacement of a single key and is safe to
// read at process start. Three backends exist:
//
//   - SQLite (default): a single prefs table in a modernc.org/sqlite
//     database, opened in WAL mode with busy retries.
//   - Redis: plain GET/SET/DEL under a configurable key prefix, for
//     catalogs shared between hosts.
//   - Memory: a map guarded by a mutex, used by tests and dry runs.
//
// Use Open to build the backend selected in the configuration.
package prefs
