// Package player launches catalog entries on an engine.
//
// A Player holds an exclusive file lock under the state directory for the
// whole run, so only one pipeline plays per state directory. While running,
// the entry is recorded as active in the catalog and its last-used time is
// updated.
package player
