// Package catalog owns the persisted list of named GStreamer pipeline
// descriptions.
//
// # Storage
//
// The whole catalog is one JSON array (the combined snapshot) stored under a
// single key in a prefs.Store, so every save is an atomic replace. After each
// successful save the entries are mirrored, best effort, as one interchange
// file per entry in a backup directory. Every mutation is a full
// read-modify-write of the snapshot and the package does no locking: two
// callers racing a mutation can lose one of the updates.
//
// A snapshot that is missing, unreadable, or malformed loads as an empty
// catalog. Snapshot imports are validated first and leave the stored snapshot
// untouched when any element is rejected.
//
// # Derived fields
//
// An entry's category and colour are computed from its pipeline text each
// time they are asked for and are never stored.
//
// # Usage
//
//	store := catalog.NewStore(kv, catalog.WithBackups(afero.NewOsFs(), dir, false))
//	seeded, err := catalog.SeedIfEmpty(ctx, store, time.Now())
//	view := catalog.SortedView(store.Load(ctx), catalog.SortName)
package catalog
