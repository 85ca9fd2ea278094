// Command pipedeck manages a catalog of GStreamer pipeline descriptions.
//
// Catalog commands (list, show, add, edit, fav, delete, touch, seed) work
// directly against the configured key-value store. Transfer commands
// (export, import, import-file, share) move pipelines in and out as
// snapshots or .gstpipe files. play runs an entry through gst-launch-1.0,
// serve exposes the catalog over HTTP, and doctor checks the environment.
package main
