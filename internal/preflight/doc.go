// Package preflight provides readiness checks for the filesystem paths, the
// catalog store backend, and the API listen address.
//
// `pipedeck doctor` runs them alongside the GStreamer tool checks. Advisory
// checks are reported but never fail the command.
package preflight
