// Package api defines wire-format types shared by the HTTP service and the
// CLI's --json output. It translates catalog entries into transport-friendly
// DTOs so consumers never depend on internal types.
//
// DTOs use camelCase JSON tags. Entry timestamps are exposed twice: as the
// epoch-millisecond values the snapshot stores and as RFC3339 strings with
// milliseconds. The derived category and its colour ("#AARRGGBB") are
// computed on every conversion and never stored.
package api
