// Package textutil provides filename sanitization and whitespace helpers
// shared by the catalog, the share command, and the HTTP import endpoint.
package textutil
