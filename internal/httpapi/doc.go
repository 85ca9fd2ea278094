// Package httpapi serves the pipeline catalog over HTTP.
//
// Routes are registered on a chi router with request ids, panic recovery,
// and one structured access-log line per request. Handlers translate
// catalog errors to status codes in one place (statusFor) and always
// answer with JSON from package api, except the snapshot endpoints which
// pass the stored snapshot text through unchanged.
package httpapi
