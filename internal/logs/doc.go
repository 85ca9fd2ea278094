// Package logs reads the pipedeck log file for `pipedeck logs`.
//
// Reads are bounded: Last keeps a ring of the final lines and ReadFrom
// resumes at a byte offset, so follow mode costs one stat per poll. A file
// that shrank below the saved offset is treated as rotated and read from the
// start.
package logs
