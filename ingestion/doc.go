// Package ingestion runs the load pipeline: parse rows, map each row to a
// document, insert the document, repeat.
//
// A run moves through the states Idle, Parsing, Writing and finally Done or
// Failed. Records are handled strictly one at a time; the next row is not
// read until the previous insert has been acknowledged.
//
// Errors are split into two classes. Per-record errors (a missing identifier,
// a duplicate key, a rejected write) are logged, counted as skipped, and the
// run continues. Fatal errors (unreadable or malformed input, an unreachable
// store, cancellation) stop the run. The store connection is released on
// every exit path; documents already written stay written.
package ingestion
