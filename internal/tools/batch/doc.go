// Package batch runs an addon action over several IDs and aggregates the
// response envelopes, so a single tool call can act on many files.
package batch
