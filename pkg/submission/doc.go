// Package submission merges the values of every wizard step into an immutable
// Snapshot and hands it to a Transport. A Coordinator allows exactly one
// submission in flight at a time and records the outcome of the last attempt;
// failed attempts are never retried automatically and leave the entered data
// untouched, so the caller can submit again with a freshly built snapshot.
package submission
