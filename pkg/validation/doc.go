// Package validation implements the stateless validator engine used by form
// fields and groups. A Rule maps a single string value to an optional failure
// code; a GroupRule maps the current values of a group to an optional failure
// code. Evaluation never short-circuits: every rule runs in declaration order
// and the full set of failing codes is reported as Failures.
//
// Each code carries a Class so the message resolver can tell a missing value
// (ClassRequired) from a malformed one (ClassFormat), a length/range violation
// (ClassConstraint), a cross-field mismatch (ClassMismatch) or any other
// group-level aggregate failure (ClassAggregate).
package validation
