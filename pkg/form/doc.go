// Package form models the interactive state of a multi-group form: Fields
// carry a value plus the touched/dirty interaction flags, Groups own a set of
// uniquely named Fields and the cross-field rules that read them, and a Form
// ties Groups together while enforcing that field names are unique across the
// whole form.
//
// Failure sets are recomputed eagerly: a Field re-runs its rules on every
// SetValue, and a Group evaluates its cross-field rules against the current
// field values each time they are requested, so no caller can observe a stale
// comparison. Configuration mistakes (duplicate names, broken rules, empty
// groups) surface from the constructors as errors wrapping ErrInvariant.
package form
