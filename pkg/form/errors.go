package form

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariant is the parent of every construction-time configuration
	// error. Check with errors.Is.
	ErrInvariant = errors.New("form: invariant violation")

	ErrDuplicateField = fmt.Errorf("%w: duplicate field name", ErrInvariant)
	ErrDuplicateGroup = fmt.Errorf("%w: duplicate group name", ErrInvariant)
	ErrEmptyName      = fmt.Errorf("%w: empty name", ErrInvariant)
	ErrEmptyGroup     = fmt.Errorf("%w: group has no fields", ErrInvariant)
	ErrInvalidRule    = fmt.Errorf("%w: invalid rule", ErrInvariant)
	ErrRuleReference  = fmt.Errorf("%w: rule references unknown field", ErrInvariant)

	// ErrUnknownField is returned by runtime lookups for names the form does
	// not define.
	ErrUnknownField = errors.New("form: unknown field")
)
