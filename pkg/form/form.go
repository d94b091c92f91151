package form

import (
	"fmt"
)

// Form is an ordered set of groups whose field names are unique across the
// whole form, so merging all group values never collides.
type Form struct {
	groups []*Group
	byName map[string]*Group
	owner  map[string]*Group
}

// New assembles groups into a form.
func New(groups ...*Group) (*Form, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: form has no groups", ErrInvariant)
	}
	f := &Form{
		byName: make(map[string]*Group, len(groups)),
		owner:  make(map[string]*Group),
	}
	for _, group := range groups {
		if group == nil {
			return nil, fmt.Errorf("%w: nil group", ErrInvariant)
		}
		if _, exists := f.byName[group.Name()]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateGroup, group.Name())
		}
		for _, name := range group.Names() {
			if other, exists := f.owner[name]; exists {
				return nil, fmt.Errorf("%w: %q in groups %q and %q", ErrDuplicateField, name, other.Name(), group.Name())
			}
			f.owner[name] = group
		}
		f.byName[group.Name()] = group
		f.groups = append(f.groups, group)
	}
	return f, nil
}

// Groups returns the groups in order.
func (f *Form) Groups() []*Group {
	return append([]*Group(nil), f.groups...)
}

// Group looks up a group by name.
func (f *Form) Group(name string) (*Group, bool) {
	group, ok := f.byName[name]
	return group, ok
}

// Lookup finds the group owning a field together with the field itself.
func (f *Form) Lookup(field string) (*Group, *Field, error) {
	group, ok := f.owner[field]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	fld, _ := group.Field(field)
	return group, fld, nil
}

// Valid reports whether every group is valid.
func (f *Form) Valid() bool {
	for _, group := range f.groups {
		if !group.Valid() {
			return false
		}
	}
	return true
}

// Reset restores every group to its initial state.
func (f *Form) Reset() {
	for _, group := range f.groups {
		group.Reset()
	}
}
