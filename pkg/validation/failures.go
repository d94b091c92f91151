package validation

// Failure records one failing rule. Fields lists the field names the rule
// inspected; it is empty for single-field rules.
type Failure struct {
	Code   Code     `json:"code"`
	Class  Class    `json:"class"`
	Fields []string `json:"fields,omitempty"`
}

// Failures is an ordered set of failures keyed by Code. Order follows rule
// declaration order; duplicates are dropped on Add.
type Failures []Failure

// Empty reports whether no rule is failing.
func (f Failures) Empty() bool {
	return len(f) == 0
}

// Has reports whether code is failing.
func (f Failures) Has(code Code) bool {
	for _, failure := range f {
		if failure.Code == code {
			return true
		}
	}
	return false
}

// HasClass reports whether any failing rule belongs to class.
func (f Failures) HasClass(class Class) bool {
	for _, failure := range f {
		if failure.Class == class {
			return true
		}
	}
	return false
}

// Get returns the failure for code.
func (f Failures) Get(code Code) (Failure, bool) {
	for _, failure := range f {
		if failure.Code == code {
			return failure, true
		}
	}
	return Failure{}, false
}

// Codes lists the failing codes in declaration order.
func (f Failures) Codes() []Code {
	if len(f) == 0 {
		return nil
	}
	out := make([]Code, 0, len(f))
	for _, failure := range f {
		out = append(out, failure.Code)
	}
	return out
}

// Add returns f with failure appended unless its code is already present.
func (f Failures) Add(failure Failure) Failures {
	if f.Has(failure.Code) {
		return f
	}
	return append(f, failure)
}

// Union returns a new set holding f followed by the codes of other that f
// does not already contain.
func (f Failures) Union(other Failures) Failures {
	if len(f) == 0 && len(other) == 0 {
		return nil
	}
	out := make(Failures, 0, len(f)+len(other))
	for _, failure := range f {
		out = out.Add(failure)
	}
	for _, failure := range other {
		out = out.Add(failure)
	}
	return out
}

// Involves reports whether the failure names field, or names no field at all.
func (f Failure) Involves(field string) bool {
	if len(f.Fields) == 0 {
		return true
	}
	for _, name := range f.Fields {
		if name == field {
			return true
		}
	}
	return false
}

// Dependent returns the field whose interaction gates the failure message.
// For mismatch rules this is the confirmation field, the last one listed.
func (f Failure) Dependent() string {
	if len(f.Fields) == 0 {
		return ""
	}
	return f.Fields[len(f.Fields)-1]
}
