package devicespec

// MergeFrom overlays other onto the receiver, field by field.
//
// Fields that other sets overwrite the receiver's; fields other leaves
// absent are untouched. This is a right-biased overlay: other wins
// wherever it specifies a value. Not internally synchronized; see the
// package documentation.
func (s *Spec) MergeFrom(other Spec) {
	if other.job != nil {
		s.job = clonePtr(other.job)
	}
	if other.replica != nil {
		s.replica = clonePtr(other.replica)
	}
	if other.task != nil {
		s.task = clonePtr(other.task)
	}
	if other.deviceType != nil {
		s.deviceType = clonePtr(other.deviceType)
	}
	if other.deviceIndex != nil {
		s.deviceIndex = clonePtr(other.deviceIndex)
	}
}

// Scope captures an outer placement spec for nested-scope resolution.
//
// Resolving a candidate spec against a Scope merges the candidate on top
// of a copy of the captured outer spec: the candidate (the innermost
// scope) wins per field, and fields it leaves absent fall through to the
// outer spec. Composing scopes from outermost to innermost therefore
// yields a spec where the innermost explicit value for each field wins:
//
//	outer, _ := devicespec.ParseScope("/job:worker")
//	a, _ := outer.Resolve("/device:GPU:0") // /job:worker/device:GPU:0
//	b, _ := devicespec.NewScope(a).Resolve("/job:ps")
//	// b.String() == "/job:ps/device:GPU:0"
//
// A Scope is immutable once created; Resolve never mutates the captured
// spec, and distinct resolutions are independent.
type Scope struct {
	outer Spec
}

// NewScope creates a Scope capturing a copy of the given outer spec.
func NewScope(outer Spec) Scope {
	return Scope{outer: outer.Copy()}
}

// ParseScope creates a Scope from a specifier string. The empty string
// produces a scope with no constraints, under which every candidate
// resolves to itself.
func ParseScope(spec string) (Scope, error) {
	outer, err := Parse(spec)
	if err != nil {
		return Scope{}, err
	}
	return Scope{outer: outer}, nil
}

// Outer returns a copy of the captured outer spec.
func (sc Scope) Outer() Spec {
	return sc.outer.Copy()
}

// Resolve parses candidate and merges it onto a copy of the captured
// outer spec, with the candidate taking precedence per field. The empty
// string is a valid candidate and resolves to a copy of the outer spec.
// Propagates the candidate's parse errors.
func (sc Scope) Resolve(candidate string) (Spec, error) {
	parsed, err := Parse(candidate)
	if err != nil {
		return Spec{}, err
	}
	merged := sc.outer.Copy()
	merged.MergeFrom(parsed)
	return merged, nil
}
