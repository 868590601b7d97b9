// Package devicespec implements structured placement specifiers for
// Placement Core.
//
// A placement specifier is a hierarchical address describing where a unit
// of computation should execute. It has five optional fields — job,
// replica, task, device type, and device index — and a canonical string
// form:
//
//	/job:worker/replica:0/task:7/device:GPU:3
//
// Every field is optional; an absent field means "unconstrained". The empty
// string is the fully unconstrained specifier.
//
// # Key Types
//
//   - Spec: the specifier value. Built with New and options, or parsed
//     from a string with Parse. Serialized back with String.
//   - Scope: an outer specifier captured for nested-scope resolution.
//     Resolve merges a candidate specifier on top of the captured outer
//     spec, with the candidate winning per field.
//
// # Merging
//
// MergeFrom overlays one spec on another field by field: fields the source
// sets win, fields it leaves absent are untouched. Scope builds on this to
// give nested scoping semantics — composing scopes from outermost to
// innermost yields a spec where the innermost explicit value for each
// field wins:
//
//	scope, _ := devicespec.ParseScope("/job:worker")
//	spec, _ := scope.Resolve("/device:GPU:0")
//	// spec.String() == "/job:worker/device:GPU:0"
//
// # Thread Safety
//
// Spec is a value type; distinct values are independent and concurrent
// reads of a shared value are safe. The mutating methods (ParseFrom,
// MergeFrom) are not internally synchronized — concurrent mutation of a
// shared *Spec requires external synchronization.
package devicespec
