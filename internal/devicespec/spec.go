package devicespec

import (
	"fmt"
	"strconv"
	"strings"
)

// Spec is a partially-specified placement address.
//
// Each field is optional; absent fields match any value. Fields are stored
// as pointers so "absent" and "legitimately zero" remain distinct (a spec
// constrained to replica 0 is not the same as one with no replica
// constraint).
//
// The zero value is the fully unconstrained spec and is ready to use.
type Spec struct {
	job         *string
	replica     *int
	task        *int
	deviceType  *string
	deviceIndex *int
}

// Option configures a field on a Spec under construction.
type Option func(*Spec)

// WithJob sets the job name.
func WithJob(job string) Option {
	return func(s *Spec) { s.job = &job }
}

// WithReplica sets the replica index.
func WithReplica(replica int) Option {
	return func(s *Spec) { s.replica = &replica }
}

// WithTask sets the task index.
func WithTask(task int) Option {
	return func(s *Spec) { s.task = &task }
}

// WithDeviceType sets the device kind.
//
// The literal lowercase inputs "cpu" and "gpu" are stored uppercase for
// backwards compatibility with older specifier strings; every other value
// is stored verbatim, including mixed-case kinds.
func WithDeviceType(deviceType string) Option {
	return func(s *Spec) {
		normalized := normalizeDeviceType(deviceType)
		s.deviceType = &normalized
	}
}

// WithDeviceIndex sets the device index.
//
// A device index is only rendered when a device type is also set; the
// serializer omits both otherwise.
func WithDeviceIndex(index int) Option {
	return func(s *Spec) { s.deviceIndex = &index }
}

// New creates a Spec from the given options. With no options it returns
// the empty (fully unconstrained) spec.
func New(opts ...Option) Spec {
	var s Spec
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// normalizeDeviceType upper-cases the lowercase literals "cpu" and "gpu".
// All other inputs pass through unchanged.
func normalizeDeviceType(deviceType string) string {
	if deviceType == "cpu" || deviceType == "gpu" {
		return strings.ToUpper(deviceType)
	}
	return deviceType
}

// Job returns the job name and whether it is set.
func (s Spec) Job() (string, bool) {
	if s.job == nil {
		return "", false
	}
	return *s.job, true
}

// Replica returns the replica index and whether it is set.
func (s Spec) Replica() (int, bool) {
	if s.replica == nil {
		return 0, false
	}
	return *s.replica, true
}

// Task returns the task index and whether it is set.
func (s Spec) Task() (int, bool) {
	if s.task == nil {
		return 0, false
	}
	return *s.task, true
}

// DeviceType returns the device kind and whether it is set.
func (s Spec) DeviceType() (string, bool) {
	if s.deviceType == nil {
		return "", false
	}
	return *s.deviceType, true
}

// DeviceIndex returns the device index and whether it is set.
// An unset index means "any device of the set kind" and serializes as "*".
func (s Spec) DeviceIndex() (int, bool) {
	if s.deviceIndex == nil {
		return 0, false
	}
	return *s.deviceIndex, true
}

// IsEmpty reports whether no field is set. The empty spec serializes to
// the empty string and represents "no placement constraint".
func (s Spec) IsEmpty() bool {
	return s.job == nil && s.replica == nil && s.task == nil &&
		s.deviceType == nil && s.deviceIndex == nil
}

// Equal reports whether two specs set the same fields to the same values.
func (s Spec) Equal(other Spec) bool {
	return equalPtr(s.job, other.job) &&
		equalPtr(s.replica, other.replica) &&
		equalPtr(s.task, other.task) &&
		equalPtr(s.deviceType, other.deviceType) &&
		equalPtr(s.deviceIndex, other.deviceIndex)
}

// Copy returns an independent copy of the spec. Mutating the copy never
// affects the original; this is what Scope relies on for isolation.
func (s Spec) Copy() Spec {
	return Spec{
		job:         clonePtr(s.job),
		replica:     clonePtr(s.replica),
		task:        clonePtr(s.task),
		deviceType:  clonePtr(s.deviceType),
		deviceIndex: clonePtr(s.deviceIndex),
	}
}

// String returns the canonical string form of the spec.
//
// Present fields are rendered in fixed order — job, replica, task, device —
// regardless of the order they were parsed or set in. The device segment is
// emitted whenever a device type is set; an absent device index renders as
// the "*" wildcard. The empty spec returns "".
func (s Spec) String() string {
	var b strings.Builder
	if s.job != nil {
		b.WriteString("/job:")
		b.WriteString(*s.job)
	}
	if s.replica != nil {
		b.WriteString("/replica:")
		b.WriteString(strconv.Itoa(*s.replica))
	}
	if s.task != nil {
		b.WriteString("/task:")
		b.WriteString(strconv.Itoa(*s.task))
	}
	if s.deviceType != nil {
		index := "*"
		if s.deviceIndex != nil {
			index = strconv.Itoa(*s.deviceIndex)
		}
		fmt.Fprintf(&b, "/device:%s:%s", *s.deviceType, index)
	}
	return b.String()
}

// equalPtr compares two optional values for set-ness and value equality.
func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// clonePtr returns a pointer to a fresh copy of the pointee, or nil.
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
