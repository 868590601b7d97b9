package devicespec

import (
	"errors"
	"testing"
)

func TestMergeFrom(t *testing.T) {
	tests := []struct {
		name  string
		base  Spec
		other Spec
		want  Spec
	}{
		{
			name:  "absent fields leave base untouched",
			base:  New(WithJob("w"), WithReplica(1)),
			other: New(WithTask(3)),
			want:  New(WithJob("w"), WithReplica(1), WithTask(3)),
		},
		{
			name:  "present fields overwrite",
			base:  New(WithJob("w"), WithTask(1)),
			other: New(WithJob("ps"), WithTask(2)),
			want:  New(WithJob("ps"), WithTask(2)),
		},
		{
			name:  "empty overlay is a no-op",
			base:  New(WithJob("w"), WithDeviceType("GPU")),
			other: New(),
			want:  New(WithJob("w"), WithDeviceType("GPU")),
		},
		{
			name:  "zero values still overwrite",
			base:  New(WithReplica(5)),
			other: New(WithReplica(0)),
			want:  New(WithReplica(0)),
		},
		{
			name:  "device fields merge independently",
			base:  New(WithDeviceType("GPU"), WithDeviceIndex(1)),
			other: New(WithDeviceIndex(3)),
			want:  New(WithDeviceType("GPU"), WithDeviceIndex(3)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := tt.base.Copy()
			merged.MergeFrom(tt.other)
			if !merged.Equal(tt.want) {
				t.Errorf("merge of %q onto %q = %q, want %q", tt.other, tt.base, merged, tt.want)
			}
		})
	}
}

// TestScopeNesting walks the canonical nested-scope example: each inner
// scope's explicit fields win, and unset fields inherit from the nearest
// enclosing scope that set them.
func TestScopeNesting(t *testing.T) {
	outer, err := ParseScope("/job:worker")
	if err != nil {
		t.Fatalf("ParseScope: %v", err)
	}

	level1, err := outer.Resolve("/device:GPU:0")
	if err != nil {
		t.Fatalf("Resolve level 1: %v", err)
	}
	if got := level1.String(); got != "/job:worker/device:GPU:0" {
		t.Errorf("level 1 = %q, want /job:worker/device:GPU:0", got)
	}

	level2, err := NewScope(level1).Resolve("/device:CPU:0")
	if err != nil {
		t.Fatalf("Resolve level 2: %v", err)
	}
	if got := level2.String(); got != "/job:worker/device:CPU:0" {
		t.Errorf("level 2 = %q, want /job:worker/device:CPU:0", got)
	}

	level3, err := NewScope(level2).Resolve("/job:ps")
	if err != nil {
		t.Fatalf("Resolve level 3: %v", err)
	}
	if got := level3.String(); got != "/job:ps/device:CPU:0" {
		t.Errorf("level 3 = %q, want /job:ps/device:CPU:0", got)
	}
}

func TestScopeResolveEmptyCandidate(t *testing.T) {
	scope, err := ParseScope("/job:worker/replica:2")
	if err != nil {
		t.Fatalf("ParseScope: %v", err)
	}

	resolved, err := scope.Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !resolved.Equal(New(WithJob("worker"), WithReplica(2))) {
		t.Errorf("empty candidate resolved to %q, want the outer spec", resolved)
	}
}

func TestScopeResolvePropagatesParseErrors(t *testing.T) {
	scope := NewScope(New(WithJob("worker")))
	if _, err := scope.Resolve("/bogus:x"); !errors.Is(err, ErrUnknownAttribute) {
		t.Errorf("Resolve error = %v, want ErrUnknownAttribute", err)
	}
}

// TestScopeIsolation verifies that resolutions cannot reach back into the
// captured outer spec or into each other.
func TestScopeIsolation(t *testing.T) {
	captured := New(WithJob("worker"))
	scope := NewScope(captured)

	// Mutating the spec the scope was built from must not affect it.
	captured.MergeFrom(New(WithJob("changed")))
	resolved, err := scope.Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if job, _ := resolved.Job(); job != "worker" {
		t.Errorf("scope observed external mutation: job = %q", job)
	}

	// Mutating one resolution must not leak into the next.
	first, _ := scope.Resolve("/task:1")
	first.MergeFrom(New(WithJob("leaked")))
	second, _ := scope.Resolve("/task:2")
	if job, _ := second.Job(); job != "worker" {
		t.Errorf("resolution leaked across calls: job = %q", job)
	}
}

func TestScopeOuter(t *testing.T) {
	scope := NewScope(New(WithJob("w"), WithTask(1)))
	outer := scope.Outer()

	outer.MergeFrom(New(WithTask(9)))
	again := scope.Outer()
	if task, _ := again.Task(); task != 1 {
		t.Errorf("Outer() returned an aliased spec: task = %d", task)
	}
}
