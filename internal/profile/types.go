package profile

import "time"

// Profile represents a named placement specification.
// This matches the placement_profiles table in the initial schema migration.
type Profile struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`

	// Spec is the canonical placement spec string, e.g.
	// "/job:worker/replica:0/device:GPU:*". It is canonicalised
	// (parsed and re-serialised) before persistence.
	Spec string `json:"spec"`

	// Description is optional free-form text.
	Description string `json:"description,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeepCopy creates a complete independent copy of the Profile.
// All fields are value types, but the method exists so cache isolation
// stays correct if reference fields are added later.
func (p *Profile) DeepCopy() *Profile {
	if p == nil {
		return nil
	}

	cpy := *p
	return &cpy
}
