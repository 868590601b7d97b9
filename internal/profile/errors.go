package profile

import "errors"

// Domain errors for the profile package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, profile.ErrProfileNotFound) {
//	    // handle not found case
//	}
var (
	// ErrProfileNotFound is returned when a profile ID or slug does not exist.
	ErrProfileNotFound = errors.New("profile: not found")

	// ErrProfileExists is returned when creating a profile whose ID or slug
	// already exists.
	ErrProfileExists = errors.New("profile: already exists")

	// ErrInvalidProfile is returned when profile validation fails.
	ErrInvalidProfile = errors.New("profile: invalid")

	// ErrInvalidName is returned when a profile name is empty or too long.
	ErrInvalidName = errors.New("profile: invalid name")

	// ErrInvalidSlug is returned when a slug format is invalid.
	ErrInvalidSlug = errors.New("profile: invalid slug")

	// ErrInvalidSpec is returned when a profile's placement spec fails to
	// parse. The underlying devicespec error is wrapped and remains
	// reachable via errors.Is.
	ErrInvalidSpec = errors.New("profile: invalid placement spec")
)
