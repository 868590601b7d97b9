package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/placegrid/placement-core/internal/devicespec"
)

// Validation constants.
const (
	maxNameLength        = 100
	maxSlugLength        = 50
	maxSpecLength        = 256
	maxDescriptionLength = 1024
	slugPattern          = `^[a-z0-9]+(?:-[a-z0-9]+)*$`
)

var slugRegex = regexp.MustCompile(slugPattern)

// ValidateProfile performs comprehensive validation on a profile.
// Returns an error describing the first validation failure found.
func ValidateProfile(p *Profile) error {
	if p == nil {
		return ErrInvalidProfile
	}

	// Validate name
	if err := ValidateName(p.Name); err != nil {
		return err
	}

	// Validate slug if provided (empty slug will be generated)
	if p.Slug != "" {
		if err := ValidateSlug(p.Slug); err != nil {
			return err
		}
	}

	// Validate spec
	if err := ValidateSpec(p.Spec); err != nil {
		return err
	}

	// Validate description length
	if len(p.Description) > maxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidProfile, maxDescriptionLength)
	}

	return nil
}

// ValidateName checks if a profile name is valid.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateSlug checks if a slug format is valid.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("%w: slug cannot be empty", ErrInvalidSlug)
	}
	if len(slug) > maxSlugLength {
		return fmt.Errorf("%w: slug exceeds %d characters", ErrInvalidSlug, maxSlugLength)
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("%w: slug must be lowercase alphanumeric with hyphens", ErrInvalidSlug)
	}
	return nil
}

// ValidateSpec checks if a placement spec string parses.
// An empty spec is valid: it is the profile equivalent of "place anywhere".
func ValidateSpec(spec string) error {
	if len(spec) > maxSpecLength {
		return fmt.Errorf("%w: spec exceeds %d characters", ErrInvalidSpec, maxSpecLength)
	}
	if err := devicespec.CheckValid(spec); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	return nil
}

// CanonicalizeSpec parses a spec string and returns its canonical form:
// fields in fixed order, short device forms expanded, wildcard indices
// rendered as "*".
func CanonicalizeSpec(spec string) (string, error) {
	parsed, err := devicespec.Parse(spec)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	return parsed.String(), nil
}

// GenerateSlug creates a URL-safe slug from a name.
func GenerateSlug(name string) string {
	// Convert to lowercase
	slug := strings.ToLower(name)

	// Replace spaces and underscores with hyphens
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")

	// Remove any characters that aren't alphanumeric or hyphens
	var result strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	slug = result.String()

	// Remove leading/trailing hyphens and collapse multiple hyphens
	slug = strings.Trim(slug, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	// Truncate if too long
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
		// Don't end with a hyphen
		slug = strings.TrimRight(slug, "-")
	}

	return slug
}

// GenerateID creates a new UUID for a profile.
func GenerateID() string {
	return uuid.New().String()
}
