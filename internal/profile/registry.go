package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/placegrid/placement-core/internal/devicespec"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry provides profile management with caching and thread safety.
// It wraps a Repository and adds an in-memory cache for fast lookups
// and resolution without database round-trips.
//
// The cache is populated on startup via RefreshCache() and kept in sync
// by cache-invalidating CRUD operations.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	cache   map[string]*Profile // Cached profiles by ID
	cacheMu sync.RWMutex        // Protects cache
	logger  Logger
}

// NewRegistry creates a new profile registry.
// The repository is used for persistence; the registry adds caching.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		cache:  make(map[string]*Profile),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all profiles from the repository into the cache.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	profiles, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	// Clear and rebuild cache with deep copies
	r.cache = make(map[string]*Profile, len(profiles))
	for i := range profiles {
		p := profiles[i]
		r.cache[p.ID] = p.DeepCopy()
	}

	r.logger.Info("profile cache refreshed", "count", len(profiles))
	return nil
}

// GetProfile retrieves a profile by ID.
// Returns ErrProfileNotFound if the profile does not exist.
// The returned profile is a deep copy; callers can safely modify it.
func (r *Registry) GetProfile(ctx context.Context, id string) (*Profile, error) {
	// Try cache first
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		// Return a deep copy to prevent external mutation of cache
		return cached.DeepCopy(), nil
	}

	// Fall back to repository (might be a new profile not yet cached)
	p, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cache for future lookups (store a deep copy)
	r.cacheMu.Lock()
	r.cache[id] = p.DeepCopy()
	r.cacheMu.Unlock()

	return p, nil
}

// GetProfileBySlug retrieves a profile by its URL-safe slug.
// The returned profile is a deep copy; callers can safely modify it.
func (r *Registry) GetProfileBySlug(ctx context.Context, slug string) (*Profile, error) {
	r.cacheMu.RLock()
	for _, p := range r.cache {
		if p.Slug == slug {
			cpy := p.DeepCopy()
			r.cacheMu.RUnlock()
			return cpy, nil
		}
	}
	r.cacheMu.RUnlock()

	// Fall back to repository
	return r.repo.GetBySlug(ctx, slug)
}

// ListProfiles retrieves all profiles.
// The returned profiles are deep copies; callers can safely modify them.
func (r *Registry) ListProfiles(ctx context.Context) ([]Profile, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	// Return from cache if populated
	if len(r.cache) > 0 {
		profiles := make([]Profile, 0, len(r.cache))
		for _, p := range r.cache {
			// Deep copy to prevent external mutation of cache
			profiles = append(profiles, *p.DeepCopy())
		}
		return profiles, nil
	}

	// Fall back to repository
	return r.repo.List(ctx)
}

// CreateProfile creates a new profile.
// It validates the profile, generates ID and slug if needed, canonicalises
// the spec, and persists it.
func (r *Registry) CreateProfile(ctx context.Context, p *Profile) error {
	// Generate ID if not provided
	if p.ID == "" {
		p.ID = GenerateID()
	}

	// Generate slug if not provided
	if p.Slug == "" {
		p.Slug = GenerateSlug(p.Name)
	}

	// Validate
	if err := ValidateProfile(p); err != nil {
		return err
	}

	// Store the canonical spec form
	canonical, err := CanonicalizeSpec(p.Spec)
	if err != nil {
		return err
	}
	p.Spec = canonical

	// Persist
	if err := r.repo.Create(ctx, p); err != nil {
		return err
	}

	// Update cache (store a deep copy to prevent external modification)
	r.cacheMu.Lock()
	r.cache[p.ID] = p.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("profile created", "id", p.ID, "slug", p.Slug, "spec", p.Spec)
	return nil
}

// UpdateProfile updates an existing profile.
// It validates the profile, canonicalises the spec, and persists the changes.
func (r *Registry) UpdateProfile(ctx context.Context, p *Profile) error {
	// Regenerate slug if name changed and slug wasn't explicitly set
	existing, err := r.GetProfile(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.Name != existing.Name && p.Slug == existing.Slug {
		p.Slug = GenerateSlug(p.Name)
	}
	p.CreatedAt = existing.CreatedAt

	// Validate
	if err := ValidateProfile(p); err != nil {
		return err
	}

	// Store the canonical spec form
	canonical, err := CanonicalizeSpec(p.Spec)
	if err != nil {
		return err
	}
	p.Spec = canonical

	// Persist
	if err := r.repo.Update(ctx, p); err != nil {
		return err
	}

	// Update cache (store a deep copy to prevent external modification)
	r.cacheMu.Lock()
	r.cache[p.ID] = p.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("profile updated", "id", p.ID, "slug", p.Slug, "spec", p.Spec)
	return nil
}

// DeleteProfile removes a profile.
func (r *Registry) DeleteProfile(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Update cache
	r.cacheMu.Lock()
	delete(r.cache, id)
	r.cacheMu.Unlock()

	r.logger.Info("profile deleted", "id", id)
	return nil
}

// GetProfileCount returns the number of cached profiles.
func (r *Registry) GetProfileCount() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}

// Resolve merges a candidate spec string into the named profile's spec.
// The profile supplies defaults; fields present in the candidate win.
// Returns ErrProfileNotFound if the profile does not exist, or a wrapped
// devicespec error if the candidate fails to parse.
func (r *Registry) Resolve(ctx context.Context, id string, candidate string) (devicespec.Spec, error) {
	p, err := r.GetProfile(ctx, id)
	if err != nil {
		return devicespec.Spec{}, err
	}

	scope, err := devicespec.ParseScope(p.Spec)
	if err != nil {
		// Stored specs are canonicalised on write, so this indicates
		// data corruption rather than caller error.
		r.logger.Error("stored profile spec failed to parse", "id", p.ID, "spec", p.Spec, "error", err)
		return devicespec.Spec{}, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	resolved, err := scope.Resolve(candidate)
	if err != nil {
		return devicespec.Spec{}, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	return resolved, nil
}
