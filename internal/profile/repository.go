package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for profile persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a profile by its unique identifier.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetByID(ctx context.Context, id string) (*Profile, error)

	// GetBySlug retrieves a profile by its URL-safe slug.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetBySlug(ctx context.Context, slug string) (*Profile, error)

	// List retrieves all profiles ordered by name.
	List(ctx context.Context) ([]Profile, error)

	// Create inserts a new profile.
	// Returns ErrProfileExists if a profile with the same ID or slug exists.
	Create(ctx context.Context, profile *Profile) error

	// Update modifies an existing profile.
	// Returns ErrProfileNotFound if the profile does not exist.
	Update(ctx context.Context, profile *Profile) error

	// Delete removes a profile by ID.
	// Returns ErrProfileNotFound if the profile does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a profile by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Profile, error) {
	query := `
		SELECT id, name, slug, spec, description, created_at, updated_at
		FROM placement_profiles
		WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("querying profile by id: %w", err)
	}
	return p, nil
}

// GetBySlug retrieves a profile by its URL-safe slug.
func (r *SQLiteRepository) GetBySlug(ctx context.Context, slug string) (*Profile, error) {
	query := `
		SELECT id, name, slug, spec, description, created_at, updated_at
		FROM placement_profiles
		WHERE slug = ?`

	row := r.db.QueryRowContext(ctx, query, slug)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("querying profile by slug: %w", err)
	}
	return p, nil
}

// List retrieves all profiles ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Profile, error) {
	query := `
		SELECT id, name, slug, spec, description, created_at, updated_at
		FROM placement_profiles
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles = append(profiles, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}

	return profiles, nil
}

// Create inserts a new profile.
func (r *SQLiteRepository) Create(ctx context.Context, profile *Profile) error {
	// Set timestamps if not set
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	query := `
		INSERT INTO placement_profiles (
			id, name, slug, spec, description, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.Name,
		profile.Slug,
		profile.Spec,
		profile.Description,
		profile.CreatedAt.Format(time.RFC3339),
		profile.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		// Check for unique constraint violation (duplicate ID or slug)
		if isUniqueConstraintError(err) {
			return ErrProfileExists
		}
		return fmt.Errorf("inserting profile: %w", err)
	}

	return nil
}

// Update modifies an existing profile.
func (r *SQLiteRepository) Update(ctx context.Context, profile *Profile) error {
	profile.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE placement_profiles SET
			name = ?, slug = ?, spec = ?, description = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		profile.Name,
		profile.Slug,
		profile.Spec,
		profile.Description,
		profile.UpdatedAt.Format(time.RFC3339),
		profile.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrProfileExists
		}
		return fmt.Errorf("updating profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// Delete removes a profile by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM placement_profiles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProfile scans a row or rows result into a Profile.
func scanProfile(scanner rowScanner) (*Profile, error) {
	var p Profile
	var createdAt, updatedAt string

	err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Spec,
		&p.Description,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &p, nil
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
