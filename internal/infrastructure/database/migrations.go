package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"time"
)

// MigrationsFS holds the embedded schema files. The migrations package
// registers its embed.FS here at init time, so the placement_profiles
// schema ships inside the binary.
var MigrationsFS embed.FS

// MigrationsDir is the directory within MigrationsFS that holds the
// .sql files ("." when they sit at the root of the embedded FS).
var MigrationsDir = "migrations"

// migrationFileRe matches versioned schema files, e.g.
// 20260801_120000_initial_schema.up.sql. Capture groups: version
// (date_time), name, direction.
var migrationFileRe = regexp.MustCompile(`^(\d{8}_\d{6})_(.+)\.(up|down)\.sql$`)

// Migration is one versioned schema change, loaded from the embedded FS.
type Migration struct {
	Version string // YYYYMMDD_HHMMSS, ordering key
	Name    string // description part of the filename
	Up      string // SQL applied by Migrate
	Down    string // SQL applied by MigrateDown, may be empty
}

// AppliedMigration is a row of the schema_migrations bookkeeping table.
type AppliedMigration struct {
	Version   string
	AppliedAt time.Time
}

// Migrate brings the profile store schema up to date, applying pending
// migrations oldest first.
//
// Each migration runs in its own transaction: a failure rolls back only
// the failing migration, leaves earlier ones committed, and stops before
// later ones. Re-running Migrate after fixing the schema file resumes
// where it stopped. Already-applied versions are skipped, so calling
// this on every startup is cheap.
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.ensureVersionTable(ctx); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	all, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	done, err := db.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("reading schema_migrations: %w", err)
	}

	for _, m := range all {
		if _, ok := done[m.Version]; ok {
			continue
		}
		if err := db.runMigration(ctx, m); err != nil {
			return fmt.Errorf("applying migration %s (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// MigrateDown rolls back the most recently applied migration.
// Development and test tooling only; the service never calls this.
func (db *DB) MigrateDown(ctx context.Context) error {
	done, err := db.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("reading schema_migrations: %w", err)
	}
	if len(done) == 0 {
		return nil
	}

	var latest string
	for v := range done {
		if v > latest {
			latest = v
		}
	}

	all, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	var target *Migration
	for i := range all {
		if all[i].Version == latest {
			target = &all[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("applied migration %s missing from embedded schema", latest)
	}
	if target.Down == "" {
		return fmt.Errorf("migration %s has no down SQL", latest)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, target.Down); err != nil {
		return fmt.Errorf("executing down SQL: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM schema_migrations WHERE version = ?", target.Version,
	); err != nil {
		return fmt.Errorf("removing migration record: %w", err)
	}
	return tx.Commit()
}

// MigrationStatus reports which migrations have been applied and which
// are still pending, in version order.
func (db *DB) MigrationStatus(ctx context.Context) (applied []AppliedMigration, pending []Migration, err error) {
	done, err := db.appliedVersions(ctx)
	if err != nil {
		return nil, nil, err
	}

	all, err := loadMigrations()
	if err != nil {
		return nil, nil, err
	}

	for _, m := range all {
		if rec, ok := done[m.Version]; ok {
			applied = append(applied, rec)
		} else {
			pending = append(pending, m)
		}
	}
	sort.Slice(applied, func(i, j int) bool { return applied[i].Version < applied[j].Version })
	return applied, pending, nil
}

func (db *DB) ensureVersionTable(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

// appliedVersions loads schema_migrations into a map keyed by version.
func (db *DB) appliedVersions(ctx context.Context) (map[string]AppliedMigration, error) {
	rows, err := db.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	done := make(map[string]AppliedMigration)
	for rows.Next() {
		var rec AppliedMigration
		var at string
		if err := rows.Scan(&rec.Version, &at); err != nil {
			return nil, err
		}
		rec.AppliedAt, _ = time.Parse(time.RFC3339, at) //nolint:errcheck // written by runMigration in RFC3339
		done[rec.Version] = rec
	}
	return done, rows.Err()
}

// runMigration applies one migration and records it, atomically.
func (db *DB) runMigration(ctx context.Context, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, m.Up); err != nil {
		return fmt.Errorf("executing up SQL: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
		m.Version, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	return tx.Commit()
}

// loadMigrations reads every versioned .sql file from the embedded FS and
// pairs up/down halves by version. Files that don't match the naming
// convention are ignored.
func loadMigrations() ([]Migration, error) {
	var empty embed.FS
	if MigrationsFS == empty {
		return nil, nil
	}

	entries, err := fs.ReadDir(MigrationsFS, MigrationsDir)
	if err != nil {
		return nil, nil // no embedded schema directory
	}

	byVersion := make(map[string]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, name, up, ok := parseMigrationFile(entry.Name())
		if !ok {
			continue
		}

		sqlText, err := fs.ReadFile(MigrationsFS, path.Join(MigrationsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		m := byVersion[version]
		if m == nil {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		}
		if up {
			m.Up = string(sqlText)
		} else {
			m.Down = string(sqlText)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// parseMigrationFile splits a schema filename into its version,
// description, and direction. ok is false for files that are not
// versioned migrations.
func parseMigrationFile(filename string) (version, name string, up, ok bool) {
	m := migrationFileRe.FindStringSubmatch(filename)
	if m == nil {
		return "", "", false, false
	}
	return m[1], m[2], m[3] == "up", true
}
