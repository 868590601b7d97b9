package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// dirMode / fileMode keep the profile store private to the service user.
	dirMode  = 0750
	fileMode = 0600

	// openPingTimeout bounds the connectivity check performed by Open.
	openPingTimeout = 5 * time.Second

	// idleConnWindow is how long an idle connection is kept before recycling.
	idleConnWindow = 30 * time.Minute
)

// DB is the SQLite handle backing the profile store. It embeds *sql.DB, so
// callers use the standard query API directly; the wrapper adds schema
// migrations, a health check, and lifecycle management.
type DB struct {
	*sql.DB
	path string
}

// Config mirrors the database section of config.yaml.
type Config struct {
	// Path is the SQLite file holding placement profiles. The parent
	// directory is created on first open.
	Path string

	// WALMode enables write-ahead logging so resolve-heavy read traffic
	// is not blocked by profile writes.
	WALMode bool

	// BusyTimeout is how long a statement waits on a locked database,
	// in seconds.
	BusyTimeout int
}

// Open opens (creating if necessary) the profile store at cfg.Path,
// applies the connection pragmas, and verifies connectivity.
func Open(cfg Config) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirMode); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	handle, err := sql.Open("sqlite3", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite allows one writer; a single pooled connection avoids
	// SQLITE_BUSY churn between the repository and the migration runner.
	handle.SetMaxOpenConns(1)
	handle.SetMaxIdleConns(1)
	handle.SetConnMaxLifetime(time.Hour)
	handle.SetConnMaxIdleTime(idleConnWindow)

	ctx, cancel := context.WithTimeout(context.Background(), openPingTimeout)
	defer cancel()

	if err := handle.PingContext(ctx); err != nil {
		handle.Close() //nolint:errcheck // best effort on the error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	// The file may not exist until the first write; ignore chmod failure then.
	_ = os.Chmod(cfg.Path, fileMode) //nolint:errcheck

	return &DB{DB: handle, path: cfg.Path}, nil
}

// dsn builds the go-sqlite3 connection string for the store.
// Foreign keys are always on; WAL is opt-in via config.
func dsn(cfg Config) string {
	s := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path, cfg.BusyTimeout*1000)
	if cfg.WALMode {
		s += "&_journal_mode=WAL&_synchronous=NORMAL"
	}
	return s
}

// Close releases the underlying connection pool. Safe to call on a DB
// whose handle was already cleared.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Path returns the filesystem location of the profile store.
func (db *DB) Path() string {
	return db.path
}

// HealthCheck confirms the store is reachable and its schema readable.
func (db *DB) HealthCheck(ctx context.Context) error {
	var tables int
	if err := db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table'",
	).Scan(&tables); err != nil {
		return fmt.Errorf("profile store unreachable: %w", err)
	}
	return nil
}
