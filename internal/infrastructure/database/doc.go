// Package database owns the SQLite profile store: opening it with the
// right pragmas (WAL, busy timeout, foreign keys) and applying the
// embedded schema migrations at startup.
//
// The DB type embeds *sql.DB, so repositories query it directly. The
// store is a single file with permissions 0600; SQLite's single-writer
// model is enforced by capping the pool at one connection.
//
// Migrations are additive-only. Each versioned file ships an .up.sql
// and a .down.sql half, and new columns must be nullable or carry a
// default so older rows stay readable.
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
