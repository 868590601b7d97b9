// Package migrations compiles the placement_profiles schema into the
// placementd binary, so deployments never need loose .sql files on
// disk. Importing this package (the main package does so blank) hands
// the embedded filesystem to the migration runner.
package migrations

import (
	"embed"

	"github.com/placegrid/placement-core/internal/infrastructure/database"
)

//go:embed *.sql
var schemaFS embed.FS

func init() {
	database.MigrationsFS = schemaFS
	database.MigrationsDir = "." // .sql files sit at the embed root
}
