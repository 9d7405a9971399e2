package database

import (
	"database/sql"
	"embed"
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations is the embedded schema migration source.
func Migrations() migrate.MigrationSource {
	return migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// MigrateUp applies all pending migrations and returns how many ran.
func MigrateUp(db *sql.DB) (int, error) {
	n, err := migrate.Exec(db, DriverName, Migrations(), migrate.Up)
	if err != nil {
		return n, fmt.Errorf("migrate up: %w", err)
	}
	return n, nil
}

// MigrateDown rolls back up to max migrations (0 means all) and returns how many ran.
func MigrateDown(db *sql.DB, maxSteps int) (int, error) {
	n, err := migrate.ExecMax(db, DriverName, Migrations(), migrate.Down, maxSteps)
	if err != nil {
		return n, fmt.Errorf("migrate down: %w", err)
	}
	return n, nil
}
