package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrateUp applies every .up.sql script in filename order. Each file runs
// as one script, so a migration must be self-contained.
func MigrateUp(db *sql.DB) error {
	return runMigrations(db, ".up.sql", false)
}

// MigrateDown applies the .down.sql scripts in reverse filename order, so
// later migrations are rolled back before the ones they build on.
func MigrateDown(db *sql.DB) error {
	return runMigrations(db, ".down.sql", true)
}

func runMigrations(db *sql.DB, suffix string, reverse bool) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("storage: read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), suffix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	if reverse {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}
	for _, name := range names {
		script, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("storage: read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("storage: apply migration %s: %w", name, err)
		}
	}
	return nil
}
