package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"wcdb-go/internal/wc"
)

//go:embed files/*.sql
var migrationFiles embed.FS

// CheckStatus verifies that the database schema is at the compiled-in
// version. A database ahead of the binary fails with ErrSchemaTooNew; a
// database behind it fails with a plain error telling the caller to run
// Upgrade.
func CheckStatus(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	// m is not closed here: closing it would close the db connection,
	// which the caller owns.

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("database has no schema version (needs upgrade)")
		}
		return fmt.Errorf("reading database version: %w", err)
	}

	if dirty {
		return fmt.Errorf("%w: dirty at version %d (an earlier upgrade failed)",
			wc.ErrCorrupt, version)
	}

	latest, err := latestVersion()
	if err != nil {
		return err
	}

	if version < uint(latest) {
		return fmt.Errorf("database is at version %d but latest is %d (needs upgrade)",
			version, latest)
	}
	if version > uint(latest) {
		return fmt.Errorf("%w: database version %d, binary supports %d",
			wc.ErrSchemaTooNew, version, latest)
	}
	return nil
}

// Upgrade brings the database to the latest schema version. Each migration
// step runs in its own transaction; a crash between steps leaves the file
// at a coherent intermediate version and a later Upgrade resumes. After
// the SQL steps, the legacy tree-conflict data migration runs (no-op when
// there is nothing to migrate).
func Upgrade(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	if err := migrateTreeConflicts(db); err != nil {
		return fmt.Errorf("migrating tree conflict data: %w", err)
	}
	return nil
}

// newMigrate creates a migrate instance over the embedded migration files.
func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("reading migration files: %w", err)
	}

	dbDriver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		sourceDriver.Close()
		return nil, fmt.Errorf("creating database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", dbDriver)
	if err != nil {
		sourceDriver.Close()
		return nil, fmt.Errorf("creating migrate instance: %w", err)
	}
	return m, nil
}

// latestVersion returns the highest version available in the embedded files.
func latestVersion() (uint, error) {
	sourceDriver, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return 0, fmt.Errorf("reading migration files: %w", err)
	}
	defer sourceDriver.Close()
	return highestVersion(sourceDriver)
}

// highestVersion walks the source driver to its last migration.
func highestVersion(src source.Driver) (uint, error) {
	version, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(version)
		if err != nil {
			// Any error from Next() means the end of the sequence.
			break
		}
		version = next
	}
	return version, nil
}
