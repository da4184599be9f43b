package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

// Migration drivers, matching the database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies all pending schema migrations for driver to db.
// An already up-to-date schema is not an error. db stays open.
func Migrate(db *sql.DB, driver string, logger voxelspace.Logger) error {
	m, err := newMigrate(db, driver, logger)
	if err != nil {
		return err
	}
	// m is not closed, closing it would close db.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
}

// MigrationVersion returns the applied schema version and whether it is dirty.
// It returns 0, false, nil when no migration has been applied yet.
func MigrationVersion(db *sql.DB, driver string) (uint, bool, error) {
	m, err := newMigrate(db, driver, nil)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	return version, dirty, err
}

func newMigrate(db *sql.DB, driver string, logger voxelspace.Logger) (*migrate.Migrate, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	var (
		instance database.Driver
		err      error
	)

	switch driver {
	case DriverPostgres:
		instance, err = postgres.WithInstance(db, &postgres.Config{})
	case DriverSQLite:
		instance, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	if err != nil {
		return nil, errors.Join(ErrMigrationFailed, err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, errors.Join(ErrMigrationFailed, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		return nil, errors.Join(ErrMigrationFailed, err)
	}

	if logger != nil {
		m.Log = migrateLogger{logger: logger}
	}

	return m, nil
}

// migrateLogger implements migrate.Logger on top of a voxelspace.Logger.
type migrateLogger struct {
	logger voxelspace.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf("[migrate] "+format, v...))
}

func (l migrateLogger) Verbose() bool {
	return false
}
