package sqlstore

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration

	"github.com/matthewryanscott/cubecad/voxelspace"
)

// Supported goqu dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// WithDialect sets the SQL dialect statements are built for. The default is DialectPostgres.
func WithDialect(name string) Option {
	return func(s *Store) error {
		switch name {
		case DialectPostgres, DialectSQLite:
		default:
			return fmt.Errorf("%w: %q", ErrUnsupportedDialect, name)
		}

		s.dialectName = name
		s.dialect = goqu.Dialect(name)

		return nil
	}
}

// WithLogger sets the logger for the Store.
//
// Debug level: SQL statements with execution timing (development use)
// Info level: saved and deleted beams with their cube counts (production-safe)
// Warn level: failures to close result rows
// Error level: failed statements.
func WithLogger(logger voxelspace.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}
