package sqlstore

import "errors"

var (
	// ErrNilDatabaseConnection is returned when a store is created without a database connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrUnsupportedDialect is returned for a dialect other than DialectPostgres or DialectSQLite.
	ErrUnsupportedDialect = errors.New("unsupported sql dialect")

	// ErrUnsupportedDriver is returned by Migrate for a driver without embedded migrations.
	ErrUnsupportedDriver = errors.New("unsupported migration driver")

	// ErrBuildingQueryFailed is returned when goqu cannot build a statement.
	ErrBuildingQueryFailed = errors.New("building the sql query failed")

	// ErrQueryingFailed is returned when reading from the store fails.
	ErrQueryingFailed = errors.New("querying the store failed")

	// ErrWritingFailed is returned when a write to the store fails; the transaction is rolled back.
	ErrWritingFailed = errors.New("writing to the store failed")

	// ErrScanningDBRowFailed is returned when a row cannot be scanned into its domain type.
	ErrScanningDBRowFailed = errors.New("scanning a db row failed")

	// ErrMigrationFailed is returned when the schema migrations cannot be applied.
	ErrMigrationFailed = errors.New("schema migration failed")
)
