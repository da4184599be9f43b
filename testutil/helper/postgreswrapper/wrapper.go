// Package postgreswrapper runs the voxel store against a real PostgreSQL database.
//
// The database comes from CUBECAD_TEST_POSTGRES_DSN. The adapter under test is picked with
// ADAPTER_TYPE (pgxpool, sqldb or sqlx, default pgxpool). Without a DSN the calling test is skipped.
package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/matthewryanscott/cubecad/config"
	"github.com/matthewryanscott/cubecad/voxelspace/sqlstore"
)

// Environment variables read by the wrapper.
const (
	EnvTestDSN     = "CUBECAD_TEST_POSTGRES_DSN"
	EnvAdapterType = "ADAPTER_TYPE"
)

// Adapter type constants
const (
	typePGXPool = "pgxpool"
	typeSQLDB   = "sqldb"
	typeSQLX    = "sqlx"
)

// Wrapper abstracts over the connection types a Store can be built from.
type Wrapper interface {
	Store() sqlstore.Store
	Close()
}

// PGXPoolWrapper wraps a pgxpool-backed store.
type PGXPoolWrapper struct {
	pool  *pgxpool.Pool
	db    *sql.DB
	store sqlstore.Store
}

func (w *PGXPoolWrapper) Store() sqlstore.Store {
	return w.store
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
	_ = w.db.Close() // ignore error
}

// SQLDBWrapper wraps a sql.DB-backed store.
type SQLDBWrapper struct {
	db    *sql.DB
	store sqlstore.Store
}

func (w *SQLDBWrapper) Store() sqlstore.Store {
	return w.store
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps a sqlx-backed store.
type SQLXWrapper struct {
	db    *sqlx.DB
	store sqlstore.Store
}

func (w *SQLXWrapper) Store() sqlstore.Store {
	return w.store
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig migrates the test database, empties it and returns the wrapper
// selected by ADAPTER_TYPE. The wrapper is closed when the test ends.
func CreateWrapperWithTestConfig(t testing.TB, options ...sqlstore.Option) Wrapper {
	t.Helper()

	dsn := os.Getenv(EnvTestDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvTestDSN)
	}

	ctx := context.Background()
	dbConfig := config.DatabaseConfig{Driver: config.DriverPostgres, DSN: dsn, MaxOpenConns: 4}

	db, err := dbConfig.OpenSQLDB(ctx)
	require.NoError(t, err, "error connecting to DB in test setup")
	require.NoError(t, sqlstore.Migrate(db, sqlstore.DriverPostgres, nil), "error migrating DB in test setup")
	CleanUp(t, db)

	var wrapper Wrapper

	switch adapterType := strings.ToLower(os.Getenv(EnvAdapterType)); adapterType {
	case typePGXPool, "":
		poolConfig, err := config.PostgresPGXPoolConfig(dsn)
		require.NoError(t, err, "error parsing DSN in test setup")
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		require.NoError(t, err, "error connecting to DB pool in test setup")
		store, err := sqlstore.NewStoreFromPGXPool(pool, options...)
		require.NoError(t, err, "error creating store in test setup")

		wrapper = &PGXPoolWrapper{pool: pool, db: db, store: store}

	case typeSQLDB:
		store, err := sqlstore.NewStoreFromSQLDB(db, options...)
		require.NoError(t, err, "error creating store in test setup")

		wrapper = &SQLDBWrapper{db: db, store: store}

	case typeSQLX:
		dbx := sqlx.NewDb(db, "postgres")
		store, err := sqlstore.NewStoreFromSQLX(dbx, options...)
		require.NoError(t, err, "error creating store in test setup")

		wrapper = &SQLXWrapper{db: dbx, store: store}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterType))
	}

	t.Cleanup(wrapper.Close)

	return wrapper
}

// CleanUp empties every voxel table.
func CleanUp(t testing.TB, db *sql.DB) {
	t.Helper()

	_, err := db.Exec("TRUNCATE TABLE connectors, cubes, beams, spaces")
	require.NoError(t, err, "error cleaning up the voxel tables")
}
