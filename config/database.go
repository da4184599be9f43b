package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

const (
	pgxMaxConnections    = int32(8)
	pgxMinConnections    = int32(2)
	pgxMaxConnLifetime   = time.Hour
	pgxMaxConnIdleTime   = time.Minute * 5
	pgxHealthCheckPeriod = time.Minute
	pgxConnectTimeout    = time.Second * 5

	sqlMaxIdleConnections = 10
	sqlMaxConnLifetime    = time.Hour
	sqlMaxConnIdleTime    = time.Minute * 5
)

// PostgresPGXPoolConfig parses dsn into a pgxpool.Config with the pool tuning applied.
func PostgresPGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	dbConfig.MaxConns = pgxMaxConnections
	dbConfig.MinConns = pgxMinConnections
	dbConfig.MaxConnLifetime = pgxMaxConnLifetime
	dbConfig.MaxConnIdleTime = pgxMaxConnIdleTime
	dbConfig.HealthCheckPeriod = pgxHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = pgxConnectTimeout

	return dbConfig, nil
}

// OpenSQLDB opens and pings a *sql.DB for the configured database.
// The pgx driver gets a lib/pq connection here, which migrations run on.
func (d DatabaseConfig) OpenSQLDB(ctx context.Context) (*sql.DB, error) {
	if d.DSN == "" {
		return nil, fmt.Errorf("%w: no dsn configured", ErrInvalidConfig)
	}

	driverName := "postgres"
	if d.Driver == DriverSQLite {
		driverName = "sqlite"
	}

	db, err := sql.Open(driverName, d.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if d.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(d.MaxOpenConns)
		db.SetMaxIdleConns(min(sqlMaxIdleConnections, d.MaxOpenConns))
		db.SetConnMaxLifetime(sqlMaxConnLifetime)
		db.SetConnMaxIdleTime(sqlMaxConnIdleTime)
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, errors.Join(fmt.Errorf("failed to ping database: %w", pingErr), db.Close())
	}

	return db, nil
}

// MigrationDriver returns the migration driver name for the configured database.
func (d DatabaseConfig) MigrationDriver() string {
	if d.Driver == DriverSQLite {
		return DriverSQLite
	}

	return DriverPostgres
}
