package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel"

	"github.com/matthewryanscott/cubecad/catalog"
	"github.com/matthewryanscott/cubecad/config"
	"github.com/matthewryanscott/cubecad/voxelspace"
	"github.com/matthewryanscott/cubecad/voxelspace/oteladapters"
	"github.com/matthewryanscott/cubecad/voxelspace/placement"
	"github.com/matthewryanscott/cubecad/voxelspace/promadapters"
	"github.com/matthewryanscott/cubecad/voxelspace/sqlstore"
)

const instrumentationName = "github.com/matthewryanscott/cubecad"

// app holds everything one command invocation works with.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	catalog  catalog.Catalog
	db       *sql.DB
	pool     *pgxpool.Pool
	store    *sqlstore.Store
	registry *prometheus.Registry
	engine   *placement.Engine
}

// newApp loads the catalog, opens and migrates the database when one is configured,
// and builds the engine with the store as its recorder.
func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	a := &app{cfg: cfg, logger: cfg.NewLogger(logOut)}

	c, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	a.catalog = c

	if cfg.Persistent() {
		if err := a.openStore(ctx); err != nil {
			a.close()
			return nil, err
		}
	}

	table, err := c.OrientationTable()
	if err != nil {
		a.close()
		return nil, err
	}

	options := []placement.Option{placement.WithOrientationTable(table)}
	options = append(options, a.observabilityOptions()...)
	if a.store != nil {
		options = append(options, placement.WithRecorder(*a.store))
	}

	engine, err := placement.NewEngine(options...)
	if err != nil {
		a.close()
		return nil, err
	}
	a.engine = engine

	return a, nil
}

func loadCatalog(path string) (catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}

	return catalog.LoadFromFile(path)
}

func (a *app) observabilityOptions() []placement.Option {
	switch a.cfg.Metrics {
	case config.MetricsPrometheus:
		a.registry = prometheus.NewRegistry()
		return []placement.Option{
			placement.WithLogger(a.logger),
			placement.WithMetrics(promadapters.NewMetricsCollector(a.registry)),
		}
	case config.MetricsOTel:
		return []placement.Option{
			placement.WithContextualLogger(oteladapters.NewSlogBridgeLoggerWithHandler(a.logger.Handler())),
			placement.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))),
			placement.WithTracing(oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))),
		}
	default:
		return []placement.Option{placement.WithLogger(a.logger)}
	}
}

// openStore connects with the configured driver. Migrations always run on a database/sql
// connection; the pgx driver then serves the store from a tuned pgx pool.
func (a *app) openStore(ctx context.Context) error {
	db, err := a.cfg.Database.OpenSQLDB(ctx)
	if err != nil {
		return err
	}
	a.db = db

	if err := sqlstore.Migrate(db, a.cfg.Database.MigrationDriver(), a.logger); err != nil {
		return err
	}

	var store sqlstore.Store
	switch a.cfg.Database.Driver {
	case config.DriverSQLite:
		store, err = sqlstore.NewStoreFromSQLDB(db, sqlstore.WithDialect(sqlstore.DialectSQLite), sqlstore.WithLogger(a.logger))
	case config.DriverPGX:
		poolConfig, cfgErr := config.PostgresPGXPoolConfig(a.cfg.Database.DSN)
		if cfgErr != nil {
			return cfgErr
		}
		a.pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return fmt.Errorf("failed to create pgx pool: %w", err)
		}
		store, err = sqlstore.NewStoreFromPGXPool(a.pool, sqlstore.WithLogger(a.logger))
	default:
		store, err = sqlstore.NewStoreFromSQLX(sqlx.NewDb(db, "postgres"), sqlstore.WithLogger(a.logger))
	}
	if err != nil {
		return err
	}

	a.store = &store

	return nil
}

// populate brings the layout's space into the engine: restored from the store when it
// was persisted before, otherwise created and placed from the layout.
func (a *app) populate(ctx context.Context, layout catalog.Layout) (restored bool, err error) {
	if a.store != nil {
		space, loadErr := a.store.LoadSpace(ctx, layout.Space.Name)
		switch {
		case loadErr == nil:
			return true, a.restore(ctx, space)
		case !errors.Is(loadErr, voxelspace.ErrUnknownSpace):
			return false, loadErr
		}
	}

	_, err = layout.Apply(ctx, a.engine)

	return false, err
}

func (a *app) restore(ctx context.Context, space voxelspace.Space) error {
	beams, err := a.store.LoadBeams(ctx, space.Name)
	if err != nil {
		return err
	}

	connectors, err := a.store.LoadConnectors(ctx, space.Name)
	if err != nil {
		return err
	}

	return a.engine.RestoreSpace(ctx, space, beams, connectors)
}

// writeMetrics writes the gathered Prometheus metrics in text exposition format.
func (a *app) writeMetrics(w io.Writer) error {
	if a.registry == nil {
		return nil
	}

	families, err := a.registry.Gather()
	if err != nil {
		return err
	}

	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}

	return nil
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", "error", err.Error())
		}
	}
}
