// Package main provides the cubecad binary: it migrates the database, places catalog
// layouts into voxel spaces and prints their occupancy.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matthewryanscott/cubecad/catalog"
	"github.com/matthewryanscott/cubecad/config"
	"github.com/matthewryanscott/cubecad/voxelspace/sqlstore"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "cubecad"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd(os.LookupEnv).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flags are the persistent flags shared by every sub-command.
type flags struct {
	configPath string
	dsn        string
	driver     string
	logLevel   string
	metrics    string
}

// load resolves the effective configuration; flags that were set win over file and environment.
func (f *flags) load(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (*config.Config, error) {
	cfg, err := config.Load(f.configPath, lookupEnv)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("dsn") {
		cfg.Database.DSN = f.dsn
	}
	if cmd.Flags().Changed("driver") {
		cfg.Database.Driver = f.driver
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if cmd.Flags().Changed("metrics") {
		cfg.Metrics = f.metrics
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func rootCmd(lookupEnv func(string) (string, bool)) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Voxel allocation and collision engine for beam furniture",
		Long: `cubecad places straight beams into bounded voxel spaces, refusing any
placement that would share a voxel without a declared junction, and
binds junctions with two-voxel connectors.

Spaces, beams and connectors persist to PostgreSQL or SQLite when a DSN
is configured; otherwise everything lives in memory for one run.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&f.dsn, "dsn", "", "Database DSN (env "+config.EnvDSN+")")
	cmd.PersistentFlags().StringVar(&f.driver, "driver", config.DriverPostgres, "Database driver: postgres, pgx, sqlite (env "+config.EnvDriver+")")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error (env "+config.EnvLogLevel+")")
	cmd.PersistentFlags().StringVar(&f.metrics, "metrics", config.MetricsNone, "Metrics backend: none, prometheus, otel (env "+config.EnvMetrics+")")

	cmd.AddCommand(
		versionCmd(),
		orientationsCmd(f, lookupEnv),
		migrateCmd(f, lookupEnv),
		placeCmd(f, lookupEnv),
		showCmd(f, lookupEnv),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func orientationsCmd(f *flags, lookupEnv func(string) (string, bool)) *cobra.Command {
	return &cobra.Command{
		Use:   "orientations",
		Short: "List the orientation table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load(cmd, lookupEnv)
			if err != nil {
				return err
			}

			c, err := loadCatalog(cfg.Catalog)
			if err != nil {
				return err
			}

			table, err := c.OrientationTable()
			if err != nil {
				return err
			}

			for _, o := range table.Entries() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", o.Name, o.Delta)
			}

			return nil
		},
	}
}

func migrateCmd(f *flags, lookupEnv func(string) (string, bool)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load(cmd, lookupEnv)
			if err != nil {
				return err
			}

			db, err := cfg.Database.OpenSQLDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			driver := cfg.Database.MigrationDriver()
			if err := sqlstore.Migrate(db, driver, cfg.NewLogger(cmd.ErrOrStderr())); err != nil {
				return err
			}

			version, dirty, err := sqlstore.MigrationVersion(db, driver)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", version, dirty)

			return nil
		},
	}
}

func placeCmd(f *flags, lookupEnv func(string) (string, bool)) *cobra.Command {
	var (
		layoutPath string
		spaceName  string
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place catalog layouts and print their occupancy snapshots",
		Long: `place brings every layout of the catalog (or of --layout) into the engine
and prints one occupancy snapshot JSON document per space.

With a database configured, a space stored by an earlier run is restored
from the database instead of being placed again.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load(cmd, lookupEnv)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			layouts, err := selectLayouts(a.catalog, layoutPath, spaceName)
			if err != nil {
				return err
			}

			for _, layout := range layouts {
				restored, err := a.populate(cmd.Context(), layout)
				if err != nil {
					return fmt.Errorf("space %q: %w", layout.Space.Name, err)
				}
				a.logger.Info("space ready", "space", layout.Space.Name, "restored", restored)

				snapshot, err := a.engine.OccupancySnapshot(cmd.Context(), layout.Space.Name)
				if err != nil {
					return err
				}

				if err := writeSnapshot(cmd, snapshot); err != nil {
					return err
				}
			}

			return a.writeMetrics(cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&layoutPath, "layout", "", "Catalog document whose layouts replace the catalog's layouts")
	cmd.Flags().StringVar(&spaceName, "space", "", "Place only the layout of this space")

	return cmd
}

func showCmd(f *flags, lookupEnv func(string) (string, bool)) *cobra.Command {
	var spaceName string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored occupancy snapshot of a space",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load(cmd, lookupEnv)
			if err != nil {
				return err
			}

			if !cfg.Persistent() {
				return fmt.Errorf("show needs a database: set --dsn or %s", config.EnvDSN)
			}

			a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			snapshot, err := a.store.LoadOccupancy(cmd.Context(), spaceName)
			if err != nil {
				return err
			}

			return writeSnapshot(cmd, snapshot)
		},
	}

	cmd.Flags().StringVar(&spaceName, "space", "", "Space name")
	_ = cmd.MarkFlagRequired("space")

	return cmd
}

// selectLayouts returns the layouts to place: those of the layout document when given,
// checked against the catalog, optionally narrowed to one space.
func selectLayouts(c catalog.Catalog, layoutPath, spaceName string) ([]catalog.Layout, error) {
	if layoutPath != "" {
		document, err := catalog.LoadFromFile(layoutPath)
		if err != nil {
			return nil, err
		}

		base := c
		base.Layouts = nil
		if c, err = base.Extend(document); err != nil {
			return nil, err
		}
	}

	if spaceName == "" {
		return c.Layouts, nil
	}

	layout, err := c.Layout(spaceName)
	if err != nil {
		return nil, err
	}

	return []catalog.Layout{layout}, nil
}

func writeSnapshot(cmd *cobra.Command, snapshot interface{ MarshalJSON() ([]byte, error) }) error {
	data, err := snapshot.MarshalJSON()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return err
}
