// Package sqlstore persists spaces, beams, cubes and connectors in PostgreSQL or SQLite.
//
// A Store implements voxelspace.Recorder, so an engine configured with it writes every
// committed change through, and it loads what a placement.Engine needs to restore a space.
// Queries are built with goqu for the configured dialect. The schema is created by the
// embedded migrations run through Migrate.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - A beam row and its cube rows are written in one transaction
//   - Removing a beam promotes its junction partners to first claimants
//   - Junction intents are reconstructed from the cube claims on load
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := sqlstore.NewStoreFromPGXPool(db, sqlstore.WithLogger(logger))
//	engine, _ := placement.NewEngine(placement.WithRecorder(store))
//
//	// SQLite
//	db, _ := sql.Open("sqlite", "cubecad.db")
//	_ = sqlstore.Migrate(db, sqlstore.DriverSQLite, logger)
//	store, _ := sqlstore.NewStoreFromSQLDB(db, sqlstore.WithDialect(sqlstore.DialectSQLite))
package sqlstore
