package sqlstore_test

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/matthewryanscott/cubecad/testutil/helper"
	"github.com/matthewryanscott/cubecad/voxelspace"
	"github.com/matthewryanscott/cubecad/voxelspace/placement"
	"github.com/matthewryanscott/cubecad/voxelspace/sqlstore"
)

const chair = "Toddler Chair"

var railOverlap = []voxelspace.Coordinates{{X: 2}, {X: 3}}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "cubecad.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlstore.Migrate(db, sqlstore.DriverSQLite, nil))

	return db
}

func newSQLiteStore(t *testing.T, options ...sqlstore.Option) sqlstore.Store {
	t.Helper()

	options = append([]sqlstore.Option{sqlstore.WithDialect(sqlstore.DialectSQLite)}, options...)
	store, err := sqlstore.NewStoreFromSQLDB(openSQLite(t), options...)
	require.NoError(t, err)

	return store
}

func newRecordingEngine(t *testing.T, store sqlstore.Store) *placement.Engine {
	t.Helper()

	engine, err := placement.NewEngine(
		placement.WithIDGenerator(helper.SequentialIDs("id")),
		placement.WithRecorder(store),
	)
	require.NoError(t, err)
	require.NoError(t, engine.CreateSpace(context.Background(), helper.FixtureToddlerChair(t)))

	return engine
}

func place(t *testing.T, engine *placement.Engine, origin voxelspace.Coordinates, orientation string, length int, junction *voxelspace.JunctionIntent) voxelspace.BeamID {
	t.Helper()

	id, err := engine.PlaceBeam(context.Background(), placement.PlaceRequest{
		Space:       chair,
		Origin:      origin,
		Orientation: orientation,
		Length:      length,
		Junction:    junction,
	})
	require.NoError(t, err)

	return id
}

// buildJunctionScene places two overlapping rails joined by a connector and a free standing post.
func buildJunctionScene(t *testing.T, engine *placement.Engine) (voxelspace.BeamID, voxelspace.BeamID, voxelspace.BeamID) {
	t.Helper()

	a := place(t, engine, voxelspace.Coordinates{}, voxelspace.LeftToRight, 4, nil)
	b := place(t, engine, voxelspace.Coordinates{X: 2}, voxelspace.LeftToRight, 4,
		&voxelspace.JunctionIntent{With: a, At: railOverlap})
	post := place(t, engine, voxelspace.Coordinates{X: 10, Y: 10}, voxelspace.BottomToTop, 8, nil)

	_, err := engine.FormConnector(context.Background(), a, b, railOverlap)
	require.NoError(t, err)

	return a, b, post
}

func engineSnapshot(t *testing.T, engine *placement.Engine) voxelspace.OccupancySnapshot {
	t.Helper()

	snapshot, err := engine.OccupancySnapshot(context.Background(), chair)
	require.NoError(t, err)

	return snapshot
}

func Test_Constructors_RejectNilConnections(t *testing.T) {
	_, pgxErr := sqlstore.NewStoreFromPGXPool(nil)
	_, replicaErr := sqlstore.NewStoreFromPGXPoolAndReplica(&pgxpool.Pool{}, nil)
	_, sqlErr := sqlstore.NewStoreFromSQLDB(nil)
	_, sqlxErr := sqlstore.NewStoreFromSQLX(nil)

	assert.ErrorIs(t, pgxErr, sqlstore.ErrNilDatabaseConnection)
	assert.ErrorIs(t, replicaErr, sqlstore.ErrNilDatabaseConnection)
	assert.ErrorIs(t, sqlErr, sqlstore.ErrNilDatabaseConnection)
	assert.ErrorIs(t, sqlxErr, sqlstore.ErrNilDatabaseConnection)
}

func Test_WithDialect(t *testing.T) {
	db := openSQLite(t)

	store, err := sqlstore.NewStoreFromSQLDB(db)
	require.NoError(t, err)
	assert.Equal(t, sqlstore.DialectPostgres, store.Dialect())

	store, err = sqlstore.NewStoreFromSQLDB(db, sqlstore.WithDialect(sqlstore.DialectSQLite))
	require.NoError(t, err)
	assert.Equal(t, sqlstore.DialectSQLite, store.Dialect())

	_, err = sqlstore.NewStoreFromSQLDB(db, sqlstore.WithDialect("mysql"))
	assert.ErrorIs(t, err, sqlstore.ErrUnsupportedDialect)
}

func Test_Migrate_IsIdempotent(t *testing.T) {
	// setup
	db := openSQLite(t)

	// act
	err := sqlstore.Migrate(db, sqlstore.DriverSQLite, slog.New(helper.NewLogHandlerSpy(false)))

	// assert
	require.NoError(t, err)

	version, dirty, err := sqlstore.MigrationVersion(db, sqlstore.DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func Test_Migrate_RejectsUnknownDrivers(t *testing.T) {
	db := openSQLite(t)

	err := sqlstore.Migrate(db, "mysql", nil)
	assert.ErrorIs(t, err, sqlstore.ErrUnsupportedDriver)

	err = sqlstore.Migrate(nil, sqlstore.DriverSQLite, nil)
	assert.ErrorIs(t, err, sqlstore.ErrNilDatabaseConnection)
}

func Test_SaveSpace_LoadSpace_RoundTrip(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newSQLiteStore(t)
	stool := helper.FixtureSpace(t, "Stool", 8, 6, 4)

	// act
	require.NoError(t, store.SaveSpace(ctx, helper.FixtureToddlerChair(t)))
	require.NoError(t, store.SaveSpace(ctx, stool))

	// assert
	loaded, err := store.LoadSpace(ctx, "Stool")
	require.NoError(t, err)
	assert.Equal(t, stool, loaded)

	spaces, err := store.LoadSpaces(ctx)
	require.NoError(t, err)
	require.Len(t, spaces, 2)
	assert.Equal(t, "Stool", spaces[0].Name)
	assert.Equal(t, chair, spaces[1].Name)

	_, err = store.LoadSpace(ctx, "Bookshelf")
	assert.ErrorIs(t, err, voxelspace.ErrUnknownSpace)

	err = store.SaveSpace(ctx, stool)
	assert.ErrorIs(t, err, sqlstore.ErrWritingFailed)
}

func Test_Store_PersistsWhatTheEngineCommits(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newSQLiteStore(t)
	engine := newRecordingEngine(t, store)

	// act
	a, b, post := buildJunctionScene(t, engine)

	// assert
	occupancy, err := store.LoadOccupancy(ctx, chair)
	require.NoError(t, err)
	if diff := cmp.Diff(engineSnapshot(t, engine), occupancy); diff != "" {
		t.Errorf("stored occupancy differs (-engine +store):\n%s", diff)
	}

	beams, err := store.LoadBeams(ctx, chair)
	require.NoError(t, err)
	require.Len(t, beams, 3)
	assert.Equal(t, []voxelspace.BeamID{a, b, post}, []voxelspace.BeamID{beams[0].ID, beams[1].ID, beams[2].ID})
	assert.Equal(t, []int64{1, 2, 3}, []int64{beams[0].Sequence, beams[1].Sequence, beams[2].Sequence})
	assert.Nil(t, beams[0].Junction)
	require.NotNil(t, beams[1].Junction)
	assert.Equal(t, voxelspace.JunctionIntent{With: a, At: railOverlap}, *beams[1].Junction)
	assert.Equal(t, voxelspace.BottomToTop, beams[2].Orientation)
	assert.Equal(t, voxelspace.Coordinates{X: 10, Y: 10}, beams[2].Origin)

	stored, err := store.LoadConnectors(ctx, chair)
	require.NoError(t, err)
	formed, err := engine.Connectors(ctx, chair)
	require.NoError(t, err)
	assert.Equal(t, formed, stored)
}

func Test_Store_RestoresAnEqualEngine(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newSQLiteStore(t)
	original := newRecordingEngine(t, store)
	buildJunctionScene(t, original)

	space, err := store.LoadSpace(ctx, chair)
	require.NoError(t, err)
	beams, err := store.LoadBeams(ctx, chair)
	require.NoError(t, err)
	connectors, err := store.LoadConnectors(ctx, chair)
	require.NoError(t, err)

	restored, err := placement.NewEngine(placement.WithRecorder(store))
	require.NoError(t, err)

	// act
	err = restored.RestoreSpace(ctx, space, beams, connectors)

	// assert
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(engineSnapshot(t, original), engineSnapshot(t, restored)))

	restoredConnectors, err := restored.Connectors(ctx, chair)
	require.NoError(t, err)
	assert.Equal(t, connectors, restoredConnectors)
}

func Test_DeleteBeam_PromotesJunctionPartners(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newSQLiteStore(t)
	engine := newRecordingEngine(t, store)
	a, b, _ := buildJunctionScene(t, engine)

	// act
	require.NoError(t, engine.RemoveBeam(ctx, a))

	// assert
	occupancy, err := store.LoadOccupancy(ctx, chair)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(engineSnapshot(t, engine), occupancy))
	assert.Equal(t, b, occupancy.Occupants[voxelspace.Coordinates{X: 2}])
	assert.Empty(t, occupancy.Junctions)

	connectors, err := store.LoadConnectors(ctx, chair)
	require.NoError(t, err)
	assert.Empty(t, connectors)

	beams, err := store.LoadBeams(ctx, chair)
	require.NoError(t, err)
	require.Len(t, beams, 2)
	assert.Equal(t, b, beams[0].ID)
	assert.Nil(t, beams[0].Junction, "the partner no longer shares any cube")

	place(t, engine, voxelspace.Coordinates{}, voxelspace.BottomToTop, 2, nil)
}

func Test_DeleteBeam_When_BeamUnknown_Then_ErrUnknownBeam(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newSQLiteStore(t)
	require.NoError(t, store.SaveSpace(ctx, helper.FixtureToddlerChair(t)))

	// act
	err := store.DeleteBeam(ctx, chair, "ghost")

	// assert
	assert.ErrorIs(t, err, voxelspace.ErrUnknownBeam)
}

func Test_SaveBeam_When_CubeTaken_Then_NothingIsWritten(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newSQLiteStore(t)
	require.NoError(t, store.SaveSpace(ctx, helper.FixtureToddlerChair(t)))

	first := voxelspace.BeamRecord{ID: "first", Space: chair, Orientation: voxelspace.LeftToRight, Length: 1, Sequence: 1}
	require.NoError(t, store.SaveBeam(ctx, first, []voxelspace.CubeClaim{{Beam: "first"}}))

	second := voxelspace.BeamRecord{ID: "second", Space: chair, Origin: voxelspace.Coordinates{Y: 5}, Orientation: voxelspace.LeftToRight, Length: 1, Sequence: 2}

	// act
	err := store.SaveBeam(ctx, second, []voxelspace.CubeClaim{{Beam: "second"}})

	// assert
	assert.ErrorIs(t, err, sqlstore.ErrWritingFailed)

	beams, err := store.LoadBeams(ctx, chair)
	require.NoError(t, err)
	require.Len(t, beams, 1, "the beam row of the failed transaction is rolled back")
	assert.Equal(t, voxelspace.BeamID("first"), beams[0].ID)
}

func Test_SaveBeam_When_OriginTaken_Then_ErrWritingFailed(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newSQLiteStore(t)
	require.NoError(t, store.SaveSpace(ctx, helper.FixtureToddlerChair(t)))
	record := voxelspace.BeamRecord{ID: "first", Space: chair, Orientation: voxelspace.BottomToTop, Length: 1, Sequence: 1}
	require.NoError(t, store.SaveBeam(ctx, record, nil))

	// act
	record.ID = "second"
	err := store.SaveBeam(ctx, record, nil)

	// assert
	assert.ErrorIs(t, err, sqlstore.ErrWritingFailed)
}

func Test_Store_WhenRecordingFails_EngineRollsBack(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newSQLiteStore(t)
	engine := newRecordingEngine(t, store)
	require.NoError(t, store.SaveBeam(ctx,
		voxelspace.BeamRecord{ID: "outside", Space: chair, Origin: voxelspace.Coordinates{X: 20}, Orientation: voxelspace.BottomToTop, Length: 1, Sequence: 99},
		[]voxelspace.CubeClaim{{Voxel: voxelspace.Coordinates{X: 5}, Beam: "outside"}}))

	// act
	_, err := engine.PlaceBeam(ctx, placement.PlaceRequest{
		Space:       chair,
		Origin:      voxelspace.Coordinates{X: 5},
		Orientation: voxelspace.BottomToTop,
		Length:      3,
	})

	// assert
	assert.ErrorIs(t, err, voxelspace.ErrRecordingFailed)
	assert.ErrorIs(t, err, sqlstore.ErrWritingFailed)
	assert.Equal(t, 0, engineSnapshot(t, engine).Len())
}

func Test_Store_Logging(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler := helper.NewLogHandlerSpy(false)
	store := newSQLiteStore(t, sqlstore.WithLogger(slog.New(logHandler)))
	engine := newRecordingEngine(t, store)

	// act
	place(t, engine, voxelspace.Coordinates{}, voxelspace.BottomToTop, 8, nil)
	_, err := store.LoadBeams(ctx, chair)
	require.NoError(t, err)

	// assert
	assert.True(t, logHandler.HasDebugLogWithMessage("executed sql for: save space").WithDurationMS().Assert())
	assert.True(t, logHandler.HasDebugLogWithMessage("executed sql for: load").WithDurationMS().Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage("voxel store operation: save beam").
		WithAttribute("space", chair).
		WithAttribute("cube_count", "8").Assert())
}

func Test_NewStoreFromSQLX_WorksWithSQLite(t *testing.T) {
	// setup
	ctx := context.Background()
	db := sqlx.NewDb(openSQLite(t), "sqlite")
	store, err := sqlstore.NewStoreFromSQLX(db, sqlstore.WithDialect(sqlstore.DialectSQLite))
	require.NoError(t, err)
	engine := newRecordingEngine(t, store)

	// act
	a, _, _ := buildJunctionScene(t, engine)
	require.NoError(t, engine.RemoveBeam(ctx, a))

	// assert
	occupancy, err := store.LoadOccupancy(ctx, chair)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(engineSnapshot(t, engine), occupancy))
}
