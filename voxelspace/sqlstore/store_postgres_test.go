package sqlstore_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewryanscott/cubecad/testutil/helper/postgreswrapper"
	"github.com/matthewryanscott/cubecad/voxelspace"
	"github.com/matthewryanscott/cubecad/voxelspace/placement"
	"github.com/matthewryanscott/cubecad/voxelspace/sqlstore"
)

func Test_Postgres_PersistsAndRestoresTheJunctionScene(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	store := wrapper.Store()
	original := newRecordingEngine(t, store)
	a, b, _ := buildJunctionScene(t, original)

	// act
	space, err := store.LoadSpace(ctx, chair)
	require.NoError(t, err)
	beams, err := store.LoadBeams(ctx, chair)
	require.NoError(t, err)
	connectors, err := store.LoadConnectors(ctx, chair)
	require.NoError(t, err)

	restored, err := placement.NewEngine()
	require.NoError(t, err)
	require.NoError(t, restored.RestoreSpace(ctx, space, beams, connectors))

	// assert
	assert.Equal(t, voxelspace.Dimensions{X: 32, Y: 32, Z: 32}, space.Dimensions)
	require.Len(t, beams, 3)
	require.NotNil(t, beams[1].Junction)
	assert.Equal(t, voxelspace.JunctionIntent{With: a, At: railOverlap}, *beams[1].Junction)
	require.Len(t, connectors, 1)
	assert.Equal(t, [2]voxelspace.BeamID{a, b}, connectors[0].Beams)
	assert.Empty(t, cmp.Diff(engineSnapshot(t, original), engineSnapshot(t, restored)))
}

func Test_Postgres_DeleteBeam_PromotesJunctionPartners(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	store := wrapper.Store()
	engine := newRecordingEngine(t, store)
	a, b, _ := buildJunctionScene(t, engine)

	// act
	err := engine.RemoveBeam(ctx, a)

	// assert
	require.NoError(t, err)
	occupancy, err := store.LoadOccupancy(ctx, chair)
	require.NoError(t, err)
	assert.Equal(t, b, occupancy.Occupants[voxelspace.Coordinates{X: 2}])
	assert.Empty(t, occupancy.Junctions)

	connectors, err := store.LoadConnectors(ctx, chair)
	require.NoError(t, err)
	assert.Empty(t, connectors)
}

func Test_Postgres_SaveBeam_When_OriginTaken_Then_NothingIsWritten(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	store := wrapper.Store()
	engine := newRecordingEngine(t, store)
	place(t, engine, voxelspace.Coordinates{}, voxelspace.LeftToRight, 4, nil)

	// act
	err := store.SaveBeam(ctx, voxelspace.BeamRecord{
		ID:          "intruder",
		Space:       chair,
		Origin:      voxelspace.Coordinates{},
		Orientation: voxelspace.BottomToTop,
		Length:      2,
		Sequence:    9,
	}, nil)

	// assert
	assert.ErrorIs(t, err, sqlstore.ErrWritingFailed)
	beams, err := store.LoadBeams(ctx, chair)
	require.NoError(t, err)
	assert.Len(t, beams, 1)
}
