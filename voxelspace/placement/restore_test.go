package placement_test

import (
	"context"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewryanscott/cubecad/testutil/helper"
	"github.com/matthewryanscott/cubecad/voxelspace"
	"github.com/matthewryanscott/cubecad/voxelspace/placement"
)

func Test_RestoreSpace_ReplaysRecordedBeamsAndConnectors(t *testing.T) {
	// setup
	ctx := context.Background()
	recorder := helper.NewRecorderSpy()
	original := newChairEngine(t, placement.WithRecorder(recorder))
	a, b := placeJunction(t, original)
	_, err := original.FormConnector(ctx, a, b, railOverlap)
	require.NoError(t, err)
	_, err = original.PlaceBeam(ctx, request(voxelspace.Coordinates{X: 10}, voxelspace.BottomToTop, 8))
	require.NoError(t, err)

	beams := recorder.GetBeams()
	slices.Reverse(beams)

	restored, err := placement.NewEngine(placement.WithIDGenerator(helper.SequentialIDs("restored")))
	require.NoError(t, err)

	// act
	err = restored.RestoreSpace(ctx, helper.FixtureToddlerChair(t), beams, recorder.GetConnectors())

	// assert
	require.NoError(t, err)

	if diff := cmp.Diff(snapshot(t, original), snapshot(t, restored)); diff != "" {
		t.Errorf("restored occupancy differs (-original +restored):\n%s", diff)
	}

	originalConnectors, err := original.Connectors(ctx, chair)
	require.NoError(t, err)
	restoredConnectors, err := restored.Connectors(ctx, chair)
	require.NoError(t, err)
	assert.Equal(t, originalConnectors, restoredConnectors)

	beam, err := restored.Beam(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, voxelspace.BeamPlaced, beam.State)
}

func Test_RestoreSpace_ContinuesTheSequence(t *testing.T) {
	// setup
	ctx := context.Background()
	recorder := helper.NewRecorderSpy()
	original := newChairEngine(t, placement.WithRecorder(recorder))
	_, err := original.PlaceBeam(ctx, request(voxelspace.Coordinates{}, voxelspace.BottomToTop, 4))
	require.NoError(t, err)
	_, err = original.PlaceBeam(ctx, request(voxelspace.Coordinates{X: 1}, voxelspace.BottomToTop, 4))
	require.NoError(t, err)

	replayRecorder := helper.NewRecorderSpy()
	restored, err := placement.NewEngine(
		placement.WithIDGenerator(helper.SequentialIDs("restored")),
		placement.WithRecorder(replayRecorder),
	)
	require.NoError(t, err)
	require.NoError(t, restored.RestoreSpace(ctx, helper.FixtureToddlerChair(t), recorder.GetBeams(), nil))

	// act
	_, err = restored.PlaceBeam(ctx, request(voxelspace.Coordinates{X: 2}, voxelspace.BottomToTop, 4))

	// assert
	require.NoError(t, err)

	recorded := replayRecorder.GetBeams()
	require.Len(t, recorded, 1, "replayed beams are not recorded again")
	assert.Equal(t, int64(3), recorded[0].Sequence)
}

func Test_RestoreSpace_When_SpaceExists_Then_ErrDuplicateSpace(t *testing.T) {
	// setup
	engine := newChairEngine(t)

	// act
	err := engine.RestoreSpace(context.Background(), helper.FixtureToddlerChair(t), nil, nil)

	// assert
	assert.ErrorIs(t, err, voxelspace.ErrDuplicateSpace)
}

func Test_RestoreSpace_When_RecordsConflict_Then_SpaceNotRegistered(t *testing.T) {
	// setup
	ctx := context.Background()
	engine, err := placement.NewEngine()
	require.NoError(t, err)

	records := []voxelspace.BeamRecord{
		{ID: "first", Space: chair, Orientation: voxelspace.BottomToTop, Length: 4, Sequence: 1},
		{ID: "second", Space: chair, Origin: voxelspace.Coordinates{Z: 3}, Orientation: voxelspace.TopToBottom, Length: 4, Sequence: 2},
	}

	// act
	err = engine.RestoreSpace(ctx, helper.FixtureToddlerChair(t), records, nil)

	// assert
	assert.ErrorIs(t, err, voxelspace.ErrForeign)
	assert.Empty(t, engine.Spaces())

	_, err = engine.Beam(ctx, "first")
	assert.ErrorIs(t, err, voxelspace.ErrUnknownBeam)

	require.NoError(t, engine.CreateSpace(ctx, helper.FixtureToddlerChair(t)), "the name is free again")
}

func Test_RestoreSpace_When_ConnectorHasNoJunction_Then_Rejected(t *testing.T) {
	// setup
	ctx := context.Background()
	engine, err := placement.NewEngine()
	require.NoError(t, err)

	records := []voxelspace.BeamRecord{
		{ID: "first", Space: chair, Orientation: voxelspace.LeftToRight, Length: 4, Sequence: 1},
		{ID: "second", Space: chair, Origin: voxelspace.Coordinates{Y: 1}, Orientation: voxelspace.LeftToRight, Length: 4, Sequence: 2},
	}
	connectors := []voxelspace.Connector{{
		ID:    "c",
		Space: chair,
		Beams: [2]voxelspace.BeamID{"first", "second"},
		At:    [2]voxelspace.Coordinates{{X: 0}, {X: 1}},
	}}

	// act
	err = engine.RestoreSpace(ctx, helper.FixtureToddlerChair(t), records, connectors)

	// assert
	assert.ErrorIs(t, err, voxelspace.ErrNotOwned)
	assert.Empty(t, engine.Spaces())
}
