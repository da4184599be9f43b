package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewryanscott/cubecad/catalog"
	"github.com/matthewryanscott/cubecad/testutil/helper"
	"github.com/matthewryanscott/cubecad/voxelspace"
	"github.com/matthewryanscott/cubecad/voxelspace/placement"
)

const railsDocument = `
layouts:
  - space:
      name: Rails
      dimensions: {x_length: 8, y_length: 2, z_length: 2}
      cube_type:
        material: {name: Wood}
        edge_length: {amount: 1.5, unit: inches}
    beams:
      - ref: lower
        origin: {x: 0, y: 0, z: 0}
        orientation: Left-to-right
        length: 4
      - ref: upper
        origin: {x: 2, y: 0, z: 0}
        orientation: Left-to-right
        length: 4
        junction:
          with: lower
          at: [{x: 2, y: 0, z: 0}, {x: 3, y: 0, z: 0}]
    connectors:
      - beams: [lower, upper]
        at: [{x: 2, y: 0, z: 0}, {x: 3, y: 0, z: 0}]
`

func Test_Default(t *testing.T) {
	// act
	c := catalog.Default()

	// assert
	table, err := c.OrientationTable()
	require.NoError(t, err)
	assert.Equal(t, voxelspace.DefaultOrientations(), table.Entries())

	require.Len(t, c.CubeTypes, 1)
	assert.Equal(t, helper.FixtureWood(), c.CubeTypes[0])

	layout, err := c.Layout("Toddler Chair")
	require.NoError(t, err)
	assert.Equal(t, helper.FixtureToddlerChair(t), layout.Space)
	require.Len(t, layout.Beams, 1)
	assert.Equal(t, catalog.BeamLayout{
		Ref:         "front-left-leg",
		Orientation: voxelspace.BottomToTop,
		Length:      8,
	}, layout.Beams[0])
}

func Test_Layout_When_Unknown_Then_ErrUnknownLayout(t *testing.T) {
	_, err := catalog.Default().Layout("Bookshelf")

	assert.ErrorIs(t, err, catalog.ErrUnknownLayout)
}

func Test_Apply_ToddlerChair(t *testing.T) {
	// setup
	ctx := context.Background()
	engine, err := placement.NewEngine(placement.WithIDGenerator(helper.SequentialIDs("beam")))
	require.NoError(t, err)
	layout, err := catalog.Default().Layout("Toddler Chair")
	require.NoError(t, err)

	// act
	applied, err := layout.Apply(ctx, engine)

	// assert
	require.NoError(t, err)
	assert.Equal(t, map[string]voxelspace.BeamID{"front-left-leg": "beam-1"}, applied.Beams)

	occupant, ok, err := engine.OccupantOf(ctx, "Toddler Chair", voxelspace.Coordinates{Z: 7})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, voxelspace.BeamID("beam-1"), occupant)

	_, ok, err = engine.OccupantOf(ctx, "Toddler Chair", voxelspace.Coordinates{Z: 8})
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_Apply_WithJunctionAndConnector(t *testing.T) {
	// setup
	ctx := context.Background()
	engine, err := placement.NewEngine(placement.WithIDGenerator(helper.SequentialIDs("id")))
	require.NoError(t, err)
	extended, err := catalog.Default().Extend(mustParse(t, railsDocument))
	require.NoError(t, err)
	layout, err := extended.Layout("Rails")
	require.NoError(t, err)

	// act
	applied, err := layout.Apply(ctx, engine)

	// assert
	require.NoError(t, err)
	assert.Len(t, applied.Connectors, 1)

	connectors, err := engine.Connectors(ctx, "Rails")
	require.NoError(t, err)
	require.Len(t, connectors, 1)
	assert.Equal(t, [2]voxelspace.BeamID{applied.Beams["lower"], applied.Beams["upper"]}, connectors[0].Beams)
}

func Test_Apply_StopsAtFirstRejection(t *testing.T) {
	// setup
	ctx := context.Background()
	engine, err := placement.NewEngine()
	require.NoError(t, err)
	layout := catalog.Layout{
		Space: helper.FixtureSpace(t, "Stool", 4, 4, 4),
		Beams: []catalog.BeamLayout{
			{Ref: "leg", Orientation: voxelspace.BottomToTop, Length: 4},
			{Ref: "crossing", Orientation: voxelspace.LeftToRight, Length: 4},
			{Ref: "never", Origin: voxelspace.Coordinates{Y: 3}, Orientation: voxelspace.LeftToRight, Length: 4},
		},
	}

	// act
	applied, err := layout.Apply(ctx, engine)

	// assert
	assert.ErrorIs(t, err, voxelspace.ErrDuplicateOrigin)
	assert.Contains(t, err.Error(), `beam "crossing"`)
	assert.Len(t, applied.Beams, 1)
}

func Test_Parse_InvalidDocuments(t *testing.T) {
	testCases := []struct {
		name     string
		document string
	}{
		{name: "not yaml", document: "orientations: [unclosed"},
		{name: "diagonal orientation", document: "orientations:\n  - {name: Diagonal, delta: {x: 1, y: 1, z: 0}}"},
		{name: "duplicate orientation delta", document: "orientations:\n  - {name: Up, delta: {x: 0, y: 0, z: 1}}\n  - {name: Rise, delta: {x: 0, y: 0, z: 1}}"},
		{name: "unnamed material", document: "materials:\n  - {name: ''}"},
		{name: "duplicate material", document: "materials:\n  - {name: Wood}\n  - {name: Wood}"},
		{name: "cube type of unlisted material", document: "materials:\n  - {name: Wood}\ncube_types:\n  - {material: {name: Oak}, edge_length: {amount: 1, unit: inches}}"},
		{name: "negative edge length", document: "cube_types:\n  - {material: {name: Wood}, edge_length: {amount: -1, unit: inches}}"},
		{name: "zero dimension", document: "layouts:\n  - space: {name: Flat, dimensions: {x_length: 4, y_length: 4, z_length: 0}, cube_type: {material: {name: Wood}, edge_length: {amount: 1.5, unit: inches}}}"},
		{name: "beam without ref", document: "layouts:\n  - space: {name: Box, dimensions: {x_length: 4, y_length: 4, z_length: 4}, cube_type: {material: {name: Wood}, edge_length: {amount: 1.5, unit: inches}}}\n    beams:\n      - {orientation: Bottom-to-top, length: 2}"},
		{name: "junction with a later beam", document: "layouts:\n  - space: {name: Box, dimensions: {x_length: 4, y_length: 4, z_length: 4}, cube_type: {material: {name: Wood}, edge_length: {amount: 1.5, unit: inches}}}\n    beams:\n      - {ref: a, orientation: Bottom-to-top, length: 2, junction: {with: b, at: []}}\n      - {ref: b, origin: {x: 1, y: 0, z: 0}, orientation: Bottom-to-top, length: 2}"},
		{name: "connector to unknown beam", document: "layouts:\n  - space: {name: Box, dimensions: {x_length: 4, y_length: 4, z_length: 4}, cube_type: {material: {name: Wood}, edge_length: {amount: 1.5, unit: inches}}}\n    beams:\n      - {ref: a, orientation: Bottom-to-top, length: 2}\n    connectors:\n      - {beams: [a, ghost], at: []}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tc.document))

			assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
		})
	}
}

func Test_Extend_When_LayoutUsesUnlistedCubeType_Then_Invalid(t *testing.T) {
	// setup
	oak := mustParse(t, `
layouts:
  - space:
      name: Oak Stool
      dimensions: {x_length: 4, y_length: 4, z_length: 4}
      cube_type:
        material: {name: Oak}
        edge_length: {amount: 2, unit: inches}
`)

	// act
	_, err := catalog.Default().Extend(oak)

	// assert
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func Test_LoadFromFile(t *testing.T) {
	// setup
	path := filepath.Join(t.TempDir(), "rails.yaml")
	require.NoError(t, os.WriteFile(path, []byte(railsDocument), 0o600))

	// act
	c, err := catalog.LoadFromFile(path)

	// assert
	require.NoError(t, err)
	require.Len(t, c.Layouts, 1)
	assert.Equal(t, "Rails", c.Layouts[0].Space.Name)
	require.NotNil(t, c.Layouts[0].Beams[1].Junction)
	assert.Equal(t, "lower", c.Layouts[0].Beams[1].Junction.With)

	_, err = catalog.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func mustParse(t *testing.T, document string) catalog.Catalog {
	t.Helper()

	c, err := catalog.Parse([]byte(document))
	require.NoError(t, err)

	return c
}
