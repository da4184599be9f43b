package voxelspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

func Test_DefaultOrientationTable_HasTheSixCanonicalEntries(t *testing.T) {
	// act
	table := voxelspace.DefaultOrientationTable()

	// assert
	assert.Equal(t, 6, table.Len())
	assert.Equal(t, []string{
		voxelspace.FrontToBack,
		voxelspace.BackToFront,
		voxelspace.LeftToRight,
		voxelspace.RightToLeft,
		voxelspace.BottomToTop,
		voxelspace.TopToBottom,
	}, table.Names())

	bottomToTop, err := table.Lookup("Bottom-to-top")
	require.NoError(t, err)
	assert.Equal(t, voxelspace.Coordinates{X: 0, Y: 0, Z: 1}, bottomToTop.Delta)

	backToFront, err := table.Lookup("Back-to-front")
	require.NoError(t, err)
	assert.Equal(t, voxelspace.Coordinates{X: 0, Y: -1, Z: 0}, backToFront.Delta)
}

func Test_OrientationTable_Lookup_When_Unknown_Then_Error(t *testing.T) {
	// arrange
	table := voxelspace.DefaultOrientationTable()

	// act
	_, err := table.Lookup("Diagonal")

	// assert
	assert.ErrorIs(t, err, voxelspace.ErrUnknownOrientation)
}

func Test_BuildOrientationTable_Rejections(t *testing.T) {
	up := voxelspace.Orientation{Name: "up", Delta: voxelspace.Coordinates{Z: 1}}

	tests := []struct {
		name    string
		entries []voxelspace.Orientation
		wantErr error
	}{
		{
			name:    "zero delta",
			entries: []voxelspace.Orientation{{Name: "none"}},
			wantErr: voxelspace.ErrNotUnitVector,
		},
		{
			name:    "diagonal delta",
			entries: []voxelspace.Orientation{{Name: "diag", Delta: voxelspace.Coordinates{X: 1, Y: 1}}},
			wantErr: voxelspace.ErrNotUnitVector,
		},
		{
			name:    "magnitude two",
			entries: []voxelspace.Orientation{{Name: "long", Delta: voxelspace.Coordinates{X: 2}}},
			wantErr: voxelspace.ErrNotUnitVector,
		},
		{
			name:    "duplicate name",
			entries: []voxelspace.Orientation{up, {Name: "up", Delta: voxelspace.Coordinates{X: 1}}},
			wantErr: voxelspace.ErrDuplicateOrientation,
		},
		{
			name:    "duplicate delta",
			entries: []voxelspace.Orientation{up, {Name: "also up", Delta: voxelspace.Coordinates{Z: 1}}},
			wantErr: voxelspace.ErrDuplicateOrientation,
		},
		{
			name:    "empty name",
			entries: []voxelspace.Orientation{{Delta: voxelspace.Coordinates{Z: 1}}},
			wantErr: voxelspace.ErrDuplicateOrientation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := voxelspace.BuildOrientationTable(tt.entries...)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func Test_BuildOrientationTable_When_CustomEntries_Then_OnlyThoseResolve(t *testing.T) {
	// act
	table, err := voxelspace.BuildOrientationTable(
		voxelspace.Orientation{Name: "east", Delta: voxelspace.Coordinates{X: 1}},
		voxelspace.Orientation{Name: "north", Delta: voxelspace.Coordinates{Y: 1}},
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"east", "north"}, table.Names())

	_, err = table.Lookup(voxelspace.LeftToRight)
	assert.ErrorIs(t, err, voxelspace.ErrUnknownOrientation)
}
