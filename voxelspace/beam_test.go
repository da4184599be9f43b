package voxelspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

func Test_BeamState_Transition(t *testing.T) {
	tests := []struct {
		from    voxelspace.BeamState
		to      voxelspace.BeamState
		allowed bool
	}{
		{voxelspace.BeamProposed, voxelspace.BeamPlaced, true},
		{voxelspace.BeamProposed, voxelspace.BeamRetired, true},
		{voxelspace.BeamPlaced, voxelspace.BeamRetired, true},
		{voxelspace.BeamPlaced, voxelspace.BeamProposed, false},
		{voxelspace.BeamPlaced, voxelspace.BeamPlaced, false},
		{voxelspace.BeamRetired, voxelspace.BeamPlaced, false},
		{voxelspace.BeamRetired, voxelspace.BeamProposed, false},
		{voxelspace.BeamRetired, voxelspace.BeamRetired, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			got, err := tt.from.Transition(tt.to)

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, got)
				return
			}

			assert.ErrorIs(t, err, voxelspace.ErrInvalidTransition)
			assert.Equal(t, tt.from, got)
		})
	}
}

func Test_ProposeBeam_ComputesPathInProposedState(t *testing.T) {
	// act
	beam := proposedBeam(t, "b1", voxelspace.Coordinates{}, voxelspace.BottomToTop, 8)

	// assert
	assert.Equal(t, voxelspace.BeamProposed, beam.State)
	assert.Equal(t, "chair", beam.Space)
	assert.Len(t, beam.Path, beam.Length)
	assert.Equal(t, voxelspace.Coordinates{Z: 7}, beam.Path[7])
}

func Test_ProposeBeam_When_OutOfBounds_Then_NoBeam(t *testing.T) {
	// arrange
	space := voxelspace.Space{Name: "tiny", Dimensions: voxelspace.Dimensions{X: 2, Y: 2, Z: 2}}

	// act
	beam, err := voxelspace.ProposeBeam("b1", space, voxelspace.Coordinates{}, orientation(t, voxelspace.LeftToRight), 3)

	// assert
	assert.ErrorIs(t, err, voxelspace.ErrOutOfBounds)
	assert.Equal(t, voxelspace.Beam{}, beam)
}
