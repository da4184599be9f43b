package helper

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

// FixtureWood is the default cube type: wood, 1.5 inches on an edge.
func FixtureWood() voxelspace.CubeType {
	return voxelspace.CubeType{
		Material:   voxelspace.Material{Name: "Wood"},
		EdgeLength: voxelspace.Distance{Amount: 1.5, Unit: "inches"},
	}
}

// FixtureSpace builds a wooden space of the given size.
func FixtureSpace(t testing.TB, name string, x, y, z int) voxelspace.Space {
	dims, err := voxelspace.BuildDimensions(x, y, z)
	assert.NoError(t, err, "error in arranging test data")

	space, err := voxelspace.BuildSpace(name, dims, FixtureWood())
	assert.NoError(t, err, "error in arranging test data")

	return space
}

// FixtureToddlerChair is the 32x32x32 sample space.
func FixtureToddlerChair(t testing.TB) voxelspace.Space {
	return FixtureSpace(t, "Toddler Chair", 32, 32, 32)
}

// SequentialIDs returns an ID generator yielding prefix-1, prefix-2, and so on. It is safe for concurrent use.
func SequentialIDs(prefix string) func() string {
	var next atomic.Int64

	return func() string {
		return fmt.Sprintf("%s-%d", prefix, next.Add(1))
	}
}

// Line returns the voxels from origin stepping by delta, length times.
func Line(origin, delta voxelspace.Coordinates, length int) []voxelspace.Coordinates {
	voxels := make([]voxelspace.Coordinates, 0, length)
	for k := 0; k < length; k++ {
		voxels = append(voxels, origin.Add(delta.Scale(k)))
	}

	return voxels
}
