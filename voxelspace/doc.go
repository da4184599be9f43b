// Package voxelspace provides the core types and algorithms for allocating beams
// inside a bounded three-dimensional grid of unit voxels ("cubes").
//
// A Space defines the valid coordinate range [0,X) × [0,Y) × [0,Z). A Beam starts at an
// origin voxel and extends along one of six axis-aligned orientations for a given length.
// No voxel may be claimed by more than one beam, except at junction points that two beams
// explicitly declare and later bind with a Connector.
//
// Key types:
//   - Coordinates, Dimensions, Distance: validated value types
//   - OrientationTable: the injected, read-only table of unit direction vectors
//   - Grid: the occupancy index of one Space (reserve, release, point lookups)
//   - CollisionReport: the per-voxel classification of a candidate beam path
//   - Connector: an immutable two-beam, two-voxel junction record
//
// Common usage pattern:
//
//	table := voxelspace.DefaultOrientationTable()
//	up, _ := table.Lookup(voxelspace.BottomToTop)
//
//	path, err := voxelspace.ComputePath(space.Dimensions, origin, up, 8)
//	if err != nil {
//		// handle ErrInvalidLength / ErrOutOfBounds
//	}
//
//	grid := voxelspace.NewGrid(space.Dimensions)
//	if _, err := grid.Reserve(beamID, path, voxelspace.JunctionIntent{}); err != nil {
//		// handle ErrForeign, the grid is unchanged
//	}
//
// The package holds no global mutable state. Orchestration across spaces, identity
// assignment and persistence hooks live in the placement package.
package voxelspace
