package voxelspace

import (
	"fmt"
	"sync"
)

// cube is the occupancy record of one materialized voxel.
// partner is only set on a junction cube claimed by two beams.
type cube struct {
	owner   BeamID
	partner BeamID
}

// Grid is the occupancy index of one space.
//
// Free voxels are not materialized: occupancy is a sparse map keyed by voxel.
// Reserve and Release hold the write lock for their whole duration, so concurrent
// readers observe either the state before or after a change, never a partial one.
type Grid struct {
	mu    sync.RWMutex
	dims  Dimensions
	cubes map[Coordinates]cube
	owned map[BeamID]Path
}

// NewGrid creates an empty grid for a space of the given dimensions.
func NewGrid(dims Dimensions) *Grid {
	return &Grid{
		dims:  dims,
		cubes: make(map[Coordinates]cube),
		owned: make(map[BeamID]Path),
	}
}

// Dimensions returns the bounds of the grid.
func (g *Grid) Dimensions() Dimensions {
	return g.dims
}

// Reserve claims every voxel of path for beamID, or nothing.
//
// Each voxel must be free, or occupied by intent.With and listed in intent.At.
// On rejection the returned error is a *PlacementError and the grid is unchanged.
func (g *Grid) Reserve(beamID BeamID, path Path, intent JunctionIntent) (CollisionReport, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	report, err := g.check(beamID, path, intent)
	if err != nil {
		return report, err
	}

	for _, check := range report.Checks {
		switch check.Status {
		case VoxelFree:
			g.cubes[check.Voxel] = cube{owner: beamID}
		case VoxelShared:
			c := g.cubes[check.Voxel]
			c.partner = beamID
			g.cubes[check.Voxel] = c
		}
	}
	g.owned[beamID] = path.Clone()

	return report, nil
}

// Check runs the collision detector for path against the current occupancy without claiming anything.
// It fails exactly when Reserve would, as long as no other change lands in between.
func (g *Grid) Check(beamID BeamID, path Path, intent JunctionIntent) (CollisionReport, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.check(beamID, path, intent)
}

// check validates a reservation; callers hold g.mu.
func (g *Grid) check(beamID BeamID, path Path, intent JunctionIntent) (CollisionReport, error) {
	if _, exists := g.owned[beamID]; exists {
		return CollisionReport{Beam: beamID}, fmt.Errorf("%w: beam %s already holds a reservation", ErrInvalidTransition, beamID)
	}

	for _, voxel := range path {
		if !g.dims.Contains(voxel) {
			return CollisionReport{Beam: beamID}, placementError(ErrOutOfBounds, voxel)
		}
	}

	report := Check(gridView{g}, beamID, path, intent)
	if !report.Authorized() {
		return report, report.Err()
	}

	return report, nil
}

// Release frees every voxel claimed by beamID and returns them.
// A junction cube stays claimed by the surviving beam. Releasing an unknown beam is a no-op.
func (g *Grid) Release(beamID BeamID) Path {
	g.mu.Lock()
	defer g.mu.Unlock()

	path, exists := g.owned[beamID]
	if !exists {
		return nil
	}

	for _, voxel := range path {
		c, ok := g.cubes[voxel]
		if !ok {
			continue
		}

		switch {
		case c.owner == beamID && c.partner != "":
			g.cubes[voxel] = cube{owner: c.partner}
		case c.owner == beamID:
			delete(g.cubes, voxel)
		case c.partner == beamID:
			c.partner = ""
			g.cubes[voxel] = c
		}
	}
	delete(g.owned, beamID)

	return path
}

// OccupantOf returns the first beam that claimed c.
func (g *Grid) OccupantOf(c Coordinates) (BeamID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return gridView{g}.OccupantOf(c)
}

// ClaimantsOf returns every beam claiming c: none, one, or two for a junction cube.
func (g *Grid) ClaimantsOf(c Coordinates) []BeamID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.dims.Contains(c) {
		return nil
	}

	cb, ok := g.cubes[c]
	if !ok {
		return nil
	}
	if cb.partner == "" {
		return []BeamID{cb.owner}
	}

	return []BeamID{cb.owner, cb.partner}
}

// CubesOf returns the voxels claimed by beamID in path order.
func (g *Grid) CubesOf(beamID BeamID) Path {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.owned[beamID].Clone()
}

// Holds reports whether beamID currently has a reservation.
func (g *Grid) Holds(beamID BeamID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.owned[beamID]
	return ok
}

// Len is the number of materialized (claimed) cubes.
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.cubes)
}

// Snapshot copies the current occupancy.
func (g *Grid) Snapshot(space string) OccupancySnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	snapshot := OccupancySnapshot{
		Space:      space,
		Dimensions: g.dims,
		Occupants:  make(map[Coordinates]BeamID, len(g.cubes)),
		Junctions:  make(map[Coordinates][2]BeamID),
	}

	for voxel, c := range g.cubes {
		snapshot.Occupants[voxel] = c.owner
		if c.partner != "" {
			snapshot.Junctions[voxel] = [2]BeamID{c.owner, c.partner}
		}
	}

	return snapshot
}

// gridView reads a grid without locking; callers hold g.mu.
type gridView struct {
	g *Grid
}

func (v gridView) OccupantOf(c Coordinates) (BeamID, bool) {
	if !v.g.dims.Contains(c) {
		return "", false
	}

	cb, ok := v.g.cubes[c]
	if !ok {
		return "", false
	}

	return cb.owner, true
}

func (v gridView) isJunction(c Coordinates) bool {
	if !v.g.dims.Contains(c) {
		return false
	}

	return v.g.cubes[c].partner != ""
}
