package voxelspace

// Path is the ordered voxel sequence a beam occupies, from its origin outward.
type Path []Coordinates

// ComputePath derives the voxels of a beam: origin + k*delta for k in [0, length).
//
// It fails with ErrInvalidLength for a non-positive length and with ErrOutOfBounds on the
// first voxel outside bounds; no partial path is returned in either case.
// The result depends only on its arguments.
func ComputePath(bounds Dimensions, origin Coordinates, orientation Orientation, length int) (Path, error) {
	if length <= 0 {
		return nil, placementError(ErrInvalidLength, origin)
	}

	if err := orientation.Validate(); err != nil {
		return nil, err
	}

	if !bounds.Contains(origin) {
		return nil, placementError(ErrOutOfBounds, origin)
	}

	// A straight path leaves the space at most once, right after its last inside step.
	steps := stepsInside(bounds, origin, orientation.Delta)
	if length-1 > steps {
		return nil, placementError(ErrOutOfBounds, origin.Add(orientation.Delta.Scale(steps+1)))
	}

	path := make(Path, 0, length)
	for k := 0; k < length; k++ {
		path = append(path, origin.Add(orientation.Delta.Scale(k)))
	}

	return path, nil
}

// stepsInside counts the voxels after origin along a unit delta that are still inside bounds.
func stepsInside(bounds Dimensions, origin, delta Coordinates) int {
	switch {
	case delta.X != 0:
		return axisSteps(origin.X, bounds.X, delta.X)
	case delta.Y != 0:
		return axisSteps(origin.Y, bounds.Y, delta.Y)
	default:
		return axisSteps(origin.Z, bounds.Z, delta.Z)
	}
}

func axisSteps(position, extent, direction int) int {
	if direction > 0 {
		return extent - 1 - position
	}

	return position
}

// Contains reports whether c is one of the path's voxels.
func (p Path) Contains(c Coordinates) bool {
	for _, voxel := range p {
		if voxel == c {
			return true
		}
	}

	return false
}

// Origin returns the first voxel, or the zero value for an empty path.
func (p Path) Origin() Coordinates {
	if len(p) == 0 {
		return Coordinates{}
	}

	return p[0]
}

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}

	return append(Path(nil), p...)
}
