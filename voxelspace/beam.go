package voxelspace

import "fmt"

type (
	// BeamID identifies a beam. Identities are assigned outside this package.
	BeamID string

	// ConnectorID identifies a connector.
	ConnectorID string
)

// BeamState is the lifecycle state of a beam.
type BeamState int

const (
	// BeamProposed is a beam whose path has been computed but not committed to a grid.
	BeamProposed BeamState = iota

	// BeamPlaced is a beam whose voxels are reserved in its space's grid.
	BeamPlaced

	// BeamRetired is a released beam. It never returns to BeamPlaced;
	// placing it again means proposing a new beam.
	BeamRetired
)

func (s BeamState) String() string {
	switch s {
	case BeamProposed:
		return "proposed"
	case BeamPlaced:
		return "placed"
	case BeamRetired:
		return "retired"
	default:
		return "unknown"
	}
}

// Transition validates a lifecycle move and returns the new state.
func (s BeamState) Transition(to BeamState) (BeamState, error) {
	if !isAllowedTransition(s, to) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, to)
	}

	return to, nil
}

func isAllowedTransition(from, to BeamState) bool {
	switch from {
	case BeamProposed:
		return to == BeamPlaced || to == BeamRetired
	case BeamPlaced:
		return to == BeamRetired
	default:
		return false
	}
}

// Beam is a straight run of voxels in one space.
type Beam struct {
	ID          BeamID
	Space       string
	Origin      Coordinates
	Orientation Orientation
	Length      int
	Path        Path
	State       BeamState
}

// ProposeBeam computes the beam's path inside space and returns it in the Proposed state.
func ProposeBeam(id BeamID, space Space, origin Coordinates, orientation Orientation, length int) (Beam, error) {
	path, err := ComputePath(space.Dimensions, origin, orientation, length)
	if err != nil {
		return Beam{}, err
	}

	return Beam{
		ID:          id,
		Space:       space.Name,
		Origin:      origin,
		Orientation: orientation,
		Length:      length,
		Path:        path,
		State:       BeamProposed,
	}, nil
}

// BeamRecord is the persisted form of a placed beam, sufficient to replay its placement.
type BeamRecord struct {
	ID          BeamID
	Space       string
	Origin      Coordinates
	Orientation string
	Length      int
	Sequence    int64
	Junction    *JunctionIntent
}
