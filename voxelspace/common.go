package voxelspace

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLength is returned when a beam length is zero or negative.
	ErrInvalidLength = errors.New("beam length must be positive")

	// ErrOutOfBounds is returned when a computed voxel falls outside the space bounds.
	ErrOutOfBounds = errors.New("voxel is outside the space bounds")

	// ErrForeign is returned when a voxel is already claimed by a beam with no declared junction.
	ErrForeign = errors.New("voxel is claimed by another beam")

	// ErrArityViolation is returned when a connector does not bind exactly two voxels.
	ErrArityViolation = errors.New("connector must bind exactly two voxels")

	// ErrNotOwned is returned when a connector voxel is not claimed by both beams.
	ErrNotOwned = errors.New("connector voxel is not on both beam paths")

	// ErrDuplicateOrigin is returned when a space already holds a beam with the same origin.
	ErrDuplicateOrigin = errors.New("a beam with this origin already exists in the space")

	// ErrSameBeam is returned when a connector would join a beam to itself.
	ErrSameBeam = errors.New("connector must join two distinct beams")

	ErrUnknownOrientation   = errors.New("unknown orientation")
	ErrUnknownSpace         = errors.New("unknown space")
	ErrDuplicateSpace       = errors.New("space already exists")
	ErrUnknownBeam          = errors.New("unknown beam")
	ErrBeamRetired          = errors.New("beam is retired")
	ErrInvalidTransition    = errors.New("invalid beam state transition")
	ErrInvalidCoordinates   = errors.New("coordinates must be an (x,y,z) triple")
	ErrInvalidDistance      = errors.New("distance must be a non-negative (amount, unit) pair")
	ErrInvalidDimensions    = errors.New("space dimensions must be positive")
	ErrEmptySpaceName       = errors.New("space name must not be empty")
	ErrEmptyMaterialName    = errors.New("material name must not be empty")
	ErrNotUnitVector        = errors.New("orientation delta must be an axis-aligned unit vector")
	ErrDuplicateOrientation = errors.New("orientation name or delta is not unique")
	ErrDuplicateConnector   = errors.New("connector already exists")
	ErrNoPendingJunction    = errors.New("no junction was declared for these beams and voxels")

	// ErrRecordingFailed is returned when the Recorder rejects a change; the change is rolled back.
	ErrRecordingFailed = errors.New("recording the change failed")
)

// PlacementError reports a rejected placement together with the voxel that caused it.
// It unwraps to its Kind, so callers match it with errors.Is.
type PlacementError struct {
	Kind     error
	Voxel    Coordinates
	Occupant BeamID // set for ErrForeign
}

func (e *PlacementError) Error() string {
	if e == nil {
		return ""
	}
	if e.Occupant != "" {
		return fmt.Sprintf("%s: %s (occupied by %s)", e.Kind.Error(), e.Voxel, e.Occupant)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Voxel)
}

func (e *PlacementError) Unwrap() error { return e.Kind }

// ConnectorError reports a rejected connector. Voxel is only meaningful for ErrNotOwned.
type ConnectorError struct {
	Kind  error
	Voxel Coordinates
	Msg   string
}

func (e *ConnectorError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *ConnectorError) Unwrap() error { return e.Kind }

func placementError(kind error, voxel Coordinates) error {
	return &PlacementError{Kind: kind, Voxel: voxel}
}

func connectorErrorf(kind error, voxel Coordinates, format string, args ...any) error {
	return &ConnectorError{Kind: kind, Voxel: voxel, Msg: fmt.Sprintf(format, args...)}
}
