package voxelspace

import "slices"

// ConnectorArity is the fixed number of beams, and of shared voxels, a connector binds.
const ConnectorArity = 2

// Connector binds exactly two beams at exactly two shared voxels. It is immutable once formed.
type Connector struct {
	ID    ConnectorID
	Space string
	Beams [ConnectorArity]BeamID
	At    [ConnectorArity]Coordinates
}

// Binds reports whether the connector references beamID.
func (c Connector) Binds(beamID BeamID) bool {
	return c.Beams[0] == beamID || c.Beams[1] == beamID
}

// FormConnector validates a junction between beams a and b and returns the connector record.
//
// The shared voxels are de-duplicated and must number exactly two (ErrArityViolation),
// and each must lie on both beams' computed paths (ErrNotOwned). Beams and voxels are
// stored in canonical order, so the same inputs always produce the same record.
// FormConnector never touches a grid.
func FormConnector(id ConnectorID, a, b Beam, shared []Coordinates) (Connector, error) {
	if a.ID == b.ID {
		return Connector{}, &ConnectorError{Kind: ErrSameBeam, Msg: string(a.ID)}
	}

	voxels, err := normalizeJunctionVoxels(shared)
	if err != nil {
		return Connector{}, err
	}

	for _, voxel := range voxels {
		if !a.Path.Contains(voxel) {
			return Connector{}, connectorErrorf(ErrNotOwned, voxel, "%s is not on beam %s", voxel, a.ID)
		}
		if !b.Path.Contains(voxel) {
			return Connector{}, connectorErrorf(ErrNotOwned, voxel, "%s is not on beam %s", voxel, b.ID)
		}
	}

	beams := [ConnectorArity]BeamID{a.ID, b.ID}
	if beams[1] < beams[0] {
		beams[0], beams[1] = beams[1], beams[0]
	}

	return Connector{
		ID:    id,
		Space: a.Space,
		Beams: beams,
		At:    [ConnectorArity]Coordinates{voxels[0], voxels[1]},
	}, nil
}

// normalizeJunctionVoxels sorts and de-duplicates voxels and enforces the fixed arity.
func normalizeJunctionVoxels(shared []Coordinates) ([]Coordinates, error) {
	voxels := slices.Clone(shared)
	slices.SortFunc(voxels, func(a, b Coordinates) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		default:
			return 0
		}
	})
	voxels = slices.Compact(voxels)

	if len(voxels) != ConnectorArity {
		return nil, connectorErrorf(ErrArityViolation, Coordinates{}, "got %d distinct voxels", len(voxels))
	}

	return voxels, nil
}

// SameVoxels reports whether the connector binds exactly the given voxel set.
func (c Connector) SameVoxels(voxels []Coordinates) bool {
	normalized, err := normalizeJunctionVoxels(voxels)
	if err != nil {
		return false
	}

	return normalized[0] == c.At[0] && normalized[1] == c.At[1]
}
