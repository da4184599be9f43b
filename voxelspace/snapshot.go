package voxelspace

import (
	"errors"
	"slices"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrInvalidSnapshotJSON is returned when snapshot JSON data is malformed or invalid.
	ErrInvalidSnapshotJSON = errors.New("occupancy snapshot json is not valid")
)

var snapshotJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// OccupancySnapshot is a point-in-time copy of a space's occupancy, for persistence or display.
// Occupants maps every claimed voxel to its first claimant; Junctions lists the voxels
// claimed by two beams.
type OccupancySnapshot struct {
	Space      string
	Dimensions Dimensions
	Occupants  map[Coordinates]BeamID
	Junctions  map[Coordinates][2]BeamID
}

// OccupancyEntry is one claimed voxel.
type OccupancyEntry struct {
	Voxel   Coordinates `json:"voxel"`
	Beam    BeamID      `json:"beam"`
	Partner BeamID      `json:"partner,omitempty"`
}

// occupancySnapshotDTO is the wire shape; map keys cannot be structs in JSON.
type occupancySnapshotDTO struct {
	Space      string           `json:"space"`
	Dimensions Dimensions       `json:"dimensions"`
	Entries    []OccupancyEntry `json:"entries"`
}

// Len returns the number of claimed voxels.
func (s OccupancySnapshot) Len() int {
	return len(s.Occupants)
}

// Entries returns every claimed voxel ordered by z, then y, then x.
func (s OccupancySnapshot) Entries() []OccupancyEntry {
	entries := make([]OccupancyEntry, 0, len(s.Occupants))
	for voxel, beam := range s.Occupants {
		entry := OccupancyEntry{Voxel: voxel, Beam: beam}
		if pair, ok := s.Junctions[voxel]; ok {
			entry.Partner = pair[1]
		}
		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b OccupancyEntry) int {
		switch {
		case a.Voxel.less(b.Voxel):
			return -1
		case b.Voxel.less(a.Voxel):
			return 1
		default:
			return 0
		}
	})

	return entries
}

// VoxelsOf returns the voxels claimed by beamID (as owner or junction partner), ordered by z, y, x.
func (s OccupancySnapshot) VoxelsOf(beamID BeamID) []Coordinates {
	var voxels []Coordinates
	for _, entry := range s.Entries() {
		if entry.Beam == beamID || entry.Partner == beamID {
			voxels = append(voxels, entry.Voxel)
		}
	}

	return voxels
}

// MarshalJSON encodes the snapshot with a deterministic entry order.
func (s OccupancySnapshot) MarshalJSON() ([]byte, error) {
	return snapshotJSON.Marshal(occupancySnapshotDTO{
		Space:      s.Space,
		Dimensions: s.Dimensions,
		Entries:    s.Entries(),
	})
}

// ParseOccupancySnapshotJSON decodes a snapshot produced by MarshalJSON.
func ParseOccupancySnapshotJSON(data []byte) (OccupancySnapshot, error) {
	if !jsoniter.ConfigFastest.Valid(data) {
		return OccupancySnapshot{}, ErrInvalidSnapshotJSON
	}

	var dto occupancySnapshotDTO
	if err := snapshotJSON.Unmarshal(data, &dto); err != nil {
		return OccupancySnapshot{}, errors.Join(ErrInvalidSnapshotJSON, err)
	}

	snapshot := OccupancySnapshot{
		Space:      dto.Space,
		Dimensions: dto.Dimensions,
		Occupants:  make(map[Coordinates]BeamID, len(dto.Entries)),
		Junctions:  make(map[Coordinates][2]BeamID),
	}
	for _, entry := range dto.Entries {
		snapshot.Occupants[entry.Voxel] = entry.Beam
		if entry.Partner != "" {
			snapshot.Junctions[entry.Voxel] = [2]BeamID{entry.Beam, entry.Partner}
		}
	}

	return snapshot, nil
}
