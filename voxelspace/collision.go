package voxelspace

// OccupancyReader answers point lookups against current occupancy.
type OccupancyReader interface {
	OccupantOf(c Coordinates) (BeamID, bool)
}

// junctionReader is implemented by readers that know which cubes already hold two claimants.
type junctionReader interface {
	isJunction(c Coordinates) bool
}

// Occupancy is a plain voxel -> beam mapping. It satisfies OccupancyReader.
type Occupancy map[Coordinates]BeamID

// OccupantOf returns the beam mapped to c, if any.
func (o Occupancy) OccupantOf(c Coordinates) (BeamID, bool) {
	id, ok := o[c]
	return id, ok
}

// JunctionIntent declares that a candidate beam will share the voxels At with beam With.
// The zero value declares nothing.
type JunctionIntent struct {
	With BeamID        `json:"with" yaml:"with"`
	At   []Coordinates `json:"at" yaml:"at"`
}

// IsZero reports whether no junction is declared.
func (j JunctionIntent) IsZero() bool {
	return j.With == "" && len(j.At) == 0
}

func (j JunctionIntent) covers(voxel Coordinates, occupant BeamID) bool {
	if j.With == "" || j.With != occupant {
		return false
	}

	for _, at := range j.At {
		if at == voxel {
			return true
		}
	}

	return false
}

// VoxelStatus classifies one voxel of a candidate path.
type VoxelStatus int

const (
	// VoxelFree means nothing occupies the voxel.
	VoxelFree VoxelStatus = iota

	// VoxelForeign means another beam occupies the voxel and no junction covers it. Fatal.
	VoxelForeign

	// VoxelShared means the voxel's occupant is the declared junction partner for this voxel.
	VoxelShared
)

func (s VoxelStatus) String() string {
	switch s {
	case VoxelFree:
		return "free"
	case VoxelForeign:
		return "foreign"
	case VoxelShared:
		return "shared"
	default:
		return "unknown"
	}
}

// VoxelCheck is the classification of a single voxel.
type VoxelCheck struct {
	Voxel    Coordinates
	Status   VoxelStatus
	Occupant BeamID
}

// CollisionReport aggregates the classification of a whole candidate path, in path order.
type CollisionReport struct {
	Beam   BeamID
	Checks []VoxelCheck
}

// Check classifies every voxel of path against the current occupants.
//
// A voxel is Shared only if its occupant is intent.With, it is listed in intent.At,
// and the cube is not already a junction of two beams. Any other occupied voxel is Foreign.
// Check never mutates anything; ambiguous claims are reported, not arbitrated.
func Check(occupants OccupancyReader, candidate BeamID, path Path, intent JunctionIntent) CollisionReport {
	report := CollisionReport{
		Beam:   candidate,
		Checks: make([]VoxelCheck, 0, len(path)),
	}
	junctions, knowsJunctions := occupants.(junctionReader)

	for _, voxel := range path {
		occupant, occupied := occupants.OccupantOf(voxel)

		check := VoxelCheck{Voxel: voxel, Status: VoxelFree}
		if occupied {
			check.Occupant = occupant
			check.Status = VoxelForeign

			full := knowsJunctions && junctions.isJunction(voxel)
			if occupant != candidate && !full && intent.covers(voxel, occupant) {
				check.Status = VoxelShared
			}
		}

		report.Checks = append(report.Checks, check)
	}

	return report
}

// Authorized reports whether the path may be committed: no voxel is Foreign.
func (r CollisionReport) Authorized() bool {
	for _, check := range r.Checks {
		if check.Status == VoxelForeign {
			return false
		}
	}

	return true
}

// Foreign returns the fatal voxel checks in path order.
func (r CollisionReport) Foreign() []VoxelCheck {
	return r.filter(VoxelForeign)
}

// Shared returns the permitted junction voxel checks in path order.
func (r CollisionReport) Shared() []VoxelCheck {
	return r.filter(VoxelShared)
}

// Err returns a *PlacementError for the first Foreign voxel, or nil if the report is authorized.
func (r CollisionReport) Err() error {
	for _, check := range r.Checks {
		if check.Status == VoxelForeign {
			return &PlacementError{Kind: ErrForeign, Voxel: check.Voxel, Occupant: check.Occupant}
		}
	}

	return nil
}

func (r CollisionReport) filter(status VoxelStatus) []VoxelCheck {
	var out []VoxelCheck
	for _, check := range r.Checks {
		if check.Status == status {
			out = append(out, check)
		}
	}

	return out
}
