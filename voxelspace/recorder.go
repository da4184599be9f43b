package voxelspace

import "context"

// Recorder persists the results of committed placement operations.
//
// The placement engine calls it while still holding the space's write slot and before the
// change becomes visible in memory. If a call fails, the change is dropped and the engine
// returns ErrRecordingFailed, so memory and storage never disagree about a placement.
type Recorder interface {
	SaveSpace(ctx context.Context, space Space) error
	SaveBeam(ctx context.Context, beam BeamRecord, claims []CubeClaim) error
	DeleteBeam(ctx context.Context, space string, beamID BeamID) error
	SaveConnector(ctx context.Context, connector Connector) error
}

// CubeClaim is one voxel claimed by a beam. Claim 0 is the first claimant of the cube,
// claim 1 the junction partner.
type CubeClaim struct {
	Voxel Coordinates
	Beam  BeamID
	Claim int
}

// ClaimsFromReport turns an authorized collision report into the claims it commits.
func ClaimsFromReport(report CollisionReport) []CubeClaim {
	claims := make([]CubeClaim, 0, len(report.Checks))
	for _, check := range report.Checks {
		claim := CubeClaim{Voxel: check.Voxel, Beam: report.Beam}
		if check.Status == VoxelShared {
			claim.Claim = 1
		}
		claims = append(claims, claim)
	}

	return claims
}
