package sqlstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

type spaceRow struct {
	name       string
	x, y, z    int
	material   string
	edgeAmount float64
	edgeUnit   string
}

type cubeRow struct {
	voxel voxelspace.Coordinates
	beam  voxelspace.BeamID
	claim int
}

// LoadSpaces returns every stored space ordered by name.
func (s Store) LoadSpaces(ctx context.Context) ([]voxelspace.Space, error) {
	return s.loadSpaces(ctx, "")
}

// LoadSpace returns the stored space with the given name, or voxelspace.ErrUnknownSpace.
func (s Store) LoadSpace(ctx context.Context, name string) (voxelspace.Space, error) {
	spaces, err := s.loadSpaces(ctx, name)
	if err != nil {
		return voxelspace.Space{}, err
	}

	if len(spaces) == 0 {
		return voxelspace.Space{}, fmt.Errorf("%w: %q", voxelspace.ErrUnknownSpace, name)
	}

	return spaces[0], nil
}

func (s Store) loadSpaces(ctx context.Context, name string) ([]voxelspace.Space, error) {
	sqlQuery, err := s.buildSelectSpaces(name)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, s.db, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer s.closeRows(rows)

	spaces := make([]voxelspace.Space, 0)
	for rows.Next() {
		var row spaceRow
		if err := rows.Scan(&row.name, &row.x, &row.y, &row.z, &row.material, &row.edgeAmount, &row.edgeUnit); err != nil {
			return nil, s.scanError(err)
		}

		space, err := voxelspace.BuildSpace(
			row.name,
			voxelspace.Dimensions{X: row.x, Y: row.y, Z: row.z},
			voxelspace.CubeType{
				Material:   voxelspace.Material{Name: row.material},
				EdgeLength: voxelspace.Distance{Amount: row.edgeAmount, Unit: row.edgeUnit},
			},
		)
		if err != nil {
			return nil, s.scanError(err)
		}

		spaces = append(spaces, space)
	}

	if err := s.rowsError(rows); err != nil {
		return nil, err
	}

	return spaces, nil
}

// LoadBeams returns the space's beams in placement sequence order.
//
// A beam that is the junction partner on some cubes gets its junction intent back: the
// first claimant of those cubes and the cubes themselves.
func (s Store) LoadBeams(ctx context.Context, space string) ([]voxelspace.BeamRecord, error) {
	sqlQuery, err := s.buildSelectBeams(space)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, s.db, sqlQuery)
	if err != nil {
		return nil, err
	}

	beams := make([]voxelspace.BeamRecord, 0)
	for rows.Next() {
		record := voxelspace.BeamRecord{Space: space}
		var id string
		if err := rows.Scan(
			&id,
			&record.Origin.X, &record.Origin.Y, &record.Origin.Z,
			&record.Orientation,
			&record.Length,
			&record.Sequence,
		); err != nil {
			s.closeRows(rows)
			return nil, s.scanError(err)
		}
		record.ID = voxelspace.BeamID(id)
		beams = append(beams, record)
	}
	rowsErr := s.rowsError(rows)
	s.closeRows(rows)
	if rowsErr != nil {
		return nil, rowsErr
	}

	cubes, err := s.loadCubes(ctx, space)
	if err != nil {
		return nil, err
	}

	junctions := junctionIntents(cubes)
	for i := range beams {
		if intent, ok := junctions[beams[i].ID]; ok {
			beams[i].Junction = intent
		}
	}

	return beams, nil
}

// junctionIntents rebuilds the declared junction of every partner beam from the cube claims.
func junctionIntents(cubes []cubeRow) map[voxelspace.BeamID]*voxelspace.JunctionIntent {
	owners := make(map[voxelspace.Coordinates]voxelspace.BeamID)
	for _, c := range cubes {
		if c.claim == claimFirst {
			owners[c.voxel] = c.beam
		}
	}

	intents := make(map[voxelspace.BeamID]*voxelspace.JunctionIntent)
	for _, c := range cubes {
		if c.claim != claimPartner {
			continue
		}

		intent, ok := intents[c.beam]
		if !ok {
			intent = &voxelspace.JunctionIntent{With: owners[c.voxel]}
			intents[c.beam] = intent
		}
		intent.At = append(intent.At, c.voxel)
	}

	for _, intent := range intents {
		slices.SortFunc(intent.At, compareVoxels)
	}

	return intents
}

// compareVoxels orders voxels by z, then y, then x.
func compareVoxels(a, b voxelspace.Coordinates) int {
	if c := cmp.Compare(a.Z, b.Z); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}

	return cmp.Compare(a.X, b.X)
}

// LoadConnectors returns the space's connectors in formation order.
func (s Store) LoadConnectors(ctx context.Context, space string) ([]voxelspace.Connector, error) {
	sqlQuery, err := s.buildSelectConnectors(space)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, s.db, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer s.closeRows(rows)

	connectors := make([]voxelspace.Connector, 0)
	for rows.Next() {
		var id, beamA, beamB string
		c := voxelspace.Connector{Space: space}
		if err := rows.Scan(
			&id, &beamA, &beamB,
			&c.At[0].X, &c.At[0].Y, &c.At[0].Z,
			&c.At[1].X, &c.At[1].Y, &c.At[1].Z,
		); err != nil {
			return nil, s.scanError(err)
		}

		c.ID = voxelspace.ConnectorID(id)
		c.Beams = [2]voxelspace.BeamID{voxelspace.BeamID(beamA), voxelspace.BeamID(beamB)}
		connectors = append(connectors, c)
	}

	if err := s.rowsError(rows); err != nil {
		return nil, err
	}

	return connectors, nil
}

// LoadOccupancy returns the stored occupancy of a space in the same shape the engine reports it.
func (s Store) LoadOccupancy(ctx context.Context, space string) (voxelspace.OccupancySnapshot, error) {
	stored, err := s.LoadSpace(ctx, space)
	if err != nil {
		return voxelspace.OccupancySnapshot{}, err
	}

	cubes, err := s.loadCubes(ctx, space)
	if err != nil {
		return voxelspace.OccupancySnapshot{}, err
	}

	snapshot := voxelspace.OccupancySnapshot{
		Space:      stored.Name,
		Dimensions: stored.Dimensions,
		Occupants:  make(map[voxelspace.Coordinates]voxelspace.BeamID, len(cubes)),
		Junctions:  make(map[voxelspace.Coordinates][2]voxelspace.BeamID),
	}

	for _, c := range cubes {
		if c.claim == claimFirst {
			snapshot.Occupants[c.voxel] = c.beam
		}
	}

	for _, c := range cubes {
		if c.claim == claimPartner {
			snapshot.Junctions[c.voxel] = [2]voxelspace.BeamID{snapshot.Occupants[c.voxel], c.beam}
		}
	}

	return snapshot, nil
}

func (s Store) loadCubes(ctx context.Context, space string) ([]cubeRow, error) {
	sqlQuery, err := s.buildSelectCubes(space)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, s.db, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer s.closeRows(rows)

	cubes := make([]cubeRow, 0)
	for rows.Next() {
		var c cubeRow
		var beam string
		if err := rows.Scan(&c.voxel.X, &c.voxel.Y, &c.voxel.Z, &beam, &c.claim); err != nil {
			return nil, s.scanError(err)
		}

		c.beam = voxelspace.BeamID(beam)
		cubes = append(cubes, c)
	}

	if err := s.rowsError(rows); err != nil {
		return nil, err
	}

	return cubes, nil
}
