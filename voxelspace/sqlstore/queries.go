package sqlstore

import (
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

type sqlQueryString = string

// toSQL renders a goqu statement, logging and wrapping build failures.
func (s Store) toSQL(statement interface {
	ToSQL() (string, []any, error)
}) (sqlQueryString, error) {
	sqlQuery, _, err := statement.ToSQL()
	if err != nil {
		s.logError(logMsgBuildQueryFailed, err)
		return "", errors.Join(ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

func (s Store) buildInsertSpace(space voxelspace.Space) (sqlQueryString, error) {
	return s.toSQL(s.dialect.Insert(tableSpaces).Rows(goqu.Record{
		colName:       space.Name,
		colXLength:    space.Dimensions.X,
		colYLength:    space.Dimensions.Y,
		colZLength:    space.Dimensions.Z,
		colMaterial:   space.CubeType.Material.Name,
		colEdgeAmount: space.CubeType.EdgeLength.Amount,
		colEdgeUnit:   space.CubeType.EdgeLength.Unit,
	}))
}

func (s Store) buildInsertBeam(beam voxelspace.BeamRecord) (sqlQueryString, error) {
	return s.toSQL(s.dialect.Insert(tableBeams).Rows(goqu.Record{
		colID:          string(beam.ID),
		colSpaceName:   beam.Space,
		colOriginX:     beam.Origin.X,
		colOriginY:     beam.Origin.Y,
		colOriginZ:     beam.Origin.Z,
		colOrientation: beam.Orientation,
		colLength:      beam.Length,
		colSeq:         beam.Sequence,
	}))
}

func (s Store) buildInsertCubes(space string, claims []voxelspace.CubeClaim) (sqlQueryString, error) {
	rows := make([]any, 0, len(claims))
	for _, claim := range claims {
		rows = append(rows, goqu.Record{
			colSpaceName: space,
			colX:         claim.Voxel.X,
			colY:         claim.Voxel.Y,
			colZ:         claim.Voxel.Z,
			colBeamID:    string(claim.Beam),
			colClaim:     claim.Claim,
		})
	}

	if len(rows) == 0 {
		return "", nil
	}

	return s.toSQL(s.dialect.Insert(tableCubes).Rows(rows...))
}

func (s Store) buildInsertConnector(connector voxelspace.Connector, seq int64) (sqlQueryString, error) {
	return s.toSQL(s.dialect.Insert(tableConnectors).Rows(goqu.Record{
		colID:        string(connector.ID),
		colSpaceName: connector.Space,
		colBeamA:     string(connector.Beams[0]),
		colBeamB:     string(connector.Beams[1]),
		colAX:        connector.At[0].X,
		colAY:        connector.At[0].Y,
		colAZ:        connector.At[0].Z,
		colBX:        connector.At[1].X,
		colBY:        connector.At[1].Y,
		colBZ:        connector.At[1].Z,
		colSeq:       seq,
	}))
}

func (s Store) buildSelectOwnedVoxels(space string, beamID voxelspace.BeamID) (sqlQueryString, error) {
	return s.toSQL(s.dialect.From(tableCubes).
		Select(colX, colY, colZ).
		Where(goqu.Ex{colSpaceName: space, colBeamID: string(beamID), colClaim: claimFirst}))
}

func (s Store) buildDeleteCubes(space string, beamID voxelspace.BeamID) (sqlQueryString, error) {
	return s.toSQL(s.dialect.Delete(tableCubes).
		Where(goqu.Ex{colSpaceName: space, colBeamID: string(beamID)}))
}

func (s Store) buildPromotePartner(space string, voxel voxelspace.Coordinates) (sqlQueryString, error) {
	return s.toSQL(s.dialect.Update(tableCubes).
		Set(goqu.Record{colClaim: claimFirst}).
		Where(goqu.Ex{
			colSpaceName: space,
			colX:         voxel.X,
			colY:         voxel.Y,
			colZ:         voxel.Z,
			colClaim:     claimPartner,
		}))
}

func (s Store) buildDeleteConnectorsOf(space string, beamID voxelspace.BeamID) (sqlQueryString, error) {
	return s.toSQL(s.dialect.Delete(tableConnectors).
		Where(
			goqu.C(colSpaceName).Eq(space),
			goqu.Or(goqu.C(colBeamA).Eq(string(beamID)), goqu.C(colBeamB).Eq(string(beamID))),
		))
}

func (s Store) buildDeleteBeam(space string, beamID voxelspace.BeamID) (sqlQueryString, error) {
	return s.toSQL(s.dialect.Delete(tableBeams).
		Where(goqu.Ex{colSpaceName: space, colID: string(beamID)}))
}

func (s Store) buildSelectMaxConnectorSeq(space string) (sqlQueryString, error) {
	return s.toSQL(s.dialect.From(tableConnectors).
		Select(goqu.COALESCE(goqu.MAX(colSeq), 0).As(aliasMaxSeq)).
		Where(goqu.C(colSpaceName).Eq(space)))
}

func (s Store) buildSelectSpaces(name string) (sqlQueryString, error) {
	statement := s.dialect.From(tableSpaces).
		Select(colName, colXLength, colYLength, colZLength, colMaterial, colEdgeAmount, colEdgeUnit).
		Order(goqu.C(colName).Asc())

	if name != "" {
		statement = statement.Where(goqu.C(colName).Eq(name))
	}

	return s.toSQL(statement)
}

func (s Store) buildSelectBeams(space string) (sqlQueryString, error) {
	return s.toSQL(s.dialect.From(tableBeams).
		Select(colID, colOriginX, colOriginY, colOriginZ, colOrientation, colLength, colSeq).
		Where(goqu.C(colSpaceName).Eq(space)).
		Order(goqu.C(colSeq).Asc()))
}

func (s Store) buildSelectCubes(space string) (sqlQueryString, error) {
	return s.toSQL(s.dialect.From(tableCubes).
		Select(colX, colY, colZ, colBeamID, colClaim).
		Where(goqu.C(colSpaceName).Eq(space)).
		Order(goqu.C(colZ).Asc(), goqu.C(colY).Asc(), goqu.C(colX).Asc(), goqu.C(colClaim).Asc()))
}

func (s Store) buildSelectConnectors(space string) (sqlQueryString, error) {
	return s.toSQL(s.dialect.From(tableConnectors).
		Select(colID, colBeamA, colBeamB, colAX, colAY, colAZ, colBX, colBY, colBZ).
		Where(goqu.C(colSpaceName).Eq(space)).
		Order(goqu.C(colSeq).Asc()))
}
