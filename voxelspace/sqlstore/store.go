package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/matthewryanscott/cubecad/voxelspace"
	"github.com/matthewryanscott/cubecad/voxelspace/sqlstore/internal/adapters"
)

const (
	tableSpaces              = "spaces"
	tableBeams               = "beams"
	tableCubes               = "cubes"
	tableConnectors          = "connectors"
	colName                  = "name"
	colXLength               = "x_length"
	colYLength               = "y_length"
	colZLength               = "z_length"
	colMaterial              = "material"
	colEdgeAmount            = "edge_amount"
	colEdgeUnit              = "edge_unit"
	colID                    = "id"
	colSpaceName             = "space_name"
	colOriginX               = "origin_x"
	colOriginY               = "origin_y"
	colOriginZ               = "origin_z"
	colOrientation           = "orientation"
	colLength                = "length"
	colSeq                   = "seq"
	colX                     = "x"
	colY                     = "y"
	colZ                     = "z"
	colBeamID                = "beam_id"
	colClaim                 = "claim"
	colBeamA                 = "beam_a"
	colBeamB                 = "beam_b"
	colAX                    = "a_x"
	colAY                    = "a_y"
	colAZ                    = "a_z"
	colBX                    = "b_x"
	colBY                    = "b_y"
	colBZ                    = "b_z"
	aliasMaxSeq              = "max_seq"
	claimFirst               = 0
	claimPartner             = 1
	logMsgBuildQueryFailed   = "failed to build sql query"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database execution failed"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgSQLExecuted        = "executed sql for: "
	logMsgOperation          = "voxel store operation: "
	logAttrError             = "error"
	logAttrQuery             = "query"
	logAttrSpace             = "space"
	logAttrBeamID            = "beam_id"
	logAttrConnectorID       = "connector_id"
	logAttrCubeCount         = "cube_count"
	logAttrDurationMS        = "duration_ms"
	logActionSaveSpace       = "save space"
	logActionSaveBeam        = "save beam"
	logActionDeleteBeam      = "delete beam"
	logActionSaveConnector   = "save connector"
	logActionLoad            = "load"
)

// Store persists the voxel model through one of the supported database adapters.
type Store struct {
	db          adapters.DBAdapter
	dialect     goqu.DialectWrapper
	dialectName string
	logger      voxelspace.Logger
}

func newStore(db adapters.DBAdapter, options []Option) (Store, error) {
	s := Store{
		db:          db,
		dialect:     goqu.Dialect(DialectPostgres),
		dialectName: DialectPostgres,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options)
}

// NewStoreFromPGXPoolAndReplica creates a new Store that reads from replica and writes to db.
func NewStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil || replica == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapterWithReplica(db, replica), options)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options)
}

// Dialect returns the goqu dialect name statements are built for.
func (s Store) Dialect() string {
	return s.dialectName
}

// SaveSpace inserts a space row.
func (s Store) SaveSpace(ctx context.Context, space voxelspace.Space) error {
	sqlQuery, err := s.buildInsertSpace(space)
	if err != nil {
		return err
	}

	if _, err := s.exec(ctx, s.db, logActionSaveSpace, sqlQuery); err != nil {
		return err
	}

	s.logOperation(logActionSaveSpace, logAttrSpace, space.Name)

	return nil
}

// SaveBeam inserts a beam row and its cube claims in one transaction.
func (s Store) SaveBeam(ctx context.Context, beam voxelspace.BeamRecord, claims []voxelspace.CubeClaim) error {
	beamQuery, err := s.buildInsertBeam(beam)
	if err != nil {
		return err
	}

	cubesQuery, err := s.buildInsertCubes(beam.Space, claims)
	if err != nil {
		return err
	}

	txErr := s.db.InTx(ctx, func(tx adapters.DBExecutor) error {
		if _, err := s.exec(ctx, tx, logActionSaveBeam, beamQuery); err != nil {
			return err
		}

		if len(claims) == 0 {
			return nil
		}

		_, err := s.exec(ctx, tx, logActionSaveBeam, cubesQuery)
		return err
	})
	if txErr != nil {
		return txErr
	}

	s.logOperation(logActionSaveBeam,
		logAttrSpace, beam.Space,
		logAttrBeamID, string(beam.ID),
		logAttrCubeCount, len(claims))

	return nil
}

// DeleteBeam deletes a beam with its cubes and connectors.
// Where the beam was the first claimant of a junction cube, the partner becomes the first claimant.
func (s Store) DeleteBeam(ctx context.Context, space string, beamID voxelspace.BeamID) error {
	ownedQuery, err := s.buildSelectOwnedVoxels(space, beamID)
	if err != nil {
		return err
	}

	deleteCubesQuery, err := s.buildDeleteCubes(space, beamID)
	if err != nil {
		return err
	}

	deleteConnectorsQuery, err := s.buildDeleteConnectorsOf(space, beamID)
	if err != nil {
		return err
	}

	deleteBeamQuery, err := s.buildDeleteBeam(space, beamID)
	if err != nil {
		return err
	}

	var promoted int

	txErr := s.db.InTx(ctx, func(tx adapters.DBExecutor) error {
		owned, err := s.queryVoxels(ctx, tx, ownedQuery)
		if err != nil {
			return err
		}

		for _, query := range []string{deleteConnectorsQuery, deleteCubesQuery} {
			if _, err := s.exec(ctx, tx, logActionDeleteBeam, query); err != nil {
				return err
			}
		}

		for _, voxel := range owned {
			promoteQuery, err := s.buildPromotePartner(space, voxel)
			if err != nil {
				return err
			}

			affected, err := s.exec(ctx, tx, logActionDeleteBeam, promoteQuery)
			if err != nil {
				return err
			}
			promoted += int(affected)
		}

		affected, err := s.exec(ctx, tx, logActionDeleteBeam, deleteBeamQuery)
		if err != nil {
			return err
		}

		if affected == 0 {
			return fmt.Errorf("%w: %s in space %q", voxelspace.ErrUnknownBeam, beamID, space)
		}

		return nil
	})
	if txErr != nil {
		return txErr
	}

	s.logOperation(logActionDeleteBeam,
		logAttrSpace, space,
		logAttrBeamID, string(beamID),
		logAttrCubeCount, promoted)

	return nil
}

// SaveConnector inserts a connector row, numbered after the space's existing connectors.
func (s Store) SaveConnector(ctx context.Context, connector voxelspace.Connector) error {
	maxSeqQuery, err := s.buildSelectMaxConnectorSeq(connector.Space)
	if err != nil {
		return err
	}

	txErr := s.db.InTx(ctx, func(tx adapters.DBExecutor) error {
		maxSeq, err := s.queryInt64(ctx, tx, maxSeqQuery)
		if err != nil {
			return err
		}

		insertQuery, err := s.buildInsertConnector(connector, maxSeq+1)
		if err != nil {
			return err
		}

		_, err = s.exec(ctx, tx, logActionSaveConnector, insertQuery)
		return err
	})
	if txErr != nil {
		return txErr
	}

	s.logOperation(logActionSaveConnector,
		logAttrSpace, connector.Space,
		logAttrConnectorID, string(connector.ID))

	return nil
}

// exec runs a statement and returns the affected row count.
func (s Store) exec(ctx context.Context, db adapters.DBExecutor, action, sqlQuery string) (int64, error) {
	start := time.Now()
	result, execErr := db.Exec(ctx, sqlQuery)
	s.logQueryWithDuration(sqlQuery, action, time.Since(start))

	if execErr != nil {
		s.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, errors.Join(ErrWritingFailed, execErr)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logError(logMsgRowsAffectedFailed, err)
		return 0, errors.Join(ErrWritingFailed, err)
	}

	return affected, nil
}

// query runs a query and returns its rows; the caller closes them with closeRows.
func (s Store) query(ctx context.Context, db adapters.DBExecutor, sqlQuery string) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := db.Query(ctx, sqlQuery)
	s.logQueryWithDuration(sqlQuery, logActionLoad, time.Since(start))

	if queryErr != nil {
		s.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(ErrQueryingFailed, queryErr)
	}

	return rows, nil
}

// closeRows closes database rows and logs any errors.
func (s Store) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (s Store) queryVoxels(ctx context.Context, db adapters.DBExecutor, sqlQuery string) ([]voxelspace.Coordinates, error) {
	rows, err := s.query(ctx, db, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer s.closeRows(rows)

	var voxels []voxelspace.Coordinates
	for rows.Next() {
		var c voxelspace.Coordinates
		if err := rows.Scan(&c.X, &c.Y, &c.Z); err != nil {
			return nil, s.scanError(err)
		}
		voxels = append(voxels, c)
	}

	if err := s.rowsError(rows); err != nil {
		return nil, err
	}

	return voxels, nil
}

func (s Store) queryInt64(ctx context.Context, db adapters.DBExecutor, sqlQuery string) (int64, error) {
	rows, err := s.query(ctx, db, sqlQuery)
	if err != nil {
		return 0, err
	}
	defer s.closeRows(rows)

	var value int64
	if rows.Next() {
		if err := rows.Scan(&value); err != nil {
			return 0, s.scanError(err)
		}
	}

	if err := s.rowsError(rows); err != nil {
		return 0, err
	}

	return value, nil
}

// rowsError reports an error that ended a row iteration early.
func (s Store) rowsError(rows adapters.DBRows) error {
	if err := rows.Err(); err != nil {
		s.logError(logMsgDBQueryFailed, err)
		return errors.Join(ErrQueryingFailed, err)
	}

	return nil
}

func (s Store) scanError(err error) error {
	s.logError(logMsgScanRowFailed, err)
	return errors.Join(ErrScanningDBRowFailed, err)
}

// logQueryWithDuration logs SQL statements with execution time at debug level if the logger is configured.
func (s Store) logQueryWithDuration(sqlQuery, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (s Store) logOperation(action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

func (s Store) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, append([]any{logAttrError, err.Error()}, args...)...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// Compile-time check to ensure Store implements the Recorder interface.
var _ voxelspace.Recorder = Store{}
