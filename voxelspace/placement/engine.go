package placement

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

// PlaceRequest asks for one beam in one space.
// Junction, when set, declares the two voxels the beam will share with an already placed beam.
type PlaceRequest struct {
	Space       string                     `json:"space" yaml:"space"`
	Origin      voxelspace.Coordinates     `json:"origin" yaml:"origin"`
	Orientation string                     `json:"orientation" yaml:"orientation"`
	Length      int                        `json:"length" yaml:"length"`
	Junction    *voxelspace.JunctionIntent `json:"junction,omitempty" yaml:"junction,omitempty"`
}

// PlacementResult is the outcome of one request of a batch.
type PlacementResult struct {
	Request PlaceRequest
	BeamID  voxelspace.BeamID
	Err     error
}

// spaceState is everything the engine tracks for one space.
// Writers hold the weight-1 writer semaphore for their whole operation; mu only guards
// the maps below against concurrent readers.
type spaceState struct {
	space  voxelspace.Space
	grid   *voxelspace.Grid
	writer *semaphore.Weighted

	mu         sync.RWMutex
	beams      map[voxelspace.BeamID]voxelspace.Beam
	origins    map[voxelspace.Coordinates]voxelspace.BeamID
	pending    []voxelspace.Connector
	connectors []voxelspace.Connector
	sequence   int64
}

func newSpaceState(space voxelspace.Space) *spaceState {
	return &spaceState{
		space:   space,
		grid:    voxelspace.NewGrid(space.Dimensions),
		writer:  semaphore.NewWeighted(1),
		beams:   make(map[voxelspace.BeamID]voxelspace.Beam),
		origins: make(map[voxelspace.Coordinates]voxelspace.BeamID),
	}
}

// acquire waits for the space's write slot. Waiters are served in arrival order.
func (st *spaceState) acquire(ctx context.Context) (func(), error) {
	if err := st.writer.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	return func() { st.writer.Release(1) }, nil
}

func (st *spaceState) beam(id voxelspace.BeamID) (voxelspace.Beam, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	beam, ok := st.beams[id]
	return beam, ok
}

// Engine places beams into spaces, forms connectors and removes beams.
//
// All writes to one space are serialized in arrival order; different spaces are independent.
// Reads never wait for writers to finish an operation, and never observe a partial one.
type Engine struct {
	orientations     voxelspace.OrientationTable
	newID            func() string
	recorder         voxelspace.Recorder
	logger           voxelspace.Logger
	contextualLogger voxelspace.ContextualLogger
	metricsCollector voxelspace.MetricsCollector
	tracingCollector voxelspace.TracingCollector

	mu         sync.RWMutex
	spaces     map[string]*spaceState
	beamSpaces map[voxelspace.BeamID]*spaceState
}

// NewEngine creates an Engine with the default orientation table and UUID identities.
func NewEngine(options ...Option) (*Engine, error) {
	e := &Engine{
		orientations: voxelspace.DefaultOrientationTable(),
		newID:        uuid.NewString,
		spaces:       make(map[string]*spaceState),
		beamSpaces:   make(map[voxelspace.BeamID]*spaceState),
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Orientations returns the orientation table the engine resolves names against.
func (e *Engine) Orientations() voxelspace.OrientationTable {
	return e.orientations
}

// CreateSpace registers a new, empty space and records it.
func (e *Engine) CreateSpace(ctx context.Context, space voxelspace.Space) error {
	space, err := voxelspace.BuildSpace(space.Name, space.Dimensions, space.CubeType)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.spaces[space.Name]; exists {
		return fmt.Errorf("%w: %q", voxelspace.ErrDuplicateSpace, space.Name)
	}

	if e.recorder != nil {
		if recordErr := e.recorder.SaveSpace(ctx, space); recordErr != nil {
			err = errors.Join(voxelspace.ErrRecordingFailed, recordErr)
			e.logError(ctx, logMsgRecordingFailed, err, logAttrSpace, space.Name)
			return err
		}
	}

	e.spaces[space.Name] = newSpaceState(space)
	e.logInfo(ctx, logMsgSpaceCreated, logAttrSpace, space.Name)

	return nil
}

// Spaces returns every registered space ordered by name.
func (e *Engine) Spaces() []voxelspace.Space {
	e.mu.RLock()
	defer e.mu.RUnlock()

	spaces := make([]voxelspace.Space, 0, len(e.spaces))
	for _, st := range e.spaces {
		spaces = append(spaces, st.space)
	}

	slices.SortFunc(spaces, func(a, b voxelspace.Space) int {
		return strings.Compare(a.Name, b.Name)
	})

	return spaces
}

func (e *Engine) spaceState(name string) (*spaceState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st, ok := e.spaces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", voxelspace.ErrUnknownSpace, name)
	}

	return st, nil
}

func (e *Engine) spaceOfBeam(id voxelspace.BeamID) (*spaceState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st, ok := e.beamSpaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", voxelspace.ErrUnknownBeam, id)
	}

	return st, nil
}

// PlaceBeam computes the beam's path, checks it for collisions and commits every voxel or none.
//
// A rejected placement leaves the space exactly as it was. The error is a *voxelspace.PlacementError
// for path and collision failures, matched with errors.Is against the voxelspace error kinds.
func (e *Engine) PlaceBeam(ctx context.Context, req PlaceRequest) (voxelspace.BeamID, error) {
	return e.observePlacement(ctx, req, func(ctx context.Context) (voxelspace.Beam, error) {
		st, err := e.spaceState(req.Space)
		if err != nil {
			return voxelspace.Beam{}, err
		}

		release, err := st.acquire(ctx)
		if err != nil {
			return voxelspace.Beam{}, err
		}
		defer release()

		return e.place(ctx, st, req, nil)
	})
}

// PlaceBeams places a batch of beams and reports one result per request, in request order.
//
// Requests for the same space are applied one at a time in slice order without other writers
// interleaving, so a later request that conflicts with an earlier one is the one rejected.
// Requests for different spaces are processed in parallel.
func (e *Engine) PlaceBeams(ctx context.Context, requests []PlaceRequest) []PlacementResult {
	results := make([]PlacementResult, len(requests))
	bySpace := make(map[string][]int)
	var order []string

	for i, req := range requests {
		results[i].Request = req
		if _, seen := bySpace[req.Space]; !seen {
			order = append(order, req.Space)
		}
		bySpace[req.Space] = append(bySpace[req.Space], i)
	}

	var g errgroup.Group
	for _, name := range order {
		indexes := bySpace[name]
		g.Go(func() error {
			e.placeBatch(ctx, name, requests, indexes, results)
			return nil
		})
	}
	_ = g.Wait() // batch goroutines report through results

	return results
}

func (e *Engine) placeBatch(ctx context.Context, name string, requests []PlaceRequest, indexes []int, results []PlacementResult) {
	fail := func(err error) {
		for _, i := range indexes {
			results[i].BeamID, results[i].Err = e.observePlacement(ctx, requests[i], func(context.Context) (voxelspace.Beam, error) {
				return voxelspace.Beam{}, err
			})
		}
	}

	st, err := e.spaceState(name)
	if err != nil {
		fail(err)
		return
	}

	release, err := st.acquire(ctx)
	if err != nil {
		fail(err)
		return
	}
	defer release()

	for _, i := range indexes {
		req := requests[i]
		results[i].BeamID, results[i].Err = e.observePlacement(ctx, req, func(ctx context.Context) (voxelspace.Beam, error) {
			return e.place(ctx, st, req, nil)
		})
	}
}

// observePlacement wraps one placement attempt with its span, metrics and log line.
func (e *Engine) observePlacement(
	ctx context.Context,
	req PlaceRequest,
	placeFn func(context.Context) (voxelspace.Beam, error),
) (voxelspace.BeamID, error) {
	observer, ctx := e.startObservation(ctx, operationPlace, spanNamePlace, metricPlaceDuration, map[string]string{
		spanAttrSpace: req.Space,
	})

	beam, err := placeFn(ctx)
	if err != nil {
		observer.finishError(err)
		e.logRejection(ctx, logMsgPlacementRejected, err,
			logAttrSpace, req.Space,
			logAttrOrigin, req.Origin.String(),
			logAttrOrientation, req.Orientation,
			logAttrLength, req.Length)

		return "", err
	}

	e.recordValueMetricsContext(ctx, metricVoxelsClaimed, float64(len(beam.Path)), operationPlace)
	observer.finishSuccess(map[string]string{
		spanAttrBeamID:     string(beam.ID),
		spanAttrVoxelCount: strconv.Itoa(len(beam.Path)),
	})
	e.logInfo(ctx, logMsgBeamPlaced,
		logAttrSpace, beam.Space,
		logAttrBeamID, string(beam.ID),
		logAttrOrigin, beam.Origin.String(),
		logAttrOrientation, beam.Orientation.Name,
		logAttrLength, beam.Length,
		logAttrDurationMS, toMilliseconds(observer.elapsed()))

	return beam.ID, nil
}

// place runs one placement while the caller holds the space's write slot.
// A restored record keeps its identity and sequence and is not recorded again.
func (e *Engine) place(
	ctx context.Context,
	st *spaceState,
	req PlaceRequest,
	restored *voxelspace.BeamRecord,
) (voxelspace.Beam, error) {
	o, err := e.orientations.Lookup(req.Orientation)
	if err != nil {
		return voxelspace.Beam{}, err
	}

	id := voxelspace.BeamID(e.newID())
	if restored != nil {
		id = restored.ID
	}

	beam, err := voxelspace.ProposeBeam(id, st.space, req.Origin, o, req.Length)
	if err != nil {
		return voxelspace.Beam{}, err
	}

	st.mu.RLock()
	existing, duplicate := st.origins[req.Origin]
	st.mu.RUnlock()
	if duplicate {
		return voxelspace.Beam{}, &voxelspace.PlacementError{
			Kind:     voxelspace.ErrDuplicateOrigin,
			Voxel:    req.Origin,
			Occupant: existing,
		}
	}

	if _, err := e.spaceOfBeam(id); err == nil {
		return voxelspace.Beam{}, fmt.Errorf("%w: beam id %s is already in use", voxelspace.ErrInvalidTransition, id)
	}

	var intent voxelspace.JunctionIntent
	var junction *voxelspace.Connector
	if req.Junction != nil && !req.Junction.IsZero() {
		pending, err := e.junction(st, beam, *req.Junction)
		if err != nil {
			return voxelspace.Beam{}, err
		}

		intent = *req.Junction
		junction = &pending
	}

	report, err := st.grid.Check(id, beam.Path, intent)
	if err != nil {
		return voxelspace.Beam{}, err
	}

	e.logDebug(ctx, logMsgCollisionReport,
		logAttrBeamID, string(id),
		logAttrSharedVoxels, len(report.Shared()))

	if beam.State, err = beam.State.Transition(voxelspace.BeamPlaced); err != nil {
		return voxelspace.Beam{}, err
	}

	record := voxelspace.BeamRecord{
		ID:          id,
		Space:       st.space.Name,
		Origin:      beam.Origin,
		Orientation: o.Name,
		Length:      beam.Length,
		Junction:    req.Junction,
	}

	// Writers on this space are serialized, so the checked occupancy still holds when the
	// grid is updated after recording. Readers only ever see the committed result.
	recorded := false
	if restored != nil {
		record.Sequence = restored.Sequence
	} else {
		st.mu.RLock()
		record.Sequence = st.sequence + 1
		st.mu.RUnlock()

		if e.recorder != nil {
			if recordErr := e.recorder.SaveBeam(ctx, record, voxelspace.ClaimsFromReport(report)); recordErr != nil {
				return voxelspace.Beam{}, errors.Join(voxelspace.ErrRecordingFailed, recordErr)
			}
			recorded = true
		}
	}

	if _, err := st.grid.Reserve(id, beam.Path, intent); err != nil {
		if recorded {
			if undoErr := e.recorder.DeleteBeam(ctx, st.space.Name, id); undoErr != nil {
				return voxelspace.Beam{}, errors.Join(err, voxelspace.ErrRecordingFailed, undoErr)
			}
		}

		return voxelspace.Beam{}, err
	}

	st.mu.Lock()
	st.beams[id] = beam
	st.origins[beam.Origin] = id
	if record.Sequence > st.sequence {
		st.sequence = record.Sequence
	}
	if junction != nil {
		st.pending = append(st.pending, *junction)
	}
	st.mu.Unlock()

	e.mu.Lock()
	e.beamSpaces[id] = st
	e.mu.Unlock()

	return beam, nil
}

// junction validates a declared junction against the partner's path before anything mutates.
// The result is the connector the two beams may later form.
func (e *Engine) junction(st *spaceState, candidate voxelspace.Beam, intent voxelspace.JunctionIntent) (voxelspace.Connector, error) {
	partner, ok := st.beam(intent.With)
	if !ok {
		return voxelspace.Connector{}, fmt.Errorf("%w: junction partner %s", voxelspace.ErrUnknownBeam, intent.With)
	}

	if partner.State != voxelspace.BeamPlaced {
		return voxelspace.Connector{}, fmt.Errorf("%w: junction partner %s", voxelspace.ErrBeamRetired, intent.With)
	}

	return voxelspace.FormConnector("", candidate, partner, intent.At)
}

// FormConnector binds two placed beams of one space at exactly two voxels they both claim.
//
// The beams must have declared the junction when the second of them was placed; the pending
// junction is consumed. The error is a *voxelspace.ConnectorError for arity and ownership failures.
func (e *Engine) FormConnector(
	ctx context.Context,
	a, b voxelspace.BeamID,
	voxelPair []voxelspace.Coordinates,
) (voxelspace.ConnectorID, error) {
	observer, ctx := e.startObservation(ctx, operationConnect, spanNameConnect, metricConnectDuration, map[string]string{
		spanAttrBeamID: string(a) + "," + string(b),
	})

	connector, err := e.formConnector(ctx, a, b, voxelPair)
	if err != nil {
		observer.finishError(err)
		e.logRejection(ctx, logMsgConnectorRejected, err, logAttrBeamID, string(a)+","+string(b))

		return "", err
	}

	observer.finishSuccess(map[string]string{spanAttrConnectorID: string(connector.ID)})
	e.logInfo(ctx, logMsgConnectorFormed,
		logAttrSpace, connector.Space,
		logAttrConnectorID, string(connector.ID),
		logAttrBeamID, string(connector.Beams[0])+","+string(connector.Beams[1]))

	return connector.ID, nil
}

func (e *Engine) formConnector(
	ctx context.Context,
	a, b voxelspace.BeamID,
	voxelPair []voxelspace.Coordinates,
) (voxelspace.Connector, error) {
	if a == b {
		return voxelspace.Connector{}, &voxelspace.ConnectorError{Kind: voxelspace.ErrSameBeam, Msg: string(a)}
	}

	stA, err := e.spaceOfBeam(a)
	if err != nil {
		return voxelspace.Connector{}, err
	}

	stB, err := e.spaceOfBeam(b)
	if err != nil {
		return voxelspace.Connector{}, err
	}

	if stA != stB {
		return voxelspace.Connector{}, &voxelspace.ConnectorError{
			Kind: voxelspace.ErrNotOwned,
			Msg:  fmt.Sprintf("%s and %s are in different spaces", a, b),
		}
	}

	release, err := stA.acquire(ctx)
	if err != nil {
		return voxelspace.Connector{}, err
	}
	defer release()

	return e.connect(ctx, stA, a, b, voxelPair, voxelspace.ConnectorID(e.newID()), true)
}

// connect forms a connector while the caller holds the space's write slot.
func (e *Engine) connect(
	ctx context.Context,
	st *spaceState,
	a, b voxelspace.BeamID,
	voxelPair []voxelspace.Coordinates,
	id voxelspace.ConnectorID,
	record bool,
) (voxelspace.Connector, error) {
	beamA, okA := st.beam(a)
	beamB, okB := st.beam(b)
	if !okA || !okB {
		return voxelspace.Connector{}, fmt.Errorf("%w: %s or %s", voxelspace.ErrUnknownBeam, a, b)
	}

	for _, beam := range []voxelspace.Beam{beamA, beamB} {
		if beam.State != voxelspace.BeamPlaced {
			return voxelspace.Connector{}, fmt.Errorf("%w: %s", voxelspace.ErrBeamRetired, beam.ID)
		}
	}

	connector, err := voxelspace.FormConnector(id, beamA, beamB, voxelPair)
	if err != nil {
		return voxelspace.Connector{}, err
	}

	same := func(other voxelspace.Connector) bool {
		return other.Beams == connector.Beams && other.At == connector.At
	}

	st.mu.RLock()
	duplicate := slices.ContainsFunc(st.connectors, same)
	pendingIdx := slices.IndexFunc(st.pending, same)
	st.mu.RUnlock()

	if duplicate {
		return voxelspace.Connector{}, fmt.Errorf("%w: %s and %s at %s %s",
			voxelspace.ErrDuplicateConnector, connector.Beams[0], connector.Beams[1], connector.At[0], connector.At[1])
	}

	if pendingIdx < 0 {
		return voxelspace.Connector{}, fmt.Errorf("%w: %s and %s at %s %s",
			voxelspace.ErrNoPendingJunction, connector.Beams[0], connector.Beams[1], connector.At[0], connector.At[1])
	}

	for _, voxel := range connector.At {
		claimants := st.grid.ClaimantsOf(voxel)
		if !slices.Contains(claimants, a) || !slices.Contains(claimants, b) {
			return voxelspace.Connector{}, &voxelspace.ConnectorError{
				Kind:  voxelspace.ErrNotOwned,
				Voxel: voxel,
				Msg:   fmt.Sprintf("%s is not claimed by both %s and %s", voxel, a, b),
			}
		}
	}

	if record && e.recorder != nil {
		if recordErr := e.recorder.SaveConnector(ctx, connector); recordErr != nil {
			return voxelspace.Connector{}, errors.Join(voxelspace.ErrRecordingFailed, recordErr)
		}
	}

	st.mu.Lock()
	st.connectors = append(st.connectors, connector)
	st.pending = slices.Delete(st.pending, pendingIdx, pendingIdx+1)
	st.mu.Unlock()

	return connector, nil
}

// RemoveBeam releases every voxel of a placed beam and retires it.
// Connectors and pending junctions referencing the beam are dropped with it.
func (e *Engine) RemoveBeam(ctx context.Context, id voxelspace.BeamID) error {
	observer, ctx := e.startObservation(ctx, operationRemove, spanNameRemove, metricRemoveDuration, map[string]string{
		spanAttrBeamID: string(id),
	})

	freed, err := e.removeBeam(ctx, id)
	if err != nil {
		observer.finishError(err)
		e.logRejection(ctx, logMsgRemoveRejected, err, logAttrBeamID, string(id))

		return err
	}

	observer.finishSuccess(map[string]string{spanAttrVoxelCount: strconv.Itoa(len(freed))})
	e.logInfo(ctx, logMsgBeamRemoved, logAttrBeamID, string(id), logAttrLength, len(freed))

	return nil
}

func (e *Engine) removeBeam(ctx context.Context, id voxelspace.BeamID) (voxelspace.Path, error) {
	st, err := e.spaceOfBeam(id)
	if err != nil {
		return nil, err
	}

	release, err := st.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	beam, _ := st.beam(id)
	if beam.State == voxelspace.BeamRetired {
		return nil, fmt.Errorf("%w: %s", voxelspace.ErrBeamRetired, id)
	}

	retired, err := beam.State.Transition(voxelspace.BeamRetired)
	if err != nil {
		return nil, err
	}

	if e.recorder != nil {
		if recordErr := e.recorder.DeleteBeam(ctx, st.space.Name, id); recordErr != nil {
			return nil, errors.Join(voxelspace.ErrRecordingFailed, recordErr)
		}
	}

	freed := st.grid.Release(id)
	beam.State = retired

	binds := func(c voxelspace.Connector) bool { return c.Binds(id) }

	st.mu.Lock()
	st.beams[id] = beam
	delete(st.origins, beam.Origin)
	st.connectors = slices.DeleteFunc(st.connectors, binds)
	st.pending = slices.DeleteFunc(st.pending, binds)
	st.mu.Unlock()

	return freed, nil
}

// OccupantOf returns the first beam claiming voxel in space.
func (e *Engine) OccupantOf(_ context.Context, space string, voxel voxelspace.Coordinates) (voxelspace.BeamID, bool, error) {
	st, err := e.spaceState(space)
	if err != nil {
		return "", false, err
	}

	if !st.space.Dimensions.Contains(voxel) {
		return "", false, &voxelspace.PlacementError{Kind: voxelspace.ErrOutOfBounds, Voxel: voxel}
	}

	occupant, ok := st.grid.OccupantOf(voxel)

	return occupant, ok, nil
}

// OccupancySnapshot returns a copy of the space's current occupancy.
func (e *Engine) OccupancySnapshot(_ context.Context, space string) (voxelspace.OccupancySnapshot, error) {
	st, err := e.spaceState(space)
	if err != nil {
		return voxelspace.OccupancySnapshot{}, err
	}

	return st.grid.Snapshot(st.space.Name), nil
}

// Beam returns a copy of a placed or retired beam.
func (e *Engine) Beam(_ context.Context, id voxelspace.BeamID) (voxelspace.Beam, error) {
	st, err := e.spaceOfBeam(id)
	if err != nil {
		return voxelspace.Beam{}, err
	}

	beam, _ := st.beam(id)
	beam.Path = beam.Path.Clone()

	return beam, nil
}

// Connectors returns the connectors formed in space, in formation order.
func (e *Engine) Connectors(_ context.Context, space string) ([]voxelspace.Connector, error) {
	st, err := e.spaceState(space)
	if err != nil {
		return nil, err
	}

	st.mu.RLock()
	defer st.mu.RUnlock()

	return slices.Clone(st.connectors), nil
}

// RestoreSpace registers a space and replays persisted beams and connectors into it without
// recording them again. Beams are replayed in sequence order, so junctions resolve as they did
// originally. On any failure the space is not registered.
func (e *Engine) RestoreSpace(
	ctx context.Context,
	space voxelspace.Space,
	beams []voxelspace.BeamRecord,
	connectors []voxelspace.Connector,
) error {
	space, err := voxelspace.BuildSpace(space.Name, space.Dimensions, space.CubeType)
	if err != nil {
		return err
	}

	st := newSpaceState(space)
	release, err := st.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	e.mu.Lock()
	if _, exists := e.spaces[space.Name]; exists {
		e.mu.Unlock()
		return fmt.Errorf("%w: %q", voxelspace.ErrDuplicateSpace, space.Name)
	}
	e.spaces[space.Name] = st
	e.mu.Unlock()

	if err := e.replay(ctx, st, beams, connectors); err != nil {
		e.dropSpace(st)
		return err
	}

	e.logInfo(ctx, logMsgSpaceRestored,
		logAttrSpace, space.Name,
		logAttrBeamCount, len(beams),
		logAttrConnectorCount, len(connectors))

	return nil
}

func (e *Engine) replay(
	ctx context.Context,
	st *spaceState,
	beams []voxelspace.BeamRecord,
	connectors []voxelspace.Connector,
) error {
	ordered := slices.Clone(beams)
	slices.SortStableFunc(ordered, func(a, b voxelspace.BeamRecord) int {
		switch {
		case a.Sequence < b.Sequence:
			return -1
		case a.Sequence > b.Sequence:
			return 1
		default:
			return 0
		}
	})

	for i := range ordered {
		record := ordered[i]
		req := PlaceRequest{
			Space:       st.space.Name,
			Origin:      record.Origin,
			Orientation: record.Orientation,
			Length:      record.Length,
			Junction:    record.Junction,
		}

		if _, err := e.place(ctx, st, req, &record); err != nil {
			return fmt.Errorf("restoring beam %s: %w", record.ID, err)
		}
	}

	for _, c := range connectors {
		if _, err := e.connect(ctx, st, c.Beams[0], c.Beams[1], c.At[:], c.ID, false); err != nil {
			return fmt.Errorf("restoring connector %s: %w", c.ID, err)
		}
	}

	return nil
}

// dropSpace unregisters a space and every beam that was registered with it.
func (e *Engine) dropSpace(st *spaceState) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.spaces, st.space.Name)
	for id, owner := range e.beamSpaces {
		if owner == st {
			delete(e.beamSpaces, id)
		}
	}
}
