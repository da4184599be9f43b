package helper

import (
	"context"
	"errors"
	"sync"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

// ErrRecorderSpyFailure is returned by a RecorderSpy that was told to fail.
var ErrRecorderSpyFailure = errors.New("recorder spy failure")

// RecorderSpy is an in-memory voxelspace.Recorder that captures every call.
type RecorderSpy struct {
	mu         sync.Mutex
	spaces     []voxelspace.Space
	beams      []voxelspace.BeamRecord
	claims     map[voxelspace.BeamID][]voxelspace.CubeClaim
	deleted    []voxelspace.BeamID
	connectors []voxelspace.Connector
	failing    bool
}

// NewRecorderSpy creates an empty RecorderSpy.
func NewRecorderSpy() *RecorderSpy {
	return &RecorderSpy{claims: make(map[voxelspace.BeamID][]voxelspace.CubeClaim)}
}

// FailFromNowOn makes every following call return ErrRecorderSpyFailure.
func (s *RecorderSpy) FailFromNowOn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = true
}

// SaveSpace implements voxelspace.Recorder.
func (s *RecorderSpy) SaveSpace(_ context.Context, space voxelspace.Space) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return ErrRecorderSpyFailure
	}

	s.spaces = append(s.spaces, space)

	return nil
}

// SaveBeam implements voxelspace.Recorder.
func (s *RecorderSpy) SaveBeam(_ context.Context, beam voxelspace.BeamRecord, claims []voxelspace.CubeClaim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return ErrRecorderSpyFailure
	}

	s.beams = append(s.beams, beam)
	s.claims[beam.ID] = append([]voxelspace.CubeClaim(nil), claims...)

	return nil
}

// DeleteBeam implements voxelspace.Recorder.
func (s *RecorderSpy) DeleteBeam(_ context.Context, _ string, beamID voxelspace.BeamID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return ErrRecorderSpyFailure
	}

	s.deleted = append(s.deleted, beamID)

	return nil
}

// SaveConnector implements voxelspace.Recorder.
func (s *RecorderSpy) SaveConnector(_ context.Context, connector voxelspace.Connector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return ErrRecorderSpyFailure
	}

	s.connectors = append(s.connectors, connector)

	return nil
}

// GetSpaces returns the recorded spaces.
func (s *RecorderSpy) GetSpaces() []voxelspace.Space {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]voxelspace.Space(nil), s.spaces...)
}

// GetBeams returns the recorded beams in recording order.
func (s *RecorderSpy) GetBeams() []voxelspace.BeamRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]voxelspace.BeamRecord(nil), s.beams...)
}

// GetClaims returns the cube claims recorded with a beam.
func (s *RecorderSpy) GetClaims(beamID voxelspace.BeamID) []voxelspace.CubeClaim {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]voxelspace.CubeClaim(nil), s.claims[beamID]...)
}

// GetDeleted returns the deleted beam IDs in deletion order.
func (s *RecorderSpy) GetDeleted() []voxelspace.BeamID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]voxelspace.BeamID(nil), s.deleted...)
}

// GetConnectors returns the recorded connectors.
func (s *RecorderSpy) GetConnectors() []voxelspace.Connector {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]voxelspace.Connector(nil), s.connectors...)
}

// Compile-time check to ensure RecorderSpy implements Recorder interface.
var _ voxelspace.Recorder = (*RecorderSpy)(nil)
