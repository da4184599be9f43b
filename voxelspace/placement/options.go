package placement

import (
	"errors"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

var (
	// ErrEmptyOrientationTable is returned when an engine is configured with an orientation table without entries.
	ErrEmptyOrientationTable = errors.New("orientation table must not be empty")

	// ErrNilIDGenerator is returned when an engine is configured with a nil ID generator.
	ErrNilIDGenerator = errors.New("id generator must not be nil")

	// ErrNilRecorder is returned when an engine is configured with a nil recorder.
	ErrNilRecorder = errors.New("recorder must not be nil")
)

// Option defines a functional option for configuring Engine.
type Option func(*Engine) error

// WithOrientationTable sets the orientation table used to resolve orientation names.
// The default is voxelspace.DefaultOrientationTable.
func WithOrientationTable(table voxelspace.OrientationTable) Option {
	return func(e *Engine) error {
		if table.Len() == 0 {
			return ErrEmptyOrientationTable
		}

		e.orientations = table

		return nil
	}
}

// WithIDGenerator sets the function that assigns beam and connector identities.
// The default generates random UUIDs.
func WithIDGenerator(generate func() string) Option {
	return func(e *Engine) error {
		if generate == nil {
			return ErrNilIDGenerator
		}

		e.newID = generate

		return nil
	}
}

// WithRecorder sets the recorder that persists committed changes.
// A failing recorder rolls the change back and the operation returns voxelspace.ErrRecordingFailed.
func WithRecorder(recorder voxelspace.Recorder) Option {
	return func(e *Engine) error {
		if recorder == nil {
			return ErrNilRecorder
		}

		e.recorder = recorder

		return nil
	}
}

// WithLogger sets the logger for the Engine.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: collision reports with shared voxel counts (development use)
// Info level: placements, rejections, removals, connectors (production-safe)
// Error level: recording failures that roll a change back.
func WithLogger(logger voxelspace.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
// It receives operation durations, claimed voxel counts and rejection counters.
func WithMetrics(collector voxelspace.MetricsCollector) Option {
	return func(e *Engine) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Engine.
// One span is started per place, connect and remove operation.
func WithTracing(collector voxelspace.TracingCollector) Option {
	return func(e *Engine) error {
		e.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Engine.
// It receives the same messages as the Logger, with the operation's context for trace correlation.
func WithContextualLogger(logger voxelspace.ContextualLogger) Option {
	return func(e *Engine) error {
		e.contextualLogger = logger
		return nil
	}
}
