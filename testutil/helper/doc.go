// Package helper provides test doubles and fixtures shared by the cubecad test suites.
//
// The spies capture calls to the observability interfaces of the voxelspace package:
//   - LogHandlerSpy: captures slog handler calls and attributes
//   - ContextualLoggerSpy: captures context-aware logging calls
//   - MetricsCollectorSpy: captures metrics recording calls
//   - TracingCollectorSpy: captures tracing spans and their attributes
//   - RecorderSpy: captures persistence calls and can be told to fail
package helper
