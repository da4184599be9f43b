package placement_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewryanscott/cubecad/testutil/helper"
	"github.com/matthewryanscott/cubecad/voxelspace"
	"github.com/matthewryanscott/cubecad/voxelspace/placement"
)

func Test_Observability_PlaceBeam_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler := helper.NewLogHandlerSpy(false)
	metrics := helper.NewMetricsCollectorSpy(true)
	tracing := helper.NewTracingCollectorSpy(true)
	contextual := helper.NewContextualLoggerSpy(true)

	engine := newChairEngine(t,
		placement.WithLogger(slog.New(logHandler)),
		placement.WithMetrics(metrics),
		placement.WithTracing(tracing),
		placement.WithContextualLogger(contextual),
	)

	// act
	id, err := engine.PlaceBeam(ctx, request(voxelspace.Coordinates{}, voxelspace.BottomToTop, 8))
	require.NoError(t, err)

	// assert
	assert.True(t, logHandler.HasInfoLogWithMessage("space created").
		WithAttribute("space", chair).Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage("beam placed").
		WithDurationMS().
		WithAttribute("beam_id", string(id)).
		WithAttribute("orientation", voxelspace.BottomToTop).
		WithAttribute("length", "8").Assert())
	assert.True(t, logHandler.HasDebugLogWithMessage("collision report").
		WithAttribute("shared_voxels", "0").Assert())

	assert.True(t, metrics.HasDurationRecordForMetric("cubecad_place_duration_seconds").
		WithOperation("place_beam").
		WithStatus("success").Assert())
	assert.True(t, metrics.HasValueRecordForMetric("cubecad_voxels_claimed").
		WithOperation("place_beam").Assert())
	require.Len(t, metrics.GetValueRecords(), 1)
	assert.InDelta(t, 8.0, metrics.GetValueRecords()[0].Value, 0)
	assert.Empty(t, metrics.GetCounterRecords())
	assert.Positive(t, metrics.GetContextualCallCount())

	assert.True(t, tracing.HasSpanRecordForName("cubecad.place_beam").
		WithStatus("success").
		WithStartAttribute("operation", "place_beam").
		WithStartAttribute("space", chair).
		WithEndAttribute("beam_id", string(id)).
		WithEndAttribute("voxel_count", "8").Assert())

	assert.True(t, contextual.HasLog("info", "beam placed"))
	assert.True(t, contextual.HasLog("debug", "collision report"))
}

func Test_Observability_PlaceBeam_Rejected(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler := helper.NewLogHandlerSpy(false)
	metrics := helper.NewMetricsCollectorSpy(true)
	tracing := helper.NewTracingCollectorSpy(true)

	engine := newChairEngine(t,
		placement.WithLogger(slog.New(logHandler)),
		placement.WithMetrics(metrics),
		placement.WithTracing(tracing),
	)
	_, err := engine.PlaceBeam(ctx, request(voxelspace.Coordinates{}, voxelspace.BottomToTop, 4))
	require.NoError(t, err)
	metrics.Reset()
	tracing.Reset()

	// act
	_, err = engine.PlaceBeam(ctx, request(voxelspace.Coordinates{Z: 3}, voxelspace.TopToBottom, 4))
	require.Error(t, err)

	// assert
	assert.True(t, logHandler.HasInfoLogWithMessage("placement rejected").
		WithAttribute("error_type", "foreign").
		WithAttribute("origin", voxelspace.Coordinates{Z: 3}.String()).Assert())

	assert.True(t, metrics.HasDurationRecordForMetric("cubecad_place_duration_seconds").
		WithStatus("error").Assert())
	assert.True(t, metrics.HasCounterRecordForMetric("cubecad_operation_rejections_total").
		WithOperation("place_beam").
		WithLabel("error_type", "foreign").Assert())
	assert.Empty(t, metrics.GetValueRecords())

	assert.True(t, tracing.HasSpanRecordForName("cubecad.place_beam").
		WithStatus("error").
		WithEndAttribute("error_type", "foreign").Assert())
}

func Test_Observability_RecordingFailureLogsAnError(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler := helper.NewLogHandlerSpy(false)
	metrics := helper.NewMetricsCollectorSpy(true)
	recorder := helper.NewRecorderSpy()

	engine := newChairEngine(t,
		placement.WithLogger(slog.New(logHandler)),
		placement.WithMetrics(metrics),
		placement.WithRecorder(recorder),
	)
	recorder.FailFromNowOn()

	// act
	_, err := engine.PlaceBeam(ctx, request(voxelspace.Coordinates{}, voxelspace.BottomToTop, 4))
	require.Error(t, err)

	// assert
	assert.True(t, logHandler.HasErrorLogWithMessage("recording failed, change rolled back").
		WithAttribute("space", chair).Assert())
	assert.False(t, logHandler.HasInfoLogWithMessage("placement rejected").Assert())
	assert.True(t, metrics.HasCounterRecordForMetric("cubecad_operation_rejections_total").
		WithLabel("error_type", "recording_failed").Assert())
}

func Test_Observability_FormConnectorAndRemoveBeam(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler := helper.NewLogHandlerSpy(false)
	metrics := helper.NewMetricsCollectorSpy(true)
	tracing := helper.NewTracingCollectorSpy(true)

	engine := newChairEngine(t,
		placement.WithLogger(slog.New(logHandler)),
		placement.WithMetrics(metrics),
		placement.WithTracing(tracing),
	)
	a, b := placeJunction(t, engine)

	// act
	connectorID, err := engine.FormConnector(ctx, a, b, railOverlap)
	require.NoError(t, err)
	require.NoError(t, engine.RemoveBeam(ctx, a))

	// assert
	assert.True(t, logHandler.HasInfoLogWithMessage("connector formed").
		WithAttribute("connector_id", string(connectorID)).Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage("beam removed").
		WithAttribute("beam_id", string(a)).
		WithAttribute("length", "4").Assert())

	assert.True(t, metrics.HasDurationRecordForMetric("cubecad_connect_duration_seconds").
		WithOperation("form_connector").
		WithStatus("success").Assert())
	assert.True(t, metrics.HasDurationRecordForMetric("cubecad_remove_duration_seconds").
		WithOperation("remove_beam").
		WithStatus("success").Assert())

	assert.True(t, tracing.HasSpanRecordForName("cubecad.form_connector").
		WithStatus("success").
		WithEndAttribute("connector_id", string(connectorID)).Assert())
	assert.True(t, tracing.HasSpanRecordForName("cubecad.remove_beam").
		WithStatus("success").
		WithStartAttribute("beam_id", string(a)).
		WithEndAttribute("voxel_count", "4").Assert())
}

func Test_Observability_RejectedConnectorAndRemoval(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler := helper.NewLogHandlerSpy(false)
	metrics := helper.NewMetricsCollectorSpy(true)

	engine := newChairEngine(t,
		placement.WithLogger(slog.New(logHandler)),
		placement.WithMetrics(metrics),
	)
	a, b := placeJunction(t, engine)

	// act
	_, connectErr := engine.FormConnector(ctx, a, b, []voxelspace.Coordinates{{X: 2}})
	removeErr := engine.RemoveBeam(ctx, "ghost")

	// assert
	require.Error(t, connectErr)
	require.Error(t, removeErr)

	assert.True(t, logHandler.HasInfoLogWithMessage("connector rejected").
		WithAttribute("error_type", "arity_violation").Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage("beam removal rejected").
		WithAttribute("error_type", "unknown_beam").Assert())
	assert.True(t, metrics.HasCounterRecordForMetric("cubecad_operation_rejections_total").
		WithOperation("form_connector").
		WithLabel("error_type", "arity_violation").Assert())
}

func Test_Observability_WithoutCollectors_NothingBreaks(t *testing.T) {
	// setup
	ctx := context.Background()
	engine := newChairEngine(t)

	// act
	_, err := engine.PlaceBeam(ctx, request(voxelspace.Coordinates{}, voxelspace.BottomToTop, 4))
	_, rejected := engine.PlaceBeam(ctx, request(voxelspace.Coordinates{}, voxelspace.BottomToTop, 4))

	// assert
	assert.NoError(t, err)
	assert.ErrorIs(t, rejected, voxelspace.ErrDuplicateOrigin)
}
