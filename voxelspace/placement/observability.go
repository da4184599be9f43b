package placement

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

const (
	logMsgSpaceCreated        = "space created"
	logMsgSpaceRestored       = "space restored"
	logMsgBeamPlaced          = "beam placed"
	logMsgPlacementRejected   = "placement rejected"
	logMsgCollisionReport     = "collision report"
	logMsgConnectorFormed     = "connector formed"
	logMsgConnectorRejected   = "connector rejected"
	logMsgBeamRemoved         = "beam removed"
	logMsgRemoveRejected      = "beam removal rejected"
	logMsgRecordingFailed     = "recording failed, change rolled back"
	logAttrError              = "error"
	logAttrErrorType          = "error_type"
	logAttrSpace              = "space"
	logAttrBeamID             = "beam_id"
	logAttrConnectorID        = "connector_id"
	logAttrOrigin             = "origin"
	logAttrOrientation        = "orientation"
	logAttrLength             = "length"
	logAttrSharedVoxels       = "shared_voxels"
	logAttrBeamCount          = "beam_count"
	logAttrConnectorCount     = "connector_count"
	logAttrDurationMS         = "duration_ms"
	metricPlaceDuration       = "cubecad_place_duration_seconds"
	metricConnectDuration     = "cubecad_connect_duration_seconds"
	metricRemoveDuration      = "cubecad_remove_duration_seconds"
	metricVoxelsClaimed       = "cubecad_voxels_claimed"
	metricOperationRejections = "cubecad_operation_rejections_total"
	spanNamePlace             = "cubecad.place_beam"
	spanNameConnect           = "cubecad.form_connector"
	spanNameRemove            = "cubecad.remove_beam"
	spanAttrOperation         = "operation"
	spanAttrSpace             = "space"
	spanAttrBeamID            = "beam_id"
	spanAttrConnectorID       = "connector_id"
	spanAttrVoxelCount        = "voxel_count"
	spanAttrErrorType         = "error_type"
	spanAttrDurationMS        = "duration_ms"
	operationPlace            = "place_beam"
	operationConnect          = "form_connector"
	operationRemove           = "remove_beam"
	labelStatus               = "status"
	statusSuccess             = "success"
	statusError               = "error"
	errorTypeCancelled        = "cancelled"
	errorTypeOther            = "other"
)

// errorTypes maps error kinds to metric and span labels, most specific first.
var errorTypes = []struct {
	kind error
	name string
}{
	{voxelspace.ErrRecordingFailed, "recording_failed"},
	{voxelspace.ErrInvalidLength, "invalid_length"},
	{voxelspace.ErrOutOfBounds, "out_of_bounds"},
	{voxelspace.ErrForeign, "foreign"},
	{voxelspace.ErrArityViolation, "arity_violation"},
	{voxelspace.ErrNotOwned, "not_owned"},
	{voxelspace.ErrDuplicateOrigin, "duplicate_origin"},
	{voxelspace.ErrSameBeam, "same_beam"},
	{voxelspace.ErrUnknownOrientation, "unknown_orientation"},
	{voxelspace.ErrNotUnitVector, "unknown_orientation"},
	{voxelspace.ErrUnknownSpace, "unknown_space"},
	{voxelspace.ErrUnknownBeam, "unknown_beam"},
	{voxelspace.ErrBeamRetired, "beam_retired"},
	{voxelspace.ErrDuplicateConnector, "duplicate_connector"},
	{voxelspace.ErrNoPendingJunction, "no_pending_junction"},
	{voxelspace.ErrInvalidTransition, "invalid_transition"},
}

// errorTypeOf classifies err for metric and span labels.
func errorTypeOf(err error) string {
	for _, et := range errorTypes {
		if errors.Is(err, et.kind) {
			return et.name
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errorTypeCancelled
	}

	return errorTypeOther
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// === Logging ===
// Every message goes to the plain logger and, with the operation's context, to the contextual logger.

func (e *Engine) logDebug(ctx context.Context, msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

func (e *Engine) logInfo(ctx context.Context, msg string, args ...any) {
	if e.logger != nil {
		e.logger.Info(msg, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (e *Engine) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if e.logger != nil {
		e.logger.Error(msg, allArgs...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

// logRejection logs a rejected operation; recording failures go to the error level.
func (e *Engine) logRejection(ctx context.Context, msg string, err error, args ...any) {
	if errors.Is(err, voxelspace.ErrRecordingFailed) {
		e.logError(ctx, logMsgRecordingFailed, err, args...)
		return
	}

	allArgs := []any{logAttrError, err.Error(), logAttrErrorType, errorTypeOf(err)}
	allArgs = append(allArgs, args...)
	e.logInfo(ctx, msg, allArgs...)
}

// === Metrics ===

// recordDurationMetricsContext records duration metrics with context if the collector supports it.
func (e *Engine) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       status,
	}

	if contextualCollector, ok := e.metricsCollector.(voxelspace.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
	} else {
		e.metricsCollector.RecordDuration(metricName, duration, labels)
	}
}

// recordValueMetricsContext records value metrics with context if the collector supports it.
func (e *Engine) recordValueMetricsContext(ctx context.Context, metricName string, value float64, operation string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       statusSuccess,
	}

	if contextualCollector, ok := e.metricsCollector.(voxelspace.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
	} else {
		e.metricsCollector.RecordValue(metricName, value, labels)
	}
}

// recordRejectionMetricsContext counts a rejected operation by error type.
func (e *Engine) recordRejectionMetricsContext(ctx context.Context, operation, errorType string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	}

	if contextualCollector, ok := e.metricsCollector.(voxelspace.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricOperationRejections, labels)
	} else {
		e.metricsCollector.IncrementCounter(metricOperationRejections, labels)
	}
}

// === Tracing ===

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (e *Engine) startTraceSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, voxelspace.SpanContext) {
	if e.tracingCollector != nil {
		return e.tracingCollector.StartSpan(ctx, name, attrs)
	}

	return ctx, nil
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (e *Engine) finishTraceSpan(span voxelspace.SpanContext, status string, attrs map[string]string) {
	if e.tracingCollector != nil && span != nil {
		e.tracingCollector.FinishSpan(span, status, attrs)
	}
}

// === Operation Observer ===
// An observer ties one operation's span, duration metric and rejection counter together.

type operationObserver struct {
	e         *Engine
	ctx       context.Context
	span      voxelspace.SpanContext
	operation string
	metric    string
	start     time.Time
}

// startObservation opens the span for an operation and starts its clock.
func (e *Engine) startObservation(
	ctx context.Context,
	operation, spanName, metric string,
	attrs map[string]string,
) (*operationObserver, context.Context) {
	spanAttrs := map[string]string{spanAttrOperation: operation}
	for key, value := range attrs {
		spanAttrs[key] = value
	}

	newCtx, span := e.startTraceSpan(ctx, spanName, spanAttrs)

	return &operationObserver{
		e:         e,
		ctx:       newCtx,
		span:      span,
		operation: operation,
		metric:    metric,
		start:     time.Now(),
	}, newCtx
}

func (o *operationObserver) elapsed() time.Duration {
	return time.Since(o.start)
}

// finishSuccess records the duration and closes the span with the given attributes.
func (o *operationObserver) finishSuccess(attrs map[string]string) {
	duration := o.elapsed()
	o.e.recordDurationMetricsContext(o.ctx, o.metric, duration, o.operation, statusSuccess)

	if o.span != nil {
		o.span.SetStatus(statusSuccess)
		o.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))
	}

	o.e.finishTraceSpan(o.span, statusSuccess, attrs)
}

// finishError records the duration and rejection and closes the span with the error type.
func (o *operationObserver) finishError(err error) {
	duration := o.elapsed()
	errorType := errorTypeOf(err)

	o.e.recordDurationMetricsContext(o.ctx, o.metric, duration, o.operation, statusError)
	o.e.recordRejectionMetricsContext(o.ctx, o.operation, errorType)

	if o.span != nil {
		o.span.SetStatus(statusError)
		o.span.AddAttribute(spanAttrErrorType, errorType)
		o.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))
	}

	o.e.finishTraceSpan(o.span, statusError, map[string]string{spanAttrErrorType: errorType})
}
