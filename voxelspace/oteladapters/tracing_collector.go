package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matthewryanscott/cubecad/voxelspace"
)

const (
	statusSuccess    = "success"
	statusError      = "error"
	statusCanceled   = "canceled"
	attrErrorType    = "error_type"
	attrStatus       = "status"
	descriptionError = "operation rejected"
)

// TracingCollector implements voxelspace.TracingCollector with spans from an OpenTelemetry tracer.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a collector that starts its spans on tracer.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span named name as a child of the span in ctx.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, voxelspace.SpanContext) {
	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan sets the final attributes and status, then ends the span.
// Spans not started by a TracingCollector are ignored.
func (t *TracingCollector) FinishSpan(spanCtx voxelspace.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(attributes(attrs)...)
	otelSpanCtx.setStatus(status, attrs[attrErrorType])
	otelSpanCtx.span.End()
}

var _ voxelspace.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext wraps an OpenTelemetry span as a voxelspace.SpanContext.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus maps an engine status to an OpenTelemetry status code.
func (s *OTelSpanContext) SetStatus(status string) {
	s.setStatus(status, "")
}

// AddAttribute sets a string attribute on the span.
func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

// setStatus uses errorType as the error description when one is known.
func (s *OTelSpanContext) setStatus(status, errorType string) {
	switch status {
	case statusSuccess:
		s.span.SetStatus(codes.Ok, "")
	case statusError, statusCanceled:
		description := descriptionError
		if errorType != "" {
			description = errorType
		}
		s.span.SetStatus(codes.Error, description)
	default:
		s.span.SetAttributes(attribute.String(attrStatus, status))
	}
}

var _ voxelspace.SpanContext = (*OTelSpanContext)(nil)
