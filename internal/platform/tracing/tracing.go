// Package tracing reports placement engine operations as OpenTelemetry spans.
package tracing

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sanctuary/internal/core"
)

const instrumentationName = "sanctuary/internal/core"

// Attribute keys set on every placement span.
const (
	OperationKey = attribute.Key("placement.operation")
	OutcomeKey   = attribute.Key("placement.outcome")
)

// Tracer implements core.Tracer on top of an OpenTelemetry tracer provider.
type Tracer struct {
	tracer trace.Tracer
}

// New returns a tracer backed by tp, or by the global provider when tp is nil.
func New(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracer{tracer: tp.Tracer(instrumentationName)}
}

// SpanName maps an engine operation such as "move to enclosure" to
// "placement.move_to_enclosure".
func SpanName(operation string) string {
	return "placement." + strings.ReplaceAll(operation, " ", "_")
}

// Start implements core.Tracer.
func (t *Tracer) Start(ctx context.Context, operation string) (context.Context, core.TraceSpan) {
	ctx, span := t.tracer.Start(ctx, SpanName(operation),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(OperationKey.String(operation)),
	)
	return ctx, otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End(err error) {
	s.span.SetAttributes(OutcomeKey.String(core.Outcome(err)))
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

var _ core.Tracer = (*Tracer)(nil)
