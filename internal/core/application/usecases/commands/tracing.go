package commands

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("parceltrack/commands")

// startSpan opens a span for a command; the returned func ends it and records
// the handler's final error.
func startSpan(ctx context.Context, name string) (context.Context, func(*error)) {
	ctx, span := tracer.Start(ctx, name)
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()
	}
}
