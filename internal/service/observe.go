package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/forgo/clubhouse/api/internal/service"

// Operation outcomes reported to an OperationRecorder
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomePartial  = "partial"
	OutcomeError    = "error"
)

// OperationRecorder receives the outcome of every club and membership
// operation. metrics.Collector implements it.
type OperationRecorder interface {
	RecordOperation(operation, outcome string, duration time.Duration)
}

func defaultTracer(t trace.Tracer) trace.Tracer {
	if t != nil {
		return t
	}
	return otel.Tracer(tracerName)
}

// observe starts a span for operation and returns a finisher that records the
// error on the span and reports the outcome.
func observe(ctx context.Context, tracer trace.Tracer, recorder OperationRecorder, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
	start := time.Now()

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if recorder != nil {
			recorder.RecordOperation(operation, Outcome(err), time.Since(start))
		}
	}
}

// Outcome classifies an operation error for metrics labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrClubNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrMembershipTargetNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrClubNameExists),
		errors.Is(err, ErrClubFieldRequired),
		errors.Is(err, ErrCannotUnsubscribeAdmin):
		return OutcomeRejected
	case errors.Is(err, ErrAdminLinkFailed),
		errors.Is(err, ErrMemberCleanupFailed),
		errors.Is(err, ErrMembershipPartial):
		return OutcomePartial
	default:
		return OutcomeError
	}
}
