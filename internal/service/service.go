package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"assetapi/internal/repository"
)

var (
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID reports a malformed identifier. It wraps ErrNotFound so
	// callers that only check for not-found keep treating both the same.
	ErrInvalidID   = fmt.Errorf("%w: malformed id", ErrNotFound)
	ErrUnavailable = errors.New("document store unavailable")
)

// ValidationError is returned when a payload violates a kind's constraints.
// Message is safe to show to clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var tracer = otel.Tracer("assetapi/internal/service")

func startSpan(ctx context.Context, collection, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("app.collection", collection))
	return tracer.Start(ctx, collection+"."+op, trace.WithAttributes(attrs...))
}

// endSpan records err on span (if any) and ends it. It returns err unchanged.
// Validation failures also carry the offending field.
func endSpan(span trace.Span, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		span.SetAttributes(attribute.String("app.validation.field", verr.Field))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	return err
}

// translate maps repository errors onto service errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrInvalidID):
		return ErrInvalidID
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return err
	}
}
