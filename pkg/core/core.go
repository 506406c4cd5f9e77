package core

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// RequestIDKey is a custom context key type for storing the request ID in context.
type RequestIDKey struct{}

// WithRequestID returns a new context with a generated request ID set.
func WithRequestID(ctx context.Context) context.Context {
	return WithRequestIDValue(ctx, uuid.New().String())
}

// WithRequestIDValue returns a new context carrying the given request ID.
func WithRequestIDValue(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, RequestIDKey{}, reqID)
}

// RequestIDFromCtx returns the request ID stored in ctx, or an empty string.
func RequestIDFromCtx(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey{}).(string)
	return reqID
}

// LoggerFromCtx returns a slog.Logger with request_id field if present in context.
// If no request ID is found, it returns the default logger.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	if reqID := RequestIDFromCtx(ctx); reqID != "" {
		return slog.Default().With("request_id", reqID)
	}
	return slog.Default()
}
