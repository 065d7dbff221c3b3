package gateway

import "context"

const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// ContextWithRequestID stores the id forwarded to the backend as X-Request-Id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
