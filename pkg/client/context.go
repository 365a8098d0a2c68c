package client

import "context"

type referenceIDKey struct{}

// ContextWithReferenceID attaches a reference ID sent as X-VaultAPI-ReferenceId
func ContextWithReferenceID(ctx context.Context, referenceID string) context.Context {
	return context.WithValue(ctx, referenceIDKey{}, referenceID)
}

// ReferenceIDFromContext returns the reference ID attached to ctx
func ReferenceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(referenceIDKey{}).(string)
	return id, ok && id != ""
}
