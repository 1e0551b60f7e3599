package actor

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const actorKey contextKey = "actor"

// ErrActorNotFound is returned when no actor exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrActorNotFound = errors.New("actor not found in context")

// FromCtx extracts the acting user's identifier from the request context.
// Returns ErrActorNotFound if no actor is set (unauthenticated request).
func FromCtx(ctx context.Context) (string, error) {
	a, ok := ctx.Value(actorKey).(string)
	if !ok || a == "" {
		return "", ErrActorNotFound
	}
	return a, nil
}

// WithActor returns a new context with the given actor attached.
// Used by the session middleware after resolving the requester's identity.
func WithActor(ctx context.Context, a string) context.Context {
	return context.WithValue(ctx, actorKey, a)
}
