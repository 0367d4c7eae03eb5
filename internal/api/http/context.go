package http

import (
	"context"

	"collab-deck-backend/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

// WithActor stores the authenticated caller on ctx.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the caller set by the auth middleware, or the zero
// Actor for anonymous requests.
func ActorFromContext(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorKey).(domain.Actor)
	return actor
}
