package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/alcotrade/alcotrade-cms/pkg/enums"
)

type actorKey struct{}

// Actor is the authenticated admin panel user of a request.
type Actor struct {
	UserID string
	Role   enums.Role
	Email  string
}

// WithActor injects the authenticated user into the context.
func WithActor(ctx context.Context, userID, role, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey{}, Actor{UserID: userID, Role: enums.Role(role), Email: email})
}

// ActorFromContext returns the zero Actor for anonymous requests.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

func UserIDFromContext(ctx context.Context) string {
	actor, _ := ActorFromContext(ctx)
	return actor.UserID
}

// UserUUIDFromContext parses the authenticated user id.
func UserUUIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func RoleFromContext(ctx context.Context) string {
	actor, _ := ActorFromContext(ctx)
	return string(actor.Role)
}

func EmailFromContext(ctx context.Context) string {
	actor, _ := ActorFromContext(ctx)
	return actor.Email
}
