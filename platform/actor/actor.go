// Package actor carries the identity responsible for a write through
// context.Context. Background jobs and unauthenticated requests act as the
// configured system actor.
package actor

import (
	"context"

	"github.com/google/uuid"
)

// Kind distinguishes human users from the system itself.
type Kind string

const (
	KindUser   Kind = "user"
	KindSystem Kind = "system"
)

// Actor identifies who performed an operation.
type Actor struct {
	ID   uuid.UUID
	Name string
	Kind Kind
}

// IsSystem reports whether the actor is the system identity.
func (a Actor) IsSystem() bool {
	return a.Kind == KindSystem
}

// Label returns a display string for audit columns such as CreatedBy.
func (a Actor) Label() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Kind == KindSystem {
		return "System"
	}
	return a.ID.String()
}

type contextKey struct{}

// WithActor returns a copy of ctx carrying a.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the actor stored on ctx, if any.
func FromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	a, ok := ctx.Value(contextKey{}).(Actor)
	return a, ok
}

// OrSystem returns the actor on ctx, falling back to system.
func OrSystem(ctx context.Context, system Actor) Actor {
	if a, ok := FromContext(ctx); ok {
		return a
	}
	return system
}

// User builds a user actor.
func User(id uuid.UUID, name string) Actor {
	return Actor{ID: id, Name: name, Kind: KindUser}
}

// System builds the system actor. A nil id is allowed for deployments that
// have not provisioned a dedicated system user row.
func System(id uuid.UUID, name string) Actor {
	if name == "" {
		name = "System"
	}
	return Actor{ID: id, Name: name, Kind: KindSystem}
}

// Config provides the system actor identity.
type Config interface {
	GetSystemActorID() uuid.UUID
	GetSystemActorName() string
}

// SystemFrom builds the system actor from configuration.
func SystemFrom(cfg Config) Actor {
	return System(cfg.GetSystemActorID(), cfg.GetSystemActorName())
}
