package actor

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestOrSystemPrefersContextActor(t *testing.T) {
	system := System(uuid.New(), "")
	user := User(uuid.New(), "Anjali Govender")

	if got := OrSystem(context.Background(), system); got != system {
		t.Fatalf("expected system actor, got %+v", got)
	}

	ctx := WithActor(context.Background(), user)
	if got := OrSystem(ctx, system); got != user {
		t.Fatalf("expected user actor, got %+v", got)
	}
}

func TestLabel(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name  string
		actor Actor
		want  string
	}{
		{"named user", User(id, "Rajesh Singh"), "Rajesh Singh"},
		{"anonymous user", User(id, ""), id.String()},
		{"system default name", System(uuid.Nil, ""), "System"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.actor.Label(); got != tt.want {
				t.Fatalf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
