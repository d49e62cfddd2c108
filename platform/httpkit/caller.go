package httpkit

import (
	"raf_pnp_backend/platform/actor"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Caller is the staff member behind an authenticated request, as read from
// the access token claims stored by AuthRequired.
type Caller struct {
	ID   uuid.UUID
	Name string
}

// CallerFrom returns the caller for c. The second result is false when the
// request carried no verified token, which is the case on every route when
// authentication is disabled.
func CallerFrom(c *gin.Context) (Caller, bool) {
	id, ok := c.Get(ContextUserIDKey)
	if !ok {
		return Caller{}, false
	}
	userID, ok := id.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return Caller{}, false
	}
	return Caller{ID: userID, Name: c.GetString(ContextUserNameKey)}, true
}

// Actor converts the caller into the actor recorded on activities and
// audit fields.
func (c Caller) Actor() actor.Actor {
	return actor.User(c.ID, c.Name)
}
