package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
)

// Auditor is satisfied by *audit.Dispatcher.
type Auditor interface {
	Dispatch(ev audit.Event)
}

func writeAudit(
	c *gin.Context,
	a Auditor,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	ev := audit.Event{
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: meta,
	}
	if userID := c.GetUint(middleware.ContextUserID); userID != 0 {
		ev.UserID = &userID
	}
	a.Dispatch(ev)
}
