package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextBarberID = "barberID"
	ContextSession  = "session"
)

// HeaderRefresh tells clients their session is due for POST /auth/refresh.
const HeaderRefresh = "X-Session-Refresh"

func AuthMiddleware(issuer *auth.Issuer, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Expected a Bearer token.")
			c.Abort()
			return
		}

		principal, sess, err := issuer.Parse(parts[1])
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Session is invalid or expired.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, principal.UserID)
		c.Set(ContextUserRole, principal.Role)
		if principal.BarberID != nil {
			c.Set(ContextBarberID, *principal.BarberID)
		}
		c.Set(ContextSession, sess)

		if sess.NeedsRefresh(now()) {
			c.Header(HeaderRefresh, "true")
		}

		c.Next()
	}
}

// RequireRole lets through only the listed roles. It runs after
// AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "You are not allowed to access this resource.")
		c.Abort()
	}
}

// Actor builds the lifecycle actor from the authenticated context.
func Actor(c *gin.Context) appointment.Actor {
	a := appointment.Actor{
		UserID: c.GetUint(ContextUserID),
		Role:   c.GetString(ContextUserRole),
	}
	if v, ok := c.Get(ContextBarberID); ok {
		if id, ok := v.(uint); ok {
			a.BarberID = &id
		}
	}
	return a
}
