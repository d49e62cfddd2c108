// Package httpkit holds the gin middleware and response helpers shared by
// every module's handlers.
package httpkit

import (
	"context"
	"strings"
	"time"

	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID carries the request correlation id in and out.
const HeaderRequestID = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or assigns a fresh one, echoes
// it back and stores it for the logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.RequestIDKey, id))
		c.Next()
	}
}

// RequestLogger writes one line per request once the handler chain is done.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		var err error
		if last := c.Errors.Last(); last != nil {
			err = last.Err
		}
		log.WithContext(c.Request.Context()).Request(
			c.Request.Method, path, c.Writer.Status(), time.Since(started), c.ClientIP(), err)
	}
}

// Actor binds who is acting to the request context so services can stamp
// activities and audit columns. Requests without a verified token act as
// system.
func Actor(system actor.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := system
		if caller, ok := CallerFrom(c); ok {
			a = caller.Actor()
		}
		c.Request = c.Request.WithContext(actor.WithActor(c.Request.Context(), a))
		c.Next()
	}
}

// SecurityHeaders sets the response headers for a JSON-only API.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
