package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	businessIDHeader = "X-Business-ID"
	actorHeader      = "X-Actor-ID"

	// DefaultActor identifies writes made without an explicit actor header.
	// Authentication is handled upstream of this service.
	DefaultActor = "system"
)

// BusinessContextMiddleware resolves the business scope and acting user from
// request headers set by the upstream gateway. The business ID is mandatory;
// the actor falls back to DefaultActor.
func BusinessContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		businessID := c.GetHeader(businessIDHeader)
		if businessID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + businessIDHeader + " header"})
			return
		}

		actor := c.GetHeader(actorHeader)
		if actor == "" {
			actor = DefaultActor
		}

		ctx := context.WithValue(c.Request.Context(), businessIDKey, businessID)
		ctx = context.WithValue(ctx, actorKey, actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetBusinessIDFromCtx retrieves the business scope set by the middleware.
func GetBusinessIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(businessIDKey).(string)
	return id, ok
}

// GetActorFromCtx retrieves the acting user set by the middleware.
func GetActorFromCtx(ctx context.Context) string {
	actor, ok := ctx.Value(actorKey).(string)
	if !ok || actor == "" {
		return DefaultActor
	}
	return actor
}
