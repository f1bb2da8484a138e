// Package requestid tags every request with an identifier echoed in X-Request-ID.
package requestid

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the request identifier in both directions.
const Header = "X-Request-ID"

const contextKey = "requestid"

// maxLength bounds identifiers supplied by clients.
const maxLength = 128

// Middleware reuses a client supplied identifier or generates a UUID.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(Header))
		if id == "" || len(id) > maxLength {
			id = uuid.NewString()
		}
		c.Set(contextKey, id)
		c.Header(Header, id)
		c.Next()
	}
}

// FromContext returns the identifier assigned by Middleware, or "".
func FromContext(c *gin.Context) string {
	return c.GetString(contextKey)
}
