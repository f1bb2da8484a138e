package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RejectionMessage is the plain text body of a rejected request.
const RejectionMessage = "Too many requests. Please try again later."

// KeyFunc partitions traffic into independently limited keys.
type KeyFunc func(c *gin.Context) string

// ClientIPKey limits each client address separately.
func ClientIPKey(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// Middleware puts the gate in front of every route. A request whose client goes away while
// queued is dropped without reaching the handlers.
func Middleware(gate *Gate, keyFn KeyFunc) gin.HandlerFunc {
	if keyFn == nil {
		keyFn = ClientIPKey
	}
	return func(c *gin.Context) {
		decision, err := gate.Admit(c.Request.Context(), keyFn(c))
		if err != nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(decision.RetryAfter)))
			c.Data(http.StatusTooManyRequests, "text/plain; charset=utf-8", []byte(RejectionMessage))
			c.Abort()
			return
		}
		c.Next()
	}
}

func retryAfterSeconds(d time.Duration) int {
	return max(1, int(math.Ceil(d.Seconds())))
}
