package errors

import (
	"github.com/gin-gonic/gin"
)

// ContentTypeJSON is the media type of error envelopes.
const ContentTypeJSON = "application/json"

// Message is the body written by controller actions that map errors locally.
type Message struct {
	Error string `json:"error"`
}

// Responder writes error bodies.
type Responder struct{}

// DefaultResponder is shared by handlers and middleware.
var DefaultResponder = &Responder{}

// RespondMessage writes {error: message} with the given status. Controllers use it for
// failures they catch explicitly.
func (r *Responder) RespondMessage(c *gin.Context, status int, message string) {
	c.Header("Content-Type", ContentTypeJSON)
	c.AbortWithStatusJSON(status, Message{Error: message})
}

// RespondError writes the uniform envelope derived from the error kind.
func (r *Responder) RespondError(c *gin.Context, err error) {
	envelope := EnvelopeFor(err)
	c.Header("Content-Type", ContentTypeJSON)
	c.AbortWithStatusJSON(envelope.StatusCode, envelope)
}

// RespondMessage is a convenience function using the default responder.
func RespondMessage(c *gin.Context, status int, message string) {
	DefaultResponder.RespondMessage(c, status, message)
}

// RespondError is a convenience function using the default responder.
func RespondError(c *gin.Context, err error) {
	DefaultResponder.RespondError(c, err)
}

// HTTPStatusFromError extracts the HTTP status an escaped error would be rendered with.
func HTTPStatusFromError(err error) int {
	return StatusFor(KindOf(err))
}
