package dogshouseserver

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/dogshouse-service/internal/platform/requestid"
	apierrors "github.com/Apurer/dogshouse-service/internal/shared/errors"
)

// ErrorMiddleware renders errors that handlers pass to c.Error, and recovered panics, as the
// {error, statusCode} envelope. Unclassified failures answer 500 with a generic message.
func ErrorMiddleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}
			err := fmt.Errorf("panic: %v", recovered)
			logger.ErrorContext(c.Request.Context(), "Unhandled exception caught by middleware.",
				append(requestAttrs(c, err), slog.String("stack", string(debug.Stack())))...)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			apierrors.RespondError(c, err)
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		logger.ErrorContext(c.Request.Context(), "Unhandled exception caught by middleware.", requestAttrs(c, err)...)
		if c.Writer.Written() {
			return
		}
		apierrors.RespondError(c, err)
	}
}

func requestAttrs(c *gin.Context, err error) []any {
	return []any{
		slog.String("error", err.Error()),
		slog.String("error.kind", apierrors.KindOf(err).String()),
		slog.String("request_id", requestid.FromContext(c)),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	}
}
