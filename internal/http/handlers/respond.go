package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/lentpath/internal/observability"
)

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	if id := observability.RequestIDFrom(ctx.Request.Context()); id != "" {
		return id
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

// RespondError is the JSON error body of the operational endpoints.
func RespondError(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
		},
	})
}

func RespondUnavailable(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusServiceUnavailable, "not_ready", message)
}

// RespondInternal logs err and answers a plain page. The visitor only sees the
// request id.
func RespondInternal(ctx *gin.Context, log *slog.Logger, msg string, err error) {
	log.ErrorContext(ctx.Request.Context(), "internal_error", "msg", msg, "err", err)

	ctx.String(http.StatusInternalServerError,
		"Une erreur interne est survenue. Référence : %s", requestIDFrom(ctx))
	ctx.Abort()
}
