package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps form bodies. A declared length over limit is refused up
// front; an undeclared one fails while the form is parsed.
func MaxBodyBytes(limit int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		switch ctx.Request.Method {
		case http.MethodGet, http.MethodHead:
			ctx.Next()
			return
		}

		if ctx.Request.ContentLength > limit {
			ctx.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit)

		ctx.Next()
	}
}
