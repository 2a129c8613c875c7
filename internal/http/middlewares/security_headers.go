package middlewares

import (
	"github.com/gin-gonic/gin"
)

// Pages load their images from whatever https host the Content sheet names.
const pageCSP = "default-src 'none'; base-uri 'none'; frame-ancestors 'none'; form-action 'self'; img-src 'self' https: data:; style-src 'unsafe-inline'"

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "same-origin")
		c.Header("X-XSS-Protection", "0")
		c.Header("Content-Security-Policy", pageCSP)
		c.Next()
	}
}
