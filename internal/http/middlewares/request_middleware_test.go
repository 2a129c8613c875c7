package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/lentpath/internal/observability"
)

func TestRequestID_ReachesRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(ctx *gin.Context) {
		seen = observability.RequestIDFrom(ctx.Request.Context())
		ctx.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen != "req-7" {
		t.Fatalf("handler saw request id %q", seen)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "req-7" {
		t.Fatalf("response header %q", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || seen != rec.Header().Get("X-Request-Id") {
		t.Fatalf("minted id %q does not match header %q", seen, rec.Header().Get("X-Request-Id"))
	}
}
