package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/geocoder89/lentpath/internal/config"
	"github.com/geocoder89/lentpath/internal/http/handlers"
	"github.com/geocoder89/lentpath/internal/http/middlewares"
	"github.com/geocoder89/lentpath/internal/http/views"
	"github.com/geocoder89/lentpath/internal/observability"
	"github.com/geocoder89/lentpath/internal/session"
)

type Deps struct {
	Cfg        config.Config
	Log        *slog.Logger
	Sessions   sessions.Store
	Workspaces *session.Manager

	// Prom and Gatherer are optional; without them /metrics is not served.
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	// Ready backs /readyz, nil meaning always ready.
	Ready func(ctx context.Context) error
}

func NewRouter(d Deps) (http.Handler, error) {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	tmpl, err := views.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("lentpath"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	if d.Cfg.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(d.Cfg.MaxBodyBytes))
	}

	// health
	h := handlers.NewHealthHandler(d.Ready)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	var metrics handlers.AuthMetrics
	if d.Prom != nil {
		metrics = d.Prom
	}

	pages := handlers.NewPagesHandler(d.Sessions, d.Workspaces, d.Log, metrics, handlers.PagesConfig{
		UsersSheet:   d.Cfg.UsersSheet,
		ContentSheet: d.Cfg.ContentSheet,
	})

	r.GET("/", pages.Show)
	r.POST("/login", pages.Login)
	r.POST("/register/start", pages.StartRegistration)
	r.POST("/register/cancel", pages.CancelRegistration)
	r.POST("/register", pages.Register)
	r.POST("/logout", pages.Logout)

	return withCSRF(d.Cfg, r), nil
}

// withCSRF protects the forms when CSRF_KEY is set.
func withCSRF(cfg config.Config, next http.Handler) http.Handler {
	if cfg.CSRFKey == "" {
		return next
	}

	protect := csrf.Protect(
		[]byte(cfg.CSRFKey),
		csrf.Secure(cfg.Env == "prod"),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName("csrf_token"),
	)(next)

	if cfg.Env == "prod" {
		return protect
	}

	// outside prod the app is served over plain http
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil {
			r = csrf.PlaintextHTTPRequest(r)
		}
		protect.ServeHTTP(w, r)
	})
}
