package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lentpath"

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec
	// Sheets
	SheetsOpDuration  *prometheus.HistogramVec
	SheetsErrorsTotal *prometheus.CounterVec

	// Sessions
	AuthResults     *prometheus.CounterVec
	WorkspacesBuilt *prometheus.CounterVec
	Workspaces      prometheus.Gauge
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		SheetsOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "sheets",
				Name:      "op_duration_seconds",
				Help:      "Spreadsheet gateway latency by operation.",
				// remote calls, slower than a database
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10},
			},
			[]string{"op", "status"},
		),
		SheetsErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sheets",
				Name:      "errors_total",
				Help:      "Spreadsheet gateway errors by operation and class.",
			},
			[]string{"op", "class"},
		),
		AuthResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "results_total",
				Help:      "Login and registration outcomes.",
			},
			[]string{"action", "result"}, // action=login|register
		),
		WorkspacesBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sessions",
				Name:      "workspaces_built_total",
				Help:      "Session workspaces built, by state.",
			},
			[]string{"state"}, // state=ready|degraded
		),
		Workspaces: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "sessions",
				Name:      "workspaces",
				Help:      "Session workspaces currently held in memory.",
			},
		),
	}
	reg.MustRegister(
		p.RequestsTotal, p.RequestsDuration, p.InFlight,
		p.SheetsOpDuration, p.SheetsErrorsTotal,
		p.AuthResults, p.WorkspacesBuilt, p.Workspaces,
	)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}

// ObserveAuth counts one login or registration outcome. result is "ok" or an
// error class.
func (p *Prom) ObserveAuth(action, result string) {
	p.AuthResults.WithLabelValues(action, result).Inc()
}

func (p *Prom) ObserveWorkspace(degraded bool) {
	state := "ready"
	if degraded {
		state = "degraded"
	}
	p.WorkspacesBuilt.WithLabelValues(state).Inc()
}

func (p *Prom) SetWorkspaces(n int) {
	p.Workspaces.Set(float64(n))
}
