package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/geocoder89/lentpath/internal/config"
	httpx "github.com/geocoder89/lentpath/internal/http"
	"github.com/geocoder89/lentpath/internal/observability"
	"github.com/geocoder89/lentpath/internal/session"
	"github.com/geocoder89/lentpath/internal/sheets"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: "lentpath",
			Environment: cfg.Env,
			Endpoint:    cfg.OTLPEndpoint,
			SampleRatio: cfg.OTLPSampleRatio,
		})
		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				sctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(sctx)
			}()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	gateway, err := sheets.FromConfig(cfg, prom)
	if err != nil {
		log.Error("sheets gateway", "err", err)
		os.Exit(1)
	}

	store, closeStore, err := session.NewStore(ctx, cfg)
	if err != nil {
		log.Error("session store", "err", err)
		os.Exit(1)
	}
	defer func() { _ = closeStore() }()

	workspaces := session.NewManager(gateway, session.Options{
		UsersSheet:   cfg.UsersSheet,
		ContentSheet: cfg.ContentSheet,
		Timeout:      cfg.SheetsTimeout,
		TTL:          cfg.WorkspaceTTL,
		Location:     cfg.Location(),
	}, log, prom)
	go workspaces.Run(ctx, time.Minute)

	router, err := httpx.NewRouter(httpx.Deps{
		Cfg:        cfg,
		Log:        log,
		Sessions:   store,
		Workspaces: workspaces,
		Prom:       prom,
		Gatherer:   reg,
		Ready:      gateway.Ping,
	})
	if err != nil {
		log.Error("router", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "sheets_backend", cfg.SheetsBackend)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		sctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
