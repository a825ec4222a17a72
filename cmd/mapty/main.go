package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"tailscale.com/tsnet"

	"github.com/erickhangati/mapty/internal/config"
	"github.com/erickhangati/mapty/internal/geocode"
	"github.com/erickhangati/mapty/internal/mapview"
	"github.com/erickhangati/mapty/internal/mcp"
	"github.com/erickhangati/mapty/internal/metrics"
	"github.com/erickhangati/mapty/internal/server"
	"github.com/erickhangati/mapty/internal/storage"
	"github.com/erickhangati/mapty/internal/tracker"
	"github.com/erickhangati/mapty/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Mapty starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Storage.Driver == storage.DriverPostgres {
		if err := storage.RunMigrations(cfg.Storage.Postgres.DSN(), cfg.Storage.Migrations); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
	}
	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx := context.Background()
	slot, err := storage.OpenSlot(ctx, cfg.Storage.Driver, cfg.Storage.Target())
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer slot.Close()
	log.Info("storage opened", "driver", cfg.Storage.Driver, "key", cfg.Storage.Key)

	// Without a home position the locator fails and the map stays disabled.
	var home *workout.Coords
	if cfg.Map.HasHome() {
		home = &workout.Coords{*cfg.Map.HomeLat, *cfg.Map.HomeLng}
	}

	reg := prometheus.NewRegistry()
	m := mapview.New()
	opts := []tracker.Option{
		tracker.WithMap(m),
		tracker.WithLocator(mapview.NewStaticLocator(home)),
		tracker.WithRecorder(metrics.New(reg)),
		tracker.WithZoom(cfg.Map.Zoom),
	}
	if cfg.Geocode.Enabled {
		geo := geocode.NewClient(cfg.Geocode.BaseURL, cfg.Geocode.APIKey, cfg.Geocode.Timeout, cfg.Geocode.Rate)
		opts = append(opts, tracker.WithGeocoder(geo), tracker.WithLookupTimeout(cfg.Geocode.Timeout))
		log.Info("reverse geocoding enabled", "base_url", cfg.Geocode.BaseURL)
	}

	session := tracker.New(workout.NewStore(), storage.NewGateway(slot, cfg.Storage.Key, log), log, opts...)
	startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
	session.Start(startCtx)
	cancelStart()

	srv := server.New(session, m, cfg.Auth.APIKey, log)
	srv.Mount("/metrics", metrics.Handler(reg))
	srv.Mount("/mcp", mcp.Handler(mcp.New(session, Version, log)))
	if cfg.Server.StaticDir != "" {
		srv.SetFrontend(os.DirFS(cfg.Server.StaticDir))
		log.Info("serving frontend", "dir", cfg.Server.StaticDir)
	}

	// tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	session.Wait()
	log.Info("server stopped")
}
