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

	"github.com/claude/vitalfuse/internal/advisor"
	"github.com/claude/vitalfuse/internal/config"
	"github.com/claude/vitalfuse/internal/engine"
	"github.com/claude/vitalfuse/internal/fusion"
	"github.com/claude/vitalfuse/internal/ingest"
	"github.com/claude/vitalfuse/internal/mcp"
	"github.com/claude/vitalfuse/internal/server"
	"github.com/claude/vitalfuse/internal/storage"
	"github.com/claude/vitalfuse/internal/workout"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	mcpMode := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	mcpServer := flag.String("mcp-server", "", "remote server URL for MCP mode (queries REST API instead of the database)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Remote MCP mode needs no config or database at all.
	if *mcpMode && *mcpServer != "" {
		srv := mcp.New(mcp.NewHTTPClient(*mcpServer), Version, log)
		if err := mcpserver.ServeStdio(srv); err != nil {
			log.Error("mcp server error", "error", err)
			os.Exit(1)
		}
		return
	}

	log.Info("VitalFuse starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Local MCP mode: serve tools over stdio against the database.
	if *mcpMode {
		srv := mcp.New(db, Version, log)
		if err := mcpserver.ServeStdio(srv); err != nil {
			log.Error("mcp server error", "error", err)
			os.Exit(1)
		}
		return
	}

	// Build the derivation engine from config
	opts := engine.Options{
		Precedence:   fusion.PreferWrist,
		Threshold:    workout.ThresholdOffset,
		Overtraining: advisor.PolicyByName(cfg.Engine.OvertrainingPolicy),
	}
	if cfg.Engine.MergePrecedence == "chest" {
		opts.Precedence = fusion.PreferReference
	}
	if cfg.Engine.WorkoutThreshold == "relative" {
		opts.Threshold = workout.ThresholdRelative
	}
	eng := engine.New(db, log, opts)

	// Create server
	provider := ingest.NewProvider(db, log)
	srv := server.New(db, provider, eng, cfg.Auth.APIKey, log)

	// Start server — tsnet or plain HTTP
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
	log.Info("server stopped")
}
