package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	opsgrpc "github.com/javicara/beonbike-sub000/internal/api/grpc"
	"github.com/javicara/beonbike-sub000/internal/app"
	"github.com/javicara/beonbike-sub000/internal/config"
	"github.com/javicara/beonbike-sub000/internal/logger"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Be On Bikes server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "base_url", cfg.Server.BaseURL)
	logger.Info("Email configuration", "provider", cfg.Email.Provider, "from", cfg.Email.From)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := app.OpenDB(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	a, err := app.New(cfg, db)
	if err != nil {
		logger.Error("Failed to initialize services", "error", err)
		log.Fatalf("Failed to initialize services: %v", err)
	}
	router, err := a.Router()
	if err != nil {
		logger.Error("Failed to build router", "error", err)
		log.Fatalf("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	var ops *opsgrpc.OpsServer
	if cfg.Ops.Port != 0 {
		lis, err := net.Listen("tcp", cfg.GetOpsAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetOpsAddress())
			log.Fatalf("Failed to listen: %v", err)
		}
		ops = opsgrpc.NewOpsServer(db, 30*time.Second)
		g.Go(func() error {
			logger.Info("gRPC ops server listening", "address", cfg.GetOpsAddress())
			return ops.Serve(lis)
		})
		g.Go(func() error {
			ops.Watch(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
		defer cancel()
		if ops != nil {
			ops.Stop()
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
