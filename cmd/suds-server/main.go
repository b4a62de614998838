// Package main provides the HTTP server for the suds workflow planner.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sudslabs/suds/internal/config"
	"github.com/sudslabs/suds/internal/corpus"
	"github.com/sudslabs/suds/internal/engine"
	"github.com/sudslabs/suds/internal/metrics"
	"github.com/sudslabs/suds/internal/narrative"
	"github.com/sudslabs/suds/internal/server"
)

func main() {
	// Parse flags
	addr := flag.String("addr", "", "listen address (default SUDS_SERVER_ADDR)")
	demo := flag.Bool("demo", false, "serve the built-in demo corpus instead of the database")
	seedFile := flag.String("seed", "", "YAML fixture file to load into the store on startup")
	wipeDB := flag.Bool("wipe", false, "wipe all corpus data on startup (testing only)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *addr != "" {
		cfg.ServerAddr = *addr
	}

	// Initialize logging
	logger, cleanup := config.SetupLogger(cfg)
	defer cleanup()

	logger.Info("starting suds-server", "addr", cfg.ServerAddr, "demo", *demo)

	collector := metrics.NewCollector()

	// Connect the corpus store
	var store corpus.Store
	var surreal *corpus.Surreal
	if *demo || cfg.StoreBackend == config.StoreMemory {
		mem := corpus.NewMemory()
		if *demo {
			mem = corpus.NewDemoMemory()
		}
		store = mem
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		var err error
		surreal, err = corpus.Connect(ctx, corpus.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, logger)
		if err != nil {
			cancel()
			logger.Error("failed to connect to corpus", "error", err)
			os.Exit(1)
		}
		if *wipeDB {
			if err := surreal.WipeData(ctx); err != nil {
				cancel()
				logger.Error("failed to wipe corpus", "error", err)
				os.Exit(1)
			}
		}
		if err := surreal.InitSchema(ctx); err != nil {
			cancel()
			logger.Error("failed to initialize schema", "error", err)
			os.Exit(1)
		}
		cancel()
		store = surreal
	}
	defer func() {
		if surreal != nil {
			if err := surreal.Close(context.Background()); err != nil {
				logger.Error("failed to close corpus connection", "error", err)
			}
		}
	}()

	// Optional fixture load
	if path := firstNonEmpty(*seedFile, cfg.SeedFile); path != "" {
		if err := seedStore(store, path); err != nil {
			logger.Error("failed to seed corpus", "file", path, "error", err)
			os.Exit(1)
		}
		logger.Info("corpus seeded", "file", path)
	}

	// Narrative generation is optional; an empty provider disables it.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	narrator, err := narrative.New(ctx, cfg, collector, logger)
	cancel()
	if err != nil {
		logger.Error("failed to init narrative generator", "error", err)
		os.Exit(1)
	}

	eng := engine.New(store, narrator, collector, logger, engine.Options{
		MinSteps:         cfg.MinSteps,
		AllowFewerSteps:  cfg.AllowFewerSteps,
		StepFetchLimit:   cfg.StepFetchLimit,
		CorpusTimeout:    cfg.CorpusTimeout,
		NarrativeTimeout: cfg.NarrativeTimeout,
	})

	srv := server.New(eng, logger)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second, // long for narrated plans
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("API available", "url", fmt.Sprintf("http://localhost%s/v1/workflows", cfg.ServerAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func seedStore(store corpus.Store, path string) error {
	file, err := corpus.LoadSeedFile(path)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	switch s := store.(type) {
	case *corpus.Surreal:
		return s.Seed(ctx, file.Documents)
	case *corpus.Memory:
		return s.Seed(ctx, file.Documents)
	default:
		return fmt.Errorf("store does not support seeding")
	}
}
