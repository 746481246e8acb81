package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/analyzer"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/config"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/ingest"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/middleware"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/pagecheck"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/scheduler"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/stats"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/store"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/usage"
)

func main() {
	// Load environment configuration
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	if cfg.DevMode {
		log.SetLevel(log.DebugLevel)
	}

	// Set up Gin mode
	gin.SetMode(cfg.GinMode)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatal("Failed to create data directory", "error", err)
	}

	// Initialize services
	db, err := store.NewDB(filepath.Join(cfg.DataDir, "audit.db"))
	if err != nil {
		log.Fatal("Failed to open audit ledger", "error", err)
	}

	statsStore, err := stats.NewStorage(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to open statistics storage", "error", err)
	}
	usageStats := usage.Initialize(cfg.DataDir)

	seoAnalyzer := analyzer.New(cfg.Rules)
	checker := pagecheck.New(cfg.Rules, statsStore)
	importer := ingest.NewImporter()

	// Nightly re-audit of stale snapshots.
	sched, err := scheduler.New(cfg.Timezone)
	if err != nil {
		log.Fatal("Failed to create scheduler", "error", err)
	}
	sweeper := scheduler.NewSweeper(db, seoAnalyzer, statsStore)
	if err := sched.ScheduleDaily(cfg.SweepTime, func() {
		if _, err := sweeper.Run(context.Background()); err != nil {
			log.Error("audit sweep failed", "error", err)
		}
	}); err != nil {
		log.Fatal("Failed to schedule audit sweep", "error", err)
	}
	sched.Start()

	srv := &server{
		cfg:      cfg,
		db:       db,
		analyzer: seoAnalyzer,
		checker:  checker,
		importer: importer,
		stats:    statsStore,
		usage:    usageStats,
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	r := newRouter(srv, limiter)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", "http://localhost:"+cfg.Port, "mode", cfg.GinMode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}

	// Stop background work before flushing state to disk.
	sched.Stop()
	checker.Close()
	if err := usageStats.Save(); err != nil {
		log.Error("save usage statistics", "error", err)
	}
	if err := statsStore.Shutdown(); err != nil {
		log.Error("flush monthly statistics", "error", err)
	}
	if err := db.Close(); err != nil {
		log.Error("close audit ledger", "error", err)
	}
	log.Info("shutdown complete")
}
