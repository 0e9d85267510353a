package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goldtracker/internal/agent"
	"goldtracker/internal/analysis"
	"goldtracker/internal/config"
	"goldtracker/internal/news"
	"goldtracker/internal/quote"
	"goldtracker/internal/recorder"
	"goldtracker/internal/report"
	"goldtracker/internal/scheduler"
	"goldtracker/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] GoldTracker starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Price acquisition: Yahoo quote API first, Kitco scrape as backup.
	yahoo := quote.NewYahooProvider(cfg.DataSource.Symbol, cfg.Proxy, cfg.YahooTimeout())
	kitco := quote.NewKitcoProvider(cfg.Proxy, cfg.ScrapeTimeout())
	chain := quote.NewChain([]quote.Provider{yahoo, kitco}, cfg.DataSource.FallbackPrice)
	cache := quote.NewCache(chain, cfg.CacheTTL())
	history := quote.NewCachedHistory(yahoo, cfg.CacheTTL())
	log.Printf("[INFO] price providers: yahoo -> kitco (ttl %s)", cfg.CacheTTL())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Narration backend
	narrator, err := agent.NewGeminiNarrator(ctx, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLMTimeout(), cfg.AgentProfiles())
	if err != nil {
		log.Fatalf("[FATAL] init narrator: %v", err)
	}
	log.Printf("[INFO] narration model: %s", cfg.LLM.Model)

	// Analysis pipeline
	gatherer := news.NewGatherer(cfg.Proxy)
	reports := report.NewWriter(cfg.Reports.Dir)
	runner := analysis.NewRunner(history, narrator, gatherer, reports, rec, cfg.DataSource.Symbol, cfg.DataSource.HistoryDays)

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, cache, runner, rec)
	if err := sched.RegisterAll(cfg.Schedule.PriceSnapshotCron, cfg.Schedule.AnalysisCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run analysis immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, starting analysis now")
		if err := runner.Start(); err != nil {
			log.Printf("[WARN] startup analysis: %v", err)
		}
	}

	// HTTP server
	srv := server.NewServer(cache, history, runner)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	log.Printf("[INFO] GoldTracker is running on %s. Press Ctrl+C to stop.", addr)

	// Wait for shutdown signal or server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			log.Printf("[ERROR] http server: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] GoldTracker stopped")
}
