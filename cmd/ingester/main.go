package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"transcript-player/internal/config"
	database "transcript-player/internal/db"
	"transcript-player/internal/ingest"
)

func main() {
	dir := flag.String("dir", "", "Override the directory scanned for recordings")
	watch := flag.Int("watch", -1, "Rescan every N seconds (0 scans once)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Transcript Ingester...")

	cfg := config.Load()
	if *dir != "" {
		cfg.Ingest.Dir = *dir
	}
	if *watch >= 0 {
		cfg.Ingest.PollingInterval = *watch
	}

	db := database.New(cfg)
	db.AutoMigrate()

	if cfg.Ingest.PollingInterval > 0 {
		ingest.RegisterMetrics()
		go func() {
			http.Handle("/_metrics", promhttp.Handler())
			log.Printf("📊 Metrics exposed at http://localhost%s/_metrics", cfg.Server.MetricsPort)
			if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
				log.Printf("⚠️ Metrics server error: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ingest.New(cfg, db).Run(ctx)
}
