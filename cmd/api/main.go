package main

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"transcript-player/internal/config"
	database "transcript-player/internal/db"
	"transcript-player/internal/playback"
	"transcript-player/internal/player"

	// Use an alias to prevent naming collisions with the 'server' variable
	apiserver "transcript-player/internal/api/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Transcript Player API Server...")

	// 1. Setup Configuration
	cfg := config.Load()
	cfg.RequireSource()

	// 2. Initialize Infrastructure
	db := database.New(cfg)

	// 3. Run Database Migrations
	db.AutoMigrate()

	// 4. Mount the session while the server comes up; /api/v1/playback reports is_loading until then
	session, rec, err := player.Open(cfg, db.DB)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	session.MountAsync(context.Background())
	defer session.Unmount()

	// 5. Setup Metrics
	playback.RegisterMetrics()
	go func() {
		http.Handle("/_metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/_metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	// 6. Start Server
	srv := apiserver.New(cfg, db, session, rec)

	log.Printf("🚀 API Server starting on %s", cfg.Server.Port)
	if err := srv.Start(cfg.Server.Port); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
