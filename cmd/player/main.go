package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"transcript-player/internal/config"
	database "transcript-player/internal/db"
	"transcript-player/internal/player"
	"transcript-player/internal/transcript"
	"transcript-player/internal/ui"
)

func main() {
	// 1. Parse Flags
	// Flags override config.yaml values
	simulate := flag.Bool("simulate", false, "Dry run: print the transcript timeline to stdout without audio")
	transcriptPath := flag.String("transcript", "", "Override transcript file (YAML or JSON)")
	source := flag.String("source", "", "Override audio source URI (file://, s3://, https://)")
	duration := flag.Int64("duration", 10000, "Simulated duration in milliseconds")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// 2. Load Config
	cfg := config.Load()
	if *transcriptPath != "" {
		cfg.Source.TranscriptPath = *transcriptPath
	}
	if *source != "" {
		cfg.Source.AudioURI = *source
	}

	if *simulate {
		log.Println("🧪 MODE: DRY RUN / SIMULATION")
		ds, err := player.ConfiguredDataset(cfg)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		tr := transcript.Build(ds)
		if err := player.Simulate(os.Stdout, tr, player.SidesFor(cfg, tr), int64(cfg.Player.UpdateIntervalMillis), *duration); err != nil {
			log.Fatalf("❌ Simulation failed: %v", err)
		}
		return
	}

	cfg.RequireSource()

	// 3. Init Infrastructure
	db := database.New(cfg)
	db.AutoMigrate()

	session, rec, err := player.Open(cfg, db.DB)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// the screen belongs to the UI from here on
	logPath := filepath.Join(cfg.Storage.TempDir, "transcript-player.log")
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		log.Printf("📝 Logging to %s", logPath)
		log.SetOutput(f)
		defer f.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Mount in the background so the loading state is on screen during the download.
	// A failed load keeps the screen in the loading state.
	session.MountAsync(ctx)
	defer session.Unmount()

	title := rec.Title
	if title == "" {
		title = rec.Key
	}
	term := ui.NewTerminal(session, player.SidesFor(cfg, session.Transcript()), cfg.Player.VisibleEntries, title)
	if err := term.Run(ctx); err != nil {
		log.Printf("❌ Terminal error: %v", err)
	}
}
