package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"transcript-player/internal/audio"
	"transcript-player/internal/config"
	database "transcript-player/internal/db"
	"transcript-player/internal/models"
	"transcript-player/internal/transcript"
	"transcript-player/internal/utils"
)

var (
	jobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "player_ingest_jobs_total",
			Help: "Total recordings imported into the catalog",
		},
		[]string{"status"},
	)
	duration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "player_ingest_duration_seconds",
			Help:    "Processing time",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(jobs, duration)
}

var transcriptExts = []string{".yaml", ".yml", ".json"}

// Job pairs a transcript file with the audio file of the same base name.
type Job struct {
	TranscriptPath string
	AudioPath      string
}

// Worker imports recordings found in a directory into the catalog.
type Worker struct {
	cfg *config.Config
	db  *database.Client
}

func New(cfg *config.Config, db *database.Client) *Worker {
	return &Worker{cfg: cfg, db: db}
}

// Run scans once, then again on every polling interval until ctx is done.
// A zero interval makes it a one-shot import.
func (w *Worker) Run(ctx context.Context) {
	log.Printf("Watcher started on '%s'...", w.cfg.Ingest.Dir)
	w.processQueue()

	if w.cfg.Ingest.PollingInterval <= 0 {
		return
	}

	ticker := time.NewTicker(time.Duration(w.cfg.Ingest.PollingInterval) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processQueue()
		}
	}
}

func (w *Worker) processQueue() {
	queue, err := Scan(w.cfg.Ingest.Dir)
	if err != nil {
		log.Printf("Error listing %s: %v", w.cfg.Ingest.Dir, err)
		return
	}

	if len(queue) > 0 {
		log.Printf("Found %d items in ingest queue.", len(queue))
	}

	for _, job := range queue {
		log.Printf("Processing: %s", job.TranscriptPath)
		if rec, err := w.processFile(job); err != nil {
			log.Printf("❌ FAILED %s: %v", job.TranscriptPath, err)
			jobs.WithLabelValues("failure").Inc()
		} else {
			log.Printf("✅ CATALOGUED %s as %q", job.AudioPath, rec.Key)
			jobs.WithLabelValues("success").Inc()
		}
	}
}

// Scan lists the transcript files of dir that have a matching supported audio file.
func Scan(dir string) ([]Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	audioByBase := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !audio.IsSupportedFormat(e.Name()) {
			continue
		}
		audioByBase[baseName(e.Name())] = filepath.Join(dir, e.Name())
	}

	var queue []Job
	for _, e := range entries {
		if e.IsDir() || !isTranscript(e.Name()) {
			continue
		}
		audioPath, ok := audioByBase[baseName(e.Name())]
		if !ok {
			log.Printf("⚠️ No audio next to %s, skipping", e.Name())
			continue
		}
		queue = append(queue, Job{TranscriptPath: filepath.Join(dir, e.Name()), AudioPath: audioPath})
	}
	return queue, nil
}

func (w *Worker) processFile(job Job) (*models.Recording, error) {
	timer := prometheus.NewTimer(duration)
	defer timer.ObserveDuration()

	// 1. Transcript
	ds, err := transcript.LoadDataset(job.TranscriptPath)
	if err != nil {
		return nil, err
	}
	if ds.PhraseCount() == 0 {
		return nil, fmt.Errorf("transcript has no phrases")
	}

	// 2. Tags
	info, err := audio.Probe(job.AudioPath)
	if err != nil {
		log.Printf("Warning: Local tags unreadable for %s", job.AudioPath)
	}

	// 3. Fallback to the file name
	if info.Title == "" {
		info.Title = utils.TitleFromFilename(job.AudioPath)
	}

	abs, err := filepath.Abs(job.AudioPath)
	if err != nil {
		return nil, err
	}

	// 4. DB Persistence
	rec := models.Recording{
		Key:         utils.Slug(baseName(job.AudioPath), "recording"),
		Title:       info.Title,
		Artist:      info.Artist,
		Album:       info.Album,
		ContentType: info.ContentType,
		AudioURI:    "file://" + filepath.ToSlash(abs),
	}
	return database.SeedRecording(w.db.DB, rec, ds)
}

func baseName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isTranscript(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range transcriptExts {
		if ext == e {
			return true
		}
	}
	return false
}
