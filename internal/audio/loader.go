package audio

import (
	"context"
	"fmt"
	"log"
	"time"

	"transcript-player/internal/config"
	"transcript-player/internal/playback"
	"transcript-player/internal/storage"
	"transcript-player/internal/transcript"
)

// Loader stages a source locally, probes it and returns a running Engine.
type Loader struct {
	cache    *storage.CacheManager
	interval time.Duration
	output   string
	logLevel string
}

func NewLoader(cache *storage.CacheManager, cfg *config.Config) *Loader {
	return &Loader{
		cache:    cache,
		interval: time.Duration(cfg.Player.UpdateIntervalMillis) * time.Millisecond,
		output:   cfg.Player.Output,
		logLevel: cfg.Player.LogLevel,
	}
}

func (l *Loader) Load(ctx context.Context, uri string) (playback.Sound, error) {
	path, err := l.cache.GetLocalPath(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("stage source: %w", err)
	}
	if !IsSupportedFormat(path) {
		log.Printf("⚠️ Unrecognized audio extension: %s", path)
	}

	info, err := Probe(path)
	if err != nil {
		return nil, fmt.Errorf("probe source: %w", err)
	}

	duration := "unknown"
	if info.DurationMillis != nil {
		duration = transcript.FormatTime(float64(*info.DurationMillis) / 1000)
	}
	log.Printf("🎵 %s %q by %q (%s)", info.Format, info.Title, info.Artist, duration)

	return NewEngine(info.DurationMillis, l.interval, NewOutput(l.output, path, l.logLevel)), nil
}

// Release drops the staged copy of uri.
func (l *Loader) Release(uri string) {
	l.cache.Remove(uri)
}
