package player

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"transcript-player/internal/audio"
	"transcript-player/internal/config"
	database "transcript-player/internal/db"
	"transcript-player/internal/models"
	"transcript-player/internal/storage"
	"transcript-player/internal/transcript"
)

// Open builds an unmounted session for the configured recording, backed by the
// audio engine and the storage staging cache.
func Open(cfg *config.Config, db *gorm.DB) (*Session, *models.Recording, error) {
	rec, ds, err := LoadRecording(cfg, db)
	if err != nil {
		return nil, nil, err
	}

	cache := storage.NewCacheManager(storage.New(cfg), cfg.Storage.TempDir)
	loader := audio.NewLoader(cache, cfg)
	return New(rec.AudioURI, transcript.Build(ds), loader), rec, nil
}

// SidesFor applies the configured speaker sides, defaulting the first speaker to the left.
func SidesFor(cfg *config.Config, tr *transcript.Transcript) transcript.SideMap {
	primary := ""
	if speakers := tr.Speakers(); len(speakers) > 0 {
		primary = speakers[0]
	}
	return transcript.NewSideMap(cfg.Player.SpeakerSides, primary)
}

// LoadRecording registers the configured source in the catalog and returns it
// together with the dataset read back from the catalog.
func LoadRecording(cfg *config.Config, db *gorm.DB) (*models.Recording, transcript.Dataset, error) {
	ds, err := ConfiguredDataset(cfg)
	if err != nil {
		return nil, transcript.Dataset{}, err
	}

	rec := models.Recording{
		Key:      cfg.Source.RecordingKey,
		Title:    cfg.Source.Title,
		AudioURI: cfg.Source.AudioURI,
	}
	if _, err := database.SeedRecording(db, rec, ds); err != nil {
		return nil, transcript.Dataset{}, err
	}

	stored, err := database.FindRecording(db, rec.Key)
	if err != nil {
		return nil, transcript.Dataset{}, fmt.Errorf("reload recording %s: %w", rec.Key, err)
	}
	return stored, database.DatasetOf(stored), nil
}

// ConfiguredDataset reads the transcript file, or falls back to the built-in sample.
func ConfiguredDataset(cfg *config.Config) (transcript.Dataset, error) {
	if cfg.Source.TranscriptPath == "" {
		log.Println("Info: no transcript file configured, using the built-in sample.")
		return transcript.DefaultDataset(), nil
	}
	return transcript.LoadDataset(cfg.Source.TranscriptPath)
}
