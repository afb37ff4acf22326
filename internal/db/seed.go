package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"transcript-player/internal/models"
	"transcript-player/internal/transcript"
)

var ErrRecordingNotFound = errors.New("recording not found")

// SeedRecording upserts the recording identified by key and replaces its phrases
// with the dataset content.
func SeedRecording(db *gorm.DB, rec models.Recording, ds transcript.Dataset) (*models.Recording, error) {
	rec.PauseMillis = ds.Pause

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "artist", "album", "content_type", "audio_uri", "pause_millis", "updated_at"}),
		}).Create(&rec).Error; err != nil {
			return err
		}

		// the upsert does not return the ID of an existing row on every driver
		var stored models.Recording
		if err := tx.Where("key = ?", rec.Key).First(&stored).Error; err != nil {
			return err
		}
		rec = stored

		if err := tx.Where("recording_id = ?", rec.ID).Delete(&models.RecordingPhrase{}).Error; err != nil {
			return err
		}

		phrases := make([]models.RecordingPhrase, 0, ds.PhraseCount())
		for _, sp := range ds.Speakers {
			for _, ph := range sp.Phrases {
				phrases = append(phrases, models.RecordingPhrase{
					RecordingID: rec.ID,
					Speaker:     sp.Name,
					Words:       ph.Words,
					TimeMillis:  ph.Time,
					SortOrder:   len(phrases),
				})
			}
		}
		if len(phrases) == 0 {
			return nil
		}
		return tx.Create(&phrases).Error
	})
	if err != nil {
		return nil, fmt.Errorf("seed recording %s: %w", rec.Key, err)
	}

	log.Printf("🌱 Seeded recording %q with %d phrases", rec.Key, ds.PhraseCount())
	return &rec, nil
}

// FindRecording loads a recording and its phrases in dataset order.
func FindRecording(db *gorm.DB, key string) (*models.Recording, error) {
	var rec models.Recording
	err := db.Preload("Phrases", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC")
	}).Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DatasetOf rebuilds the nested dataset. Consecutive phrases of the same speaker
// share a block, so speaker blocks come back in their stored order.
func DatasetOf(rec *models.Recording) transcript.Dataset {
	ds := transcript.Dataset{Pause: rec.PauseMillis}
	for _, p := range rec.Phrases {
		if n := len(ds.Speakers); n == 0 || ds.Speakers[n-1].Name != p.Speaker {
			ds.Speakers = append(ds.Speakers, transcript.Speaker{Name: p.Speaker})
		}
		last := &ds.Speakers[len(ds.Speakers)-1]
		last.Phrases = append(last.Phrases, transcript.Phrase{
			Words: p.Words,
			Time:  p.TimeMillis,
		})
	}
	return ds
}

// ListRecordings returns the catalog without phrases.
func ListRecordings(db *gorm.DB) ([]models.Recording, error) {
	var recs []models.Recording
	err := db.Order("key asc").Find(&recs).Error
	return recs, err
}
