package models

import (
	"gorm.io/gorm"
)

// Recording is one playable audio source with its transcript.
type Recording struct {
	gorm.Model

	Key         string `gorm:"uniqueIndex;not null" json:"key"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	ContentType string `json:"content_type"`
	AudioURI    string `gorm:"not null" json:"audio_uri"`
	PauseMillis int64  `json:"pause_ms"`

	Phrases []RecordingPhrase `json:"phrases" gorm:"constraint:OnDelete:CASCADE;"`
}

// RecordingPhrase stores a phrase in dataset order. SortOrder is the position
// across the whole recording, speakers first then phrases.
type RecordingPhrase struct {
	ID          uint   `gorm:"primarykey" json:"-"`
	RecordingID uint   `gorm:"index;not null" json:"-"`
	Speaker     string `gorm:"size:100;not null" json:"speaker"`
	Words       string `json:"words"`
	TimeMillis  int64  `json:"time"`
	SortOrder   int    `json:"sort_order"`
}
