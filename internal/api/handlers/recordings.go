package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	database "transcript-player/internal/db"
)

// RecordingHandler lists the catalog.
type RecordingHandler struct {
	db *gorm.DB
}

func NewRecordingHandler(db *gorm.DB) *RecordingHandler {
	return &RecordingHandler{db: db}
}

type libraryRecording struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	ContentType string `json:"content_type"`
	AudioURI    string `json:"audio_uri"`
}

func (h *RecordingHandler) GetRecordings(c *gin.Context) {
	recs, err := database.ListRecordings(h.db)
	if err != nil {
		slog.Error("Failed to fetch recordings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	out := make([]libraryRecording, 0, len(recs))
	for _, r := range recs {
		out = append(out, libraryRecording{
			Key:         r.Key,
			Title:       r.Title,
			Artist:      r.Artist,
			Album:       r.Album,
			ContentType: r.ContentType,
			AudioURI:    r.AudioURI,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"data": out,
		"meta": gin.H{"total": len(out)},
	})
}

// GetRecording returns one recording with its phrases in dataset order.
func (h *RecordingHandler) GetRecording(c *gin.Context) {
	rec, err := database.FindRecording(h.db, c.Param("key"))
	if errors.Is(err, database.ErrRecordingNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recording not found"})
		return
	}
	if err != nil {
		slog.Error("Failed to fetch recording", "key", c.Param("key"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
