package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transcript-player/internal/models"
	"transcript-player/internal/player"
	"transcript-player/internal/transcript"
)

// TranscriptHandler serves the transcript of the mounted recording.
type TranscriptHandler struct {
	session   *player.Session
	sides     transcript.SideMap
	recording *models.Recording
}

func NewTranscriptHandler(s *player.Session, sides transcript.SideMap, rec *models.Recording) *TranscriptHandler {
	return &TranscriptHandler{session: s, sides: sides, recording: rec}
}

type transcriptEntry struct {
	transcript.Entry
	Side transcript.Side `json:"side"`
	Time string          `json:"time"`
}

type speakerInfo struct {
	Name string          `json:"name"`
	Side transcript.Side `json:"side"`
}

// GetTranscript returns every entry in playback order with its bubble side.
func (h *TranscriptHandler) GetTranscript(c *gin.Context) {
	tr := h.session.Transcript()

	entries := make([]transcriptEntry, 0, tr.Len())
	for _, e := range tr.Entries() {
		entries = append(entries, transcriptEntry{
			Entry: e,
			Side:  h.sides.SideOf(e.Speaker),
			Time:  transcript.FormatTime(e.Start),
		})
	}

	speakers := make([]speakerInfo, 0)
	for _, name := range tr.Speakers() {
		speakers = append(speakers, speakerInfo{Name: name, Side: h.sides.SideOf(name)})
	}

	recording := gin.H{"audio_uri": h.session.URI()}
	if h.recording != nil {
		recording["key"] = h.recording.Key
		recording["title"] = h.recording.Title
		recording["artist"] = h.recording.Artist
		recording["album"] = h.recording.Album
		recording["content_type"] = h.recording.ContentType
	}

	c.JSON(http.StatusOK, gin.H{
		"recording": recording,
		"pause_ms":  tr.PauseMillis(),
		"speakers":  speakers,
		"entries":   entries,
	})
}
