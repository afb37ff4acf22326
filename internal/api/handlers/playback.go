package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"transcript-player/internal/playback"
	"transcript-player/internal/player"
)

// PlaybackHandler exposes the session controls.
type PlaybackHandler struct {
	session *player.Session
}

func NewPlaybackHandler(s *player.Session) *PlaybackHandler {
	return &PlaybackHandler{session: s}
}

// GetPlayback returns the current view of the session.
func (h *PlaybackHandler) GetPlayback(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.View())
}

func (h *PlaybackHandler) Play(c *gin.Context) {
	h.control(c, "play", h.session.Play)
}

func (h *PlaybackHandler) Pause(c *gin.Context) {
	h.control(c, "pause", h.session.Pause)
}

func (h *PlaybackHandler) Toggle(c *gin.Context) {
	h.control(c, "toggle", h.session.Toggle)
}

// Forward and Backward answer 200 with moved=false at the ends of the transcript.
func (h *PlaybackHandler) Forward(c *gin.Context) {
	h.step(c, "forward", h.session.StepForward)
}

func (h *PlaybackHandler) Backward(c *gin.Context) {
	h.step(c, "backward", h.session.StepBackward)
}

func (h *PlaybackHandler) control(c *gin.Context, action string, op func() error) {
	if err := op(); err != nil {
		h.fail(c, action, err)
		return
	}
	c.JSON(http.StatusOK, h.session.View())
}

func (h *PlaybackHandler) step(c *gin.Context, action string, op func() (bool, error)) {
	moved, err := op()
	if err != nil {
		h.fail(c, action, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"moved":    moved,
		"playback": h.session.View(),
	})
}

func (h *PlaybackHandler) fail(c *gin.Context, action string, err error) {
	if errors.Is(err, playback.ErrNotLoaded) {
		c.JSON(http.StatusConflict, gin.H{"error": "Audio is not loaded yet"})
		return
	}
	slog.Error("Playback control failed", "action", action, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Playback error"})
}
