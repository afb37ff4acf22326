package playback

import (
	"log"

	"transcript-player/internal/transcript"
)

// Navigator moves playback by whole transcript entries instead of fixed offsets.
type Navigator struct {
	transcript *transcript.Transcript
	tracker    *Tracker
}

func NewNavigator(tr *transcript.Transcript, tracker *Tracker) *Navigator {
	return &Navigator{transcript: tr, tracker: tracker}
}

// StepForward seeks to the entry after the current one.
// It reports false without seeking when there is no current entry or it is the last one.
func (n *Navigator) StepForward() (bool, error) {
	return n.step(1, "forward")
}

// StepBackward seeks to the entry before the current one.
func (n *Navigator) StepBackward() (bool, error) {
	return n.step(-1, "backward")
}

func (n *Navigator) step(delta int, direction string) (bool, error) {
	current := n.tracker.State().CurrentEntry
	if current == nil {
		return false, nil
	}

	i, ok := n.transcript.IndexOf(current.ID)
	if !ok {
		return false, nil
	}

	target, ok := n.transcript.At(i + delta)
	if !ok {
		return false, nil
	}

	if err := n.tracker.seekToEntry(target); err != nil {
		log.Printf("❌ Seek %s to %s failed: %v", direction, transcript.FormatTime(target.Start), err)
		return false, err
	}

	phraseSeeks.WithLabelValues(direction).Inc()
	return true, nil
}
