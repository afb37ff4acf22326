package playback

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"transcript-player/internal/transcript"
)

var (
	errAlreadyLoaded = errors.New("playback: tracker already loaded")
	errReleased      = errors.New("playback: tracker released while loading")
)

// State is the observable playback state of a session.
type State struct {
	IsPlaying       bool              `json:"is_playing"`
	PositionSeconds float64           `json:"position_seconds"`
	DurationSeconds float64           `json:"duration_seconds"`
	CurrentEntry    *transcript.Entry `json:"current_entry"`
	IsLoading       bool              `json:"is_loading"`
}

// Tracker owns the playback resource and the derived State.
// Status callbacks arrive on the engine goroutine; every mutation happens under mu.
type Tracker struct {
	transcript *transcript.Transcript
	loader     Loader

	mu       sync.Mutex
	sound    Sound
	loading  bool
	released bool
	state    State
	subs     map[int]chan State
	nextSub  int
}

func NewTracker(tr *transcript.Transcript, loader Loader) *Tracker {
	return &Tracker{
		transcript: tr,
		loader:     loader,
		state:      State{IsLoading: true},
		subs:       make(map[int]chan State),
	}
}

// Load acquires the sound for uri and subscribes to its status updates.
// A failure is returned and logged; the tracker then stays in the loading state.
func (t *Tracker) Load(ctx context.Context, uri string) error {
	t.mu.Lock()
	if t.sound != nil || t.loading || t.released {
		t.mu.Unlock()
		return errAlreadyLoaded
	}
	t.loading = true
	t.mu.Unlock()

	timer := prometheus.NewTimer(loadDuration)
	sound, err := t.loader.Load(ctx, uri)
	timer.ObserveDuration()

	t.mu.Lock()
	t.loading = false
	if err != nil {
		t.mu.Unlock()
		loadFailures.Inc()
		log.Printf("❌ Error loading audio %s: %v", uri, err)
		return fmt.Errorf("load %s: %w", uri, err)
	}
	if t.released {
		t.mu.Unlock()
		// unmounted while loading
		if err := sound.Unload(); err != nil {
			return fmt.Errorf("%w: unload: %v", errReleased, err)
		}
		return errReleased
	}
	t.sound = sound
	t.mu.Unlock()

	sound.Subscribe(t.OnStatusUpdate)
	log.Printf("🎧 Audio loaded: %s", uri)
	return nil
}

// OnStatusUpdate folds one engine status into the state.
func (t *Tracker) OnStatusUpdate(st Status) {
	t.mu.Lock()
	if !st.IsLoaded || t.sound == nil {
		t.mu.Unlock()
		statusUpdates.WithLabelValues("ignored").Inc()
		return
	}

	t.state.IsLoading = false
	t.state.PositionSeconds = float64(st.PositionMillis) / 1000
	if st.DurationMillis != nil {
		t.state.DurationSeconds = float64(*st.DurationMillis) / 1000
	} else {
		t.state.DurationSeconds = 0
	}
	t.state.CurrentEntry = t.activeEntry(t.state.PositionSeconds)

	var finished Sound
	if st.DidJustFinish {
		t.state.IsPlaying = false
		t.state.PositionSeconds = 0
		t.state.CurrentEntry = nil
		finished = t.sound
	}
	t.publishLocked()
	t.mu.Unlock()

	statusUpdates.WithLabelValues("applied").Inc()

	if finished != nil {
		completions.Inc()
		log.Println("🏁 Playback finished, resetting")
		if err := finished.Stop(); err != nil {
			log.Printf("⚠️ Stop after finish failed: %v", err)
		}
	}
}

func (t *Tracker) activeEntry(position float64) *transcript.Entry {
	e, ok := t.transcript.ActiveAt(position)
	if !ok {
		return nil
	}
	return &e
}

// Play starts or resumes playback.
func (t *Tracker) Play() error {
	return t.control(func(s Sound) error { return s.Play() }, true)
}

// Pause pauses playback.
func (t *Tracker) Pause() error {
	return t.control(func(s Sound) error { return s.Pause() }, false)
}

func (t *Tracker) control(op func(Sound) error, playing bool) error {
	t.mu.Lock()
	s := t.sound
	t.mu.Unlock()
	if s == nil {
		return ErrNotLoaded
	}

	if err := op(s); err != nil {
		return err
	}

	t.mu.Lock()
	if t.sound == s {
		t.state.IsPlaying = playing
		t.publishLocked()
	}
	t.mu.Unlock()
	return nil
}

// seekToEntry moves playback to the entry start and marks it current
// without waiting for the next status update.
func (t *Tracker) seekToEntry(e transcript.Entry) error {
	t.mu.Lock()
	s := t.sound
	t.mu.Unlock()
	if s == nil {
		return ErrNotLoaded
	}

	if err := s.SeekTo(e.StartMillis); err != nil {
		return err
	}

	t.mu.Lock()
	if t.sound == s {
		t.state.CurrentEntry = &e
		t.publishLocked()
	}
	t.mu.Unlock()
	return nil
}

// Release unloads the sound. Later calls and late status updates are no-ops.
func (t *Tracker) Release() error {
	t.mu.Lock()
	if t.released {
		t.mu.Unlock()
		return nil
	}
	t.released = true
	s := t.sound
	t.sound = nil
	t.state.IsPlaying = false
	for id, ch := range t.subs {
		close(ch)
		delete(t.subs, id)
	}
	t.mu.Unlock()

	if s == nil {
		return nil
	}
	log.Println("⏏️  Releasing audio")
	return s.Unload()
}

// State returns a snapshot.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Subscribe streams snapshots after every change. The channel holds only the
// latest snapshot and is closed by cancel or Release.
func (t *Tracker) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		close(ch)
		return ch, func() {}
	}

	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch
	ch <- t.state

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if c, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (t *Tracker) publishLocked() {
	snap := t.state
	for _, ch := range t.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
