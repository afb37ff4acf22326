package player

import (
	"context"
	"log"
	"sync"

	"transcript-player/internal/playback"
	"transcript-player/internal/transcript"
)

// Releaser is implemented by loaders that stage sources and must clean them up.
type Releaser interface {
	Release(uri string)
}

// Session is one mounted player screen: a transcript bound to a single audio source.
type Session struct {
	uri        string
	transcript *transcript.Transcript
	loader     playback.Loader
	tracker    *playback.Tracker
	navigator  *playback.Navigator

	mu        sync.Mutex
	unmounted bool
}

func New(uri string, tr *transcript.Transcript, loader playback.Loader) *Session {
	tracker := playback.NewTracker(tr, loader)
	return &Session{
		uri:        uri,
		transcript: tr,
		loader:     loader,
		tracker:    tracker,
		navigator:  playback.NewNavigator(tr, tracker),
	}
}

// Mount loads the audio source. A load failure leaves the session mounted
// in the loading state.
func (s *Session) Mount(ctx context.Context) error {
	log.Printf("📺 Mounting session (%d phrases)", s.transcript.Len())
	return s.tracker.Load(ctx, s.uri)
}

// MountAsync mounts in the background and reports the outcome on the returned
// channel. The session reads as loading until the first status arrives.
func (s *Session) MountAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := s.Mount(ctx)
		if err != nil {
			log.Printf("⚠️ Session mounted without audio: %v", err)
		}
		done <- err
	}()
	return done
}

// Unmount releases the audio resource and any staged copy of the source.
func (s *Session) Unmount() error {
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		return nil
	}
	s.unmounted = true
	s.mu.Unlock()

	err := s.tracker.Release()
	if r, ok := s.loader.(Releaser); ok {
		r.Release(s.uri)
	}
	return err
}

func (s *Session) URI() string { return s.uri }

func (s *Session) Transcript() *transcript.Transcript { return s.transcript }

func (s *Session) State() playback.State { return s.tracker.State() }

func (s *Session) Play() error { return s.tracker.Play() }

func (s *Session) Pause() error { return s.tracker.Pause() }

// Toggle plays when paused and pauses when playing.
func (s *Session) Toggle() error {
	if s.tracker.State().IsPlaying {
		return s.tracker.Pause()
	}
	return s.tracker.Play()
}

func (s *Session) StepForward() (bool, error) { return s.navigator.StepForward() }

func (s *Session) StepBackward() (bool, error) { return s.navigator.StepBackward() }

func (s *Session) Subscribe() (<-chan playback.State, func()) {
	return s.tracker.Subscribe()
}

// View is the presentation-ready form of a State.
type View struct {
	playback.State
	ActiveIndex int     `json:"active_index"` // -1 when no entry is active
	Progress    float64 `json:"progress"`
	Position    string  `json:"position"`
	Duration    string  `json:"duration"`
}

func NewView(st playback.State) View {
	v := View{
		State:       st,
		ActiveIndex: -1,
		Progress:    transcript.Progress(st.PositionSeconds, st.DurationSeconds),
		Position:    transcript.FormatTime(st.PositionSeconds),
		Duration:    transcript.FormatTime(st.DurationSeconds),
	}
	if st.CurrentEntry != nil {
		v.ActiveIndex = st.CurrentEntry.Index
	}
	return v
}

func (s *Session) View() View {
	return NewView(s.tracker.State())
}
