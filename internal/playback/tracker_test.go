package playback

import (
	"context"
	"errors"
	"sync"
	"testing"

	"transcript-player/internal/transcript"
)

type fakeSound struct {
	mu       sync.Mutex
	callback func(Status)
	playing  bool
	stopped  int
	unloaded int
	seeks    []int64
	seekErr  error
}

func (f *fakeSound) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = true
	return nil
}

func (f *fakeSound) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
	return nil
}

func (f *fakeSound) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
	f.playing = false
	return nil
}

func (f *fakeSound) Unload() error {
	f.mu.Lock()
	f.unloaded++
	f.mu.Unlock()
	return nil
}

func (f *fakeSound) SeekTo(ms int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seekErr != nil {
		return f.seekErr
	}
	f.seeks = append(f.seeks, ms)
	return nil
}

func (f *fakeSound) Subscribe(fn func(Status)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callback = fn
}

// emit delivers a status the way an engine would.
func (f *fakeSound) emit(st Status) {
	f.mu.Lock()
	cb := f.callback
	f.mu.Unlock()
	if cb != nil {
		cb(st)
	}
}

type fakeLoader struct {
	sound *fakeSound
	err   error
}

func (l *fakeLoader) Load(ctx context.Context, uri string) (Sound, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.sound, nil
}

// gatedLoader blocks in Load until proceed is closed.
type gatedLoader struct {
	sound   *fakeSound
	started chan struct{}
	proceed chan struct{}
}

func (l *gatedLoader) Load(ctx context.Context, uri string) (Sound, error) {
	close(l.started)
	<-l.proceed
	return l.sound, nil
}

func ms(v int64) *int64 { return &v }

func loaded(status int64) Status {
	return Status{IsLoaded: true, PositionMillis: status, DurationMillis: ms(10000)}
}

func newLoadedTracker(t *testing.T) (*Tracker, *fakeSound) {
	t.Helper()
	sound := &fakeSound{}
	tracker := NewTracker(transcript.Build(transcript.DefaultDataset()), &fakeLoader{sound: sound})
	if err := tracker.Load(context.Background(), "file:///sample.mp3"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return tracker, sound
}

func TestNewTrackerIsLoading(t *testing.T) {
	tracker := NewTracker(transcript.Build(transcript.DefaultDataset()), &fakeLoader{})
	st := tracker.State()
	if !st.IsLoading || st.IsPlaying || st.CurrentEntry != nil {
		t.Errorf("unexpected initial state: %+v", st)
	}
}

func TestReleaseDuringLoad(t *testing.T) {
	sound := &fakeSound{}
	loader := &gatedLoader{sound: sound, started: make(chan struct{}), proceed: make(chan struct{})}
	tracker := NewTracker(transcript.Build(transcript.DefaultDataset()), loader)
	before := tracker.State()

	done := make(chan error, 1)
	go func() {
		done <- tracker.Load(context.Background(), "https://example.com/slow.mp3")
	}()

	<-loader.started
	if err := tracker.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	close(loader.proceed)

	if err := <-done; !errors.Is(err, errReleased) {
		t.Errorf("Load = %v, want errReleased", err)
	}

	sound.mu.Lock()
	unloaded, subscribed := sound.unloaded, sound.callback != nil
	sound.mu.Unlock()
	if unloaded != 1 {
		t.Errorf("Unload called %d times, want 1", unloaded)
	}
	if subscribed {
		t.Error("released tracker should not subscribe to the sound")
	}
	if got := tracker.State(); got != before {
		t.Errorf("state changed to %+v, want %+v", got, before)
	}
	if err := tracker.Play(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Play after release = %v, want ErrNotLoaded", err)
	}
}

func TestLoadFailureKeepsLoading(t *testing.T) {
	tracker := NewTracker(transcript.Build(transcript.DefaultDataset()), &fakeLoader{err: errors.New("404")})

	err := tracker.Load(context.Background(), "https://example.com/missing.mp3")
	if err == nil {
		t.Fatal("expected load error")
	}
	if !tracker.State().IsLoading {
		t.Error("IsLoading should stay true after a failed load")
	}
	if err := tracker.Play(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Play without sound = %v, want ErrNotLoaded", err)
	}
}

func TestLoadTwiceFails(t *testing.T) {
	tracker, _ := newLoadedTracker(t)
	if err := tracker.Load(context.Background(), "file:///other.mp3"); err == nil {
		t.Error("second Load should fail")
	}
}

func TestStatusUpdate(t *testing.T) {
	tests := []struct {
		name         string
		status       Status
		wantPos      float64
		wantDuration float64
		wantText     string
	}{
		{"Before first entry", loaded(50), 0.05, 10, ""},
		{"Scenario at 2.0s", loaded(2000), 2, 10, "another speaker here."},
		{"Last entry", loaded(9500), 9.5, 10, "and eventually finishing up."},
		{"Unknown duration", Status{IsLoaded: true, PositionMillis: 4000}, 4, 0, "now the second phrase."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, sound := newLoadedTracker(t)
			sound.emit(tt.status)

			st := tracker.State()
			if st.IsLoading {
				t.Error("IsLoading should be false after a loaded status")
			}
			if st.PositionSeconds != tt.wantPos || st.DurationSeconds != tt.wantDuration {
				t.Errorf("position/duration = %v/%v, want %v/%v",
					st.PositionSeconds, st.DurationSeconds, tt.wantPos, tt.wantDuration)
			}
			gotText := ""
			if st.CurrentEntry != nil {
				gotText = st.CurrentEntry.Text
			}
			if gotText != tt.wantText {
				t.Errorf("current entry = %q, want %q", gotText, tt.wantText)
			}
		})
	}
}

func TestStatusNotLoadedIgnored(t *testing.T) {
	tracker, sound := newLoadedTracker(t)
	sound.emit(Status{IsLoaded: false, PositionMillis: 5000})

	st := tracker.State()
	if !st.IsLoading || st.PositionSeconds != 0 {
		t.Errorf("unloaded status mutated state: %+v", st)
	}
}

func TestDidJustFinishResets(t *testing.T) {
	tracker, sound := newLoadedTracker(t)
	if err := tracker.Play(); err != nil {
		t.Fatal(err)
	}
	sound.emit(loaded(9500))

	sound.emit(Status{IsLoaded: true, PositionMillis: 10000, DurationMillis: ms(10000), DidJustFinish: true})

	st := tracker.State()
	if st.IsPlaying || st.PositionSeconds != 0 || st.CurrentEntry != nil {
		t.Errorf("state not reset on finish: %+v", st)
	}
	if st.DurationSeconds != 10 {
		t.Errorf("duration should be kept, got %v", st.DurationSeconds)
	}
	if sound.stopped != 1 {
		t.Errorf("sound stopped %d times, want 1", sound.stopped)
	}
}

func TestPlayPause(t *testing.T) {
	tracker, sound := newLoadedTracker(t)

	if err := tracker.Play(); err != nil {
		t.Fatal(err)
	}
	if !tracker.State().IsPlaying || !sound.playing {
		t.Error("Play did not start playback")
	}

	if err := tracker.Pause(); err != nil {
		t.Fatal(err)
	}
	if tracker.State().IsPlaying || sound.playing {
		t.Error("Pause did not pause playback")
	}
}

func TestReleaseIgnoresLateCallbacks(t *testing.T) {
	tracker, sound := newLoadedTracker(t)
	sound.emit(loaded(2000))
	before := tracker.State()

	if err := tracker.Release(); err != nil {
		t.Fatal(err)
	}
	sound.emit(loaded(7600))

	after := tracker.State()
	if after.PositionSeconds != before.PositionSeconds || after.CurrentEntry.ID != before.CurrentEntry.ID {
		t.Errorf("late callback mutated state: before %+v after %+v", before, after)
	}
	if sound.unloaded != 1 {
		t.Errorf("Unload called %d times, want 1", sound.unloaded)
	}

	// second release is a no-op
	if err := tracker.Release(); err != nil {
		t.Fatal(err)
	}
	if sound.unloaded != 1 {
		t.Errorf("Unload called %d times after double release", sound.unloaded)
	}
	if err := tracker.Play(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Play after release = %v, want ErrNotLoaded", err)
	}
}

func TestReleaseWithoutLoad(t *testing.T) {
	tracker := NewTracker(transcript.Build(transcript.DefaultDataset()), &fakeLoader{})
	if err := tracker.Release(); err != nil {
		t.Errorf("Release without load = %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	tracker, sound := newLoadedTracker(t)
	updates, cancel := tracker.Subscribe()

	first := <-updates
	if !first.IsLoading {
		t.Errorf("initial snapshot should be loading: %+v", first)
	}

	// several updates collapse to the latest one
	sound.emit(loaded(1000))
	sound.emit(loaded(2000))
	latest := <-updates
	if latest.PositionSeconds != 2 {
		t.Errorf("latest snapshot position = %v, want 2", latest.PositionSeconds)
	}

	cancel()
	if _, open := <-updates; open {
		t.Error("channel should be closed after cancel")
	}
	cancel()
}

func TestSubscribeClosedOnRelease(t *testing.T) {
	tracker, _ := newLoadedTracker(t)
	updates, _ := tracker.Subscribe()
	<-updates

	tracker.Release()
	if _, open := <-updates; open {
		t.Error("channel should be closed on release")
	}
}
