package audio

import (
	"errors"
	"log"
	"sync"
	"time"

	"transcript-player/internal/playback"
)

var ErrUnloaded = errors.New("audio: engine unloaded")

// Engine is a playback resource whose position follows the wall clock while
// playing. It reports a status to its subscriber on every tick.
type Engine struct {
	mu        sync.Mutex
	duration  *int64 // ms, nil when unknown
	position  int64  // ms at startedAt
	startedAt time.Time
	playing   bool
	loaded    bool
	callback  func(playback.Status)
	output    Output
	now       func() time.Time
	stop      chan struct{}
}

// NewEngine creates a loaded engine. A non-positive interval disables the ticker;
// tick must then be driven by the caller.
func NewEngine(durationMillis *int64, interval time.Duration, out Output) *Engine {
	if out == nil {
		out = silentOutput{}
	}
	e := &Engine{
		duration: durationMillis,
		loaded:   true,
		output:   out,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if n, ok := out.(EndNotifier); ok {
		n.NotifyEnd(e.outputEnded)
	}
	if interval > 0 {
		go e.run(interval)
	}
	return e
}

// outputEnded handles the output running out of media. With an unknown duration
// the current position becomes the duration, so the next status is the finish.
func (e *Engine) outputEnded() {
	e.mu.Lock()
	if !e.loaded || !e.playing {
		e.mu.Unlock()
		return
	}
	if e.duration == nil {
		d := e.positionLocked()
		e.duration = &d
		log.Printf("🏁 Output ended, duration settled at %dms", d)
	}
	e.mu.Unlock()

	e.tick()
}

func (e *Engine) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.tick()
		case <-e.stop:
			return
		}
	}
}

func (e *Engine) positionLocked() int64 {
	pos := e.position
	if e.playing {
		pos += e.now().Sub(e.startedAt).Milliseconds()
	}
	if e.duration != nil && pos > *e.duration {
		pos = *e.duration
	}
	return pos
}

// tick emits one status. When playback reaches the end it emits a single
// finished status and stops advancing.
func (e *Engine) tick() {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return
	}

	st := playback.Status{
		IsLoaded:       true,
		IsPlaying:      e.playing,
		PositionMillis: e.positionLocked(),
	}
	if e.duration != nil {
		d := *e.duration
		st.DurationMillis = &d
	}

	finished := e.playing && e.duration != nil && st.PositionMillis >= *e.duration
	if finished {
		e.playing = false
		e.position = *e.duration
		st.IsPlaying = false
		st.DidJustFinish = true
	}
	cb := e.callback
	e.mu.Unlock()

	if finished {
		e.stopOutput()
	}
	if cb != nil {
		cb(st)
	}
}

func (e *Engine) Subscribe(fn func(playback.Status)) {
	e.mu.Lock()
	e.callback = fn
	e.mu.Unlock()
}

func (e *Engine) Play() error {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrUnloaded
	}
	if e.playing {
		e.mu.Unlock()
		return nil
	}
	// replay from the start once the end was reached
	if e.duration != nil && e.position >= *e.duration {
		e.position = 0
	}
	e.playing = true
	e.startedAt = e.now()
	pos := e.position
	e.mu.Unlock()

	return e.output.Start(pos)
}

func (e *Engine) Pause() error {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrUnloaded
	}
	if e.playing {
		e.position = e.positionLocked()
		e.playing = false
	}
	e.mu.Unlock()

	return e.output.Stop()
}

// Stop pauses and rewinds to the start.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrUnloaded
	}
	e.playing = false
	e.position = 0
	e.mu.Unlock()

	return e.output.Stop()
}

// SeekTo moves the position, clamped to [0, duration].
func (e *Engine) SeekTo(millis int64) error {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrUnloaded
	}
	if millis < 0 {
		millis = 0
	}
	if e.duration != nil && millis > *e.duration {
		millis = *e.duration
	}
	e.position = millis
	e.startedAt = e.now()
	playing := e.playing
	e.mu.Unlock()

	if !playing {
		return nil
	}
	if err := e.output.Stop(); err != nil {
		return err
	}
	return e.output.Start(millis)
}

// Unload stops the ticker. The engine reports nothing afterwards.
func (e *Engine) Unload() error {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return nil
	}
	e.loaded = false
	e.playing = false
	close(e.stop)
	e.mu.Unlock()

	return e.output.Stop()
}

func (e *Engine) stopOutput() {
	if err := e.output.Stop(); err != nil {
		log.Printf("⚠️ Output stop failed: %v", err)
	}
}
