package playback

import (
	"context"
	"errors"
)

var ErrNotLoaded = errors.New("playback: no sound loaded")

// Status is the payload an audio engine delivers to its subscriber.
type Status struct {
	IsLoaded       bool
	IsPlaying      bool
	PositionMillis int64
	DurationMillis *int64 // nil while the duration is unknown
	DidJustFinish  bool
}

// Sound is a loaded playback resource.
type Sound interface {
	Play() error
	Pause() error
	Stop() error
	SeekTo(millis int64) error
	// Subscribe registers the status callback. Only the last callback is kept.
	Subscribe(fn func(Status))
	Unload() error
}

// Loader acquires a Sound for a source URI.
type Loader interface {
	Load(ctx context.Context, uri string) (Sound, error)
}
