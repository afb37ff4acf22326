package playback

import (
	"errors"
	"testing"

	"transcript-player/internal/transcript"
)

func newNavigator(t *testing.T) (*Navigator, *Tracker, *fakeSound) {
	t.Helper()
	tracker, sound := newLoadedTracker(t)
	return NewNavigator(tracker.transcript, tracker), tracker, sound
}

func currentText(tracker *Tracker) string {
	if e := tracker.State().CurrentEntry; e != nil {
		return e.Text
	}
	return ""
}

func TestStepForwardScenario(t *testing.T) {
	nav, tracker, sound := newNavigator(t)
	sound.emit(loaded(2000)) // Jack@1.5s

	moved, err := nav.StepForward()
	if err != nil || !moved {
		t.Fatalf("StepForward = %v, %v", moved, err)
	}
	if len(sound.seeks) != 1 || sound.seeks[0] != 3500 {
		t.Errorf("seeks = %v, want [3500]", sound.seeks)
	}
	if got := currentText(tracker); got != "now the second phrase." {
		t.Errorf("current entry = %q, want John@3.5s", got)
	}
}

func TestStepRoundTrip(t *testing.T) {
	tr := transcript.Build(transcript.DefaultDataset())

	// every non-boundary entry
	for i := 1; i < tr.Len()-1; i++ {
		nav, tracker, sound := newNavigator(t)
		e, _ := tr.At(i)
		sound.emit(loaded(e.StartMillis))

		if _, err := nav.StepForward(); err != nil {
			t.Fatal(err)
		}
		if _, err := nav.StepBackward(); err != nil {
			t.Fatal(err)
		}
		if got := tracker.State().CurrentEntry; got == nil || got.ID != e.ID {
			t.Errorf("round trip from %d ended at %+v", i, got)
		}
	}
}

func TestStepBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		position int64
		forward  bool
	}{
		{"Forward at last entry", 9000, true},
		{"Backward at first entry", 100, false},
		{"Forward before first entry", 0, true},
		{"Backward before first entry", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav, tracker, sound := newNavigator(t)
			sound.emit(loaded(tt.position))
			before := tracker.State()

			var moved bool
			var err error
			if tt.forward {
				moved, err = nav.StepForward()
			} else {
				moved, err = nav.StepBackward()
			}

			if err != nil || moved {
				t.Errorf("expected no-op, got moved=%v err=%v", moved, err)
			}
			if len(sound.seeks) != 0 {
				t.Errorf("unexpected seeks %v", sound.seeks)
			}
			after := tracker.State()
			if after.PositionSeconds != before.PositionSeconds || currentText(tracker) != textOf(before.CurrentEntry) {
				t.Errorf("state changed: before %+v after %+v", before, after)
			}
		})
	}
}

func textOf(e *transcript.Entry) string {
	if e == nil {
		return ""
	}
	return e.Text
}

func TestStepSeekError(t *testing.T) {
	nav, tracker, sound := newNavigator(t)
	sound.emit(loaded(2000))
	sound.seekErr = errors.New("device gone")

	moved, err := nav.StepForward()
	if err == nil || moved {
		t.Fatalf("expected seek error, got moved=%v err=%v", moved, err)
	}
	if got := currentText(tracker); got != "another speaker here." {
		t.Errorf("current entry changed on failed seek: %q", got)
	}
}

func TestStepAfterRelease(t *testing.T) {
	nav, tracker, sound := newNavigator(t)
	sound.emit(loaded(2000))
	tracker.Release()

	if _, err := nav.StepForward(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("StepForward after release = %v, want ErrNotLoaded", err)
	}
}
