package audio

import (
	"fmt"
	"log"
	"os/exec"
	"sync"
)

// Output renders audio for the engine. Start begins at the given position;
// Stop halts rendering and is safe to call when nothing is playing.
type Output interface {
	Start(positionMillis int64) error
	Stop() error
}

// EndNotifier is implemented by outputs that know when the media ran out.
type EndNotifier interface {
	NotifyEnd(fn func())
}

type silentOutput struct{}

func (silentOutput) Start(int64) error { return nil }
func (silentOutput) Stop() error       { return nil }

// FFplayOutput plays the file through an ffplay child process,
// restarted at the new offset on every seek.
type FFplayOutput struct {
	path     string
	logLevel string

	mu    sync.Mutex
	cmd   *exec.Cmd
	onEnd func()
}

// NotifyEnd registers fn for a clean ffplay exit, which -autoexit produces at end of file.
func (o *FFplayOutput) NotifyEnd(fn func()) {
	o.mu.Lock()
	o.onEnd = fn
	o.mu.Unlock()
}

func NewFFplayOutput(path, logLevel string) *FFplayOutput {
	if logLevel == "" {
		logLevel = "error"
	}
	return &FFplayOutput{path: path, logLevel: logLevel}
}

func (o *FFplayOutput) args(positionMillis int64) []string {
	return []string{
		"-nodisp",
		"-autoexit",
		"-loglevel", o.logLevel,
		"-ss", fmt.Sprintf("%.3f", float64(positionMillis)/1000),
		o.path,
	}
}

func (o *FFplayOutput) Start(positionMillis int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cmd != nil {
		o.killLocked()
	}

	// ffplay output is dropped, the terminal belongs to the UI
	cmd := exec.Command("ffplay", o.args(positionMillis)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffplay: %w", err)
	}
	o.cmd = cmd

	go func() {
		if err := cmd.Wait(); err != nil {
			// killed on pause/seek, nothing to report
			return
		}
		o.mu.Lock()
		var onEnd func()
		if o.cmd == cmd {
			o.cmd = nil
			onEnd = o.onEnd
		}
		o.mu.Unlock()

		if onEnd != nil {
			onEnd()
		}
	}()
	return nil
}

func (o *FFplayOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.killLocked()
	return nil
}

func (o *FFplayOutput) killLocked() {
	if o.cmd == nil || o.cmd.Process == nil {
		o.cmd = nil
		return
	}
	if err := o.cmd.Process.Kill(); err != nil {
		log.Printf("⚠️ Failed to stop ffplay: %v", err)
	}
	o.cmd = nil
}

// NewOutput selects an output by name ("none" or "ffplay").
func NewOutput(name, path, logLevel string) Output {
	switch name {
	case "ffplay":
		return NewFFplayOutput(path, logLevel)
	default:
		return silentOutput{}
	}
}
