package ui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rivo/tview"
	"github.com/schollz/progressbar/v3"

	"transcript-player/internal/player"
	"transcript-player/internal/transcript"
)

const (
	progressSteps = 1000
	rightIndent   = "                        "
)

// window returns the half-open range of entries to show so that active stays visible.
// With no active entry the window starts at the top.
func window(active, total, visible int) (int, int) {
	if visible <= 0 || visible >= total {
		return 0, total
	}
	if active < 0 {
		return 0, visible
	}
	from := active - visible/2
	if from < 0 {
		from = 0
	}
	if from+visible > total {
		from = total - visible
	}
	return from, from + visible
}

// RenderTranscript draws the visible entries as chat bubbles in tview color tag markup.
func RenderTranscript(entries []transcript.Entry, active int, sides transcript.SideMap, visible int) string {
	if len(entries) == 0 {
		return "[gray]No transcript[-]"
	}

	from, to := window(active, len(entries), visible)
	var b strings.Builder
	for _, e := range entries[from:to] {
		indent := ""
		if sides.SideOf(e.Speaker) == transcript.SideRight {
			indent = rightIndent
		}

		fmt.Fprintf(&b, "%s[::b]%s[::-] [gray]%s[-]\n", indent, tview.Escape(e.Speaker), transcript.FormatTime(e.Start))
		if e.Index == active {
			fmt.Fprintf(&b, "%s[black:yellow] %s [-:-]\n\n", indent, tview.Escape(e.Text))
		} else {
			fmt.Fprintf(&b, "%s %s\n\n", indent, tview.Escape(e.Text))
		}
	}
	return b.String()
}

// RenderProgress draws the progress line: a bar followed by position and duration.
func RenderProgress(v player.View, width int) string {
	times := fmt.Sprintf("%s / %s", v.Position, v.Duration)

	var buf bytes.Buffer
	bar := progressbar.NewOptions64(
		progressSteps,
		progressbar.OptionSetWriter(&buf),
		progressbar.OptionSetWidth(width),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	)
	_ = bar.Set64(int64(v.Progress * progressSteps))

	rendered := lastFrame(buf.String())
	if rendered == "" {
		rendered = fmt.Sprintf("%3d%%", int(v.Progress*100))
	}
	return tview.Escape(rendered) + "  " + times
}

// lastFrame extracts the most recent carriage-return separated render.
func lastFrame(out string) string {
	frames := strings.Split(out, "\r")
	for i := len(frames) - 1; i >= 0; i-- {
		if f := strings.TrimSpace(frames[i]); f != "" {
			return f
		}
	}
	return ""
}

// RenderStatus is the one line help and state summary.
func RenderStatus(v player.View) string {
	state := "paused"
	switch {
	case v.IsLoading:
		state = "loading"
	case v.IsPlaying:
		state = "playing"
	}
	return fmt.Sprintf("[yellow]%s[-]  space play/pause  b/f phrase  q quit", state)
}
