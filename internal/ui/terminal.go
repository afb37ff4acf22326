package ui

import (
	"context"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"transcript-player/internal/player"
	"transcript-player/internal/transcript"
)

// Terminal is the full screen chat view of a mounted session.
type Terminal struct {
	session *player.Session
	sides   transcript.SideMap
	visible int
	title   string

	app      *tview.Application
	header   *tview.TextView
	body     *tview.TextView
	progress *tview.TextView
	status   *tview.TextView
}

func NewTerminal(s *player.Session, sides transcript.SideMap, visible int, title string) *Terminal {
	t := &Terminal{
		session: s,
		sides:   sides,
		visible: visible,
		title:   title,
		app:     tview.NewApplication(),
	}

	t.header = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	t.body = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true)
	t.body.SetBorder(true)
	t.progress = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	t.status = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	flex := tview.NewFlex().SetDirection(tview.FlexRow)
	flex.AddItem(t.header, 1, 0, false)
	flex.AddItem(t.body, 0, 1, false)
	flex.AddItem(t.progress, 1, 0, false)
	flex.AddItem(t.status, 1, 0, false)

	t.app.SetRoot(flex, true)
	t.app.SetInputCapture(t.handleKey)
	return t
}

// Run draws every state change until the user quits or ctx is cancelled.
func (t *Terminal) Run(ctx context.Context) error {
	updates, cancel := t.session.Subscribe()
	defer cancel()

	go func() {
		for {
			select {
			case <-ctx.Done():
				t.app.Stop()
				return
			case _, ok := <-updates:
				if !ok {
					return
				}
				// read the latest state rather than the snapshot, which may already be stale
				t.app.QueueUpdateDraw(func() { t.draw(t.session.View()) })
			}
		}
	}()

	t.draw(t.session.View())
	return t.app.Run()
}

func (t *Terminal) draw(v player.View) {
	title := t.title
	if title == "" {
		title = t.session.URI()
	}
	t.header.SetText("[::b]" + tview.Escape(title) + "[::-]")
	t.body.SetText(RenderTranscript(t.session.Transcript().Entries(), v.ActiveIndex, t.sides, t.visible))
	t.progress.SetText(RenderProgress(v, 40))
	t.status.SetText(RenderStatus(v))
}

func (t *Terminal) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEsc:
		t.app.Stop()
		return nil
	case tcell.KeyRight:
		t.step(t.session.StepForward)
		return nil
	case tcell.KeyLeft:
		t.step(t.session.StepBackward)
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case ' ':
			if err := t.session.Toggle(); err != nil {
				t.flash(err)
			}
			return nil
		case 'f':
			t.step(t.session.StepForward)
			return nil
		case 'b':
			t.step(t.session.StepBackward)
			return nil
		case 'q':
			t.app.Stop()
			return nil
		}
	}
	return event
}

func (t *Terminal) step(op func() (bool, error)) {
	if _, err := op(); err != nil {
		t.flash(err)
	}
}

// flash shows err in the status line until the next redraw.
func (t *Terminal) flash(err error) {
	log.Printf("⚠️ %v", err)
	t.status.SetText("[red]" + tview.Escape(err.Error()) + "[-]")
}
