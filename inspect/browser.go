package inspect

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-a11y/a11y"
	"github.com/odvcencio/furry-a11y/agent"
	"github.com/odvcencio/furry-a11y/dispatch"
	"github.com/odvcencio/furry-a11y/logging"
)

// Screen is the part of tcell.Screen the browser draws on.
type Screen interface {
	Size() (width, height int)
	Clear()
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
}

var (
	rowStyle      = tcell.StyleDefault
	selectedStyle = tcell.StyleDefault.Reverse(true)
	statusStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Browser is an interactive outline of the accessibility tree. Keys move
// the selection and perform actions on the selected node.
type Browser struct {
	screen Screen
	agent  *agent.Agent
	view   Viewport
	rows   []Row
	status string
}

// NewBrowser creates a browser and takes the first snapshot.
func NewBrowser(screen Screen, agt *agent.Agent) *Browser {
	b := &Browser{screen: screen, agent: agt}
	b.Refresh()
	return b
}

// Rows returns the outline rows of the last snapshot.
func (b *Browser) Rows() []Row {
	return b.rows
}

// Selected returns the selected node.
func (b *Browser) Selected() (agent.NodeInfo, bool) {
	i := b.view.Selected()
	if i < 0 || i >= len(b.rows) {
		return agent.NodeInfo{}, false
	}
	return b.rows[i].Node, true
}

// Status returns the status line text.
func (b *Browser) Status() string {
	return b.status
}

// Refresh takes a new snapshot and keeps the selection on the same node
// when it still exists.
func (b *Browser) Refresh() {
	prev, hadPrev := b.Selected()
	b.rows = Flatten(b.agent.Snapshot())
	b.view.SetRows(len(b.rows))
	if hadPrev {
		for i, r := range b.rows {
			if r.Node.ID == prev.ID {
				b.view.Select(i)
				break
			}
		}
	}
}

// HandleKey applies one key press and reports whether the browser should
// quit.
func (b *Browser) HandleKey(key tcell.Key, ch rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		b.view.MoveBy(-1)
	case tcell.KeyDown:
		b.view.MoveBy(1)
	case tcell.KeyPgUp:
		b.view.PageBy(-1)
	case tcell.KeyPgDn:
		b.view.PageBy(1)
	case tcell.KeyHome:
		b.view.Select(0)
	case tcell.KeyEnd:
		b.view.Select(len(b.rows) - 1)
	case tcell.KeyEnter:
		b.perform(a11y.ActionClick)
	case tcell.KeyRune:
		switch ch {
		case 'q':
			return true
		case 'k':
			b.view.MoveBy(-1)
		case 'j':
			b.view.MoveBy(1)
		case 'f':
			b.perform(a11y.ActionAccessibilityFocus)
		case 'F':
			b.perform(a11y.ActionClearAccessibilityFocus)
		case 'l':
			b.perform(a11y.ActionLongClick)
		case 'r':
			b.Refresh()
			b.status = "refreshed"
		}
	}
	return false
}

func (b *Browser) perform(action a11y.Action) {
	node, ok := b.Selected()
	if !ok {
		return
	}
	if err := b.agent.Perform(node.ID, action, nil); err != nil {
		b.status = fmt.Sprintf("%s on [%d]: %v", action, node.ID, err)
	} else {
		b.status = fmt.Sprintf("%s on [%d]", action, node.ID)
	}
	b.Refresh()
}

// Draw renders the outline and the status line.
func (b *Browser) Draw() {
	if b.screen == nil {
		return
	}
	width, height := b.screen.Size()
	b.screen.Clear()
	b.view.SetHeight(height - 1)

	start, end := b.view.Visible()
	for i := start; i < end; i++ {
		style := rowStyle
		if i == b.view.Selected() {
			style = selectedStyle
		}
		drawString(b.screen, 0, i-start, b.rows[i].Format(width), style)
	}
	if height > 0 {
		drawString(b.screen, 0, height-1, truncate(b.status, width), statusStyle)
	}
	b.screen.Show()
}

// Run draws the browser and serves screen events on loop until the user
// quits or ctx ends. Engine events scheduled on the same loop interleave
// with key handling.
func (b *Browser) Run(ctx context.Context, screen tcell.Screen, loop *dispatch.Loop) error {
	logger := logging.FromContext(ctx)
	logger.Debug("browser started", "rows", len(b.Rows()))
	loop.Post(b.Draw)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if !loop.Post(func() { b.handleEvent(ev, loop) }) {
				return
			}
		}
	}()
	err := loop.Run(ctx)
	logger.Debug("browser stopped", "err", err)
	return err
}

func (b *Browser) handleEvent(ev tcell.Event, loop *dispatch.Loop) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if b.HandleKey(ev.Key(), ev.Rune()) {
			loop.Close()
			return
		}
		// Redraw after the engine events the key may have scheduled.
		loop.Post(func() {
			b.Refresh()
			b.Draw()
		})
	case *tcell.EventResize:
		if s, ok := b.screen.(tcell.Screen); ok {
			s.Sync()
		}
		b.Draw()
	}
}

func drawString(s Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
