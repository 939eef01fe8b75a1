package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

type dialogAction int

const (
	dialogIgnored dialogAction = iota
	dialogClose
	dialogFocus
)

// dialog is a modal frame with a Tab focus trap over a fixed number of slots.
// It remembers the list row that was selected when it opened. seq changes on
// every show so results can tell whether their dialog is still the one open.
type dialog struct {
	open  bool
	title string
	slots int
	focus int
	seq   int

	returnTo    model.ID
	hasReturnTo bool
}

func (d *dialog) show(title string, slots int, returnTo model.ID, ok bool) {
	d.open = true
	d.seq++
	d.title = title
	d.slots = slots
	d.focus = 0
	d.returnTo = returnTo
	d.hasReturnTo = ok
}

// hide closes the dialog and hands back the row to restore focus to.
func (d *dialog) hide() (model.ID, bool) {
	id, ok := d.returnTo, d.hasReturnTo
	d.open = false
	d.returnTo = ""
	d.hasReturnTo = false
	return id, ok
}

// handle consumes Esc, Tab, Shift+Tab and backdrop clicks. box is the
// rectangle the dialog currently occupies on screen.
func (d *dialog) handle(msg tea.Msg, box rect) dialogAction {
	if !d.open {
		return dialogIgnored
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return dialogClose
		case "tab":
			if d.slots > 0 {
				d.focus = (d.focus + 1) % d.slots
			}
			return dialogFocus
		case "shift+tab":
			if d.slots > 0 {
				d.focus = (d.focus - 1 + d.slots) % d.slots
			}
			return dialogFocus
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && !box.contains(msg.X, msg.Y) {
			return dialogClose
		}
	}
	return dialogIgnored
}

func dialogFrame(t ui.Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2)
}

// box renders the framed dialog without positioning.
func (d dialog) box(body string, t ui.Theme) string {
	return dialogFrame(t).Render(t.Header.Render(d.title) + "\n\n" + body)
}

type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// placement centres a rendered box in a width x height screen.
func placement(box string, width, height int) rect {
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	x, y := (width-w)/2, (height-h)/2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return rect{x: x, y: y, w: w, h: h}
}

// overlay draws box at r over a dimmed backdrop.
func overlay(box string, r rect, width, height int, t ui.Theme) string {
	if width <= 0 || height <= 0 {
		return box
	}
	fill := t.Backdrop.Render(strings.Repeat("·", width))
	lines := strings.Split(box, "\n")
	out := make([]string, 0, height)
	for y := 0; y < height; y++ {
		i := y - r.y
		if i < 0 || i >= len(lines) {
			out = append(out, fill)
			continue
		}
		left := t.Backdrop.Render(strings.Repeat("·", r.x))
		row := left + lines[i]
		if pad := width - r.x - lipgloss.Width(lines[i]); pad > 0 {
			row += t.Backdrop.Render(strings.Repeat("·", pad))
		}
		out = append(out, row)
	}
	return strings.Join(out, "\n")
}
