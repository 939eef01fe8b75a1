package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const (
	emptyTitle = "No tasks yet"
	emptyHint  = "Press a to create your first task."
)

// row adapts a todo to list.Item.
type row struct {
	todo model.Todo
	busy bool
}

func (r row) FilterValue() string { return r.todo.Title }

// preview is the first non-blank description line.
func (r row) preview() string {
	for _, ln := range strings.Split(r.todo.Description, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			return ln
		}
	}
	return ""
}

// itemDelegate renders a checkbox line and a one-line description preview.
type itemDelegate struct {
	theme ui.Theme
}

func (d itemDelegate) Height() int                         { return 2 }
func (d itemDelegate) Spacing() int                        { return 1 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(row)
	if !ok {
		return
	}
	t := d.theme
	width := m.Width()

	box := t.Muted.Render(t.BoxUnchecked)
	title := r.todo.Title
	if r.todo.Completed {
		box = t.Success.Render(t.BoxChecked)
		title = t.Done.Render(title)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(">") + " "
	}
	line := fmt.Sprintf("%s%s %s", prefix, box, title)
	if r.busy {
		line += " " + t.Pending.Render("…")
	}

	desc := "    " + t.Muted.Render(r.preview())
	if width > 0 {
		line = ansi.Truncate(line, width, "…")
		desc = ansi.Truncate(desc, width, "…")
	}
	fmt.Fprint(w, line+"\n"+desc)
}

func newList(t ui.Theme) list.Model {
	l := list.New(nil, itemDelegate{theme: t}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.Styles.PaginationStyle = t.Help
	l.DisableQuitKeybindings()
	return l
}

func rows(todos []model.Todo, busy busySet) []list.Item {
	items := make([]list.Item, 0, len(todos))
	for _, td := range todos {
		items = append(items, row{todo: td, busy: busy.has(td.ID)})
	}
	return items
}

func emptyView(t ui.Theme, width int) string {
	block := lipgloss.JoinVertical(lipgloss.Center,
		t.Title.Render(emptyTitle),
		t.Muted.Render(emptyHint),
	)
	if width <= 0 {
		return block
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}
