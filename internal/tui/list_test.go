package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

func TestRowsCarryBusyFlag(t *testing.T) {
	todos := []model.Todo{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}}
	busy := busySet{}
	busy.add("2")

	items := rows(todos, busy)
	assert.False(t, items[0].(row).busy)
	assert.True(t, items[1].(row).busy)
	assert.Equal(t, "b", items[1].FilterValue())
}

func TestRowPreview(t *testing.T) {
	r := row{todo: model.Todo{Description: "\n\n  first line \nsecond"}}
	assert.Equal(t, "first line", r.preview())
	assert.Equal(t, "", row{}.preview())
}

func TestDelegateRender(t *testing.T) {
	l := newList(ui.Light())
	l.SetItems(rows([]model.Todo{
		{ID: "1", Title: "Done thing", Completed: true, Description: "why"},
		{ID: "2", Title: strings.Repeat("long ", 20)},
	}, busySet{}))
	l.SetSize(30, 10)

	d := itemDelegate{theme: ui.Light()}

	var buf bytes.Buffer
	d.Render(&buf, l, 0, l.Items()[0])
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "> ☑ Done thing", lines[0])
	assert.Equal(t, "    why", lines[1])

	buf.Reset()
	d.Render(&buf, l, 1, l.Items()[1])
	first := strings.Split(buf.String(), "\n")[0]
	assert.True(t, strings.HasPrefix(first, "  ☐ long"))
	assert.Equal(t, 30, ansi.StringWidth(first))
	assert.True(t, strings.HasSuffix(first, "…"))
}

func TestEmptyView(t *testing.T) {
	out := emptyView(ui.Dark(), 0)
	assert.Contains(t, out, "No tasks yet")
	assert.Contains(t, out, "Press a to create your first task.")
}
