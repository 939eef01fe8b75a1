package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const errTitleRequired = "Title is required"

// Focus slots of the entry form, in Tab order.
const (
	slotTitle = iota
	slotDescription
	slotCancel
	slotSubmit
	formSlots
)

type formOutcome int

const (
	formNone formOutcome = iota
	formSubmit
	formCancel
)

// entryForm captures title and description for create and edit.
type entryForm struct {
	title    textinput.Model
	desc     textarea.Model
	focus    int
	fieldErr string
	editing  bool
}

func newEntryForm() entryForm {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 0

	ta := textarea.New()
	ta.Placeholder = "Optional details (Markdown)"
	ta.ShowLineNumbers = false
	// Prefilled values must round-trip unchanged, so neither length nor
	// line count is capped.
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(4)

	return entryForm{title: ti, desc: ta}
}

// reset pre-fills from target (nil for a new todo), clears the field error
// and focuses the title.
func (f *entryForm) reset(target *model.Todo) tea.Cmd {
	f.editing = target != nil
	f.fieldErr = ""
	f.title.Reset()
	f.desc.Reset()
	if target != nil {
		f.title.SetValue(target.Title)
		f.title.CursorEnd()
		f.desc.SetValue(target.Description)
	}
	return f.setFocus(slotTitle)
}

func (f *entryForm) setWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.title.Width = w - lipgloss.Width(f.title.Prompt) - 1
	f.desc.SetWidth(w)
}

func (f *entryForm) setFocus(slot int) tea.Cmd {
	f.focus = slot
	f.title.Blur()
	f.desc.Blur()
	switch slot {
	case slotTitle:
		return f.title.Focus()
	case slotDescription:
		return f.desc.Focus()
	}
	return nil
}

func (f entryForm) submitLabel() string {
	if f.editing {
		return "Update"
	}
	return "Add Task"
}

// validate returns the trimmed fields, or false with the field error set.
func (f *entryForm) validate() (model.Fields, bool) {
	fields := model.Fields{Title: f.title.Value(), Description: f.desc.Value()}.Normalize()
	if fields.Title == "" {
		f.fieldErr = errTitleRequired
		return model.Fields{}, false
	}
	f.fieldErr = ""
	return fields, true
}

// update handles keys for the focused slot. Tab order is owned by the dialog.
func (f entryForm) update(msg tea.Msg) (entryForm, tea.Cmd, formOutcome) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+s":
			return f, nil, formSubmit
		case "enter":
			switch f.focus {
			case slotTitle, slotSubmit:
				return f, nil, formSubmit
			case slotCancel:
				return f, nil, formCancel
			}
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case slotTitle:
		f.title, cmd = f.title.Update(msg)
		if f.fieldErr != "" && strings.TrimSpace(f.title.Value()) != "" {
			f.fieldErr = ""
		}
	case slotDescription:
		f.desc, cmd = f.desc.Update(msg)
	}
	return f, cmd, formNone
}

func (f entryForm) view(t ui.Theme) string {
	var b strings.Builder
	label := func(s string, slot int) string {
		if f.focus == slot {
			return t.Accent.Render(s)
		}
		return t.Muted.Render(s)
	}

	b.WriteString(label("Title", slotTitle))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n")
	if f.fieldErr != "" {
		b.WriteString(t.Error.Render(f.fieldErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(label("Description", slotDescription))
	b.WriteString("\n")
	b.WriteString(f.desc.View())
	b.WriteString("\n\n")

	button := func(s string, slot int) string {
		s = "[ " + s + " ]"
		if f.focus == slot {
			return t.Selected.Render(s)
		}
		return t.Muted.Render(s)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		button("Cancel", slotCancel), "  ", button(f.submitLabel(), slotSubmit)))
	return b.String()
}
