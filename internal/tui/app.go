// Package tui is the interactive todo client: a Bubble Tea program that keeps
// a local copy of the backend collection in step with user actions.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Banner fallbacks when an error carries no message.
const (
	msgLoadFailed   = "Failed to load todos"
	msgSaveFailed   = "Operation failed"
	msgUpdateFailed = "Failed to update"
	msgDeleteFailed = "Failed to delete"
)

const previewLines = 5

type Options struct {
	Context   context.Context
	Service   TodoService
	Logger    *log.Logger
	Prefs     *jsonstore.Store
	Theme     string
	BaseURL   string
	Clipboard func(string) error
}

// Model is the application shell. It owns the collection and is the only
// place it changes.
type Model struct {
	ctx     context.Context
	svc     TodoService
	log     *log.Logger
	prefs   *jsonstore.Store
	copy    func(string) error
	baseURL string

	theme   ui.Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	list    list.Model
	form    entryForm
	dialog  dialog

	todos      []model.Todo
	completed  int
	loading    bool
	err        string
	status     string
	busy       busySet
	editing    *model.Todo
	submitting int // seq of the dialog with a save in flight, 0 for none

	savingPrefs bool
	prefsDirty  bool

	loadCtx    context.Context
	cancelLoad context.CancelFunc

	width, height int
}

func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	theme := ui.ByName(opts.Theme)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = theme.Accent

	loadCtx, cancel := context.WithCancel(ctx)
	return Model{
		ctx:        ctx,
		svc:        opts.Service,
		log:        logger,
		prefs:      opts.Prefs,
		copy:       copyFn,
		baseURL:    opts.BaseURL,
		theme:      theme,
		keys:       defaultKeys(),
		help:       help.New(),
		spinner:    sp,
		list:       newList(theme),
		form:       newEntryForm(),
		loading:    true,
		busy:       busySet{},
		loadCtx:    loadCtx,
		cancelLoad: cancel,
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	opts.Context = ctx
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.cancelLoad()
	}
	m.cancelLoad()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadTodosCmd(m.loadCtx, m.svc))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case todosLoadedMsg:
		m.onLoaded(msg)
		return m, nil

	case todoSavedMsg:
		m.onSaved(msg)
		return m, nil

	case todoToggledMsg:
		m.busy.remove(msg.id)
		if msg.err != nil {
			m.fail(msg.err, msgUpdateFailed)
		} else {
			m.setTodos(model.Replace(m.todos, msg.id, msg.todo))
		}
		m.syncList()
		return m, nil

	case todoDeletedMsg:
		m.busy.remove(msg.id)
		if msg.err != nil {
			m.fail(msg.err, msgDeleteFailed)
		} else {
			m.setTodos(model.Remove(m.todos, msg.id))
		}
		m.syncList()
		return m, nil

	case prefsSavedMsg:
		m.savingPrefs = false
		if msg.err != nil {
			m.log.Warn("saving preferences", "err", msg.err)
		}
		if m.prefsDirty {
			m.prefsDirty = false
			return m, m.savePrefs()
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.log.Warn("clipboard", "err", msg.err)
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Copied %q", msg.title)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.dialog.open {
			return m.updateDialog(msg)
		}
		return m.updateMain(msg)

	case tea.MouseMsg:
		if m.dialog.open {
			return m.updateDialog(msg)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.dialog.open {
		m.form, cmd, _ = m.form.update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancelLoad()
	return m, tea.Quit
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Add):
		return m, m.openDialog(nil)
	case key.Matches(msg, m.keys.Edit):
		if id, ok := m.selectedID(); ok {
			return m, m.openEdit(id)
		}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.selectedID(); ok {
			return m, m.toggle(id)
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.selectedID(); ok {
			return m, m.remove(id)
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	case key.Matches(msg, m.keys.Theme):
		return m, m.toggleTheme()
	case key.Matches(msg, m.keys.Copy):
		if r, ok := m.list.SelectedItem().(row); ok {
			return m, copyTitleCmd(m.copy, r.todo.Title)
		}
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateDialog(msg tea.Msg) (tea.Model, tea.Cmd) {
	box := m.dialogBox()
	switch m.dialog.handle(msg, placement(box, m.width, m.height)) {
	case dialogClose:
		m.closeDialog()
		return m, nil
	case dialogFocus:
		return m, m.form.setFocus(m.dialog.focus)
	}
	if _, ok := msg.(tea.MouseMsg); ok {
		return m, nil
	}

	var (
		cmd     tea.Cmd
		outcome formOutcome
	)
	m.form, cmd, outcome = m.form.update(msg)
	switch outcome {
	case formSubmit:
		return m, m.submit()
	case formCancel:
		m.closeDialog()
		return m, nil
	}
	return m, cmd
}

func (m *Model) onLoaded(msg todosLoadedMsg) {
	if msg.ctx != m.loadCtx || msg.ctx.Err() != nil {
		m.log.Debug("discarding stale load")
		return
	}
	if msg.err != nil {
		m.fail(msg.err, msgLoadFailed)
	} else {
		m.setTodos(msg.todos)
		m.err = ""
		m.log.Debug("todos loaded", "count", len(msg.todos))
	}
	m.loading = false
}

// onSaved applies a create or update result. Only the dialog that submitted
// it is closed; one opened since then keeps its input.
func (m *Model) onSaved(msg todoSavedMsg) {
	current := m.dialog.open && msg.seq == m.dialog.seq
	if msg.seq == m.submitting {
		m.submitting = 0
	}
	if msg.err != nil {
		m.fail(msg.err, msgSaveFailed)
		return
	}
	if msg.editing {
		m.setTodos(model.Replace(m.todos, msg.id, msg.todo))
	} else {
		m.setTodos(model.Prepend(m.todos, msg.todo))
	}
	if current {
		m.closeDialog()
	}
}

// fail replaces the banner. There is only ever one.
func (m *Model) fail(err error, fallback string) {
	offline := api.IsNetworkError(err)
	m.err = api.Message(err, fallback)
	if offline && m.baseURL != "" {
		m.err = "Cannot reach " + m.baseURL + ": " + m.err
	}
	m.log.Error(fallback, "err", err, "status", api.StatusOf(err), "network", offline)
}

func (m *Model) reload() tea.Cmd {
	m.cancelLoad()
	m.loadCtx, m.cancelLoad = context.WithCancel(m.ctx)
	m.loading = true
	return tea.Batch(m.spinner.Tick, loadTodosCmd(m.loadCtx, m.svc))
}

func (m *Model) toggle(id model.ID) tea.Cmd {
	if m.busy.has(id) {
		return nil
	}
	m.busy.add(id)
	m.syncList()
	return toggleTodoCmd(m.ctx, m.svc, id)
}

func (m *Model) remove(id model.ID) tea.Cmd {
	if m.busy.has(id) {
		return nil
	}
	m.busy.add(id)
	m.syncList()
	return deleteTodoCmd(m.ctx, m.svc, id)
}

func (m *Model) openEdit(id model.ID) tea.Cmd {
	if m.busy.has(id) {
		return nil
	}
	i := model.IndexOf(m.todos, id)
	if i < 0 {
		return nil
	}
	target := m.todos[i]
	return m.openDialog(&target)
}

func (m *Model) openDialog(target *model.Todo) tea.Cmd {
	title := "Add Task"
	if target != nil {
		title = "Edit Task"
	}
	sel, ok := m.selectedID()
	m.editing = target
	m.dialog.show(title, formSlots, sel, ok)
	m.layout()
	return m.form.reset(target)
}

func (m *Model) closeDialog() {
	id, ok := m.dialog.hide()
	m.editing = nil
	m.submitting = 0
	m.form.setFocus(-1)
	if ok {
		m.selectID(id)
	}
}

func (m *Model) submit() tea.Cmd {
	if m.submitting == m.dialog.seq {
		return nil
	}
	fields, ok := m.form.validate()
	if !ok {
		return nil
	}
	m.err = ""
	m.submitting = m.dialog.seq
	if m.editing != nil {
		return updateTodoCmd(m.ctx, m.svc, m.dialog.seq, m.editing.ID, fields)
	}
	return createTodoCmd(m.ctx, m.svc, m.dialog.seq, fields)
}

func (m *Model) toggleTheme() tea.Cmd {
	m.theme = ui.ByName(ui.Other(m.theme.Name))
	m.list.SetDelegate(itemDelegate{theme: m.theme})
	m.list.Styles.PaginationStyle = m.theme.Help
	m.spinner.Style = m.theme.Accent
	return m.savePrefs()
}

// savePrefs keeps at most one write in flight. A change made meanwhile is
// written once that write finishes, so the last theme chosen is the one saved.
func (m *Model) savePrefs() tea.Cmd {
	if m.prefs == nil {
		return nil
	}
	if m.savingPrefs {
		m.prefsDirty = true
		return nil
	}
	m.savingPrefs = true
	return savePrefsCmd(m.prefs, jsonstore.Prefs{Theme: m.theme.Name})
}

func (m *Model) setTodos(todos []model.Todo) {
	m.todos = todos
	m.completed = model.CompletedCount(todos)
	m.syncList()
}

// syncList rebuilds rows and keeps the selection on the same id.
func (m *Model) syncList() {
	sel, ok := m.selectedID()
	m.list.SetItems(rows(m.todos, m.busy))
	if ok {
		m.selectID(sel)
	}
}

func (m Model) selectedID() (model.ID, bool) {
	r, ok := m.list.SelectedItem().(row)
	if !ok {
		return "", false
	}
	return r.todo.ID, true
}

func (m *Model) selectID(id model.ID) {
	if i := model.IndexOf(m.todos, id); i >= 0 {
		m.list.Select(i)
	}
}

func (m *Model) layout() {
	m.help.Width = m.width
	h := m.height - 8 - previewLines
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width, h)

	fw := m.width - 10
	if fw > 56 {
		fw = 56
	}
	m.form.setWidth(fw)
}

func (m Model) View() string {
	if m.dialog.open {
		box := m.dialogBox()
		return overlay(box, placement(box, m.width, m.height), m.width, m.height, m.theme)
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	if m.err != "" {
		b.WriteString(m.theme.Banner.Render(m.err))
		b.WriteString("\n\n")
	}

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading tasks...")
	case len(m.todos) == 0:
		b.WriteString(emptyView(m.theme, m.width))
	default:
		b.WriteString(m.list.View())
		if p := m.previewView(); p != "" {
			b.WriteString("\n")
			b.WriteString(p)
		}
	}

	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(m.theme.Muted.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) headerView() string {
	brand := m.theme.Header.Render("✔ Tada")
	stats := fmt.Sprintf("%s %d  %s %d",
		m.theme.Accent.Render("Total"), len(m.todos),
		m.theme.Success.Render("Completed"), m.completed,
	)
	mode := "Dark mode"
	if m.theme.Name == ui.ThemeDark {
		mode = "Light mode"
	}
	toggle := m.theme.Muted.Render("t " + mode)

	left := brand + "   " + stats
	if m.baseURL != "" {
		left += "   " + m.theme.Muted.Render(m.baseURL)
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(toggle)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + toggle
}

func (m Model) previewView() string {
	r, ok := m.list.SelectedItem().(row)
	if !ok {
		return ""
	}
	out := renderMarkdown(r.todo.Description, m.theme.Markdown, m.width-4)
	if out == "" {
		return ""
	}
	lines := strings.Split(out, "\n")
	if len(lines) > previewLines {
		lines = append(lines[:previewLines-1], m.theme.Muted.Render("  …"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) dialogBox() string {
	var body strings.Builder
	if m.err != "" {
		body.WriteString(m.theme.Banner.Render(m.err))
		body.WriteString("\n\n")
	}
	body.WriteString(m.form.view(m.theme))
	return m.dialog.box(body.String(), m.theme)
}
