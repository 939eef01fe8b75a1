package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

// TodoService is the backend the Shell drives. *api.Client satisfies it.
type TodoService interface {
	List(ctx context.Context) ([]model.Todo, error)
	Create(ctx context.Context, in model.NewTodo) (model.Todo, error)
	Update(ctx context.Context, id model.ID, patch model.TodoPatch) (model.Todo, error)
	Delete(ctx context.Context, id model.ID) error
	Toggle(ctx context.Context, id model.ID) (model.Todo, error)
}

// todosLoadedMsg carries the load's own context so stale results can be
// recognised after a reload or quit.
type todosLoadedMsg struct {
	ctx   context.Context
	todos []model.Todo
	err   error
}

// todoSavedMsg carries the seq of the dialog that submitted it.
type todoSavedMsg struct {
	seq     int
	id      model.ID
	editing bool
	todo    model.Todo
	err     error
}

type todoToggledMsg struct {
	id   model.ID
	todo model.Todo
	err  error
}

type todoDeletedMsg struct {
	id  model.ID
	err error
}

type prefsSavedMsg struct{ err error }

type copiedMsg struct {
	title string
	err   error
}

func loadTodosCmd(ctx context.Context, svc TodoService) tea.Cmd {
	return func() tea.Msg {
		todos, err := svc.List(ctx)
		return todosLoadedMsg{ctx: ctx, todos: todos, err: err}
	}
}

func createTodoCmd(ctx context.Context, svc TodoService, seq int, fields model.Fields) tea.Cmd {
	return func() tea.Msg {
		t, err := svc.Create(ctx, fields.Create())
		return todoSavedMsg{seq: seq, todo: t, err: err}
	}
}

func updateTodoCmd(ctx context.Context, svc TodoService, seq int, id model.ID, fields model.Fields) tea.Cmd {
	return func() tea.Msg {
		t, err := svc.Update(ctx, id, fields.Patch())
		return todoSavedMsg{seq: seq, id: id, editing: true, todo: t, err: err}
	}
}

func toggleTodoCmd(ctx context.Context, svc TodoService, id model.ID) tea.Cmd {
	return func() tea.Msg {
		t, err := svc.Toggle(ctx, id)
		return todoToggledMsg{id: id, todo: t, err: err}
	}
}

func deleteTodoCmd(ctx context.Context, svc TodoService, id model.ID) tea.Cmd {
	return func() tea.Msg {
		return todoDeletedMsg{id: id, err: svc.Delete(ctx, id)}
	}
}

func savePrefsCmd(store *jsonstore.Store, prefs jsonstore.Prefs) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return prefsSavedMsg{err: store.Save(prefs)}
	}
}

func copyTitleCmd(write func(string) error, title string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{title: title, err: write(title)}
	}
}
