package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is the server-assigned identifier of a todo. Backends hand out either
// strings or integers; both are kept in their textual form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Todo is the domain model for a todo entry, as the backend represents it.
type Todo struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

// NewTodo is the create payload. Completed is always sent.
type NewTodo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

// TodoPatch is the update payload; nil fields are left untouched by the server.
type TodoPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Fields is what the entry form produces: a trimmed title and description.
type Fields struct {
	Title       string
	Description string
}

// Normalize trims both fields.
func (f Fields) Normalize() Fields {
	return Fields{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
	}
}

// Create builds the create payload for f.
func (f Fields) Create() NewTodo {
	return NewTodo{Title: f.Title, Description: f.Description, Completed: false}
}

// Patch builds an update payload carrying both fields, so a cleared
// description is sent as "".
func (f Fields) Patch() TodoPatch {
	title, desc := f.Title, f.Description
	return TodoPatch{Title: &title, Description: &desc}
}
