package tui

import "github.com/Makepad-fr/tada/internal/model"

// busySet holds ids with a toggle or delete in flight. Only Update touches it.
type busySet map[model.ID]struct{}

func (b busySet) has(id model.ID) bool {
	_, ok := b[id]
	return ok
}

func (b busySet) add(id model.ID) { b[id] = struct{}{} }

func (b busySet) remove(id model.ID) { delete(b, id) }
