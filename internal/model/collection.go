package model

// CompletedCount returns how many todos are marked completed.
func CompletedCount(todos []Todo) int {
	n := 0
	for _, t := range todos {
		if t.Completed {
			n++
		}
	}
	return n
}

// IndexOf returns the position of id in todos, or -1.
func IndexOf(todos []Todo, id ID) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Prepend returns a new slice with t in front of todos.
func Prepend(todos []Todo, t Todo) []Todo {
	out := make([]Todo, 0, len(todos)+1)
	out = append(out, t)
	return append(out, todos...)
}

// Replace returns a copy of todos where the item with id is swapped for t.
// The order is kept; an unknown id leaves the collection unchanged.
func Replace(todos []Todo, id ID, t Todo) []Todo {
	out := make([]Todo, len(todos))
	copy(out, todos)
	if i := IndexOf(out, id); i >= 0 {
		out[i] = t
	}
	return out
}

// Remove returns a copy of todos without the item with id.
func Remove(todos []Todo, id ID) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// Stats splits todos into done and pending counts.
func Stats(todos []Todo) (done, pending int) {
	done = CompletedCount(todos)
	return done, len(todos) - done
}
