package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const maxTitleWidth = 80

func newListCmd(app *App) *cobra.Command {
	var group, asJSON bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.api()
			if err != nil {
				return err
			}
			todos, err := client.List(cmd.Context())
			if err != nil {
				return failure(err, "Failed to load todos")
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, todos)
			}
			fmt.Fprintln(out, ui.Panel(listLines(todos, group)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "Group output by pending/done")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the collection as JSON")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	var desc string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a todo (title can be multiple words)",
		Args:  minArgs(1, "usage: todo add <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := model.Fields{Title: strings.Join(args, " "), Description: desc}.Normalize()
			if fields.Title == "" {
				return usagef("add: empty title")
			}
			client, err := app.api()
			if err != nil {
				return err
			}
			t, err := client.Create(cmd.Context(), fields.Create())
			if err != nil {
				return failure(err, "Operation failed")
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added %q (id %s)", t.Title, t.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&desc, "description", "d", "", "Description (Markdown)")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var (
		byID        bool
		title, desc string
	)
	cmd := &cobra.Command{
		Use:   "edit <ref>",
		Short: "Change the title and/or description of a todo",
		Args:  exactArgs(1, "usage: todo edit <index> [--title T] [--description D]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.TodoPatch
			if cmd.Flags().Changed("title") {
				t := strings.TrimSpace(title)
				if t == "" {
					return usagef("edit: Title is required")
				}
				patch.Title = &t
			}
			if cmd.Flags().Changed("description") {
				d := strings.TrimSpace(desc)
				patch.Description = &d
			}
			if patch.Title == nil && patch.Description == nil {
				return usagef("edit: nothing to change (use --title or --description)")
			}

			client, err := app.api()
			if err != nil {
				return err
			}
			id, err := resolveRef(cmd.Context(), client, args[0], byID)
			if err != nil {
				return err
			}
			t, err := client.Update(cmd.Context(), id, patch)
			if err != nil {
				return failure(err, "Operation failed")
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("updated %q", t.Title))
			return nil
		},
	}
	cmd.Flags().BoolVar(&byID, "id", false, "Treat <ref> as a todo id instead of a list index")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&desc, "description", "d", "", "New description (empty clears it)")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	var byID bool
	cmd := &cobra.Command{
		Use:   "done <ref>",
		Short: "Toggle done for a todo",
		Args:  exactArgs(1, "usage: todo done <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.api()
			if err != nil {
				return err
			}
			id, err := resolveRef(cmd.Context(), client, args[0], byID)
			if err != nil {
				return err
			}
			t, err := client.Toggle(cmd.Context(), id)
			if err != nil {
				return failure(err, "Failed to update")
			}
			state := "pending"
			if t.Completed {
				state = "done"
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("toggled %q (%s)", t.Title, state))
			return nil
		},
	}
	cmd.Flags().BoolVar(&byID, "id", false, "Treat <ref> as a todo id instead of a list index")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	var byID bool
	cmd := &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Remove a todo",
		Args:    exactArgs(1, "usage: todo rm <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.api()
			if err != nil {
				return err
			}
			id, err := resolveRef(cmd.Context(), client, args[0], byID)
			if err != nil {
				return err
			}
			if err := client.Delete(cmd.Context(), id); err != nil {
				return failure(err, "Failed to delete")
			}
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&byID, "id", false, "Treat <ref> as a todo id instead of a list index")
	return cmd
}

// resolveRef turns a 1-based index from `todo ls` into an id. With byID the
// ref is used verbatim.
func resolveRef(ctx context.Context, client *api.Client, ref string, byID bool) (model.ID, error) {
	ref = strings.TrimSpace(ref)
	if byID {
		if ref == "" {
			return "", usagef("empty id")
		}
		return model.ID(ref), nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return "", usageError{msg: "not a number: " + ref, hint: "Hint: pass --id to use a raw todo id"}
	}
	todos, err := client.List(ctx)
	if err != nil {
		return "", failure(err, "Failed to load todos")
	}
	if n < 1 || n > len(todos) {
		return "", usageError{
			msg:  fmt.Sprintf("index out of range: have %d, got %d", len(todos), n),
			hint: "Hint: run `todo ls` to see valid indexes",
		}
	}
	return todos[n-1].ID, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// -------------- rendering helpers --------------

func listLines(todos []model.Todo, group bool) []string {
	t := ui.Current()
	done, pending := model.Stats(todos)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render("✔"), done,
		t.Pending.Render("•"), pending,
		t.Accent.Render("Total"), len(todos),
	)

	lines := []string{header, t.Muted.Render(ui.ProgressBar(done, len(todos), 28)), ""}
	if group {
		lines = append(lines, groupLines(todos)...)
	} else {
		lines = append(lines, flatLines(todos, 1)...)
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	return lines
}

// flatLines numbers rows from start so grouped output keeps list indexes.
func flatLines(todos []model.Todo, start int) []string {
	t := ui.Current()
	if len(todos) == 0 {
		return []string{t.Muted.Render("No tasks yet")}
	}
	out := make([]string, 0, len(todos))
	for i, td := range todos {
		idx := t.Muted.Render(fmt.Sprintf("%2d.", start+i))
		box := t.Muted.Render(t.BoxUnchecked)
		if td.Completed {
			box = t.Success.Render(t.BoxChecked)
		}
		out = append(out, fmt.Sprintf("%s %s %s", idx, box, ansi.Truncate(td.Title, maxTitleWidth, "...")))
	}
	return out
}

func groupLines(todos []model.Todo) []string {
	t := ui.Current()
	var pend, done []string
	for i, td := range todos {
		line := flatLines([]model.Todo{td}, i+1)[0]
		if td.Completed {
			done = append(done, line)
		} else {
			pend = append(pend, line)
		}
	}
	section := func(name string, rows []string) []string {
		out := []string{t.Accent.Render(name)}
		if len(rows) == 0 {
			return append(out, t.Muted.Render("(none)"))
		}
		return append(out, rows...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("%s takes no arguments", cmd.CommandPath())
	}
	return nil
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("%s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("%s", usage)
		}
		return nil
	}
}
