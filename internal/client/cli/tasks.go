package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

var errUsage = errors.New("usage")

func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	return id, nil
}

func (a *App) Add(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return a.fail(err)
	}
	description, err := GetSimpleText(a.reader, "Enter description", a.out)
	if err != nil {
		return a.fail(err)
	}
	state, err := GetSimpleText(a.reader, "Enter state (draft, todo, doing, done, trash) [todo]", a.out)
	if err != nil {
		return a.fail(err)
	}
	if state == "" {
		state = string(models.TaskStateTodo)
	}
	if _, err := models.ParseTaskState(state); err != nil {
		return a.fail(err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	t, err := a.service.AddTask(ctx, title, description, state)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Task %d created\n", t.ID)
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	var state string
	switch len(args) {
	case 0:
	case 1:
		if _, err := models.ParseTaskState(args[0]); err != nil {
			return a.fail(err)
		}
		state = args[0]
	default:
		return a.fail(fmt.Errorf("%w: list [state]", errUsage))
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	tasks, err := a.service.ListTasks(ctx, state)
	if err != nil {
		return a.fail(err)
	}
	a.printTasks(tasks)
	return nil
}

func (a *App) printTasks(tasks []api.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tTITLE\tDESCRIPTION")
	for _, t := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.State, t.Title, t.Description)
	}
	_ = w.Flush()
}

func (a *App) Done(ctx context.Context, args []string) error {
	id, err := parseID(args, "done <id>")
	if err != nil {
		return a.fail(err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if _, err := a.service.MarkDone(ctx, id); err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Task %d done\n", id)
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	id, err := parseID(args, "rm <id>")
	if err != nil {
		return a.fail(err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.service.DeleteTask(ctx, id); err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Task %d deleted\n", id)
	return nil
}
