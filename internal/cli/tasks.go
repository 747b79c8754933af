package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskcards/internal/db"
	"github.com/tgienger/taskcards/internal/duedate"
	"github.com/tgienger/taskcards/internal/models"
)

// taskView is the JSON shape printed by list -o json
type taskView struct {
	models.Task
	Due string `json:"due"` // formatted due date
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func newAddCmd(opts *options) *cobra.Command {
	var priority, due string

	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := models.ParsePriority(priority)
			if err != nil {
				return err
			}
			e, err := setup(opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			dueDate, err := e.formatter.Normalize(due)
			if err != nil {
				return err
			}
			task, err := e.store.CreateTask(args[0], p, dueDate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", task.ID, task.Label)
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", string(models.PriorityMedium), "Priority: High, Medium or Low")
	cmd.Flags().StringVar(&due, "due", "", "Due date, e.g. 2025-07-04T14:00")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	var all, onlyDone bool
	var search, output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			tasks, err := e.store.ListTasks(db.TaskFilter{Search: search, IncludeDone: all, OnlyDone: onlyDone})
			if err != nil {
				return err
			}
			switch output {
			case "", "text":
				return writeTaskLines(cmd.OutOrStdout(), tasks, e.formatter)
			case "json":
				return writeTaskJSON(cmd.OutOrStdout(), tasks, e.formatter)
			default:
				return fmt.Errorf("unknown output format: %s", output)
			}
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed tasks")
	cmd.Flags().BoolVar(&onlyDone, "done", false, "Only completed tasks")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only tasks whose label contains this text")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: text or json")
	return cmd
}

func writeTaskLines(w io.Writer, tasks []models.Task, f *duedate.Formatter) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}
	for _, t := range tasks {
		check := "[ ]"
		if t.Done {
			check = "[x]"
		}
		if _, err := fmt.Fprintf(w, "%4d %s %-6s %s  (%s)\n", t.ID, check, t.Priority, t.Label, f.Format(t.DueDate)); err != nil {
			return err
		}
	}
	return nil
}

func writeTaskJSON(w io.Writer, tasks []models.Task, f *duedate.Formatter) error {
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskView{Task: t, Due: f.Format(t.DueDate)})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func newDoneCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task done, or undo if it already is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := setup(opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			task, err := e.store.ToggleTaskDone(id)
			if err != nil {
				return err
			}
			state := "done"
			if !task.Done {
				state = "open"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s\n", task.ID, state)
			return nil
		},
	}
}

func newRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := setup(opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.store.DeleteTask(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			return nil
		},
	}
}

func newEditCmd(opts *options) *cobra.Command {
	var label, priority, due string
	var clearDue bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's label, priority or due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := setup(opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			task, err := e.store.GetTask(id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("label") {
				task.Label = label
			}
			if cmd.Flags().Changed("priority") {
				if task.Priority, err = models.ParsePriority(priority); err != nil {
					return err
				}
			}
			switch {
			case clearDue:
				task.DueDate = ""
			case cmd.Flags().Changed("due"):
				if task.DueDate, err = e.formatter.Normalize(due); err != nil {
					return err
				}
			}
			if err := e.store.UpdateTask(id, task.Label, task.Priority, task.DueDate); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d: %s (%s)\n", id, task.Label, e.formatter.Format(task.DueDate))
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "New label")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority: High, Medium or Low")
	cmd.Flags().StringVar(&due, "due", "", "New due date, e.g. 2025-07-04T14:00")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	return cmd
}

func newFormatDateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "format-date [date]",
		Short: "Show how a due date is displayed on a card",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts, false)
			if err != nil {
				return err
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.formatter.Format(input))
			return nil
		},
	}
}
