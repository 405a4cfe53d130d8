package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/rollover"
	"github.com/nhle/do-it-later/internal/session"
	"github.com/nhle/do-it-later/internal/sync"
	"github.com/nhle/do-it-later/internal/tasks"
)

// shortIDLen is how many id characters list prints.
const shortIDLen = 8

// resolveTask finds a task by full id or unique id prefix.
func resolveTask(tm *tasks.Manager, ref string) (*model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("task id must not be empty: %w", model.ErrValidation)
	}
	if t, ok := tm.FindByID(ref); ok {
		return t, nil
	}

	var match *model.Task
	for _, list := range model.Lists {
		for _, t := range tm.ListTasks(list) {
			if !strings.HasPrefix(t.ID, ref) {
				continue
			}
			if match != nil {
				return nil, fmt.Errorf("task id %q is ambiguous: %w", ref, model.ErrValidation)
			}
			match = t
		}
	}
	if match == nil {
		return nil, fmt.Errorf("task %q: %w", ref, model.ErrNotFound)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// taskCmd builds a command that resolves one task and applies fn to it.
func (c *CLI) taskCmd(use, short string, fn func(tm *tasks.Manager, t *model.Task) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), nil, func(ctx context.Context, s *session.Session, opened rollover.Report) error {
				c.announce(opened)
				var msg string
				err := s.Update(func(tm *tasks.Manager) error {
					t, err := resolveTask(tm, args[0])
					if err != nil {
						return err
					}
					msg, err = fn(tm, t)
					return err
				})
				if err != nil {
					return err
				}
				c.printf("%s\n", msg)
				return nil
			})
		},
	}
}

func (c *CLI) addCmd() *cobra.Command {
	var listName, parent, deadline string
	cmd := &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if err := model.ValidateText(text); err != nil {
				return err
			}
			list, err := parseListFlag(listName, model.ListToday)
			if err != nil {
				return err
			}
			due, err := model.ParseDeadline(deadline)
			if err != nil {
				return err
			}

			return c.withSession(cmd.Context(), nil, func(ctx context.Context, s *session.Session, opened rollover.Report) error {
				c.announce(opened)
				var added *model.Task
				err := s.Update(func(tm *tasks.Manager) error {
					parentID := ""
					if parent != "" {
						p, err := resolveTask(tm, parent)
						if err != nil {
							return err
						}
						parentID = p.ID
					}
					t, err := tm.AddTask(text, list, parentID)
					if err != nil {
						return err
					}
					if due != nil {
						tm.SetDeadline(t.ID, due)
					}
					added = t
					return nil
				})
				if err != nil {
					return err
				}
				c.printf("Added %s to %s: %s\n", shortID(added.ID), list.Title(), added.Text)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&listName, "list", "l", "", "list to add to: today or later")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent task id, adds a subtask")
	cmd.Flags().StringVarP(&deadline, "deadline", "d", "", "deadline as YYYY-MM-DD")
	return cmd
}

func (c *CLI) listCmd() *cobra.Command {
	var listName string
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			lists := model.Lists
			if listName != "" {
				l, err := model.ParseList(listName)
				if err != nil {
					return err
				}
				lists = []model.List{l}
			}

			return c.withSession(cmd.Context(), nil, func(ctx context.Context, s *session.Session, opened rollover.Report) error {
				c.announce(opened)
				if asJSON {
					payload, err := sync.EncodeJSON(s.Set())
					if err != nil {
						return err
					}
					c.printf("%s\n", payload)
					return nil
				}
				for _, list := range lists {
					c.renderList(s, list)
				}
				c.printf("Tasks completed lifetime: %d\n", s.Set().TotalCompleted)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&listName, "list", "l", "", "only show one list: today or later")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full task set as JSON")
	return cmd
}

// renderList prints one list as a table, subtasks indented under their
// parents.
func (c *CLI) renderList(s *session.Session, list model.List) {
	today := s.Now()

	tw := table.NewWriter()
	tw.SetOutputMirror(c.Out)
	tw.SetTitle(list.Title())
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "", "Task", "!", "Deadline"})

	nodes := s.Tasks().RenderList(list)
	if len(nodes) == 0 {
		tw.AppendRow(table.Row{"", "", "(No tasks for " + strings.ToLower(list.Title()) + ")", "", ""})
	}
	for _, n := range nodes {
		tw.AppendRow(taskRow(n, "", today.Format("2006-01-02")))
		for _, child := range n.Children {
			tw.AppendRow(taskRow(child, "└ ", today.Format("2006-01-02")))
		}
	}
	tw.Render()
}

func taskRow(n tasks.RenderNode, indent, today string) table.Row {
	t := n.Task
	box := "□"
	if t.Completed {
		box = "✓"
	}
	text := indent + t.Text
	if n.Ghost {
		box = ""
		text = "(" + t.Text + ")"
	}
	important := ""
	if t.Important {
		important = "★"
	}
	deadline := ""
	if t.Deadline != nil {
		deadline = t.Deadline.String()
		if deadline < today {
			deadline += " overdue"
		}
	}
	return table.Row{shortID(t.ID), box, text, important, deadline}
}

func (c *CLI) doneCmd() *cobra.Command {
	cmd := c.taskCmd("done", "Toggle a task's completion", func(tm *tasks.Manager, t *model.Task) (string, error) {
		res, _ := tm.ToggleCompletion(t.ID)
		verb := "Reopened"
		if res.NewState {
			verb = "Completed"
		}
		msg := fmt.Sprintf("%s: %s", verb, t.Text)
		if n := len(res.Cascaded); n > 0 {
			msg += fmt.Sprintf(" (and %d related)", n)
		}
		return msg, nil
	})
	cmd.Aliases = []string{"toggle"}
	return cmd
}

func (c *CLI) importantCmd() *cobra.Command {
	return c.taskCmd("important", "Toggle a task's importance", func(tm *tasks.Manager, t *model.Task) (string, error) {
		tm.ToggleImportance(t.ID)
		if t.Important {
			return "Marked important: " + t.Text, nil
		}
		return "No longer important: " + t.Text, nil
	})
}

func (c *CLI) moveCmd() *cobra.Command {
	var to string
	cmd := c.taskCmd("move", "Move a task to the other list", func(tm *tasks.Manager, t *model.Task) (string, error) {
		target, err := parseListFlag(to, t.List.Other())
		if err != nil {
			return "", err
		}
		tm.MoveTask(t.ID, target)
		return fmt.Sprintf("Moved to %s: %s", target.Title(), t.Text), nil
	})
	cmd.Flags().StringVar(&to, "to", "", "target list, defaults to the other one")
	return cmd
}

func (c *CLI) deleteCmd() *cobra.Command {
	cmd := c.taskCmd("delete", "Delete a task and its subtasks", func(tm *tasks.Manager, t *model.Task) (string, error) {
		n := tm.DeleteWithSubtasks(t.ID)
		return fmt.Sprintf("Deleted %d task(s)", n), nil
	})
	cmd.Aliases = []string{"rm"}
	return cmd
}

func (c *CLI) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id> <text>...",
		Short: "Change a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return c.withSession(cmd.Context(), nil, func(ctx context.Context, s *session.Session, opened rollover.Report) error {
				c.announce(opened)
				err := s.Update(func(tm *tasks.Manager) error {
					t, err := resolveTask(tm, args[0])
					if err != nil {
						return err
					}
					return tm.EditText(t.ID, text)
				})
				if err != nil {
					return err
				}
				c.printf("Updated: %s\n", strings.TrimSpace(text))
				return nil
			})
		},
	}
	return cmd
}

func (c *CLI) deadlineCmd() *cobra.Command {
	var unset bool
	cmd := &cobra.Command{
		Use:   "deadline <id> [YYYY-MM-DD]",
		Short: "Set or clear a task's deadline",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !unset {
				return fmt.Errorf("give a date or --clear: %w", model.ErrValidation)
			}
			var raw string
			if len(args) == 2 {
				raw = args[1]
			}
			due, err := model.ParseDeadline(raw)
			if err != nil {
				return err
			}

			return c.withSession(cmd.Context(), nil, func(ctx context.Context, s *session.Session, opened rollover.Report) error {
				c.announce(opened)
				err := s.Update(func(tm *tasks.Manager) error {
					t, err := resolveTask(tm, args[0])
					if err != nil {
						return err
					}
					tm.SetDeadline(t.ID, due)
					return nil
				})
				if err != nil {
					return err
				}
				if due == nil {
					c.printf("Deadline cleared\n")
				} else {
					c.printf("Deadline set to %s\n", due)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&unset, "clear", false, "remove the deadline")
	return cmd
}
