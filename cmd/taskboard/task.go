package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/taskboard/internal/task"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks in the configured store",
	}
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskAddCmd())
	cmd.AddCommand(taskUpdateCmd())
	cmd.AddCommand(taskDoneCmd())
	cmd.AddCommand(taskRemoveCmd())
	return cmd
}

func taskListCmd() *cobra.Command {
	var state string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := openService(cmd.Context(), appConfig)
			if err != nil {
				return err
			}
			defer closeFn()

			items, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if state != "" {
				filtered := items[:0:0]
				for _, t := range items {
					if t.State == state {
						filtered = append(filtered, t)
					}
				}
				items = filtered
			}
			if len(items) == 0 {
				log.Info().Msg("no tasks")
				return nil
			}
			renderTasks(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "only list tasks in this state")
	return cmd
}

var (
	idStyle    = lipgloss.NewStyle().Align(lipgloss.Right).Faint(true)
	stateStyle = lipgloss.NewStyle().Bold(true)
	stateColor = map[string]lipgloss.Color{
		task.StateTodo:       lipgloss.Color("3"),
		task.StateInProgress: lipgloss.Color("4"),
		task.StateDone:       lipgloss.Color("2"),
	}
)

func renderTasks(w io.Writer, items []task.Task) {
	idWidth, stateWidth := 0, 0
	for _, t := range items {
		idWidth = max(idWidth, lipgloss.Width(strconv.Itoa(t.ID)))
		stateWidth = max(stateWidth, lipgloss.Width(t.State))
	}
	for _, t := range items {
		style := stateStyle.Width(stateWidth)
		if c, ok := stateColor[t.State]; ok {
			style = style.Foreground(c)
		}
		_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
			idStyle.Width(idWidth).Render(strconv.Itoa(t.ID)),
			style.Render(t.State),
			t.Content,
		)
	}
}

func taskAddCmd() *cobra.Command {
	var state string
	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := openService(cmd.Context(), appConfig)
			if err != nil {
				return err
			}
			defer closeFn()

			t, err := svc.Create(cmd.Context(), task.Draft{
				Content: strings.Join(args, " "),
				State:   state,
			})
			if err != nil {
				return err
			}
			log.Info().Int("id", t.ID).Str("state", t.State).Msg("task added")
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "initial state (default \""+task.DefaultState+"\")")
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var content, state string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the content or state of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var p task.Patch
			if cmd.Flags().Changed("content") {
				p.Content = &content
			}
			if cmd.Flags().Changed("state") {
				p.State = &state
			}
			if p.Content == nil && p.State == nil {
				return errors.New("nothing to update: pass --content or --state")
			}
			return updateTask(cmd, id, p)
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().StringVar(&state, "state", "", "new state")
	return cmd
}

func taskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			state := task.StateDone
			return updateTask(cmd, id, task.Patch{State: &state})
		},
	}
}

func updateTask(cmd *cobra.Command, id int, p task.Patch) error {
	svc, closeFn, err := openService(cmd.Context(), appConfig)
	if err != nil {
		return err
	}
	defer closeFn()

	t, err := svc.Update(cmd.Context(), id, p)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	log.Info().Int("id", t.ID).Str("state", t.State).Msg("task updated")
	return nil
}

func taskRemoveCmd() *cobra.Command {
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
			svc, closeFn, err := openService(cmd.Context(), appConfig)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete task %d: %w", id, err)
			}
			log.Info().Int("id", id).Msg("task deleted")
			return nil
		},
	}
}
