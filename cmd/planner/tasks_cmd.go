package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/tasks"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and manage tasks.yaml",
	}
	cmd.AddCommand(newTasksListCmd(), newTasksAddCmd(), newTasksUpdateCmd(), newTasksDoneCmd(), newTasksDeleteCmd())
	return cmd
}

func newTasksListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active tasks sorted by urgency",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := ws.Now()
			list, err := eng.ListTasks(now)
			if err != nil {
				return fail(err)
			}
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Type", "Pri", "Urgency", "Detail"})
			table.SetBorder(false)
			table.SetHeaderColor(
				tablewriter.Colors{tablewriter.Bold}, tablewriter.Colors{tablewriter.Bold},
				tablewriter.Colors{tablewriter.Bold}, tablewriter.Colors{tablewriter.Bold},
				tablewriter.Colors{tablewriter.Bold}, tablewriter.Colors{tablewriter.Bold},
			)
			for i := range list {
				t := &list[i]
				fields := tasks.ComputedFields(t, now)
				detail := ""
				if d, ok := fields["days_until_deadline"]; ok {
					detail = fmt.Sprintf("%dd left", d)
				} else if p, ok := fields["weekly_progress_pct"]; ok {
					detail = fmt.Sprintf("%.0f%% of week", p)
				}
				table.Append([]string{
					t.ID, t.Title, string(t.Type), strconv.Itoa(t.Priority),
					fmt.Sprintf("%.1f", fields["urgency_score"]), detail,
				})
			}
			table.Render()
			return nil
		},
	}
	return cmd
}

func newTasksAddCmd() *cobra.Command {
	var (
		taskType               string
		priority                int
		deadline                string
		remainingHours          float64
		targetHoursPerWeek      float64
		estimatedMinutesPerDay  int
		minChunk, maxChunk      int
		notes                   string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := entities.Task{
				Title:           args[0],
				Type:            entities.TaskType(taskType),
				Priority:        priority,
				MinChunkMinutes: minChunk,
				MaxChunkMinutes: maxChunk,
				Notes:           notes,
			}
			if deadline != "" {
				t.Deadline = &deadline
			}
			if cmd.Flags().Changed("remaining-hours") {
				d := decimal.NewFromFloat(remainingHours)
				t.RemainingHours = &d
			}
			if cmd.Flags().Changed("target-hours-per-week") {
				d := decimal.NewFromFloat(targetHoursPerWeek)
				t.TargetHoursPerWeek = &d
			}
			if cmd.Flags().Changed("minutes-per-day") {
				t.EstimatedMinutesPerDay = &estimatedMinutesPerDay
			}
			created, err := eng.CreateTask(t)
			if err != nil {
				return fail(err)
			}
			successColor.Printf("created task %s (%s)\n", created.ID, created.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&taskType, "type", string(entities.TypeOpenEnded), "deadline_project|weekly_budget|daily_ritual|open_ended")
	cmd.Flags().IntVar(&priority, "priority", 0, "priority 1-10")
	cmd.Flags().StringVar(&deadline, "deadline", "", "YYYY-MM-DD, for deadline_project")
	cmd.Flags().Float64Var(&remainingHours, "remaining-hours", 0, "for deadline_project")
	cmd.Flags().Float64Var(&targetHoursPerWeek, "target-hours-per-week", 0, "for weekly_budget")
	cmd.Flags().IntVar(&estimatedMinutesPerDay, "minutes-per-day", 0, "for daily_ritual")
	cmd.Flags().IntVar(&minChunk, "min-chunk", 0, "minimum placement minutes")
	cmd.Flags().IntVar(&maxChunk, "max-chunk", 0, "maximum placement minutes")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func newTasksUpdateCmd() *cobra.Command {
	var (
		title    string
		priority int
		status   string
		deadline string
		notes    string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Patch an existing task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := tasks.Patch{}
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("priority") {
				patch.Priority = &priority
			}
			if cmd.Flags().Changed("status") {
				s := entities.TaskStatus(status)
				patch.Status = &s
			}
			if cmd.Flags().Changed("deadline") {
				patch.Deadline = &deadline
			}
			if cmd.Flags().Changed("notes") {
				patch.Notes = &notes
			}
			updated, err := eng.UpdateTask(args[0], patch)
			if err != nil {
				return fail(err)
			}
			successColor.Printf("updated %s\n", updated.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().IntVar(&priority, "priority", 0, "new priority 1-10")
	cmd.Flags().StringVar(&status, "status", "", "active|paused|complete")
	cmd.Flags().StringVar(&deadline, "deadline", "", "new deadline YYYY-MM-DD")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	return cmd
}

func newTasksDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			complete := entities.StatusComplete
			_, err := eng.UpdateTask(args[0], tasks.Patch{Status: &complete})
			if err != nil {
				return fail(err)
			}
			successColor.Printf("marked %s complete\n", args[0])
			return nil
		},
	}
	return cmd
}

func newTasksDeleteCmd() *cobra.Command {
	var archive bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := eng.DeleteTask(args[0], archive); err != nil {
				return fail(err)
			}
			successColor.Printf("deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&archive, "archive", true, "keep an archived, completed record instead of discarding")
	return cmd
}
