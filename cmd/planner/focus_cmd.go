package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newFocusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Start, stop, or inspect a timed focus session",
	}
	cmd.AddCommand(newFocusStartCmd(), newFocusStopCmd(), newFocusInterruptCmd(), newFocusStatusCmd())
	return cmd
}

func newFocusStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <task-id> [label] [minutes]",
		Short: "Begin a focus session against a task",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID := args[0]
			label := taskID
			minutes := 25
			if len(args) > 1 {
				label = args[1]
			}
			if len(args) > 2 {
				m, err := strconv.Atoi(args[2])
				if err != nil {
					return fail(fmt.Errorf("minutes must be an integer: %w", err))
				}
				minutes = m
			}
			session, err := eng.FocusStart(cmd.Context(), taskID, label, minutes, ws.Now())
			if err != nil {
				return fail(err)
			}
			successColor.Printf("focus started on %q for %d minutes\n", session.TaskLabel, session.PlannedMinutes)
			return nil
		},
	}
	return cmd
}

func newFocusStopCmd() *cobra.Command {
	var completed bool
	var notes string
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "End the active focus session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := eng.FocusStop(cmd.Context(), completed, notes, ws.Now())
			if err != nil {
				return fail(err)
			}
			successColor.Printf("stopped %q after %.1f minutes (completed=%v)\n", session.TaskLabel, session.ElapsedMinutes, session.Completed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&completed, "completed", false, "mark the session's goal as achieved")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form session notes")
	return cmd
}

func newFocusInterruptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interrupt",
		Short: "Record an interruption against the active session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := eng.FocusInterrupt()
			if err != nil {
				return fail(err)
			}
			if session == nil {
				infoColor.Println("no focus session is active")
				return nil
			}
			warningColor.Printf("%q now has %d interruption(s)\n", session.TaskLabel, session.Interruptions)
			return nil
		},
	}
}

func newFocusStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active focus session, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := eng.FocusCurrent()
			if err != nil {
				return fail(err)
			}
			if current == nil {
				infoColor.Println("no focus session is active")
				return nil
			}
			fmt.Printf("%q since %s, planned %d min, %d interruption(s)\n",
				current.TaskLabel, current.StartedAt, current.PlannedMinutes, current.Interruptions)
			return nil
		},
	}
}
