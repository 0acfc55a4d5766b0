package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dayplan/planner/internal/entities"
)

func newGenerateCmd() *cobra.Command {
	var dateStr string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and save today's (or a given date's) plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := ws.Now()
			date := now
			if dateStr != "" {
				d, err := time.ParseInLocation("2006-01-02", dateStr, ws.Location)
				if err != nil {
					return fail(fmt.Errorf("--date must be YYYY-MM-DD: %w", err))
				}
				date = d
			}
			sched, err := eng.GeneratePlan(cmd.Context(), date)
			if err != nil {
				return fail(err)
			}
			headerColor.Printf("Plan for %s\n", sched.Date)
			for _, b := range sched.Blocks {
				fmt.Printf("  %s - %s  %-28s (%s)\n", minutesToClock(b.Start), minutesToClock(b.End), b.TaskTitle, b.BlockType)
			}
			if len(sched.UnscheduledTasks) > 0 {
				warningColor.Printf("Could not fit: %v\n", sched.UnscheduledTasks)
			}
			infoColor.Printf("%d minutes scheduled, %.0f%% utilization\n", sched.TotalWorkMinutes, sched.UtilizationPct)
			return nil
		},
	}
	cmd.Flags().StringVar(&dateStr, "date", "", "target date, YYYY-MM-DD (default: today)")
	return cmd
}

func newFinalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Close out today's checkin draft and update streak/history",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := eng.FinalizeDay(cmd.Context(), ws.Now())
			if err != nil {
				return fail(err)
			}
			if result.AlreadyFinalized {
				infoColor.Printf("%s was already finalized (%s)\n", result.Day, result.Rating)
				return nil
			}
			if !result.OK {
				warningColor.Printf("nothing to finalize: %s\n", result.Reason)
				return nil
			}
			rated := ratingColor(result.Rating)
			rated.Printf("%s finalized: %s", result.Day, result.Rating)
			fmt.Printf(" (streak %d, %d task update(s))\n", result.Streak, result.TaskUpdates)
			return nil
		},
	}
	return cmd
}

func minutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func ratingColor(r entities.Rating) *color.Color {
	switch r {
	case entities.RatingGood:
		return successColor
	case entities.RatingFair:
		return warningColor
	default:
		return errorColor
	}
}
