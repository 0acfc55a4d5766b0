package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newAnalyticsCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show derived completion/streak analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if refresh {
				if _, err := eng.RefreshAnalytics(); err != nil {
					return fail(err)
				}
			}
			summary, err := eng.GetAnalytics()
			if err != nil {
				return fail(err)
			}
			headerColor.Println("Completion by weekday")
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Weekday", "Completion %"})
			table.SetBorder(false)
			days := make([]string, 0, len(summary.CompletionByWeekday))
			for d := range summary.CompletionByWeekday {
				days = append(days, d)
			}
			sort.Strings(days)
			for _, d := range days {
				table.Append([]string{d, fmt.Sprintf("%.0f%%", summary.CompletionByWeekday[d]*100)})
			}
			table.Render()

			infoColor.Printf("7-day avg: %.0f%%   30-day avg: %.0f%%   recovery success: %.0f%%   tracked days: %d\n",
				summary.Rolling7DayAvg*100, summary.Rolling30DayAvg*100, summary.RecoverySuccessRate*100, summary.TotalDaysTracked)

			if len(summary.MostSkippedTasks) > 0 {
				warningColor.Println("Most skipped:")
				for _, s := range summary.MostSkippedTasks {
					fmt.Printf("  %-28s skipped %.0f%% (%d times)\n", s.Label, s.SkipRate*100, s.Count)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute analytics.json before displaying it")
	return cmd
}

func newReflectionsCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "reflections",
		Short: "Show the most recent reflection log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := eng.GetRecentReflections(n)
			if err != nil {
				return fail(err)
			}
			for _, r := range records {
				rated := ratingColor(r.Rating)
				rated.Printf("## %s — %s (%s)\n", r.Day, r.Rating, r.Mode)
				for _, d := range r.Done {
					fmt.Printf("  [x] %s\n", d)
				}
				if r.Reflection != "" {
					dimColor.Printf("  %s\n", r.Reflection)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "number", "n", 7, "how many recent entries to show")
	return cmd
}
