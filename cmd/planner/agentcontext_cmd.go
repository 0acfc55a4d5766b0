package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAgentContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agent-context",
		Short: "Print the last-emitted agent_context.json summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := eng.GetAgentContext()
			if err != nil {
				return fail(err)
			}
			headerColor.Printf("Generated at %s\n", ctx.GeneratedAt)
			infoColor.Printf("streak %d, last rating %s, 7-day avg %.0f%%\n",
				ctx.State.Streak, ctx.State.LastRating, ctx.State.Rolling7DayAvg*100)
			if len(ctx.UrgentTasks) > 0 {
				fmt.Println("Top urgent tasks:")
				for _, t := range ctx.UrgentTasks {
					fmt.Printf("  %-28s urgency %.1f\n", t.Title, t.UrgencyScore)
				}
			}
			for _, b := range ctx.BudgetProgress {
				fmt.Printf("  %-28s %.1f/%.1fh (%.0f%%)\n", b.Title, b.ActualHours, b.TargetHours, b.ProgressPct)
			}
			for _, s := range ctx.Suggestions {
				warningColor.Printf("  [%s] %s\n", s.Severity, s.Message)
			}
			return nil
		},
	}
}

func newHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Inspect configured lifecycle hooks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List hooks.yaml's configured bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := eng.ListHooks()
			if err != nil {
				return fail(err)
			}
			if len(cfg) == 0 {
				infoColor.Println("no hooks configured")
				return nil
			}
			for point, hooksForPoint := range cfg {
				headerColor.Printf("%s:\n", point)
				for _, h := range hooksForPoint {
					fmt.Printf("  %s\n", h.Command)
				}
			}
			return nil
		},
	})
	return cmd
}
