package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredlabs/missionctl/internal/feed"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the agent's current status",
	Long:  `Prints the agent's online state, session counts, sub-agent work, and recent activity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatusFull(openSource())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// runStatusBrief is called when the root command runs non-interactively.
func runStatusBrief(source *feed.Source) error {
	snap := source.Snapshot()

	fmt.Println()
	fmt.Printf("  %smissionctl%s - %s%s%s\n", styleBoldCyan, colorReset, colorDim, source.Root(), colorReset)
	fmt.Println()

	if snap.WorkspaceMissing {
		fmt.Printf("  %sNo data source configured: workspace does not exist.%s\n\n", styleBoldYellow, colorReset)
		return nil
	}

	switch {
	case snap.Status == nil:
		fmt.Printf("  %sAgent state unknown%s", colorDim, colorReset)
	case snap.Status.Online:
		fmt.Printf("  %sAgent online%s", styleBoldGreen, colorReset)
	default:
		fmt.Printf("  %sAgent offline%s", styleBoldRed, colorReset)
	}

	fmt.Printf("  |  Sessions: %d active", snap.ActiveSessions())
	fmt.Printf("  |  Sub-agents: %d running", snap.RunningSubagents())
	fmt.Printf("  |  %d event(s)\n", len(snap.Activity))

	fmt.Println()
	fmt.Printf("  Run %smissionctl status%s for full details.\n\n", styleBoldWhite, colorReset)
	return nil
}

func runStatusFull(source *feed.Source) error {
	snap := source.Snapshot()
	now := time.Now()

	if snap.WorkspaceMissing {
		fmt.Printf("\n  %sNo data source configured:%s workspace %s does not exist.\n\n",
			styleBoldYellow, colorReset, source.Root())
		return nil
	}

	printHeader("Agent")
	switch {
	case snap.Status == nil:
		printFieldColored("State", "unknown", colorDim)
	case snap.Status.Online:
		printFieldColored("State", "online", styleBoldGreen)
		printField("Last activity", feed.TimeAgo(snap.Status.LastActivity.Time, now))
	default:
		printFieldColored("State", "offline", styleBoldRed)
		printField("Last activity", feed.TimeAgo(snap.Status.LastActivity.Time, now))
	}
	printField("Workspace", source.Root())

	printHeader("Sessions")
	if len(snap.Sessions) == 0 {
		fmt.Printf("  %sNo sessions recorded.%s\n", colorDim, colorReset)
	}
	for _, s := range snap.Sessions {
		fmt.Printf("  %s%-24s%s %s%-10s%s %s%-8s%s %s\n",
			colorCyan, s.Key, colorReset,
			colorBlue, s.Kind, colorReset,
			sessionStatusColor(s.Status), s.Status, colorReset,
			colorDim+feed.TimeAgo(s.LastActivity.Time, now)+colorReset,
		)
	}

	running := feed.Running(snap.SubAgents)
	printHeader("Sub-Agents")
	if len(running) == 0 {
		fmt.Printf("  %sNone running.%s\n", colorDim, colorReset)
	}
	for _, ev := range running {
		fmt.Printf("  %s▸%s %-20s %s\n", colorYellow, colorReset, ev.SessionKey, ev.Task)
	}

	printHeader("Recent Activity")
	events := snap.Activity
	start := 0
	if len(events) > 10 {
		start = len(events) - 10
	}
	if len(events) == 0 {
		fmt.Printf("  %sNo activity yet.%s\n", colorDim, colorReset)
	}
	for i := len(events) - 1; i >= start; i-- {
		ev := events[i]
		fmt.Printf("  %s%-9s%s %s\n",
			colorDim, feed.Clock(ev.Timestamp.Time), colorReset, ev.Summary)
	}

	for _, note := range snap.Notes {
		fmt.Printf("\n  %s%s%s\n", colorYellow, note, colorReset)
	}
	fmt.Println()
	return nil
}
