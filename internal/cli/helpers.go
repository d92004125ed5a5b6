package cli

import (
	"fmt"
	"strings"

	"github.com/alfredlabs/missionctl/internal/config"
	"github.com/alfredlabs/missionctl/internal/feed"
)

// openSource creates a feed over the resolved workspace directory.
func openSource() *feed.Source {
	return feed.New(config.ResolveWorkspace(workspaceFlag))
}

// printHeader prints a formatted section header.
func printHeader(title string) {
	fmt.Printf("\n%s%s%s\n", styleBoldCyan, title, colorReset)
	fmt.Println(colorDim + strings.Repeat("-", len(title)+2) + colorReset)
}

// printField prints a labeled field.
func printField(label, value string) {
	fmt.Printf("  %s%-16s%s %s\n", colorBold, label+":", colorReset, value)
}

// printFieldColored prints a labeled field with colored value.
func printFieldColored(label, value, color string) {
	fmt.Printf("  %s%-16s%s %s%s%s\n", colorBold, label+":", colorReset, color, value, colorReset)
}

// sessionStatusColor returns an ANSI color code for a session state.
func sessionStatusColor(status string) string {
	switch strings.ToLower(status) {
	case feed.SessionActive:
		return colorGreen
	case feed.SessionIdle:
		return colorYellow
	case feed.SessionClosed:
		return colorDim
	default:
		return colorReset
	}
}
