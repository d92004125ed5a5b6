package cli

import (
	"github.com/spf13/cobra"

	"github.com/alfredlabs/missionctl/internal/config"
	"github.com/alfredlabs/missionctl/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long:  `Opens a full-screen dashboard over the agent's workspace files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(openSource(), config.ResolveRefresh())
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
