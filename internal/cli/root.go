package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/alfredlabs/missionctl/internal/buildinfo"
	"github.com/alfredlabs/missionctl/internal/config"
	"github.com/alfredlabs/missionctl/internal/debug"
	"github.com/alfredlabs/missionctl/internal/tui"
)

const (
	// ANSI color codes
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"

	// Combined styles
	styleBoldCyan   = "\033[1;36m"
	styleBoldGreen  = "\033[1;32m"
	styleBoldYellow = "\033[1;33m"
	styleBoldRed    = "\033[1;31m"
	styleBoldWhite  = "\033[1;37m"
)

var rootCmd = &cobra.Command{
	Use:   "missionctl",
	Short: "Mission control dashboard for the Alfred agent",
	Long: colorBold + `
  __  __ _         _           ___ _       _
 |  \/  (_)___ ___(_)___ _ _  / __| |_ _ _| |
 | |\/| | (_-<_-<| / _ \ ' \ | (__|  _| '_| |
 |_|  |_|_/__/__/|_\___/_||_| \___|\__|_| |_|` + colorReset + `

  ` + styleBoldCyan + `Mission Control` + colorReset + ` v` + buildinfo.Current().Version + `

  A read-only dashboard over the Alfred agent's workspace. Watches the
  status, session, sub-agent, and activity files the agent maintains
  and renders them in a terminal UI or a local web page.

  Run ` + styleBoldWhite + `missionctl status` + colorReset + ` for a quick check, or ` + styleBoldWhite + `missionctl` + colorReset + ` to open the TUI.

` + colorBold + `Getting Started:` + colorReset + `
  missionctl                      Launch the interactive TUI
  missionctl status               Show agent status in the terminal
  missionctl web                  Serve the dashboard over HTTP
  missionctl web --expose         Share on the LAN with TLS and a QR code

` + colorBold + `Environment:` + colorReset + `
  WORKSPACE_PATH                  Agent workspace directory (default /root/clawd)
  MISSIONCTL_REFRESH              Auto-refresh interval in seconds (default 30)`,

	RunE: func(cmd *cobra.Command, args []string) error {
		source := openSource()
		// If running in a terminal, launch the TUI.
		if isatty.IsTerminal(os.Stdout.Fd()) {
			return tui.Run(source, config.ResolveRefresh())
		}
		// Non-interactive: show brief status.
		return runStatusBrief(source)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var workspaceFlag string

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Agent workspace directory (overrides WORKSPACE_PATH)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable verbose debug logging to ~/.missionctl/debug/")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		debugFlag, _ := cmd.Flags().GetBool("debug")
		if !debugFlag && !debug.ShouldEnableFromEnv() {
			return nil
		}
		logPath, err := debug.Init()
		if err != nil {
			return fmt.Errorf("initializing debug logger: %w", err)
		}
		fmt.Fprintf(os.Stderr, "%s[debug]%s logging to %s\n", colorDim, colorReset, logPath)
		bi := buildinfo.Current()
		debug.LogKV("cli", "missionctl starting",
			"version", bi.Version,
			"commit", bi.CommitHash,
			"build_date", bi.BuildDate,
			"pid", os.Getpid(),
			"command", cmd.Name(),
			"args", args,
		)
		return nil
	}
}

// Execute runs the root command.
func Execute() {
	defer debug.Close()
	if err := rootCmd.Execute(); err != nil {
		debug.Logf("cli", "exit with error: %v", err)
		fmt.Fprintf(os.Stderr, "%sError: %s%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	debug.Log("cli", "exit success")
}
