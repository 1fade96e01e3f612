// Package main provides the quantum CLI entry point.
// quantum is the command-line interface for the Quantum AI meeting
// intelligence service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantum-ai/quantum-cli/cmd"
	"github.com/quantum-ai/quantum-cli/pkg/buildinfo"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "quantum",
	Short: "Quantum CLI - meeting intelligence from your terminal",
	Long: `quantum is the command-line interface for the Quantum AI meeting
intelligence service.

It sends transcription bots into live meetings, retrieves transcripts,
and turns them into summaries, action items, participants, and emotion
timelines. When the API is unreachable, views are served from the local
cache and then from bundled sample data so the CLI stays usable offline.

COMMON WORKFLOWS:
  Authenticate:     quantum auth login
  Record a meeting: quantum bot start <meeting-url>
  Live transcript:  quantum meeting transcript <url> --follow
  Analyze it:       quantum meeting process <platform> <id>
  Read insights:    quantum insights summary <platform> <id>
  Track the work:   quantum tasks status:open  ->  quantum tasks done <id>
  Plan the month:   quantum calendar
  Everything:       quantum dashboard

DISCOVERY:
  quantum <command> --help    Subcommands, flags, and examples
  quantum status              API connectivity check
  quantum config show         Current configuration`,
}

// Version command flags.
var versionJSON bool

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the version, commit hash, and build time of the quantum CLI.

Examples:
  quantum version
  quantum version --output-json`,
	RunE: func(c *cobra.Command, args []string) error {
		info := buildinfo.Get()

		if versionJSON {
			enc := json.NewEncoder(c.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		out := c.OutOrStdout()
		fmt.Fprintf(out, "quantum version %s\n", info.Version)
		fmt.Fprintf(out, "  commit:     %s\n", info.Commit)
		fmt.Fprintf(out, "  built:      %s\n", info.BuildTime)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cmd.GlobalFlags.BaseURL, "base-url", "", "Meeting intelligence API base URL")
	pf.DurationVar(&cmd.GlobalFlags.Timeout, "timeout", time.Duration(0), "Request timeout (e.g., 30s, 1m)")
	pf.StringVarP(&cmd.GlobalFlags.Output, "output", "o", "", "Default output format: text, json, yaml")
	pf.BoolVar(&cmd.GlobalFlags.Debug, "debug", false, "Enable debug logging and metric output")
	pf.BoolVar(&cmd.GlobalFlags.NoFallback, "no-fallback", false, "Fail instead of serving cached or sample data")

	versionCmd.Flags().BoolVar(&versionJSON, "output-json", false, "Output version as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cmd.AuthCmd)
	rootCmd.AddCommand(cmd.BotCmd)
	rootCmd.AddCommand(cmd.MeetingCmd)
	rootCmd.AddCommand(cmd.InsightsCmd)
	rootCmd.AddCommand(cmd.TasksCmd)
	rootCmd.AddCommand(cmd.CalendarCmd)
	rootCmd.AddCommand(cmd.DashboardCmd)
	rootCmd.AddCommand(cmd.EmotionCmd)
	rootCmd.AddCommand(cmd.StatusCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
}

func main() {
	// Ctrl-C cancels the command context so --follow and --watch loops
	// exit cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
