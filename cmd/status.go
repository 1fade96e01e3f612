package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// StatusCmd checks connectivity to the meeting intelligence API.
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connection to the meeting intelligence API",
	Long: `Check that the meeting intelligence API is reachable and that the
stored session is accepted.

In debug mode the collected client metrics are printed after the check.

Examples:
  quantum status
  quantum status --debug`,
	RunE: runStatus,
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	_, err = apiClient.ListMeetings(ctx)
	switch {
	case err == nil:
		fmt.Printf("Connection status: HEALTHY\n")
		fmt.Printf("  API:           %s\n", apiClient.BaseURL())
		fmt.Printf("  Authenticated: %t\n", apiClient.Session().Authenticated())
	default:
		// Report rather than fail; an unreachable API is the answer.
		fmt.Printf("Connection status: UNHEALTHY\n")
		fmt.Printf("  API:   %s\n", apiClient.BaseURL())
		fmt.Printf("  Error: %s\n", err)
	}

	if cfg.Debug {
		if rendered, err := clientMetrics.Render(); err == nil {
			fmt.Fprintln(os.Stderr, "\nClient metrics:")
			fmt.Fprint(os.Stderr, rendered)
		}
	}
	return nil
}
