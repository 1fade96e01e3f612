package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantum-ai/quantum-cli/client"
)

// Bot command flags.
var (
	botLanguage string
	botName     string
	botOutput   string
)

// BotCmd represents the bot command group.
var BotCmd = &cobra.Command{
	Use:   "bot",
	Short: "Manage transcription bots",
	Long: `Send a transcription bot into a meeting and manage it while it runs.

The bot joins the meeting as a participant, records the audio, and streams
the transcript to the meeting intelligence API.

Supported platforms: google_meet, teams.`,
}

// botStartCmd sends a bot into a meeting.
var botStartCmd = &cobra.Command{
	Use:   "start <meeting-url>",
	Short: "Send a bot into a meeting",
	Long: `Send a transcription bot into a live meeting.

The platform is inferred from the meeting URL.

Examples:
  quantum bot start https://meet.google.com/abc-defg-hij
  quantum bot start https://teams.live.com/meet/9366473044740?p=5uXyNNTcGAZsBToq
  quantum bot start https://meet.google.com/abc-defg-hij --language pt-BR
  quantum bot start https://meet.google.com/abc-defg-hij --bot-name "Notes Bot"`,
	Args: cobra.ExactArgs(1),
	RunE: runBotStart,
}

// botStopCmd removes a bot from a meeting.
var botStopCmd = &cobra.Command{
	Use:   "stop <platform> <meeting-id>",
	Short: "Remove a bot from a meeting",
	Long: `Stop the transcription bot for a meeting.

Accepts either the platform and native meeting ID, or the meeting URL.

Examples:
  quantum bot stop google_meet abc-defg-hij
  quantum bot stop https://teams.live.com/meet/9366473044740?p=5uXyNNTcGAZsBToq`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBotStop,
}

// botStatusCmd lists running bots.
var botStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List running bots",
	Long: `Show the transcription bots currently running for your account.

Examples:
  quantum bot status
  quantum bot status -o json`,
	RunE: runBotStatus,
}

// botLanguageCmd changes a running bot's transcription language.
var botLanguageCmd = &cobra.Command{
	Use:   "language <platform> <meeting-id> <language>",
	Short: "Change a running bot's transcription language",
	Long: `Update the transcription language of a bot that is already in a meeting.

Examples:
  quantum bot language google_meet abc-defg-hij es
  quantum bot language teams 9366473044740 pt-BR`,
	Args: cobra.ExactArgs(3),
	RunE: runBotLanguage,
}

func init() {
	botStartCmd.Flags().StringVar(&botLanguage, "language", "", "Transcription language code (default from config)")
	botStartCmd.Flags().StringVar(&botName, "bot-name", "", "Display name the bot joins with (default from config)")

	botStatusCmd.Flags().StringVarP(&botOutput, "output", "o", "", "Output format: text, json, yaml")

	BotCmd.AddCommand(botStartCmd)
	BotCmd.AddCommand(botStopCmd)
	BotCmd.AddCommand(botStatusCmd)
	BotCmd.AddCommand(botLanguageCmd)
}

// runBotStart executes the bot start command.
func runBotStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	meetingURL := args[0]
	platform, err := platformFromURL(meetingURL)
	if err != nil {
		return err
	}

	language := botLanguage
	if language == "" {
		language = cfg.Language
	}
	if err := validateLanguage(language); err != nil {
		return err
	}

	name := botName
	if name == "" {
		name = cfg.BotName
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	resp, err := apiClient.StartBot(ctx, platform, meetingURL, language, name)
	if err != nil {
		return fmt.Errorf("starting bot: %w", err)
	}

	fmt.Printf("Bot requested for %s meeting %s\n", platform, resp.MeetingID)
	if resp.Message != "" {
		fmt.Printf("  %s\n", resp.Message)
	}
	return nil
}

// runBotStop executes the bot stop command.
func runBotStop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	platform, meetingID, err := meetingRef(args)
	if err != nil {
		return err
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	resp, err := apiClient.StopBot(ctx, platform, meetingID)
	if err != nil {
		return fmt.Errorf("stopping bot: %w", err)
	}

	fmt.Printf("Bot stopped for %s meeting %s\n", platform, meetingID)
	if resp.Message != "" {
		fmt.Printf("  %s\n", resp.Message)
	}
	return nil
}

// runBotStatus executes the bot status command.
func runBotStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := resolveFormat(cfg, botOutput)
	if err != nil {
		return err
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	list, err := apiClient.BotStatus(ctx)
	if err != nil {
		return fmt.Errorf("fetching bot status: %w", err)
	}

	return emit(os.Stdout, format, list, func(w io.Writer) error {
		return writeBotListText(w, list)
	})
}

// runBotLanguage executes the bot language command.
func runBotLanguage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	platform, meetingID := args[0], args[1]
	language := args[2]
	if err := validatePlatform(platform); err != nil {
		return err
	}
	if err := validateLanguage(language); err != nil {
		return err
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	if _, err := apiClient.UpdateBotLanguage(ctx, platform, meetingID, language); err != nil {
		return fmt.Errorf("updating bot language: %w", err)
	}

	fmt.Printf("Bot language set to %s for %s meeting %s\n", language, platform, meetingID)
	return nil
}

// writeBotListText renders bot status for terminal display.
func writeBotListText(w io.Writer, list *client.BotList) error {
	if list.ActiveBots == 0 {
		fmt.Fprintln(w, "No bots running.")
		return nil
	}

	fmt.Fprintf(w, "Running bots (%d):\n\n", list.ActiveBots)
	fmt.Fprintf(w, "  %-12s %-25s %-10s %s\n", "PLATFORM", "MEETING", "LANGUAGE", "STATUS")
	for _, b := range list.Bots {
		fmt.Fprintf(w, "  %-12s %-25s %-10s %s\n",
			b.Platform, truncate(b.NativeMeetingID, 25), b.Language, b.Status)
	}
	return nil
}
