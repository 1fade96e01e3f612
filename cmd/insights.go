package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quantum-ai/quantum-cli/cache"
	"github.com/quantum-ai/quantum-cli/client"
	"github.com/quantum-ai/quantum-cli/config"
	"github.com/quantum-ai/quantum-cli/fixtures"
)

// Insights command flags.
var insightsOutput string

// InsightsCmd represents the insights command group.
var InsightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "View AI-generated meeting insights",
	Long: `View the AI-generated insights for a processed meeting: summary,
action items, participants, and the emotion timeline.

A meeting must be processed first ('quantum meeting process'). Use
'quantum insights status' to check whether processing has run.

When the API is unreachable, insights are served from the local cache
and then from bundled sample data.

Examples:
  quantum insights summary google_meet abc-defg-hij
  quantum insights actions teams 9366473044740
  quantum insights emotions google_meet abc-defg-hij -o json`,
}

var insightsSummaryCmd = &cobra.Command{
	Use:   "summary <platform> <meeting-id>",
	Short: "Show the meeting summary",
	Long: `Show the AI-generated summary, key points, and decisions.

Examples:
  quantum insights summary google_meet abc-defg-hij`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInsightsSummary,
}

var insightsActionsCmd = &cobra.Command{
	Use:   "actions <platform> <meeting-id>",
	Short: "Show extracted action items",
	Long: `Show the action items extracted from the meeting.

For a filterable board across all meetings, use 'quantum tasks'.

Examples:
  quantum insights actions google_meet abc-defg-hij`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInsightsActions,
}

var insightsParticipantsCmd = &cobra.Command{
	Use:   "participants <platform> <meeting-id>",
	Short: "Show identified participants",
	Long: `Show the participants identified in the meeting.

Examples:
  quantum insights participants google_meet abc-defg-hij`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInsightsParticipants,
}

var insightsEmotionsCmd = &cobra.Command{
	Use:   "emotions <platform> <meeting-id>",
	Short: "Show the emotion timeline",
	Long: `Show the emotion timeline and the overall sentiment score (0-10).

Examples:
  quantum insights emotions google_meet abc-defg-hij`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInsightsEmotions,
}

var insightsStatusCmd = &cobra.Command{
	Use:   "status <platform> <meeting-id>",
	Short: "Show processing status",
	Long: `Show whether the meeting has been processed into insights.

An unprocessed meeting reports status "not_processed" rather than an
error.

Examples:
  quantum insights status google_meet abc-defg-hij`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInsightsStatus,
}

func init() {
	for _, c := range []*cobra.Command{
		insightsSummaryCmd,
		insightsActionsCmd,
		insightsParticipantsCmd,
		insightsEmotionsCmd,
		insightsStatusCmd,
	} {
		c.Flags().StringVarP(&insightsOutput, "output", "o", "", "Output format: text, json, yaml")
		InsightsCmd.AddCommand(c)
	}
}

// insightsSetup carries the shared plumbing for the insights subcommands.
type insightsSetup struct {
	cfg       *config.CLIConfig
	format    config.OutputFormat
	platform  string
	meetingID string
	apiClient *client.Client
	store     *cache.Cache
}

// setupInsights resolves the meeting reference and builds the client and
// cache for an insights subcommand. The cleanup closes the cache.
func setupInsights(args []string) (*insightsSetup, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	format, err := resolveFormat(cfg, insightsOutput)
	if err != nil {
		return nil, nil, err
	}

	platform, meetingID, err := meetingRef(args)
	if err != nil {
		return nil, nil, err
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	store := optionalCache(cfg)
	cleanup := func() {
		if store != nil {
			store.Close()
		}
	}

	return &insightsSetup{
		cfg:       cfg,
		format:    format,
		platform:  platform,
		meetingID: meetingID,
		apiClient: apiClient,
		store:     store,
	}, cleanup, nil
}

// runInsightsSummary executes the insights summary command.
func runInsightsSummary(cmd *cobra.Command, args []string) error {
	s, cleanup, err := setupInsights(args)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), s.cfg.Timeout)
	defer cancel()

	fromAPI := func(ctx context.Context) (*client.Summary, error) {
		return s.apiClient.GetSummary(ctx, s.platform, s.meetingID)
	}

	var writeThrough func(context.Context, *client.Summary) error
	var fromCache func(context.Context) (*client.Summary, error)
	if s.store != nil {
		writeThrough = func(ctx context.Context, sum *client.Summary) error {
			return s.store.PutSummary(ctx, s.meetingID, sum)
		}
		fromCache = func(ctx context.Context) (*client.Summary, error) {
			return s.store.Summary(ctx, s.meetingID)
		}
	}

	sample := func() (*client.Summary, bool) {
		sum := fixtures.Summary(s.meetingID)
		return sum, sum != nil
	}

	summary, source, err := resolveView(ctx, s.cfg, "summary", fromAPI, writeThrough, fromCache, sample)
	if err != nil {
		return err
	}

	return emit(os.Stdout, s.format, summary, func(w io.Writer) error {
		writeSourceNote(w, source)
		return writeSummaryText(w, summary)
	})
}

// runInsightsActions executes the insights actions command.
func runInsightsActions(cmd *cobra.Command, args []string) error {
	s, cleanup, err := setupInsights(args)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), s.cfg.Timeout)
	defer cancel()

	fromAPI := func(ctx context.Context) ([]client.ActionItem, error) {
		list, err := s.apiClient.GetActionItems(ctx, s.platform, s.meetingID)
		if err != nil {
			return nil, err
		}
		return list.ActionItems, nil
	}

	var writeThrough func(context.Context, []client.ActionItem) error
	var fromCache func(context.Context) ([]client.ActionItem, error)
	if s.store != nil {
		writeThrough = func(ctx context.Context, items []client.ActionItem) error {
			return s.store.PutActionItems(ctx, s.meetingID, items)
		}
		fromCache = func(ctx context.Context) ([]client.ActionItem, error) {
			return s.store.ActionItems(ctx, s.meetingID)
		}
	}

	sample := func() ([]client.ActionItem, bool) {
		items := fixtures.ActionItems(s.meetingID)
		return items, len(items) > 0
	}

	items, source, err := resolveView(ctx, s.cfg, "action_items", fromAPI, writeThrough, fromCache, sample)
	if err != nil {
		return err
	}

	return emit(os.Stdout, s.format, items, func(w io.Writer) error {
		writeSourceNote(w, source)
		return writeActionItemsText(w, items)
	})
}

// runInsightsParticipants executes the insights participants command.
func runInsightsParticipants(cmd *cobra.Command, args []string) error {
	s, cleanup, err := setupInsights(args)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), s.cfg.Timeout)
	defer cancel()

	fromAPI := func(ctx context.Context) ([]client.Participant, error) {
		list, err := s.apiClient.GetParticipants(ctx, s.platform, s.meetingID)
		if err != nil {
			return nil, err
		}
		return list.Participants, nil
	}

	var writeThrough func(context.Context, []client.Participant) error
	var fromCache func(context.Context) ([]client.Participant, error)
	if s.store != nil {
		writeThrough = func(ctx context.Context, ps []client.Participant) error {
			return s.store.PutParticipants(ctx, s.meetingID, ps)
		}
		fromCache = func(ctx context.Context) ([]client.Participant, error) {
			return s.store.Participants(ctx, s.meetingID)
		}
	}

	sample := func() ([]client.Participant, bool) {
		ps := fixtures.Participants(s.meetingID)
		return ps, len(ps) > 0
	}

	participants, source, err := resolveView(ctx, s.cfg, "participants", fromAPI, writeThrough, fromCache, sample)
	if err != nil {
		return err
	}

	return emit(os.Stdout, s.format, participants, func(w io.Writer) error {
		writeSourceNote(w, source)
		return writeParticipantsText(w, participants)
	})
}

// runInsightsEmotions executes the insights emotions command.
func runInsightsEmotions(cmd *cobra.Command, args []string) error {
	s, cleanup, err := setupInsights(args)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), s.cfg.Timeout)
	defer cancel()

	fromAPI := func(ctx context.Context) (*client.EmotionReport, error) {
		return s.apiClient.GetEmotions(ctx, s.platform, s.meetingID)
	}

	var writeThrough func(context.Context, *client.EmotionReport) error
	var fromCache func(context.Context) (*client.EmotionReport, error)
	if s.store != nil {
		writeThrough = func(ctx context.Context, r *client.EmotionReport) error {
			return s.store.PutEmotions(ctx, s.meetingID, r.Timeline)
		}
		fromCache = func(ctx context.Context) (*client.EmotionReport, error) {
			timeline, err := s.store.Emotions(ctx, s.meetingID)
			if err != nil {
				return nil, err
			}
			return &client.EmotionReport{
				Success:      true,
				OverallScore: fixtures.OverallEmotionScore(timeline),
				Timeline:     timeline,
			}, nil
		}
	}

	sample := func() (*client.EmotionReport, bool) {
		r := fixtures.Emotions(s.meetingID)
		return r, r != nil
	}

	report, source, err := resolveView(ctx, s.cfg, "emotions", fromAPI, writeThrough, fromCache, sample)
	if err != nil {
		return err
	}

	return emit(os.Stdout, s.format, report, func(w io.Writer) error {
		writeSourceNote(w, source)
		return writeEmotionsText(w, report)
	})
}

// runInsightsStatus executes the insights status command.
// Processing status is always live; there is no meaningful cached answer.
func runInsightsStatus(cmd *cobra.Command, args []string) error {
	s, cleanup, err := setupInsights(args)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), s.cfg.Timeout)
	defer cancel()

	status, err := s.apiClient.GetMeetingStatus(ctx, s.platform, s.meetingID)
	if err != nil {
		return fmt.Errorf("fetching processing status: %w", err)
	}

	return emit(os.Stdout, s.format, status, func(w io.Writer) error {
		fmt.Fprintf(w, "Status: %s\n", status.Status)
		if status.Title != "" {
			fmt.Fprintf(w, "  Title: %s\n", status.Title)
		}
		if status.Date != "" {
			fmt.Fprintf(w, "  Date:  %s\n", status.Date)
		}
		if status.Message != "" {
			fmt.Fprintf(w, "  %s\n", status.Message)
		}
		return nil
	})
}

// writeSummaryText renders a summary for terminal display.
func writeSummaryText(w io.Writer, s *client.Summary) error {
	fmt.Fprintf(w, "Summary:\n  %s\n", s.Summary)
	if len(s.KeyPoints) > 0 {
		fmt.Fprintln(w, "\nKey points:")
		for _, p := range s.KeyPoints {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
	if len(s.Decisions) > 0 {
		fmt.Fprintln(w, "\nDecisions:")
		for _, d := range s.Decisions {
			fmt.Fprintf(w, "  - %s\n", d)
		}
	}
	return nil
}

// writeActionItemsText renders action items for terminal display.
func writeActionItemsText(w io.Writer, items []client.ActionItem) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No action items.")
		return nil
	}

	fmt.Fprintf(w, "Action items (%d):\n\n", len(items))
	fmt.Fprintf(w, "  %-4s %-45s %-18s %-12s %-10s %s\n", "ID", "TASK", "OWNER", "DUE", "PRIORITY", "STATUS")
	for _, it := range items {
		fmt.Fprintf(w, "  %-4d %-45s %-18s %-12s %-10s %s\n",
			it.ID, truncate(it.Task, 45), truncate(it.Owner, 18), it.DueDate, it.Priority, it.Status)
	}
	return nil
}

// writeParticipantsText renders participants for terminal display.
func writeParticipantsText(w io.Writer, participants []client.Participant) error {
	if len(participants) == 0 {
		fmt.Fprintln(w, "No participants identified.")
		return nil
	}
	fmt.Fprintf(w, "Participants (%d):\n", len(participants))
	for _, p := range participants {
		if p.Email != "" {
			fmt.Fprintf(w, "  - %s <%s>\n", p.Name, p.Email)
		} else {
			fmt.Fprintf(w, "  - %s\n", p.Name)
		}
	}
	return nil
}

// writeEmotionsText renders the emotion timeline for terminal display.
func writeEmotionsText(w io.Writer, r *client.EmotionReport) error {
	fmt.Fprintf(w, "Overall sentiment: %.1f/10\n", r.OverallScore)
	if len(r.Timeline) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nTimeline:")
	for _, p := range r.Timeline {
		bar := strings.Repeat("#", int(p.Intensity*10+0.5))
		fmt.Fprintf(w, "  %-10s %-12s %-4.1f %s\n", p.Timestamp, p.Emotion, p.Intensity, bar)
	}
	return nil
}
