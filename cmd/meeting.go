package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quantum-ai/quantum-cli/cache"
	"github.com/quantum-ai/quantum-cli/client"
	"github.com/quantum-ai/quantum-cli/config"
	"github.com/quantum-ai/quantum-cli/fixtures"
	"github.com/quantum-ai/quantum-cli/pkg/poll"
)

// Meeting command flags.
var (
	meetingOutput       string
	meetingFollow       bool
	meetingUpdateName   string
	meetingUpdateNotes  string
	meetingProcessTitle string
)

// MeetingCmd represents the meeting command group.
var MeetingCmd = &cobra.Command{
	Use:   "meeting",
	Short: "Manage recorded meetings",
	Long: `List recorded meetings and work with their transcripts.

When the API is unreachable, views are served from the local cache and
then from bundled sample data, so the CLI stays usable offline.
Use --no-fallback (or no_fallback in the config) to disable this.

Examples:
  quantum meeting list
  quantum meeting transcript google_meet abc-defg-hij
  quantum meeting transcript google_meet abc-defg-hij --follow`,
	Aliases: []string{"meetings"},
}

// meetingListCmd lists recorded meetings.
var meetingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded meetings",
	Long: `List the meetings recorded for your account, most recent first.

Examples:
  quantum meeting list
  quantum meeting list -o json`,
	Aliases: []string{"ls"},
	RunE:    runMeetingList,
}

// meetingTranscriptCmd shows a meeting transcript.
var meetingTranscriptCmd = &cobra.Command{
	Use:   "transcript <platform> <meeting-id>",
	Short: "Show a meeting transcript",
	Long: `Show the transcript of a meeting.

With --follow, the transcript is re-fetched on the configured poll
interval and new segments are appended as they arrive. A fetch that is
still in flight when the next tick fires is never doubled up.

Examples:
  quantum meeting transcript google_meet abc-defg-hij
  quantum meeting transcript teams 9366473044740 --follow
  quantum meeting transcript https://meet.google.com/abc-defg-hij`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMeetingTranscript,
}

// meetingUpdateCmd updates meeting metadata.
var meetingUpdateCmd = &cobra.Command{
	Use:   "update <platform> <meeting-id>",
	Short: "Update meeting metadata",
	Long: `Update the title or notes of a recorded meeting.

Examples:
  quantum meeting update google_meet abc-defg-hij --title "Sprint planning"
  quantum meeting update teams 9366473044740 --notes "Follow up next week"`,
	Args: cobra.ExactArgs(2),
	RunE: runMeetingUpdate,
}

// meetingDeleteCmd deletes a meeting.
var meetingDeleteCmd = &cobra.Command{
	Use:   "delete <platform> <meeting-id>",
	Short: "Delete a recorded meeting",
	Long: `Delete a recorded meeting and its transcript from the API.

Examples:
  quantum meeting delete google_meet abc-defg-hij`,
	Args: cobra.ExactArgs(2),
	RunE: runMeetingDelete,
}

// meetingProcessCmd runs AI processing on a meeting.
var meetingProcessCmd = &cobra.Command{
	Use:   "process <platform> <meeting-id>",
	Short: "Run AI processing on a meeting",
	Long: `Process a meeting transcript into a summary, action items,
participants, and an emotion timeline.

Examples:
  quantum meeting process google_meet abc-defg-hij
  quantum meeting process teams 9366473044740 --title "Weekly sync"`,
	Args: cobra.ExactArgs(2),
	RunE: runMeetingProcess,
}

func init() {
	meetingListCmd.Flags().StringVarP(&meetingOutput, "output", "o", "", "Output format: text, json, yaml")

	meetingTranscriptCmd.Flags().BoolVarP(&meetingFollow, "follow", "f", false, "Keep polling for new segments")
	meetingTranscriptCmd.Flags().StringVarP(&meetingOutput, "output", "o", "", "Output format: text, json, yaml")

	meetingUpdateCmd.Flags().StringVar(&meetingUpdateName, "title", "", "New meeting title")
	meetingUpdateCmd.Flags().StringVar(&meetingUpdateNotes, "notes", "", "New meeting notes")

	meetingProcessCmd.Flags().StringVar(&meetingProcessTitle, "title", "", "Title to attach to the processed meeting")

	MeetingCmd.AddCommand(meetingListCmd)
	MeetingCmd.AddCommand(meetingTranscriptCmd)
	MeetingCmd.AddCommand(meetingUpdateCmd)
	MeetingCmd.AddCommand(meetingDeleteCmd)
	MeetingCmd.AddCommand(meetingProcessCmd)
}

// fetchMeetings resolves the meeting list through the fallback chain.
func fetchMeetings(ctx context.Context, cfg *config.CLIConfig, apiClient *client.Client, store *cache.Cache) ([]client.Meeting, string, error) {
	fromAPI := func(ctx context.Context) ([]client.Meeting, error) {
		list, err := apiClient.ListMeetings(ctx)
		if err != nil {
			return nil, err
		}
		return list.Meetings, nil
	}

	var writeThrough func(context.Context, []client.Meeting) error
	var fromCache func(context.Context) ([]client.Meeting, error)
	if store != nil {
		writeThrough = store.PutMeetings
		fromCache = store.Meetings
	}

	sample := func() ([]client.Meeting, bool) {
		return fixtures.Meetings(), true
	}

	return resolveView(ctx, cfg, "meetings", fromAPI, writeThrough, fromCache, sample)
}

// runMeetingList executes the meeting list command.
func runMeetingList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := resolveFormat(cfg, meetingOutput)
	if err != nil {
		return err
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	store := optionalCache(cfg)
	if store != nil {
		defer store.Close()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	meetings, source, err := fetchMeetings(ctx, cfg, apiClient, store)
	if err != nil {
		return err
	}

	sort.Slice(meetings, func(i, j int) bool {
		return meetings[i].StartTime.After(meetings[j].StartTime)
	})

	return emit(os.Stdout, format, meetings, func(w io.Writer) error {
		writeSourceNote(w, source)
		return writeMeetingListText(w, meetings)
	})
}

// runMeetingTranscript executes the meeting transcript command.
func runMeetingTranscript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := resolveFormat(cfg, meetingOutput)
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
	store := optionalCache(cfg)
	if store != nil {
		defer store.Close()
	}

	fetch := func(ctx context.Context) ([]client.TranscriptSegment, string, error) {
		fromAPI := func(ctx context.Context) ([]client.TranscriptSegment, error) {
			resp, err := apiClient.GetTranscript(ctx, platform, meetingID)
			if err != nil {
				return nil, err
			}
			return resp.Transcript.Segments, nil
		}

		var writeThrough func(context.Context, []client.TranscriptSegment) error
		var fromCache func(context.Context) ([]client.TranscriptSegment, error)
		if store != nil {
			writeThrough = func(ctx context.Context, segs []client.TranscriptSegment) error {
				return store.PutTranscript(ctx, meetingID, segs)
			}
			fromCache = func(ctx context.Context) ([]client.TranscriptSegment, error) {
				return store.Transcript(ctx, meetingID)
			}
		}

		sample := func() ([]client.TranscriptSegment, bool) {
			segs := fixtures.Transcript(meetingID)
			return segs, len(segs) > 0
		}

		return resolveView(ctx, cfg, "transcript", fromAPI, writeThrough, fromCache, sample)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	segments, source, err := fetch(ctx)
	cancel()
	if err != nil {
		return err
	}

	if !meetingFollow {
		return emit(os.Stdout, format, segments, func(w io.Writer) error {
			writeSourceNote(w, source)
			return writeTranscriptText(w, segments)
		})
	}

	// Follow mode: print what we have, then append new segments as the
	// poller sees them.
	writeSourceNote(os.Stdout, source)
	if err := writeTranscriptText(os.Stdout, segments); err != nil {
		return err
	}

	printed := len(segments)
	poller := poll.New(func(ctx context.Context) error {
		fetchCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		segs, _, err := fetch(fetchCtx)
		if err != nil {
			return err
		}
		if len(segs) > printed {
			if err := writeTranscriptText(os.Stdout, segs[printed:]); err != nil {
				return err
			}
			printed = len(segs)
		}
		return nil
	}, &poll.Options{
		Interval: cfg.PollInterval,
		OnSkip:   clientMetrics.PollsSkippedTotal.Inc,
		Logger:   newLogger(cfg),
	})

	fmt.Fprintf(os.Stderr, "Following transcript (every %s, Ctrl-C to stop)...\n", cfg.PollInterval)
	if err := poller.Run(cmd.Context()); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// runMeetingUpdate executes the meeting update command.
func runMeetingUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	platform, meetingID := args[0], args[1]
	if err := validatePlatform(platform); err != nil {
		return err
	}
	if meetingUpdateName == "" && meetingUpdateNotes == "" {
		return fmt.Errorf("nothing to update: pass --title or --notes")
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	req := &client.UpdateMeetingRequest{
		Name:  meetingUpdateName,
		Notes: meetingUpdateNotes,
	}
	if _, err := apiClient.UpdateMeeting(ctx, platform, meetingID, req); err != nil {
		return fmt.Errorf("updating meeting: %w", err)
	}

	fmt.Printf("Updated %s meeting %s\n", platform, meetingID)
	return nil
}

// runMeetingDelete executes the meeting delete command.
func runMeetingDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	platform, meetingID := args[0], args[1]
	if err := validatePlatform(platform); err != nil {
		return err
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	if _, err := apiClient.DeleteMeeting(ctx, platform, meetingID); err != nil {
		return fmt.Errorf("deleting meeting: %w", err)
	}

	fmt.Printf("Deleted %s meeting %s\n", platform, meetingID)
	return nil
}

// runMeetingProcess executes the meeting process command.
func runMeetingProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	platform, meetingID := args[0], args[1]
	if err := validatePlatform(platform); err != nil {
		return err
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	resp, err := apiClient.ProcessMeeting(ctx, platform, meetingID, meetingProcessTitle)
	if err != nil {
		return fmt.Errorf("processing meeting: %w", err)
	}

	fmt.Printf("Processed %s meeting %s\n", platform, meetingID)
	fmt.Printf("  Summary:       %s\n", truncate(resp.Data.Summary, 70))
	fmt.Printf("  Action items:  %d\n", resp.Data.ActionItemsCount)
	fmt.Printf("  Participants:  %d\n", resp.Data.ParticipantsCount)
	fmt.Printf("  Emotion score: %.1f/10\n", resp.Data.OverallEmotionScore)
	return nil
}

// writeSourceNote tells the user when a view is not live API data.
func writeSourceNote(w io.Writer, source string) {
	switch source {
	case sourceCache:
		fmt.Fprintln(w, "(offline: showing cached data)")
	case sourceSample:
		fmt.Fprintln(w, "(offline: showing sample data)")
	}
}

// writeMeetingListText renders the meeting list for terminal display.
func writeMeetingListText(w io.Writer, meetings []client.Meeting) error {
	if len(meetings) == 0 {
		fmt.Fprintln(w, "No meetings found.")
		return nil
	}

	fmt.Fprintf(w, "Meetings (%d):\n\n", len(meetings))
	fmt.Fprintf(w, "  %-24s %-40s %-12s %-17s %s\n", "ID", "TITLE", "PLATFORM", "START", "STATUS")
	for _, m := range meetings {
		fmt.Fprintf(w, "  %-24s %-40s %-12s %-17s %s\n",
			truncate(m.NativeMeetingID, 24),
			truncate(m.Title, 40),
			m.Platform,
			formatMeetingTime(m.StartTime),
			m.Status)
	}
	return nil
}

// writeTranscriptText renders transcript segments for terminal display.
func writeTranscriptText(w io.Writer, segments []client.TranscriptSegment) error {
	if len(segments) == 0 {
		fmt.Fprintln(w, "No transcript yet.")
		return nil
	}
	for _, s := range segments {
		fmt.Fprintf(w, "[%s] %s: %s\n", s.Timestamp, s.Speaker, s.Text)
	}
	return nil
}
