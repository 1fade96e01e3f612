package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantum-ai/quantum-cli/cache"
	"github.com/quantum-ai/quantum-cli/client"
	"github.com/quantum-ai/quantum-cli/config"
	"github.com/quantum-ai/quantum-cli/fixtures"
)

// Dashboard command flags.
var dashboardOutput string

// DashboardCmd shows the at-a-glance meeting intelligence overview.
var DashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the meeting intelligence overview",
	Long: `Show an at-a-glance overview: recent meetings, open action items,
and the sentiment of the most recent meeting.

Each panel falls back to cached and then sample data independently, so
a partial API outage degrades one panel rather than the whole view.

Examples:
  quantum dashboard
  quantum dashboard -o json`,
	Aliases: []string{"dash"},
	RunE:    runDashboard,
}

func init() {
	DashboardCmd.Flags().StringVarP(&dashboardOutput, "output", "o", "", "Output format: text, json, yaml")
}

// dashboardView is the assembled dashboard payload.
type dashboardView struct {
	Meetings       []client.Meeting `json:"meetings"`
	MeetingsSource string           `json:"meetings_source"`
	OpenTasks      []taskRow        `json:"open_tasks"`
	TasksSource    string           `json:"tasks_source"`
	Sentiment      *sentimentPanel  `json:"sentiment,omitempty"`
}

// sentimentPanel is the emotion summary for the most recent meeting.
type sentimentPanel struct {
	MeetingID    string  `json:"meeting_id"`
	Title        string  `json:"title,omitempty"`
	OverallScore float64 `json:"overall_score"`
	Source       string  `json:"source"`
}

// runDashboard executes the dashboard command.
func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := resolveFormat(cfg, dashboardOutput)
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

	view := &dashboardView{}

	meetings, meetingSource, err := fetchMeetings(ctx, cfg, apiClient, store)
	if err != nil {
		return err
	}
	sort.Slice(meetings, func(i, j int) bool {
		return meetings[i].StartTime.After(meetings[j].StartTime)
	})
	view.Meetings = meetings
	view.MeetingsSource = meetingSource

	if tasks, taskSource, err := collectTasks(ctx, cfg, apiClient, store); err == nil {
		tasks = applyOverrides(ctx, store, tasks)
		for _, t := range tasks {
			if !strings.EqualFold(t.Status, "done") {
				view.OpenTasks = append(view.OpenTasks, t)
			}
		}
		view.TasksSource = taskSource
	}

	if len(meetings) > 0 {
		view.Sentiment = fetchSentiment(ctx, cfg, apiClient, store, meetings[0])
	}

	return emit(os.Stdout, format, view, func(w io.Writer) error {
		return writeDashboardText(w, view)
	})
}

// fetchSentiment resolves the emotion score for one meeting, or nil when
// no source can serve it.
func fetchSentiment(ctx context.Context, cfg *config.CLIConfig, apiClient *client.Client, store *cache.Cache, m client.Meeting) *sentimentPanel {
	fromAPI := func(ctx context.Context) (*client.EmotionReport, error) {
		return apiClient.GetEmotions(ctx, m.Platform, m.NativeMeetingID)
	}

	var writeThrough func(context.Context, *client.EmotionReport) error
	var fromCache func(context.Context) (*client.EmotionReport, error)
	if store != nil {
		writeThrough = func(ctx context.Context, r *client.EmotionReport) error {
			return store.PutEmotions(ctx, m.NativeMeetingID, r.Timeline)
		}
		fromCache = func(ctx context.Context) (*client.EmotionReport, error) {
			timeline, err := store.Emotions(ctx, m.NativeMeetingID)
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
		r := fixtures.Emotions(m.NativeMeetingID)
		return r, r != nil
	}

	report, source, err := resolveView(ctx, cfg, "sentiment", fromAPI, writeThrough, fromCache, sample)
	if err != nil {
		return nil
	}
	return &sentimentPanel{
		MeetingID:    m.NativeMeetingID,
		Title:        m.Title,
		OverallScore: report.OverallScore,
		Source:       source,
	}
}

// writeDashboardText renders the dashboard for terminal display.
func writeDashboardText(w io.Writer, view *dashboardView) error {
	now := time.Now()
	fmt.Fprintf(w, "Quantum dashboard - %s\n\n", now.Format("Mon 2 Jan 2006"))

	fmt.Fprintln(w, "Recent meetings")
	writeSourceNote(w, view.MeetingsSource)
	if len(view.Meetings) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for i, m := range view.Meetings {
		if i == 5 {
			fmt.Fprintf(w, "  ... and %d more\n", len(view.Meetings)-5)
			break
		}
		fmt.Fprintf(w, "  %s  %-40s %s\n",
			formatMeetingTime(m.StartTime), truncate(m.Title, 40), m.Platform)
	}

	fmt.Fprintf(w, "\nOpen tasks (%d)\n", len(view.OpenTasks))
	writeSourceNote(w, view.TasksSource)
	for i, t := range view.OpenTasks {
		if i == 5 {
			fmt.Fprintf(w, "  ... and %d more\n", len(view.OpenTasks)-5)
			break
		}
		due := t.DueDate
		if due == "" {
			due = "no due date"
		}
		fmt.Fprintf(w, "  [%d] %-42s %-16s %s\n", t.ID, truncate(t.Task, 42), truncate(t.Owner, 16), due)
	}

	if view.Sentiment != nil {
		fmt.Fprintf(w, "\nLatest meeting sentiment\n")
		title := view.Sentiment.Title
		if title == "" {
			title = view.Sentiment.MeetingID
		}
		fmt.Fprintf(w, "  %s: %.1f/10\n", truncate(title, 50), view.Sentiment.OverallScore)
	}
	return nil
}
