package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantum-ai/quantum-cli/pkg/calendar"
)

// Calendar command flags.
var (
	calendarMonth  int
	calendarYear   int
	calendarOutput string
)

// CalendarCmd renders the month calendar of meetings and task due dates.
var CalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show meetings and task due dates on a month calendar",
	Long: `Render a month calendar that merges recorded meetings with the due
dates of open action items.

Days are marked with * for meetings, ! for task due dates, and + when a
day has both. The item list below the grid shows what each day holds.

Examples:
  quantum calendar
  quantum calendar --month 9
  quantum calendar --month 1 --year 2027
  quantum calendar -o json`,
	Aliases: []string{"cal"},
	RunE:    runCalendar,
}

func init() {
	now := time.Now()
	CalendarCmd.Flags().IntVar(&calendarMonth, "month", int(now.Month()), "Month to display (1-12)")
	CalendarCmd.Flags().IntVar(&calendarYear, "year", now.Year(), "Year to display")
	CalendarCmd.Flags().StringVarP(&calendarOutput, "output", "o", "", "Output format: text, json, yaml")
}

// runCalendar executes the calendar command.
func runCalendar(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := resolveFormat(cfg, calendarOutput)
	if err != nil {
		return err
	}

	if calendarMonth < 1 || calendarMonth > 12 {
		return fmt.Errorf("invalid month: %d", calendarMonth)
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

	meetings, meetingSource, err := fetchMeetings(ctx, cfg, apiClient, store)
	if err != nil {
		return err
	}

	items := calendar.FromMeetings(meetings)

	// Task due dates are best-effort; a calendar with only meetings is
	// still a calendar.
	tasks, taskSource, err := collectTasks(ctx, cfg, apiClient, store)
	if err == nil {
		tasks = applyOverrides(ctx, store, tasks)
		items = append(items, calendar.FromActionItems(taskItems(tasks))...)
	}

	grid := calendar.MonthGrid(calendarYear, time.Month(calendarMonth), items)

	return emit(os.Stdout, format, grid, func(w io.Writer) error {
		writeSourceNote(w, mergeSources(meetingSource, taskSource))
		fmt.Fprint(w, grid.Render())
		return nil
	})
}

// mergeSources reports the weaker of two view sources so the offline
// note appears when either half of the calendar is not live.
func mergeSources(a, b string) string {
	rank := map[string]int{sourceAPI: 0, "": 0, sourceCache: 1, sourceSample: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
