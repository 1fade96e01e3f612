package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quantum-ai/quantum-cli/cache"
	"github.com/quantum-ai/quantum-cli/client"
	"github.com/quantum-ai/quantum-cli/config"
	"github.com/quantum-ai/quantum-cli/fixtures"
	qerrors "github.com/quantum-ai/quantum-cli/pkg/errors"
	"github.com/quantum-ai/quantum-cli/pkg/taskquery"
)

// Tasks command flags.
var tasksOutput string

// TasksCmd represents the tasks command group.
var TasksCmd = &cobra.Command{
	Use:   "tasks [query]",
	Short: "Work with action items across all meetings",
	Long: `Show a filterable board of action items collected from every
processed meeting.

The optional query filters tasks with field:value terms and free text:

  status:open          Match a field exactly
  owner:"Priya Patel"  Quote values containing spaces
  -priority:low        Negate a term with a leading dash
  due-before:2026-09-01
  due-after:2026-08-01
  follow up            Bare words match against the task text

Marking a task done is a local note; the server copy is untouched and
the mark survives refetches.

Examples:
  quantum tasks
  quantum tasks status:open priority:high
  quantum tasks owner:"Priya Patel" -status:done
  quantum tasks due-before:2026-09-01
  quantum tasks done 3`,
	Args: cobra.ArbitraryArgs,
	RunE: runTasks,
}

// tasksDoneCmd marks a task done locally.
var tasksDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task as done",
	Long: `Mark an action item as done.

The mark is stored locally and applied whenever the task is displayed,
including after the item is refetched from the API.

Examples:
  quantum tasks done 3`,
	Args: cobra.ExactArgs(1),
	RunE: runTasksDone,
}

func init() {
	TasksCmd.Flags().StringVarP(&tasksOutput, "output", "o", "", "Output format: text, json, yaml")
	TasksCmd.AddCommand(tasksDoneCmd)
}

// taskRow pairs an action item with the meeting it came from for
// board display and meeting: filters.
type taskRow struct {
	MeetingID string `json:"meeting_id"`
	client.ActionItem
}

// runTasks executes the tasks board command.
func runTasks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := resolveFormat(cfg, tasksOutput)
	if err != nil {
		return err
	}

	query, err := taskquery.Parse(strings.Join(args, " "))
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

	rows, source, err := collectTasks(ctx, cfg, apiClient, store)
	if err != nil {
		return err
	}
	rows = applyOverrides(ctx, store, rows)

	filtered := rows[:0:0]
	for _, r := range rows {
		if query.Match(r.ActionItem, r.MeetingID) {
			filtered = append(filtered, r)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })

	return emit(os.Stdout, format, filtered, func(w io.Writer) error {
		writeSourceNote(w, source)
		return writeTaskBoardText(w, filtered)
	})
}

// runTasksDone executes the tasks done command.
func runTasksDone(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[0])
	}

	store, err := openCache(cfg)
	if err != nil {
		return fmt.Errorf("opening local cache: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	if err := store.SetTaskStatus(ctx, id, "done"); err != nil {
		return err
	}

	fmt.Printf("Task %d marked done.\n", id)
	return nil
}

// collectTasks gathers action items from every meeting through the
// fallback chain.
func collectTasks(ctx context.Context, cfg *config.CLIConfig, apiClient *client.Client, store *cache.Cache) ([]taskRow, string, error) {
	fromAPI := func(ctx context.Context) ([]taskRow, error) {
		list, err := apiClient.ListMeetings(ctx)
		if err != nil {
			return nil, err
		}

		var rows []taskRow
		for _, m := range list.Meetings {
			items, err := apiClient.GetActionItems(ctx, m.Platform, m.NativeMeetingID)
			if err != nil {
				// Unprocessed meetings simply contribute no tasks.
				if qerrors.IsNotFound(err) || errors.Is(err, qerrors.ErrNotProcessed) {
					continue
				}
				return nil, err
			}
			for _, item := range items.ActionItems {
				rows = append(rows, taskRow{MeetingID: m.NativeMeetingID, ActionItem: item})
			}
		}
		return rows, nil
	}

	var writeThrough func(context.Context, []taskRow) error
	var fromCache func(context.Context) ([]taskRow, error)
	if store != nil {
		writeThrough = func(ctx context.Context, rows []taskRow) error {
			byMeeting := map[string][]client.ActionItem{}
			for _, r := range rows {
				byMeeting[r.MeetingID] = append(byMeeting[r.MeetingID], r.ActionItem)
			}
			for meetingID, items := range byMeeting {
				if err := store.PutActionItems(ctx, meetingID, items); err != nil {
					return err
				}
			}
			return nil
		}
		fromCache = func(ctx context.Context) ([]taskRow, error) {
			cached, err := store.AllTasks(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]taskRow, len(cached))
			for i, t := range cached {
				rows[i] = taskRow{MeetingID: t.MeetingID, ActionItem: t.Item}
			}
			return rows, nil
		}
	}

	sample := func() ([]taskRow, bool) {
		var rows []taskRow
		for _, m := range fixtures.Meetings() {
			for _, item := range fixtures.ActionItems(m.NativeMeetingID) {
				rows = append(rows, taskRow{MeetingID: m.NativeMeetingID, ActionItem: item})
			}
		}
		return rows, len(rows) > 0
	}

	return resolveView(ctx, cfg, "tasks", fromAPI, writeThrough, fromCache, sample)
}

// applyOverrides overlays locally recorded status marks. Cache reads
// already have them applied; API and sample rows need them here.
func applyOverrides(ctx context.Context, store *cache.Cache, rows []taskRow) []taskRow {
	if store == nil {
		return rows
	}
	overrides, err := store.TaskStatusOverrides(ctx)
	if err != nil || len(overrides) == 0 {
		return rows
	}
	for i := range rows {
		if status, ok := overrides[rows[i].ID]; ok {
			rows[i].Status = status
		}
	}
	return rows
}

// taskItems strips the meeting association from board rows.
func taskItems(rows []taskRow) []client.ActionItem {
	items := make([]client.ActionItem, len(rows))
	for i, r := range rows {
		items[i] = r.ActionItem
	}
	return items
}

// writeTaskBoardText renders the task board for terminal display.
func writeTaskBoardText(w io.Writer, rows []taskRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No matching tasks.")
		return nil
	}

	fmt.Fprintf(w, "Tasks (%d):\n\n", len(rows))
	fmt.Fprintf(w, "  %-4s %-42s %-16s %-12s %-8s %-8s %s\n",
		"ID", "TASK", "OWNER", "DUE", "PRIO", "STATUS", "MEETING")
	for _, r := range rows {
		fmt.Fprintf(w, "  %-4d %-42s %-16s %-12s %-8s %-8s %s\n",
			r.ID, truncate(r.Task, 42), truncate(r.Owner, 16), r.DueDate,
			r.Priority, r.Status, truncate(r.MeetingID, 24))
	}
	return nil
}
