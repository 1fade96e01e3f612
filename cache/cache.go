// Package cache is the local results store. Successful insight fetches are
// written through so views keep working when the API is unreachable, and task
// status changes made from the CLI live here only.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quantum-ai/quantum-cli/client"
	qerrors "github.com/quantum-ai/quantum-cli/pkg/errors"
	"github.com/quantum-ai/quantum-cli/pkg/logging"
)

// schema creates the cache tables. Mirrors the server's result model plus a
// local status override for action items.
const schema = `
CREATE TABLE IF NOT EXISTS meetings (
	platform          TEXT NOT NULL,
	native_meeting_id TEXT NOT NULL,
	title             TEXT,
	status            TEXT,
	start_time        TEXT,
	end_time          TEXT,
	participants      TEXT,
	languages         TEXT,
	notes             TEXT,
	fetched_at        TEXT NOT NULL,
	PRIMARY KEY (platform, native_meeting_id)
);

CREATE TABLE IF NOT EXISTS transcripts (
	meeting_id TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	speaker    TEXT,
	timestamp  TEXT,
	text       TEXT NOT NULL,
	PRIMARY KEY (meeting_id, seq)
);

CREATE TABLE IF NOT EXISTS summaries (
	meeting_id TEXT PRIMARY KEY,
	summary    TEXT,
	key_points TEXT,
	decisions  TEXT,
	fetched_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS action_items (
	id         INTEGER NOT NULL,
	meeting_id TEXT NOT NULL,
	task       TEXT NOT NULL,
	owner      TEXT,
	due_date   TEXT,
	priority   TEXT,
	status     TEXT,
	PRIMARY KEY (meeting_id, id)
);

CREATE TABLE IF NOT EXISTS task_status_overrides (
	item_id    INTEGER PRIMARY KEY,
	status     TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
	meeting_id TEXT NOT NULL,
	id         INTEGER NOT NULL,
	name       TEXT NOT NULL,
	email      TEXT,
	PRIMARY KEY (meeting_id, id)
);

CREATE TABLE IF NOT EXISTS emotions (
	meeting_id TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	timestamp  TEXT,
	emotion    TEXT,
	intensity  REAL,
	PRIMARY KEY (meeting_id, seq)
);
`

// Cache is a SQLite-backed store of fetched results.
type Cache struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (and if needed creates) the cache database at path.
func Open(path string, logger logging.Logger) (*Cache, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// The CLI is single-process; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}

	logger.Debug("cache opened", logging.F("path", path))
	return &Cache{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// PutMeetings replaces the cached meeting list.
func (c *Cache) PutMeetings(ctx context.Context, meetings []client.Meeting) error {
	return c.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM meetings`); err != nil {
			return err
		}
		for _, m := range meetings {
			participants, _ := json.Marshal(m.Participants)
			languages, _ := json.Marshal(m.Languages)
			_, err := tx.ExecContext(ctx, `
				INSERT INTO meetings
					(platform, native_meeting_id, title, status, start_time, end_time, participants, languages, notes, fetched_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				m.Platform, m.NativeMeetingID, m.Title, m.Status,
				m.StartTime.Format(time.RFC3339), m.EndTime.Format(time.RFC3339),
				string(participants), string(languages), m.Notes, now())
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Meetings returns the cached meeting list. ErrNotFound if the cache is empty.
func (c *Cache) Meetings(ctx context.Context) ([]client.Meeting, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT platform, native_meeting_id, title, status, start_time, end_time, participants, languages, notes
		FROM meetings ORDER BY start_time`)
	if err != nil {
		return nil, fmt.Errorf("reading cached meetings: %w", err)
	}
	defer rows.Close()

	var meetings []client.Meeting
	for rows.Next() {
		var m client.Meeting
		var start, end, participants, languages string
		if err := rows.Scan(&m.Platform, &m.NativeMeetingID, &m.Title, &m.Status,
			&start, &end, &participants, &languages, &m.Notes); err != nil {
			return nil, fmt.Errorf("scanning cached meeting: %w", err)
		}
		m.StartTime, _ = time.Parse(time.RFC3339, start)
		m.EndTime, _ = time.Parse(time.RFC3339, end)
		json.Unmarshal([]byte(participants), &m.Participants)
		json.Unmarshal([]byte(languages), &m.Languages)
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(meetings) == 0 {
		return nil, qerrors.ErrNotFound
	}
	return meetings, nil
}

// PutTranscript replaces the cached transcript for a meeting.
func (c *Cache) PutTranscript(ctx context.Context, meetingID string, segments []client.TranscriptSegment) error {
	return c.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transcripts WHERE meeting_id = ?`, meetingID); err != nil {
			return err
		}
		for i, seg := range segments {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO transcripts (meeting_id, seq, speaker, timestamp, text)
				VALUES (?, ?, ?, ?, ?)`,
				meetingID, i, seg.Speaker, seg.Timestamp, seg.Text)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Transcript returns the cached transcript. ErrNotFound if absent.
func (c *Cache) Transcript(ctx context.Context, meetingID string) ([]client.TranscriptSegment, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT speaker, timestamp, text FROM transcripts
		WHERE meeting_id = ? ORDER BY seq`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("reading cached transcript: %w", err)
	}
	defer rows.Close()

	var segments []client.TranscriptSegment
	for rows.Next() {
		var seg client.TranscriptSegment
		if err := rows.Scan(&seg.Speaker, &seg.Timestamp, &seg.Text); err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, qerrors.ErrNotFound
	}
	return segments, nil
}

// PutSummary caches a meeting summary.
func (c *Cache) PutSummary(ctx context.Context, meetingID string, s *client.Summary) error {
	keyPoints, _ := json.Marshal(s.KeyPoints)
	decisions, _ := json.Marshal(s.Decisions)
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO summaries (meeting_id, summary, key_points, decisions, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(meeting_id) DO UPDATE SET
			summary = excluded.summary,
			key_points = excluded.key_points,
			decisions = excluded.decisions,
			fetched_at = excluded.fetched_at`,
		meetingID, s.Summary, string(keyPoints), string(decisions), now())
	if err != nil {
		return fmt.Errorf("caching summary: %w", err)
	}
	return nil
}

// Summary returns the cached summary. ErrNotFound if absent.
func (c *Cache) Summary(ctx context.Context, meetingID string) (*client.Summary, error) {
	var s client.Summary
	var keyPoints, decisions string
	err := c.db.QueryRowContext(ctx, `
		SELECT summary, key_points, decisions FROM summaries WHERE meeting_id = ?`,
		meetingID).Scan(&s.Summary, &keyPoints, &decisions)
	if err == sql.ErrNoRows {
		return nil, qerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached summary: %w", err)
	}
	json.Unmarshal([]byte(keyPoints), &s.KeyPoints)
	json.Unmarshal([]byte(decisions), &s.Decisions)
	s.Success = true
	return &s, nil
}

// PutActionItems replaces the cached action items for a meeting.
func (c *Cache) PutActionItems(ctx context.Context, meetingID string, items []client.ActionItem) error {
	return c.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM action_items WHERE meeting_id = ?`, meetingID); err != nil {
			return err
		}
		for _, item := range items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO action_items (id, meeting_id, task, owner, due_date, priority, status)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				item.ID, meetingID, item.Task, item.Owner, item.DueDate, item.Priority, item.Status)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ActionItems returns cached action items for a meeting, or for all meetings
// when meetingID is empty. Local status overrides are applied.
func (c *Cache) ActionItems(ctx context.Context, meetingID string) ([]client.ActionItem, error) {
	query := `
		SELECT a.id, a.task, a.owner, a.due_date, a.priority,
			COALESCE(o.status, a.status)
		FROM action_items a
		LEFT JOIN task_status_overrides o ON o.item_id = a.id`
	args := []any{}
	if meetingID != "" {
		query += ` WHERE a.meeting_id = ?`
		args = append(args, meetingID)
	}
	query += ` ORDER BY a.id`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading cached action items: %w", err)
	}
	defer rows.Close()

	var items []client.ActionItem
	for rows.Next() {
		var item client.ActionItem
		if err := rows.Scan(&item.ID, &item.Task, &item.Owner, &item.DueDate, &item.Priority, &item.Status); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, qerrors.ErrNotFound
	}
	return items, nil
}

// TaskRow pairs a cached action item with the meeting it came from.
type TaskRow struct {
	MeetingID string
	Item      client.ActionItem
}

// AllTasks returns every cached action item together with its meeting id,
// with local status overrides applied.
func (c *Cache) AllTasks(ctx context.Context) ([]TaskRow, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT a.meeting_id, a.id, a.task, a.owner, a.due_date, a.priority,
			COALESCE(o.status, a.status)
		FROM action_items a
		LEFT JOIN task_status_overrides o ON o.item_id = a.id
		ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("reading cached tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskRow
	for rows.Next() {
		var row TaskRow
		if err := rows.Scan(&row.MeetingID, &row.Item.ID, &row.Item.Task, &row.Item.Owner,
			&row.Item.DueDate, &row.Item.Priority, &row.Item.Status); err != nil {
			return nil, err
		}
		tasks = append(tasks, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, qerrors.ErrNotFound
	}
	return tasks, nil
}

// SetTaskStatus records a local status override for an action item. The
// change never leaves this machine; the server copy is untouched.
func (c *Cache) SetTaskStatus(ctx context.Context, itemID int64, status string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO task_status_overrides (item_id, status, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at`,
		itemID, status, now())
	if err != nil {
		return fmt.Errorf("recording task status: %w", err)
	}
	return nil
}

// TaskStatusOverrides returns all local status overrides keyed by item id.
func (c *Cache) TaskStatusOverrides(ctx context.Context) (map[int64]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT item_id, status FROM task_status_overrides`)
	if err != nil {
		return nil, fmt.Errorf("reading task overrides: %w", err)
	}
	defer rows.Close()

	overrides := map[int64]string{}
	for rows.Next() {
		var id int64
		var status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		overrides[id] = status
	}
	return overrides, rows.Err()
}

// PutParticipants replaces the cached participants for a meeting.
func (c *Cache) PutParticipants(ctx context.Context, meetingID string, participants []client.Participant) error {
	return c.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE meeting_id = ?`, meetingID); err != nil {
			return err
		}
		for _, p := range participants {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO participants (meeting_id, id, name, email)
				VALUES (?, ?, ?, ?)`,
				meetingID, p.ID, p.Name, p.Email)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Participants returns cached participants. ErrNotFound if absent.
func (c *Cache) Participants(ctx context.Context, meetingID string) ([]client.Participant, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, email FROM participants WHERE meeting_id = ? ORDER BY id`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("reading cached participants: %w", err)
	}
	defer rows.Close()

	var participants []client.Participant
	for rows.Next() {
		var p client.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Email); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, qerrors.ErrNotFound
	}
	return participants, nil
}

// PutEmotions replaces the cached emotion timeline for a meeting.
func (c *Cache) PutEmotions(ctx context.Context, meetingID string, timeline []client.EmotionPoint) error {
	return c.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM emotions WHERE meeting_id = ?`, meetingID); err != nil {
			return err
		}
		for i, p := range timeline {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO emotions (meeting_id, seq, timestamp, emotion, intensity)
				VALUES (?, ?, ?, ?, ?)`,
				meetingID, i, p.Timestamp, p.Emotion, p.Intensity)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Emotions returns the cached emotion timeline. ErrNotFound if absent.
func (c *Cache) Emotions(ctx context.Context, meetingID string) ([]client.EmotionPoint, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT timestamp, emotion, intensity FROM emotions
		WHERE meeting_id = ? ORDER BY seq`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("reading cached emotions: %w", err)
	}
	defer rows.Close()

	var timeline []client.EmotionPoint
	for rows.Next() {
		var p client.EmotionPoint
		if err := rows.Scan(&p.Timestamp, &p.Emotion, &p.Intensity); err != nil {
			return nil, err
		}
		timeline = append(timeline, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(timeline) == 0 {
		return nil, qerrors.ErrNotFound
	}
	return timeline, nil
}

// inTx runs fn inside a transaction.
func (c *Cache) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning cache transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cache transaction: %w", err)
	}
	return nil
}
