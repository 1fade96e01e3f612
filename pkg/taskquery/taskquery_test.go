package taskquery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantum-ai/quantum-cli/client"
)

func TestParse(t *testing.T) {
	t.Run("empty input matches everything", func(t *testing.T) {
		q, err := Parse("")
		require.NoError(t, err)
		assert.True(t, q.Empty())
		assert.True(t, q.Match(client.ActionItem{Task: "anything"}, "m1"))
	})

	t.Run("field filters", func(t *testing.T) {
		q, err := Parse("status:todo priority:high")
		require.NoError(t, err)
		require.Len(t, q.Filters, 2)
		assert.Equal(t, Filter{Field: "status", Value: "todo"}, q.Filters[0])
		assert.Equal(t, Filter{Field: "priority", Value: "high"}, q.Filters[1])
	})

	t.Run("quoted value", func(t *testing.T) {
		q, err := Parse(`owner:"Priya Patel"`)
		require.NoError(t, err)
		require.Len(t, q.Filters, 1)
		assert.Equal(t, "Priya Patel", q.Filters[0].Value)
	})

	t.Run("negated filter", func(t *testing.T) {
		q, err := Parse("-status:done")
		require.NoError(t, err)
		require.Len(t, q.Filters, 1)
		assert.True(t, q.Filters[0].Negated)
	})

	t.Run("free text", func(t *testing.T) {
		q, err := Parse(`runbook "alert threshold"`)
		require.NoError(t, err)
		assert.Equal(t, []string{"runbook", "alert threshold"}, q.Text)
	})

	t.Run("due date bounds", func(t *testing.T) {
		q, err := Parse("due-after:2026-08-01 due-before:2026-09-01")
		require.NoError(t, err)
		require.NotNil(t, q.DueAfter)
		require.NotNil(t, q.DueBefore)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *q.DueAfter)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := Parse("due-before:soon")
		require.Error(t, err)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse("severity:high")
		assert.Error(t, err)
	})

	t.Run("unclosed quote", func(t *testing.T) {
		_, err := Parse(`owner:"Priya`)
		assert.Error(t, err)
	})
}

func TestMatch(t *testing.T) {
	item := client.ActionItem{
		ID:       4,
		Task:     "Tighten consumer lag alert threshold",
		Owner:    "Priya Patel",
		DueDate:  "2026-08-19",
		Priority: "high",
		Status:   "in_progress",
	}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"status match", "status:in_progress", true},
		{"status mismatch", "status:done", false},
		{"status case-insensitive", "status:IN_PROGRESS", true},
		{"negated status", "-status:done", true},
		{"negated status excludes", "-status:in_progress", false},
		{"owner partial match", "owner:priya", true},
		{"owner quoted full name", `owner:"Priya Patel"`, true},
		{"meeting filter", "meeting:demo-incident-retro", true},
		{"meeting mismatch", "meeting:other", false},
		{"free text match", "alert threshold", true},
		{"free text mismatch", "payment", false},
		{"due window hit", "due-after:2026-08-01 due-before:2026-09-01", true},
		{"due window miss", "due-before:2026-08-01", false},
		{"combined", "priority:high owner:priya alert", true},
		{"combined miss", "priority:low owner:priya alert", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := Parse(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, q.Match(item, "demo-incident-retro"))
		})
	}
}

func TestMatchUnparseableDueDate(t *testing.T) {
	q, err := Parse("due-before:2026-09-01")
	require.NoError(t, err)

	// An item with no due date cannot satisfy a due-date bound.
	assert.False(t, q.Match(client.ActionItem{Task: "x", DueDate: ""}, "m1"))
}
