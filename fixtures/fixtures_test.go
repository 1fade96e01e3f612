package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantum-ai/quantum-cli/client"
)

func TestMeetingsDeterministic(t *testing.T) {
	a := Meetings()
	b := Meetings()

	require.Len(t, a, 3)
	for i := range a {
		assert.Equal(t, a[i].NativeMeetingID, b[i].NativeMeetingID)
		assert.Equal(t, a[i].Title, b[i].Title)
	}
}

func TestEveryMeetingHasFullDataset(t *testing.T) {
	for _, m := range Meetings() {
		id := m.NativeMeetingID
		assert.NotEmpty(t, Transcript(id), "transcript for %s", id)
		assert.NotNil(t, Summary(id), "summary for %s", id)
		assert.NotEmpty(t, ActionItems(id), "action items for %s", id)
		assert.NotEmpty(t, Participants(id), "participants for %s", id)
		assert.NotNil(t, Emotions(id), "emotions for %s", id)
	}
}

func TestUnknownMeetingReturnsNothing(t *testing.T) {
	assert.Nil(t, Transcript("nope"))
	assert.Nil(t, Summary("nope"))
	assert.Empty(t, ActionItems("nope"))
	assert.Nil(t, Participants("nope"))
	assert.Nil(t, Emotions("nope"))
}

func TestActionItemIDsUnique(t *testing.T) {
	seen := map[int64]bool{}
	for _, item := range ActionItems("") {
		assert.False(t, seen[item.ID], "duplicate action item id %d", item.ID)
		seen[item.ID] = true
	}
}

func TestOverallEmotionScore(t *testing.T) {
	tests := []struct {
		name     string
		timeline []client.EmotionPoint
		want     float64
	}{
		{
			name: "empty timeline defaults to neutral-positive",
			want: 7.0,
		},
		{
			name: "single happy point",
			timeline: []client.EmotionPoint{
				{Emotion: "happy", Intensity: 1.0},
			},
			want: 9.0,
		},
		{
			name: "unknown emotion scores neutral",
			timeline: []client.EmotionPoint{
				{Emotion: "bewildered", Intensity: 1.0},
			},
			want: 7.0,
		},
		{
			name: "intensity weighting",
			timeline: []client.EmotionPoint{
				{Emotion: "happy", Intensity: 1.0},
				{Emotion: "frustrated", Intensity: 0.5},
			},
			// (9*1.0 + 3*0.5) / 1.5
			want: 7.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, OverallEmotionScore(tc.timeline), 0.001)
		})
	}
}

func TestEmotionScoreInRange(t *testing.T) {
	for _, m := range Meetings() {
		report := Emotions(m.NativeMeetingID)
		require.NotNil(t, report)
		assert.GreaterOrEqual(t, report.OverallScore, 1.0)
		assert.LessOrEqual(t, report.OverallScore, 10.0)
	}
}
