// Package fixtures holds the static demo dataset the CLI falls back to when
// the remote API is unreachable and the local cache is empty. The data is
// deterministic so views render identically across runs.
package fixtures

import (
	"time"

	"github.com/quantum-ai/quantum-cli/client"
)

// Demo meeting identifiers.
const (
	MeetingSprintPlanning = "demo-sprint-planning"
	MeetingProductReview  = "demo-product-review"
	MeetingIncidentRetro  = "demo-incident-retro"
)

// baseDay anchors the demo calendar. Meetings are placed relative to the
// current month so the calendar view always has content.
func baseDay() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), 1, 9, 0, 0, 0, time.Local)
}

// Meetings returns the demo meeting list.
func Meetings() []client.Meeting {
	base := baseDay()
	return []client.Meeting{
		{
			Platform:        client.PlatformGoogleMeet,
			NativeMeetingID: MeetingSprintPlanning,
			Title:           "Sprint Planning",
			Status:          "completed",
			StartTime:       base.AddDate(0, 0, 2),
			EndTime:         base.AddDate(0, 0, 2).Add(45 * time.Minute),
			Participants:    []string{"Alex Chen", "Sam Rivera", "Priya Patel"},
			Languages:       []string{"en"},
		},
		{
			Platform:        client.PlatformGoogleMeet,
			NativeMeetingID: MeetingProductReview,
			Title:           "Product Review",
			Status:          "completed",
			StartTime:       base.AddDate(0, 0, 9),
			EndTime:         base.AddDate(0, 0, 9).Add(30 * time.Minute),
			Participants:    []string{"Alex Chen", "Jordan Lee"},
			Languages:       []string{"en"},
		},
		{
			Platform:        client.PlatformTeams,
			NativeMeetingID: MeetingIncidentRetro,
			Title:           "Incident Retrospective",
			Status:          "completed",
			StartTime:       base.AddDate(0, 0, 16),
			EndTime:         base.AddDate(0, 0, 16).Add(60 * time.Minute),
			Participants:    []string{"Sam Rivera", "Priya Patel", "Jordan Lee"},
			Languages:       []string{"en"},
		},
	}
}

// Transcript returns the demo transcript for a meeting, or nil if the id is
// not part of the demo set.
func Transcript(meetingID string) []client.TranscriptSegment {
	switch meetingID {
	case MeetingSprintPlanning:
		return []client.TranscriptSegment{
			{Speaker: "Alex Chen", Timestamp: "00:00:04", Text: "Let's walk the board. The payment migration carries over."},
			{Speaker: "Sam Rivera", Timestamp: "00:00:18", Text: "I can finish the idempotency keys by Thursday."},
			{Speaker: "Priya Patel", Timestamp: "00:00:31", Text: "Dashboard latency work is blocked on the metrics rollup."},
			{Speaker: "Alex Chen", Timestamp: "00:00:47", Text: "Then we pull the rollup into this sprint. Sam, can you pair with Priya?"},
			{Speaker: "Sam Rivera", Timestamp: "00:01:02", Text: "Sure, Friday works."},
		}
	case MeetingProductReview:
		return []client.TranscriptSegment{
			{Speaker: "Jordan Lee", Timestamp: "00:00:06", Text: "Activation is up four percent since the onboarding change."},
			{Speaker: "Alex Chen", Timestamp: "00:00:21", Text: "Good. The churn cohort still worries me, let's dig into week two."},
			{Speaker: "Jordan Lee", Timestamp: "00:00:39", Text: "I'll prepare the cohort breakdown for next review."},
		}
	case MeetingIncidentRetro:
		return []client.TranscriptSegment{
			{Speaker: "Priya Patel", Timestamp: "00:00:08", Text: "Timeline first. The queue backed up at 14:02, alerts fired at 14:19."},
			{Speaker: "Sam Rivera", Timestamp: "00:00:25", Text: "Seventeen minutes blind. The consumer lag alert threshold is too loose."},
			{Speaker: "Jordan Lee", Timestamp: "00:00:44", Text: "Agreed. We also need a runbook entry for the replay procedure."},
			{Speaker: "Priya Patel", Timestamp: "00:01:01", Text: "I'll take the threshold change, Jordan takes the runbook."},
		}
	}
	return nil
}

// Summary returns the demo summary for a meeting, or nil.
func Summary(meetingID string) *client.Summary {
	switch meetingID {
	case MeetingSprintPlanning:
		return &client.Summary{
			Success: true,
			Summary: "The team planned the sprint around the payment migration carry-over. The metrics rollup was pulled forward to unblock dashboard latency work.",
			KeyPoints: []string{
				"Payment migration carries over from last sprint",
				"Metrics rollup pulled into this sprint",
				"Sam and Priya pair on the rollup Friday",
			},
			Decisions: []string{
				"Prioritize the metrics rollup over new dashboard features",
			},
		}
	case MeetingProductReview:
		return &client.Summary{
			Success: true,
			Summary: "Activation improved four percent after the onboarding change. Week-two churn remains the open concern.",
			KeyPoints: []string{
				"Activation up 4% since onboarding change",
				"Week-two churn cohort needs analysis",
			},
			Decisions: []string{
				"Cohort breakdown due at next review",
			},
		}
	case MeetingIncidentRetro:
		return &client.Summary{
			Success: true,
			Summary: "The retro covered the queue backlog incident. Detection took seventeen minutes due to a loose consumer lag alert threshold; the replay procedure was undocumented.",
			KeyPoints: []string{
				"17 minute detection gap",
				"Consumer lag alert threshold too loose",
				"Replay procedure undocumented",
			},
			Decisions: []string{
				"Tighten the consumer lag alert threshold",
				"Add a replay runbook entry",
			},
		}
	}
	return nil
}

// ActionItems returns the demo action items for a meeting, or for all demo
// meetings when meetingID is empty. IDs are stable across calls.
func ActionItems(meetingID string) []client.ActionItem {
	base := baseDay()
	due := func(days int) string {
		return base.AddDate(0, 0, days).Format("2006-01-02")
	}

	all := map[string][]client.ActionItem{
		MeetingSprintPlanning: {
			{ID: 1, Task: "Finish idempotency keys for payment migration", Owner: "Sam Rivera", DueDate: due(5), Priority: "high", Status: "todo"},
			{ID: 2, Task: "Pair on metrics rollup", Owner: "Priya Patel", DueDate: due(6), Priority: "medium", Status: "todo"},
		},
		MeetingProductReview: {
			{ID: 3, Task: "Prepare week-two churn cohort breakdown", Owner: "Jordan Lee", DueDate: due(14), Priority: "medium", Status: "todo"},
		},
		MeetingIncidentRetro: {
			{ID: 4, Task: "Tighten consumer lag alert threshold", Owner: "Priya Patel", DueDate: due(18), Priority: "high", Status: "in_progress"},
			{ID: 5, Task: "Write replay procedure runbook entry", Owner: "Jordan Lee", DueDate: due(21), Priority: "low", Status: "todo"},
		},
	}

	if meetingID != "" {
		return all[meetingID]
	}

	var items []client.ActionItem
	for _, id := range []string{MeetingSprintPlanning, MeetingProductReview, MeetingIncidentRetro} {
		items = append(items, all[id]...)
	}
	return items
}

// Participants returns the demo participants for a meeting, or nil.
func Participants(meetingID string) []client.Participant {
	switch meetingID {
	case MeetingSprintPlanning:
		return []client.Participant{
			{ID: 1, Name: "Alex Chen"},
			{ID: 2, Name: "Sam Rivera"},
			{ID: 3, Name: "Priya Patel"},
		}
	case MeetingProductReview:
		return []client.Participant{
			{ID: 1, Name: "Alex Chen"},
			{ID: 4, Name: "Jordan Lee"},
		}
	case MeetingIncidentRetro:
		return []client.Participant{
			{ID: 2, Name: "Sam Rivera"},
			{ID: 3, Name: "Priya Patel"},
			{ID: 4, Name: "Jordan Lee"},
		}
	}
	return nil
}

// Emotions returns the demo emotion report for a meeting, or nil.
func Emotions(meetingID string) *client.EmotionReport {
	var timeline []client.EmotionPoint
	switch meetingID {
	case MeetingSprintPlanning:
		timeline = []client.EmotionPoint{
			{Timestamp: "00:00:10", Emotion: "neutral", Intensity: 0.6},
			{Timestamp: "00:00:40", Emotion: "concerned", Intensity: 0.5},
			{Timestamp: "00:01:00", Emotion: "happy", Intensity: 0.7},
		}
	case MeetingProductReview:
		timeline = []client.EmotionPoint{
			{Timestamp: "00:00:10", Emotion: "happy", Intensity: 0.8},
			{Timestamp: "00:00:30", Emotion: "concerned", Intensity: 0.4},
		}
	case MeetingIncidentRetro:
		timeline = []client.EmotionPoint{
			{Timestamp: "00:00:15", Emotion: "concerned", Intensity: 0.7},
			{Timestamp: "00:00:45", Emotion: "frustrated", Intensity: 0.5},
			{Timestamp: "00:01:05", Emotion: "neutral", Intensity: 0.6},
		}
	default:
		return nil
	}

	return &client.EmotionReport{
		Success:      true,
		OverallScore: OverallEmotionScore(timeline),
		Timeline:     timeline,
	}
}

// Emotion score weights on a 1-10 scale.
var emotionScores = map[string]float64{
	"happy":      9.0,
	"neutral":    7.0,
	"concerned":  5.0,
	"frustrated": 3.0,
}

// defaultEmotionScore is returned for an empty timeline.
const defaultEmotionScore = 7.0

// OverallEmotionScore reduces a timeline to a single 1-10 score, weighting
// each point by its intensity.
func OverallEmotionScore(timeline []client.EmotionPoint) float64 {
	if len(timeline) == 0 {
		return defaultEmotionScore
	}

	var weighted, weights float64
	for _, p := range timeline {
		score, ok := emotionScores[p.Emotion]
		if !ok {
			score = defaultEmotionScore
		}
		intensity := p.Intensity
		if intensity <= 0 {
			intensity = 0.5
		}
		weighted += score * intensity
		weights += intensity
	}
	if weights == 0 {
		return defaultEmotionScore
	}
	return weighted / weights
}
