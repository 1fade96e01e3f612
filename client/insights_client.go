package client

import (
	"context"
	"fmt"
)

// GetSummary returns the AI-generated summary for a processed meeting.
// Fails with ErrNotFound if the meeting has not been processed.
func (c *Client) GetSummary(ctx context.Context, platform, meetingID string) (*Summary, error) {
	var resp Summary
	path := fmt.Sprintf("/meetings/%s/%s/summary", platform, meetingID)
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetActionItems returns the action items extracted from a meeting.
func (c *Client) GetActionItems(ctx context.Context, platform, meetingID string) (*ActionItemList, error) {
	var resp ActionItemList
	path := fmt.Sprintf("/meetings/%s/%s/action-items", platform, meetingID)
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetParticipants returns the participants detected in a meeting.
func (c *Client) GetParticipants(ctx context.Context, platform, meetingID string) (*ParticipantList, error) {
	var resp ParticipantList
	path := fmt.Sprintf("/meetings/%s/%s/participants", platform, meetingID)
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetEmotions returns the emotion timeline and overall score for a meeting.
func (c *Client) GetEmotions(ctx context.Context, platform, meetingID string) (*EmotionReport, error) {
	var resp EmotionReport
	path := fmt.Sprintf("/meetings/%s/%s/emotions", platform, meetingID)
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMeetingStatus returns the processing status of a meeting. A meeting the
// server has never processed reports status "not_processed" rather than 404.
func (c *Client) GetMeetingStatus(ctx context.Context, platform, meetingID string) (*MeetingStatus, error) {
	var resp MeetingStatus
	path := fmt.Sprintf("/meetings/%s/%s/status", platform, meetingID)
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
