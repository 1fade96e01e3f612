package client

import (
	"context"
	"fmt"
)

// processRequest is the body of POST /meetings/{platform}/{id}/process.
type processRequest struct {
	Title string `json:"title,omitempty"`
}

// ListMeetings returns all meetings known to the bot service.
func (c *Client) ListMeetings(ctx context.Context) (*MeetingList, error) {
	var resp MeetingList
	if err := c.do(ctx, "GET", "/meetings/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTranscript fetches the transcript for a meeting. It can be called during
// the meeting for a partial transcript or after it for the full one.
func (c *Client) GetTranscript(ctx context.Context, platform, meetingID string) (*TranscriptResponse, error) {
	var resp TranscriptResponse
	path := fmt.Sprintf("/meetings/%s/%s/transcript", platform, meetingID)
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateMeeting patches meeting metadata. Zero-valued fields in req are left
// unchanged server-side.
func (c *Client) UpdateMeeting(ctx context.Context, platform, meetingID string, req *UpdateMeetingRequest) (*Ack, error) {
	var resp Ack
	path := fmt.Sprintf("/meetings/%s/%s", platform, meetingID)
	if err := c.do(ctx, "PATCH", path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteMeeting deletes a meeting's transcripts and anonymizes its data.
// The server only accepts this for completed or failed meetings.
func (c *Client) DeleteMeeting(ctx context.Context, platform, meetingID string) (*Ack, error) {
	var resp Ack
	path := fmt.Sprintf("/meetings/%s/%s", platform, meetingID)
	if err := c.do(ctx, "DELETE", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProcessMeeting runs the AI pipeline over a meeting's transcript: summary,
// action items, participants, and emotion timeline are generated and stored
// server-side for the insight endpoints to read.
func (c *Client) ProcessMeeting(ctx context.Context, platform, meetingID, title string) (*ProcessResponse, error) {
	var resp ProcessResponse
	path := fmt.Sprintf("/meetings/%s/%s/process", platform, meetingID)
	if err := c.do(ctx, "POST", path, processRequest{Title: title}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
