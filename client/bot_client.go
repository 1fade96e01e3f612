package client

import (
	"context"
	"fmt"
)

// startBotRequest is the body of POST /bots/start.
type startBotRequest struct {
	Platform   string `json:"platform"`
	MeetingURL string `json:"meeting_url"`
	Language   string `json:"language,omitempty"`
	BotName    string `json:"bot_name,omitempty"`
}

// stopBotRequest is the body of POST /bots/stop.
type stopBotRequest struct {
	Platform        string `json:"platform"`
	NativeMeetingID string `json:"native_meeting_id"`
}

// updateLanguageRequest is the body of PUT /bots/{platform}/{id}/language.
type updateLanguageRequest struct {
	Language string `json:"language"`
}

// StartBot requests a transcription bot to join the meeting at meetingURL.
// The server extracts the native meeting id from the URL; the bot joins
// within roughly ten seconds.
func (c *Client) StartBot(ctx context.Context, platform, meetingURL, language, botName string) (*BotResponse, error) {
	var resp BotResponse
	err := c.do(ctx, "POST", "/bots/start", startBotRequest{
		Platform:   platform,
		MeetingURL: meetingURL,
		Language:   language,
		BotName:    botName,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopBot removes the bot from a meeting. Stopping promptly frees API
// credits on the hosted service.
func (c *Client) StopBot(ctx context.Context, platform, nativeMeetingID string) (*BotResponse, error) {
	var resp BotResponse
	err := c.do(ctx, "POST", "/bots/stop", stopBotRequest{
		Platform:        platform,
		NativeMeetingID: nativeMeetingID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// BotStatus lists all currently running bots.
func (c *Client) BotStatus(ctx context.Context) (*BotList, error) {
	var resp BotList
	if err := c.do(ctx, "GET", "/bots/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateBotLanguage switches the bot's transcription language mid-meeting.
func (c *Client) UpdateBotLanguage(ctx context.Context, platform, nativeMeetingID, language string) (*Ack, error) {
	var resp Ack
	path := fmt.Sprintf("/bots/%s/%s/language", platform, nativeMeetingID)
	err := c.do(ctx, "PUT", path, updateLanguageRequest{Language: language}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
