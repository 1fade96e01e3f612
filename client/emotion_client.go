package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// emotionSessionRequest is the body of the emotion session lifecycle calls.
type emotionSessionRequest struct {
	SessionID string `json:"session_id"`
}

// emotionFrameRequest is the body of POST /process-emotion-frame.
type emotionFrameRequest struct {
	SessionID string `json:"session_id"`
	Frame     string `json:"frame"`
}

// StartEmotionAnalysis opens a live emotion-analysis session. The session id
// is generated client-side so frames can be attributed before the server
// acknowledges.
func (c *Client) StartEmotionAnalysis(ctx context.Context) (*EmotionSession, error) {
	sessionID := uuid.NewString()

	var resp EmotionSession
	err := c.do(ctx, "POST", "/start-emotion-analysis", emotionSessionRequest{
		SessionID: sessionID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.SessionID == "" {
		resp.SessionID = sessionID
	}
	return &resp, nil
}

// ProcessEmotionFrame submits one captured frame to a live session.
// The frame bytes are base64-encoded in the JSON body.
func (c *Client) ProcessEmotionFrame(ctx context.Context, sessionID string, frame []byte) (*FrameResult, error) {
	var resp FrameResult
	err := c.do(ctx, "POST", "/process-emotion-frame", emotionFrameRequest{
		SessionID: sessionID,
		Frame:     base64.StdEncoding.EncodeToString(frame),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopEmotionAnalysis closes a live emotion-analysis session.
func (c *Client) StopEmotionAnalysis(ctx context.Context, sessionID string) (*Ack, error) {
	var resp Ack
	err := c.do(ctx, "POST", "/stop-emotion-analysis", emotionSessionRequest{
		SessionID: sessionID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// EmotionAnalysisStatus reports the state of a live session.
func (c *Client) EmotionAnalysisStatus(ctx context.Context, sessionID string) (*EmotionSession, error) {
	var resp EmotionSession
	path := "/emotion-analysis-status?" + url.Values{"session_id": {sessionID}}.Encode()
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalyzeVideoEmotions uploads a recorded video for offline emotion analysis.
// The request is multipart/form-data; no JSON content type is set, the
// multipart writer supplies the boundary.
func (c *Client) AnalyzeVideoEmotions(ctx context.Context, filename string, video io.Reader) (*VideoEmotionReport, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := io.Copy(part, video); err != nil {
		return nil, fmt.Errorf("reading video: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart form: %w", err)
	}

	path := "/meetings/analyze-video-emotions"
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp VideoEmotionReport
	if err := c.send(req, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
