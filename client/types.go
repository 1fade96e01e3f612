package client

import "time"

// Supported meeting platforms.
const (
	PlatformGoogleMeet = "google_meet"
	PlatformTeams      = "teams"
)

// Platforms lists the supported platform identifiers.
var Platforms = []string{PlatformGoogleMeet, PlatformTeams}

// User is the account profile returned by login and signup.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenResponse is returned by login and signup.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Meeting is a meeting record known to the bot service.
type Meeting struct {
	ID              int64     `json:"id,omitempty"`
	Platform        string    `json:"platform"`
	NativeMeetingID string    `json:"native_meeting_id"`
	Title           string    `json:"name,omitempty"`
	Status          string    `json:"status,omitempty"`
	StartTime       time.Time `json:"start_time,omitempty"`
	EndTime         time.Time `json:"end_time,omitempty"`
	Participants    []string  `json:"participants,omitempty"`
	Languages       []string  `json:"languages,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// MeetingList is the response of GET /meetings/.
type MeetingList struct {
	Success  bool      `json:"success"`
	Count    int       `json:"count"`
	Meetings []Meeting `json:"meetings"`
}

// TranscriptSegment is one utterance of a meeting transcript.
type TranscriptSegment struct {
	Speaker   string `json:"speaker,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Text      string `json:"text"`
}

// TranscriptPayload wraps the segment list as the bot service returns it.
type TranscriptPayload struct {
	Segments []TranscriptSegment `json:"transcript"`
}

// TranscriptResponse is the response of GET /meetings/{platform}/{id}/transcript.
type TranscriptResponse struct {
	Success    bool              `json:"success"`
	Platform   string            `json:"platform"`
	MeetingID  string            `json:"meeting_id"`
	Transcript TranscriptPayload `json:"transcript"`
}

// Summary is the AI-generated meeting summary.
type Summary struct {
	Success   bool     `json:"success"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Decisions []string `json:"decisions"`
}

// ActionItem is a task extracted from a meeting.
type ActionItem struct {
	ID       int64  `json:"id"`
	Task     string `json:"task"`
	Owner    string `json:"owner"`
	DueDate  string `json:"due_date"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
}

// ActionItemList is the response of GET /meetings/{platform}/{id}/action-items.
type ActionItemList struct {
	Success     bool         `json:"success"`
	ActionItems []ActionItem `json:"action_items"`
}

// Participant is a detected meeting participant.
type Participant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ParticipantList is the response of GET /meetings/{platform}/{id}/participants.
type ParticipantList struct {
	Success      bool          `json:"success"`
	Participants []Participant `json:"participants"`
}

// EmotionPoint is one entry of a meeting's emotion timeline.
type EmotionPoint struct {
	Timestamp string  `json:"timestamp"`
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"`
}

// EmotionReport is the response of GET /meetings/{platform}/{id}/emotions.
type EmotionReport struct {
	Success      bool           `json:"success"`
	OverallScore float64        `json:"overall_score"`
	Timeline     []EmotionPoint `json:"timeline"`
}

// MeetingStatus is the processing status of a meeting.
// Status is one of "not_processed", "processing", "completed", "failed".
type MeetingStatus struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Title   string `json:"title,omitempty"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message,omitempty"`
}

// ProcessResult summarizes a completed processing run.
type ProcessResult struct {
	MeetingID           string  `json:"meeting_id"`
	Summary             string  `json:"summary"`
	ActionItemsCount    int     `json:"action_items_count"`
	ParticipantsCount   int     `json:"participants_count"`
	OverallEmotionScore float64 `json:"overall_emotion_score"`
}

// ProcessResponse is the response of POST /meetings/{platform}/{id}/process.
type ProcessResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    ProcessResult `json:"data"`
}

// BotInfo describes an active transcription bot.
type BotInfo struct {
	ID              int64  `json:"id,omitempty"`
	Platform        string `json:"platform"`
	NativeMeetingID string `json:"native_meeting_id"`
	Status          string `json:"status,omitempty"`
	BotName         string `json:"bot_name,omitempty"`
	Language        string `json:"language,omitempty"`
	StartedAt       string `json:"started_at,omitempty"`
}

// BotList is the response of GET /bots/status.
type BotList struct {
	Success    bool      `json:"success"`
	ActiveBots int       `json:"active_bots"`
	Bots       []BotInfo `json:"bots"`
}

// BotResponse is the generic acknowledgment for bot lifecycle calls.
type BotResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MeetingID string `json:"meeting_id,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

// UpdateMeetingRequest carries the mutable meeting metadata fields.
// Nil fields are left unchanged.
type UpdateMeetingRequest struct {
	Name         string   `json:"name,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Languages    []string `json:"languages,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// Ack is the generic success/message envelope for mutation calls.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// EmotionSession describes a live emotion-analysis session.
type EmotionSession struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
}

// FrameResult is the per-frame emotion classification.
type FrameResult struct {
	Success    bool    `json:"success"`
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// VideoEmotionReport is the response of the multipart video analysis upload.
type VideoEmotionReport struct {
	Success      bool           `json:"success"`
	OverallScore float64        `json:"overall_score"`
	Timeline     []EmotionPoint `json:"timeline"`
}
