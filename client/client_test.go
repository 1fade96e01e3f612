package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	qerrors "github.com/quantum-ai/quantum-cli/pkg/errors"
)

// memStore is an in-memory TokenStore for tests.
type memStore struct {
	token   string
	sets    int
	clears  int
	saveErr error
}

func (s *memStore) SetToken(token string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	s.sets++
	return nil
}

func (s *memStore) ClearToken() error {
	s.token = ""
	s.clears++
	return nil
}

// newTestClient wires a client against an httptest server and returns both
// plus the backing store.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *memStore, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := &memStore{}
	c := NewClient(srv.URL, NewSession(store, ""), nil)
	return c, store, srv
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts == nil {
		t.Fatal("DefaultOptions returned nil")
	}
	if opts.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", opts.Timeout, DefaultTimeout)
	}
}

func TestNewClient(t *testing.T) {
	t.Run("trims trailing slash", func(t *testing.T) {
		c := NewClient("http://localhost:8000/api/", nil, nil)
		if c.BaseURL() != "http://localhost:8000/api" {
			t.Errorf("BaseURL() = %v, want http://localhost:8000/api", c.BaseURL())
		}
	})

	t.Run("nil session gets in-memory session", func(t *testing.T) {
		c := NewClient("http://localhost:8000/api", nil, nil)
		if c.Session() == nil {
			t.Fatal("Session() returned nil")
		}
		if c.Session().Authenticated() {
			t.Error("fresh session should not be authenticated")
		}
	})
}

// TestAuthorizationHeader verifies the bearer header follows the session
// token: present after SetToken, absent after ClearToken.
func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(MeetingList{Success: true})
	}))

	t.Run("no token, no header", func(t *testing.T) {
		if _, err := c.ListMeetings(context.Background()); err != nil {
			t.Fatalf("ListMeetings() error = %v", err)
		}
		if gotAuth != "" {
			t.Errorf("Authorization = %q, want empty", gotAuth)
		}
	})

	t.Run("token set, header attached", func(t *testing.T) {
		if err := c.Session().SetToken("tok-123"); err != nil {
			t.Fatalf("SetToken() error = %v", err)
		}
		if _, err := c.ListMeetings(context.Background()); err != nil {
			t.Fatalf("ListMeetings() error = %v", err)
		}
		if gotAuth != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
		}
	})

	t.Run("token cleared, header gone", func(t *testing.T) {
		if err := c.Session().ClearToken(); err != nil {
			t.Fatalf("ClearToken() error = %v", err)
		}
		if _, err := c.ListMeetings(context.Background()); err != nil {
			t.Fatalf("ListMeetings() error = %v", err)
		}
		if gotAuth != "" {
			t.Errorf("Authorization = %q, want empty after clear", gotAuth)
		}
	})
}

// TestRequestErrorDetail verifies the server detail message is surfaced.
func TestRequestErrorDetail(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"detail": "Summary not found. Process the meeting first.",
		})
	}))

	_, err := c.GetSummary(context.Background(), PlatformGoogleMeet, "m1")
	if err == nil {
		t.Fatal("GetSummary() expected error")
	}

	reqErr, ok := IsRequestError(err)
	if !ok {
		t.Fatalf("error %v is not a *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", reqErr.StatusCode)
	}
	if reqErr.Detail != "Summary not found. Process the meeting first." {
		t.Errorf("Detail = %q", reqErr.Detail)
	}
	if !qerrors.IsNotFound(err) {
		t.Error("404 should unwrap to ErrNotFound")
	}
}

// TestRequestErrorGenericFallback verifies unparseable error bodies fall back
// to the generic message.
func TestRequestErrorGenericFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"html body", "<html>Internal Server Error</html>"},
		{"empty body", ""},
		{"json without detail", `{"error": "boom"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				io.WriteString(w, tc.body)
			}))

			_, err := c.ListMeetings(context.Background())
			reqErr, ok := IsRequestError(err)
			if !ok {
				t.Fatalf("error %v is not a *RequestError", err)
			}
			if reqErr.Detail != genericErrorMessage {
				t.Errorf("Detail = %q, want %q", reqErr.Detail, genericErrorMessage)
			}
		})
	}
}

// TestStatusMapping verifies status codes unwrap to domain sentinels.
func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
		name   string
	}{
		{http.StatusUnauthorized, qerrors.IsUnauthorized, "401 unauthorized"},
		{http.StatusNotFound, qerrors.IsNotFound, "404 not found"},
		{http.StatusBadRequest, qerrors.IsValidation, "400 validation"},
		{http.StatusBadGateway, qerrors.IsUnavailable, "502 unavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))

			_, err := c.ListMeetings(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if !tc.check(err) {
				t.Errorf("status %d did not unwrap to expected sentinel: %v", tc.status, err)
			}
		})
	}
}

// TestStopBotBody verifies the wire shape of POST /bots/stop.
func TestStopBotBody(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(BotResponse{Success: true, Message: "Bot stopped successfully."})
	}))

	resp, err := c.StopBot(context.Background(), PlatformGoogleMeet, "m1")
	if err != nil {
		t.Fatalf("StopBot() error = %v", err)
	}
	if !resp.Success {
		t.Error("StopBot() Success = false")
	}

	if gotPath != "/bots/stop" {
		t.Errorf("path = %q, want /bots/stop", gotPath)
	}
	if gotBody["platform"] != "google_meet" {
		t.Errorf("platform = %v, want google_meet", gotBody["platform"])
	}
	if gotBody["native_meeting_id"] != "m1" {
		t.Errorf("native_meeting_id = %v, want m1", gotBody["native_meeting_id"])
	}
	if len(gotBody) != 2 {
		t.Errorf("body has %d fields, want 2: %v", len(gotBody), gotBody)
	}
}

// TestLoginPersistsToken verifies login stores the returned token and
// subsequent requests carry it.
func TestLoginPersistsToken(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "demo@quantum.ai" || body["password"] != "demo123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: "issued-token",
			TokenType:   "bearer",
			User:        User{Name: "Demo User", Email: "demo@quantum.ai", Role: "manager"},
		})
	})
	mux.HandleFunc("/meetings/", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(MeetingList{Success: true})
	})

	c, store, _ := newTestClient(t, mux)

	resp, err := c.Login(context.Background(), "demo@quantum.ai", "demo123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.User.Email != "demo@quantum.ai" {
		t.Errorf("User.Email = %v", resp.User.Email)
	}

	if store.token != "issued-token" {
		t.Errorf("store token = %q, want issued-token", store.token)
	}

	if _, err := c.ListMeetings(context.Background()); err != nil {
		t.Fatalf("ListMeetings() error = %v", err)
	}
	if gotAuth != "Bearer issued-token" {
		t.Errorf("Authorization = %q, want Bearer issued-token", gotAuth)
	}
}

// TestLoginRejected verifies a failed login does not touch the session.
func TestLoginRejected(t *testing.T) {
	c, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
	}))

	_, err := c.Login(context.Background(), "demo@quantum.ai", "wrong")
	if !qerrors.IsUnauthorized(err) {
		t.Fatalf("Login() error = %v, want unauthorized", err)
	}
	if store.sets != 0 {
		t.Error("failed login should not persist a token")
	}
	if c.Session().Authenticated() {
		t.Error("failed login should leave session unauthenticated")
	}
}

// TestLogout verifies logout clears session and store.
func TestLogout(t *testing.T) {
	store := &memStore{}
	c := NewClient("http://localhost:8000/api", NewSession(store, "tok"), nil)

	if err := c.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if c.Session().Authenticated() {
		t.Error("session still authenticated after logout")
	}
	if store.clears != 1 {
		t.Errorf("store clears = %d, want 1", store.clears)
	}
}

// TestAnalyzeVideoEmotionsMultipart verifies the upload is multipart and the
// JSON content type is not set.
func TestAnalyzeVideoEmotionsMultipart(t *testing.T) {
	var gotContentType string
	var gotFile string
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
		} else {
			defer file.Close()
			data, _ := io.ReadAll(file)
			gotFile = header.Filename + ":" + string(data)
		}

		json.NewEncoder(w).Encode(VideoEmotionReport{Success: true, OverallScore: 7.5})
	}))

	resp, err := c.AnalyzeVideoEmotions(context.Background(), "standup.webm", strings.NewReader("frames"))
	if err != nil {
		t.Fatalf("AnalyzeVideoEmotions() error = %v", err)
	}
	if resp.OverallScore != 7.5 {
		t.Errorf("OverallScore = %v, want 7.5", resp.OverallScore)
	}

	if !strings.HasPrefix(gotContentType, "multipart/form-data; boundary=") {
		t.Errorf("Content-Type = %q, want multipart/form-data with boundary", gotContentType)
	}
	if strings.Contains(gotContentType, "application/json") {
		t.Errorf("Content-Type = %q, must not be JSON", gotContentType)
	}
	if gotFile != "standup.webm:frames" {
		t.Errorf("uploaded file = %q", gotFile)
	}
}

// TestTransportError verifies network failures are plain errors, not
// RequestError.
func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil, nil)
	_, err := c.ListMeetings(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if _, ok := IsRequestError(err); ok {
		t.Errorf("transport failure should not be a RequestError: %v", err)
	}
}

// TestContextCancellation verifies the context is honored.
func TestContextCancellation(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListMeetings(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// TestGetTranscriptDecode verifies transcript payload decoding.
func TestGetTranscriptDecode(t *testing.T) {
	var gotPath string
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, `{
			"success": true,
			"platform": "google_meet",
			"meeting_id": "abc-defg-hij",
			"transcript": {"transcript": [
				{"speaker": "Alex", "timestamp": "00:00:05", "text": "Good morning"},
				{"speaker": "Sam", "timestamp": "00:00:09", "text": "Morning"}
			]}
		}`)
	}))

	resp, err := c.GetTranscript(context.Background(), PlatformGoogleMeet, "abc-defg-hij")
	if err != nil {
		t.Fatalf("GetTranscript() error = %v", err)
	}
	if gotPath != "/meetings/google_meet/abc-defg-hij/transcript" {
		t.Errorf("path = %q", gotPath)
	}
	if len(resp.Transcript.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(resp.Transcript.Segments))
	}
	if resp.Transcript.Segments[0].Speaker != "Alex" {
		t.Errorf("first speaker = %q, want Alex", resp.Transcript.Segments[0].Speaker)
	}
}

// TestUpdateBotLanguagePath verifies the PUT path shape.
func TestUpdateBotLanguagePath(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(Ack{Success: true})
	}))

	if _, err := c.UpdateBotLanguage(context.Background(), PlatformTeams, "9366", "es"); err != nil {
		t.Fatalf("UpdateBotLanguage() error = %v", err)
	}
	if gotMethod != "PUT" {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotPath != "/bots/teams/9366/language" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["language"] != "es" {
		t.Errorf("language = %q, want es", gotBody["language"])
	}
}

func TestSessionMirrorsStore(t *testing.T) {
	store := &memStore{}
	s := NewSession(store, "")

	if err := s.SetToken("abc"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	if store.token != "abc" {
		t.Errorf("store token = %q, want abc", store.token)
	}

	if err := s.ClearToken(); err != nil {
		t.Fatalf("ClearToken() error = %v", err)
	}
	if store.token != "" || store.clears != 1 {
		t.Errorf("store not cleared: token=%q clears=%d", store.token, store.clears)
	}
}

func TestSessionStoreError(t *testing.T) {
	store := &memStore{saveErr: errors.New("disk full")}
	s := NewSession(store, "")

	err := s.SetToken("abc")
	if err == nil {
		t.Fatal("SetToken() expected store error")
	}
	// The in-memory token is still set so the current process can proceed.
	if s.Token() != "abc" {
		t.Errorf("Token() = %q, want abc", s.Token())
	}
}
