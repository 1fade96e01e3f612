package client

import "testing"

func TestExtractMeetingID(t *testing.T) {
	tests := []struct {
		name         string
		platform     string
		url          string
		wantID       string
		wantPasscode string
		wantErr      bool
	}{
		{
			name:     "google meet",
			platform: PlatformGoogleMeet,
			url:      "https://meet.google.com/abc-defg-hij",
			wantID:   "abc-defg-hij",
		},
		{
			name:     "google meet with query",
			platform: PlatformGoogleMeet,
			url:      "https://meet.google.com/abc-defg-hij?authuser=0",
			wantID:   "abc-defg-hij",
		},
		{
			name:         "teams with passcode",
			platform:     PlatformTeams,
			url:          "https://teams.live.com/meet/9366473044740?p=5uXyNNTcGAZsBToq",
			wantID:       "9366473044740",
			wantPasscode: "5uXyNNTcGAZsBToq",
		},
		{
			name:     "teams without passcode",
			platform: PlatformTeams,
			url:      "https://teams.live.com/meet/9366473044740",
			wantID:   "9366473044740",
		},
		{
			name:     "unsupported platform",
			platform: "zoom",
			url:      "https://zoom.us/j/123",
			wantErr:  true,
		},
		{
			name:     "empty path",
			platform: PlatformGoogleMeet,
			url:      "https://meet.google.com/",
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, passcode, err := ExtractMeetingID(tc.platform, tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractMeetingID() error = %v", err)
			}
			if id != tc.wantID {
				t.Errorf("id = %q, want %q", id, tc.wantID)
			}
			if passcode != tc.wantPasscode {
				t.Errorf("passcode = %q, want %q", passcode, tc.wantPasscode)
			}
		})
	}
}
