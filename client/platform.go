package client

import (
	"fmt"
	"net/url"
	"strings"
)

// ExtractMeetingID derives the platform-native meeting identifier (and, for
// Teams, an optional passcode) from a full meeting URL.
//
// google_meet: https://meet.google.com/abc-defg-hij      -> "abc-defg-hij"
// teams:       https://teams.live.com/meet/9366?p=secret -> "9366", "secret"
func ExtractMeetingID(platform, meetingURL string) (id, passcode string, err error) {
	u, err := url.Parse(meetingURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing meeting URL: %w", err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return "", "", fmt.Errorf("meeting URL %q has no meeting id", meetingURL)
	}

	switch platform {
	case PlatformGoogleMeet:
		return last, "", nil
	case PlatformTeams:
		return last, u.Query().Get("p"), nil
	default:
		return "", "", fmt.Errorf("unsupported platform: %s", platform)
	}
}
