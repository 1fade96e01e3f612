package cmd

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/quantum-ai/quantum-cli/config"
)

func TestMeetingRef(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantPlatform string
		wantID       string
		wantErr      bool
	}{
		{
			name:         "platform and id",
			args:         []string{"google_meet", "abc-defg-hij"},
			wantPlatform: "google_meet",
			wantID:       "abc-defg-hij",
		},
		{
			name:         "google meet url",
			args:         []string{"https://meet.google.com/abc-defg-hij"},
			wantPlatform: "google_meet",
			wantID:       "abc-defg-hij",
		},
		{
			name:         "teams url with passcode",
			args:         []string{"https://teams.live.com/meet/9366473044740?p=5uXyNNTcGAZsBToq"},
			wantPlatform: "teams",
			wantID:       "9366473044740",
		},
		{
			name:    "unsupported platform",
			args:    []string{"zoom", "123"},
			wantErr: true,
		},
		{
			name:    "bare id without platform",
			args:    []string{"abc-defg-hij"},
			wantErr: true,
		},
		{
			name:    "unknown host",
			args:    []string{"https://example.com/meeting/1"},
			wantErr: true,
		},
		{
			name:    "no args",
			args:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform, id, err := meetingRef(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("meetingRef(%v) expected error, got %s/%s", tt.args, platform, id)
				}
				return
			}
			if err != nil {
				t.Fatalf("meetingRef(%v) unexpected error: %v", tt.args, err)
			}
			if platform != tt.wantPlatform || id != tt.wantID {
				t.Errorf("meetingRef(%v) = %s/%s, want %s/%s",
					tt.args, platform, id, tt.wantPlatform, tt.wantID)
			}
		})
	}
}

func TestResolveFormat(t *testing.T) {
	cfg := config.DefaultConfig()

	format, err := resolveFormat(cfg, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != cfg.OutputFormat {
		t.Errorf("empty flag should return config default, got %s", format)
	}

	format, err = resolveFormat(cfg, "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != config.OutputFormatJSON {
		t.Errorf("expected json, got %s", format)
	}

	if _, err := resolveFormat(cfg, "xml"); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestValidateInputs(t *testing.T) {
	if err := validatePlatform("google_meet"); err != nil {
		t.Errorf("google_meet should be valid: %v", err)
	}
	if err := validatePlatform("teams"); err != nil {
		t.Errorf("teams should be valid: %v", err)
	}
	if err := validatePlatform("zoom"); err == nil {
		t.Error("zoom should be rejected")
	}

	if err := validateEmail("demo@quantum.ai"); err != nil {
		t.Errorf("valid email rejected: %v", err)
	}
	if err := validateEmail("not-an-email"); err == nil {
		t.Error("malformed email accepted")
	}

	if err := validateLanguage("en"); err != nil {
		t.Errorf("valid language rejected: %v", err)
	}
	if err := validateLanguage("pt-BR"); err != nil {
		t.Errorf("valid language tag rejected: %v", err)
	}
	if err := validateLanguage("not a language"); err == nil {
		t.Error("malformed language accepted")
	}
}

func TestEmitFormats(t *testing.T) {
	payload := map[string]string{"key": "value"}

	var buf bytes.Buffer
	if err := emit(&buf, config.OutputFormatJSON, payload, nil); err != nil {
		t.Fatalf("json emit: %v", err)
	}
	if !strings.Contains(buf.String(), `"key": "value"`) {
		t.Errorf("json output missing payload: %q", buf.String())
	}

	buf.Reset()
	if err := emit(&buf, config.OutputFormatYAML, payload, nil); err != nil {
		t.Fatalf("yaml emit: %v", err)
	}
	if !strings.Contains(buf.String(), "key: value") {
		t.Errorf("yaml output missing payload: %q", buf.String())
	}

	buf.Reset()
	called := false
	if err := emit(&buf, config.OutputFormatText, payload, func(w io.Writer) error {
		called = true
		return nil
	}); err != nil {
		t.Fatalf("text emit: %v", err)
	}
	if !called {
		t.Error("text renderer was not called")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short, 10) = %q", got)
	}
	if got := truncate("a very long string indeed", 10); got != "a very ..." {
		t.Errorf("truncate long = %q", got)
	}
	if len(truncate("abcdef", 3)) != 3 {
		t.Errorf("truncate should respect tiny widths")
	}
}
