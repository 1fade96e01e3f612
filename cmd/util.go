package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"encoding/json"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/quantum-ai/quantum-cli/cache"
	"github.com/quantum-ai/quantum-cli/client"
	"github.com/quantum-ai/quantum-cli/config"
	"github.com/quantum-ai/quantum-cli/credentials"
	"github.com/quantum-ai/quantum-cli/pkg/logging"
	"github.com/quantum-ai/quantum-cli/pkg/metrics"
)

// clientMetrics is shared by every command in a single invocation so the
// debug metric dump reflects the whole run.
var clientMetrics = metrics.NewClientMetrics()

// validate checks command inputs (emails, platform names, language codes).
var validate = validator.New()

// GlobalFlags holds the root command's persistent flags. They are applied
// on top of the loaded configuration by every command.
var GlobalFlags struct {
	BaseURL    string
	Timeout    time.Duration
	Output     string
	Debug      bool
	NoFallback bool
}

// loadConfig loads the CLI configuration and applies the global flag
// overrides.
func loadConfig() (*config.CLIConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if GlobalFlags.BaseURL != "" {
		cfg.BaseURL = GlobalFlags.BaseURL
	}
	if GlobalFlags.Timeout != 0 {
		cfg.Timeout = GlobalFlags.Timeout
	}
	if GlobalFlags.Output != "" {
		cfg.OutputFormat = config.OutputFormat(GlobalFlags.Output)
	}
	if GlobalFlags.Debug {
		cfg.Debug = true
	}
	if GlobalFlags.NoFallback {
		cfg.NoFallback = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the command logger. Debug mode lowers the level so
// client request logs become visible.
func newLogger(cfg *config.CLIConfig) logging.Logger {
	logCfg := logging.DefaultConfig()
	if cfg.Debug {
		logCfg.Level = logging.LevelDebug
	}
	return logging.NewLogger(logCfg)
}

// newAPIClient builds the API client with the stored session attached.
// A missing or expired stored token is not an error here; the session
// simply starts unauthenticated.
func newAPIClient(cfg *config.CLIConfig) (*client.Client, *credentials.Store, error) {
	store, err := credentials.NewStore()
	if err != nil {
		return nil, nil, fmt.Errorf("opening credential store: %w", err)
	}

	token, err := store.ActiveToken()
	if err != nil {
		token = ""
	}

	session := client.NewSession(store, token)
	c := client.FromConfig(cfg, session, newLogger(cfg), clientMetrics)
	return c, store, nil
}

// openCache opens the local results cache.
func openCache(cfg *config.CLIConfig) (*cache.Cache, error) {
	path, err := cfg.GetCachePath()
	if err != nil {
		return nil, err
	}
	return cache.Open(path, newLogger(cfg))
}

// optionalCache opens the local cache, returning nil when it cannot be
// opened. Views degrade to API-plus-samples without it.
func optionalCache(cfg *config.CLIConfig) *cache.Cache {
	store, err := openCache(cfg)
	if err != nil {
		newLogger(cfg).Debug("cache unavailable", logging.Err(err))
		return nil
	}
	return store
}

// resolveFormat picks the output format from the per-command flag or the
// configured default.
func resolveFormat(cfg *config.CLIConfig, flagValue string) (config.OutputFormat, error) {
	if flagValue == "" {
		return cfg.OutputFormat, nil
	}
	format := config.OutputFormat(flagValue)
	if !format.IsValid() {
		return "", fmt.Errorf("invalid output format: %s (must be text, json, or yaml)", flagValue)
	}
	return format, nil
}

// emit writes v in the requested format. The text function renders the
// human-readable default.
func emit(w io.Writer, format config.OutputFormat, v interface{}, text func(io.Writer) error) error {
	switch format {
	case config.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return text(w)
	}
}

// meetingRef resolves command arguments into a platform and native meeting ID.
// Accepted forms:
//
//	<platform> <meeting-id>
//	<meeting-url>
func meetingRef(args []string) (platform, meetingID string, err error) {
	switch len(args) {
	case 1:
		if !strings.Contains(args[0], "://") {
			return "", "", fmt.Errorf("expected <platform> <meeting-id> or a meeting URL, got %q", args[0])
		}
		platform, err = platformFromURL(args[0])
		if err != nil {
			return "", "", err
		}
		meetingID, _, err = client.ExtractMeetingID(platform, args[0])
		if err != nil {
			return "", "", err
		}
		return platform, meetingID, nil
	case 2:
		platform = args[0]
		if err := validatePlatform(platform); err != nil {
			return "", "", err
		}
		return platform, args[1], nil
	default:
		return "", "", fmt.Errorf("expected <platform> <meeting-id> or a meeting URL")
	}
}

// platformFromURL infers the platform from a meeting URL's host.
func platformFromURL(meetingURL string) (string, error) {
	switch {
	case strings.Contains(meetingURL, "meet.google.com"):
		return client.PlatformGoogleMeet, nil
	case strings.Contains(meetingURL, "teams.live.com"), strings.Contains(meetingURL, "teams.microsoft.com"):
		return client.PlatformTeams, nil
	default:
		return "", fmt.Errorf("cannot infer platform from URL %q; pass <platform> <meeting-id> instead", meetingURL)
	}
}

// validatePlatform rejects platforms the transcription service does not support.
func validatePlatform(platform string) error {
	if err := validate.Var(platform, "required,oneof=google_meet teams"); err != nil {
		return fmt.Errorf("unsupported platform %q (must be google_meet or teams)", platform)
	}
	return nil
}

// validateEmail rejects malformed email addresses before they reach the API.
func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}

// validateLanguage checks a BCP-47-ish language code like "en" or "pt-BR".
func validateLanguage(code string) error {
	if err := validate.Var(code, "required,bcp47_language_tag"); err != nil {
		return fmt.Errorf("invalid language code: %s", code)
	}
	return nil
}

// formatMeetingTime renders a meeting time for table output.
func formatMeetingTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// truncate shortens s for fixed-width table columns.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
