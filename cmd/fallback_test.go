package cmd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quantum-ai/quantum-cli/cache"
	"github.com/quantum-ai/quantum-cli/client"
	"github.com/quantum-ai/quantum-cli/config"
	qerrors "github.com/quantum-ai/quantum-cli/pkg/errors"
	"github.com/quantum-ai/quantum-cli/pkg/logging"
)

func testConfig() *config.CLIConfig {
	cfg := config.DefaultConfig()
	return cfg
}

func TestResolveViewPrefersAPI(t *testing.T) {
	stored := 0
	got, source, err := resolveView(context.Background(), testConfig(), "view",
		func(ctx context.Context) (string, error) { return "live", nil },
		func(ctx context.Context, v string) error { stored++; return nil },
		func(ctx context.Context) (string, error) { return "cached", nil },
		func() (string, bool) { return "sample", true },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "live" || source != sourceAPI {
		t.Errorf("got %q from %q, want live from api", got, source)
	}
	if stored != 1 {
		t.Errorf("successful fetch should write through once, got %d", stored)
	}
}

func TestResolveViewFallsBackToCache(t *testing.T) {
	got, source, err := resolveView(context.Background(), testConfig(), "view",
		func(ctx context.Context) (string, error) { return "", errors.New("connection refused") },
		nil,
		func(ctx context.Context) (string, error) { return "cached", nil },
		func() (string, bool) { return "sample", true },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "cached" || source != sourceCache {
		t.Errorf("got %q from %q, want cached from cache", got, source)
	}
}

func TestResolveViewFallsBackToSample(t *testing.T) {
	got, source, err := resolveView(context.Background(), testConfig(), "view",
		func(ctx context.Context) (string, error) { return "", errors.New("connection refused") },
		nil,
		func(ctx context.Context) (string, error) { return "", qerrors.ErrNotFound },
		func() (string, bool) { return "sample", true },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "sample" || source != sourceSample {
		t.Errorf("got %q from %q, want sample from sample", got, source)
	}
}

func TestResolveViewNoFallback(t *testing.T) {
	cfg := testConfig()
	cfg.NoFallback = true

	apiErr := errors.New("connection refused")
	_, _, err := resolveView(context.Background(), cfg, "view",
		func(ctx context.Context) (string, error) { return "", apiErr },
		nil,
		func(ctx context.Context) (string, error) { return "cached", nil },
		func() (string, bool) { return "sample", true },
	)
	if !errors.Is(err, apiErr) {
		t.Errorf("NoFallback should propagate the API error, got %v", err)
	}
}

func TestResolveViewServerVerdictPropagates(t *testing.T) {
	// A 401 means the server answered; hiding it behind sample data
	// would mask a real problem.
	reqErr := &client.RequestError{StatusCode: http.StatusUnauthorized, Detail: "bad token", Method: "GET", Path: "/x"}
	_, _, err := resolveView(context.Background(), testConfig(), "view",
		func(ctx context.Context) (string, error) { return "", reqErr },
		nil,
		func(ctx context.Context) (string, error) { return "cached", nil },
		func() (string, bool) { return "sample", true },
	)
	if !errors.Is(err, qerrors.ErrUnauthorized) {
		t.Errorf("expected the 401 to propagate, got %v", err)
	}
}

func TestResolveViewGatewayErrorFallsBack(t *testing.T) {
	reqErr := &client.RequestError{StatusCode: http.StatusBadGateway, Detail: "upstream down", Method: "GET", Path: "/x"}
	got, source, err := resolveView(context.Background(), testConfig(), "view",
		func(ctx context.Context) (string, error) { return "", reqErr },
		nil,
		nil,
		func() (string, bool) { return "sample", true },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "sample" || source != sourceSample {
		t.Errorf("502 should fall through to sample data, got %q from %q", got, source)
	}
}

func TestResolveViewNothingAvailable(t *testing.T) {
	_, _, err := resolveView(context.Background(), testConfig(), "view",
		func(ctx context.Context) (string, error) { return "", errors.New("connection refused") },
		nil,
		nil,
		func() (string, bool) { return "", false },
	)
	if err == nil {
		t.Fatal("expected an error when no source can serve the view")
	}
}

// TestFetchMeetingsChain exercises the real chain end to end: a dead
// server, then a populated cache, then samples.
func TestFetchMeetingsChain(t *testing.T) {
	cfg := testConfig()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"count":1,"meetings":[{"platform":"google_meet","native_meeting_id":"live-1","name":"Live meeting","status":"completed"}]}`))
	}))

	store, err := cache.Open(t.TempDir()+"/cache.db", logging.Nop())
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	defer store.Close()

	apiClient := client.NewClient(srv.URL, nil, nil)

	// Live server: API wins and seeds the cache.
	meetings, source, err := fetchMeetings(context.Background(), cfg, apiClient, store)
	if err != nil {
		t.Fatalf("live fetch: %v", err)
	}
	if source != sourceAPI || len(meetings) != 1 || meetings[0].NativeMeetingID != "live-1" {
		t.Fatalf("live fetch got %d meetings from %q", len(meetings), source)
	}

	// Dead server: the cache serves what the live fetch stored.
	srv.Close()
	meetings, source, err = fetchMeetings(context.Background(), cfg, apiClient, store)
	if err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if source != sourceCache || len(meetings) != 1 || meetings[0].NativeMeetingID != "live-1" {
		t.Fatalf("cached fetch got %d meetings from %q", len(meetings), source)
	}

	// Dead server and no cache: samples keep the view alive.
	meetings, source, err = fetchMeetings(context.Background(), cfg, apiClient, nil)
	if err != nil {
		t.Fatalf("sample fetch: %v", err)
	}
	if source != sourceSample || len(meetings) == 0 {
		t.Fatalf("sample fetch got %d meetings from %q", len(meetings), source)
	}
}
