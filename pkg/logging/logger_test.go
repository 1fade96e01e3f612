package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, level Level) Logger {
	return NewLogger(&Config{
		Level:      level,
		Component:  "test",
		JSONFormat: true,
		Output:     buf,
	})
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, LevelDebug)

	log.Info("fetching transcript", F("platform", "google_meet"), F("meeting_id", "abc-defg-hij"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "fetching transcript", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "google_meet", entry["platform"])
	assert.Equal(t, "abc-defg-hij", entry["meeting_id"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, LevelWarn)

	log.Debug("should be filtered")
	log.Info("should also be filtered")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, LevelDebug)

	child := log.With(F("endpoint", "/bots/start"))
	child.Info("request issued")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "/bots/start", entry["endpoint"])
}

func TestFieldTypes(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, LevelDebug)

	log.Error("request failed",
		Err(errors.New("connection refused")),
		F("attempts", 3),
		F("elapsed", 250*time.Millisecond),
		F("fallback", true),
	)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "connection refused", entry["error"])
	assert.Equal(t, float64(3), entry["attempts"])
	assert.Equal(t, true, entry["fallback"])
}

func TestNopLogger(t *testing.T) {
	log := Nop()
	// Must not panic and must not write anywhere.
	log.Info("discarded")
	log.Error("discarded", Err(errors.New("x")))
	assert.Equal(t, zerolog.Disabled, log.Zerolog().GetLevel())
}

func TestNilConfigUsesDefaults(t *testing.T) {
	log := NewLogger(nil)
	assert.NotNil(t, log)
}
