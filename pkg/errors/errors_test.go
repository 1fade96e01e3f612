package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelChecks(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		check   func(error) bool
		matches bool
	}{
		{"not found direct", ErrNotFound, IsNotFound, true},
		{"not found wrapped", fmt.Errorf("fetching meeting: %w", ErrNotFound), IsNotFound, true},
		{"not found mismatch", ErrUnauthorized, IsNotFound, false},
		{"unauthorized wrapped", fmt.Errorf("request: %w", ErrUnauthorized), IsUnauthorized, true},
		{"validation direct", ErrValidation, IsValidation, true},
		{"not processed wrapped", fmt.Errorf("summary: %w", ErrNotProcessed), IsNotProcessed, true},
		{"no session direct", ErrNoSession, IsNoSession, true},
		{"unavailable wrapped", fmt.Errorf("dial: %w", ErrUnavailable), IsUnavailable, true},
		{"unrelated error", errors.New("boom"), IsUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.check(tt.err))
		})
	}
}

func TestNilError(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsUnauthorized(nil))
	assert.False(t, IsNotProcessed(nil))
}
