package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/quantum-ai/quantum-cli/client"
	"github.com/quantum-ai/quantum-cli/config"
	qerrors "github.com/quantum-ai/quantum-cli/pkg/errors"
)

// Data sources a view can be served from, in preference order.
const (
	sourceAPI    = "api"
	sourceCache  = "cache"
	sourceSample = "sample"
)

// resolveView fetches a view from the API, falling back to the local cache
// and then to bundled sample data when the API cannot be reached.
//
// Only transport failures and gateway errors trigger the fallback;
// authentication and validation errors always propagate so the user sees
// them. Successful API responses are written through to the cache
// best-effort. NoFallback disables the chain entirely.
func resolveView[T any](
	ctx context.Context,
	cfg *config.CLIConfig,
	view string,
	fromAPI func(context.Context) (T, error),
	writeThrough func(context.Context, T) error,
	fromCache func(context.Context) (T, error),
	sample func() (T, bool),
) (T, string, error) {
	var zero T

	v, apiErr := fromAPI(ctx)
	if apiErr == nil {
		if writeThrough != nil {
			// Cache failures must never break a live view.
			_ = writeThrough(ctx, v)
		}
		return v, sourceAPI, nil
	}

	if cfg.NoFallback || !fallbackEligible(apiErr) {
		return zero, "", apiErr
	}

	if fromCache != nil {
		cached, err := fromCache(ctx)
		if err == nil {
			clientMetrics.RecordFallback(view, sourceCache)
			return cached, sourceCache, nil
		}
	}

	if sample != nil {
		if s, ok := sample(); ok {
			clientMetrics.RecordFallback(view, sourceSample)
			return s, sourceSample, nil
		}
	}

	return zero, "", fmt.Errorf("%s unavailable: %w", view, apiErr)
}

// fallbackEligible reports whether err indicates the API itself is
// unreachable rather than rejecting the request.
func fallbackEligible(err error) bool {
	if errors.Is(err, qerrors.ErrUnavailable) {
		return true
	}
	if _, ok := client.IsRequestError(err); ok {
		// The server answered; its verdict stands.
		return false
	}
	return true
}
