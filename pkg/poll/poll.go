// Package poll runs a fetch function on an interval. Ticks that arrive while
// the previous fetch is still unresolved are skipped, so a slow backend never
// piles up concurrent requests, and consecutive failures stretch the delay
// between attempts.
package poll

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/quantum-ai/quantum-cli/pkg/logging"
)

// Default poller settings.
const (
	DefaultInterval       = 5 * time.Second
	DefaultInitialBackoff = 2 * time.Second
	DefaultMaxBackoff     = 1 * time.Minute
)

// Func is one poll attempt. Returning an error counts as a failure and grows
// the retry delay; returning nil resets it.
type Func func(ctx context.Context) error

// Options configures a Poller.
type Options struct {
	// Interval between successful polls.
	Interval time.Duration

	// InitialBackoff is the delay after the first failure.
	InitialBackoff time.Duration

	// MaxBackoff caps the failure delay.
	MaxBackoff time.Duration

	// OnSkip is called when a tick is dropped because the previous fetch
	// is still in flight. Optional.
	OnSkip func()

	// Logger receives skip and failure events. Defaults to a no-op logger.
	Logger logging.Logger
}

// DefaultOptions returns Options with default values.
func DefaultOptions() *Options {
	return &Options{
		Interval:       DefaultInterval,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
	}
}

// Poller repeatedly invokes a Func until its context is cancelled.
type Poller struct {
	fn      Func
	options *Options
	logger  logging.Logger

	// inFlight guards against overlapping fetches.
	inFlight atomic.Bool
}

// New creates a Poller. A nil opts gets DefaultOptions.
func New(fn Func, opts *Options) *Poller {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Poller{
		fn:      fn,
		options: opts,
		logger:  logger,
	}
}

// Run polls until ctx is cancelled and returns ctx.Err(). The first attempt
// fires immediately; afterwards attempts are spaced by Interval, stretched by
// exponential backoff while the fetch keeps failing.
func (p *Poller) Run(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.options.InitialBackoff
	bo.MaxInterval = p.options.MaxBackoff
	bo.MaxElapsedTime = 0 // never give up; the context bounds the run
	bo.Reset()

	// notBefore delays attempts after failures. Stored as unix nanos since
	// the fetch goroutine writes it while the tick loop reads it.
	var notBefore atomic.Int64

	attempt := func() {
		if !p.inFlight.CompareAndSwap(false, true) {
			p.logger.Debug("poll tick skipped, previous fetch in flight")
			if p.options.OnSkip != nil {
				p.options.OnSkip()
			}
			return
		}

		go func() {
			defer p.inFlight.Store(false)
			if err := p.fn(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				delay := bo.NextBackOff()
				notBefore.Store(time.Now().Add(delay).UnixNano())
				p.logger.Warn("poll failed",
					logging.Err(err),
					logging.F("retry_in", delay.String()))
				return
			}
			bo.Reset()
			notBefore.Store(0)
		}()
	}

	attempt()

	ticker := time.NewTicker(p.options.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if nb := notBefore.Load(); nb != 0 && time.Now().UnixNano() < nb {
				continue
			}
			attempt()
		}
	}
}
