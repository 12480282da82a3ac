package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/vnkatpara-dev/TastePulse/internal/domain"
)

// RetryConfig bounds how hard Retrying tries before giving up.
type RetryConfig struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// AttemptTimeout caps a single attempt. Zero means no per-attempt cap.
	AttemptTimeout time.Duration
}

// DefaultRetryConfig returns three attempts with 100ms initial backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		AttemptTimeout:  5 * time.Second,
	}
}

// Retrying retries transient classification failures with exponential
// backoff. Permanent failures (see IsPermanent) return immediately.
type Retrying struct {
	next   Classifier
	cfg    RetryConfig
	logger *slog.Logger
}

// NewRetrying wraps next.
func NewRetrying(next Classifier, cfg RetryConfig, logger *slog.Logger) *Retrying {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}
	return &Retrying{next: next, cfg: cfg, logger: logger}
}

// Classify calls the wrapped classifier until it returns a valid prediction,
// a permanent error, or attempts run out.
func (r *Retrying) Classify(ctx context.Context, text string) (*domain.Prediction, error) {
	b := backoff.NewExponentialBackOff()
	if r.cfg.InitialInterval > 0 {
		b.InitialInterval = r.cfg.InitialInterval
	}
	if r.cfg.MaxInterval > 0 {
		b.MaxInterval = r.cfg.MaxInterval
	}

	attempts := 0
	p, err := backoff.Retry(ctx, func() (*domain.Prediction, error) {
		attempts++
		p, err := r.attempt(ctx, text)
		if err != nil && IsPermanent(err) {
			return nil, backoff.Permanent(err)
		}
		return p, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.cfg.MaxAttempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			r.logger.WarnContext(ctx, "classification attempt failed, retrying",
				slog.Int("attempt", attempts),
				slog.Duration("backoff", wait),
				slog.String("error", err.Error()),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("classify after %d attempt(s): %w", attempts, err)
	}
	return p, nil
}

func (r *Retrying) attempt(ctx context.Context, text string) (*domain.Prediction, error) {
	if r.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.AttemptTimeout)
		defer cancel()
	}
	p, err := r.next.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	return p, nil
}
