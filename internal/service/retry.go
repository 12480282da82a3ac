package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	apperrors "github.com/vnkatpara-dev/TastePulse/pkg/errors"
)

// withStorageRetry runs fn with exponential backoff. Domain errors and a
// canceled caller are returned as is; exhausted retries become a
// storage-unavailable error.
func withStorageRetry[T any](ctx context.Context, s *ReviewService, op string, fn func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.StorageRetryInterval

	attempts := 0
	v, err := backoff.Retry(ctx, func() (T, error) {
		attempts++
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if apperrors.IsDomain(err) || ctx.Err() != nil {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(s.cfg.StorageMaxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.logger.WarnContext(ctx, "storage operation failed, retrying",
				slog.String("op", op),
				slog.Duration("backoff", next),
				slog.String("error", err.Error()),
			)
		}),
	)
	if err == nil {
		return v, nil
	}

	if apperrors.IsDomain(err) {
		return v, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return v, fmt.Errorf("%s: %w", op, err)
	}
	s.logger.ErrorContext(ctx, "storage operation failed",
		slog.String("op", op),
		slog.Int("attempts", attempts),
		slog.String("error", err.Error()),
	)
	return v, apperrors.StorageUnavailable(fmt.Errorf("%s: %w", op, err))
}
