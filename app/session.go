package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/skyline-tui/skyline/domain"
)

// WithSessionRetry runs fn and, if it fails with an expired session,
// refreshes the session once and runs fn again.
func WithSessionRetry[T any](ctx context.Context, r SessionRefresher, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err == nil || r == nil || !errors.Is(err, domain.ErrSessionExpired) {
		return v, err
	}
	if rerr := r.Refresh(ctx); rerr != nil {
		var zero T
		return zero, fmt.Errorf("refreshing session: %w", rerr)
	}
	return fn(ctx)
}

// Do is WithSessionRetry for calls that only return an error.
func Do(ctx context.Context, r SessionRefresher, fn func(context.Context) error) error {
	_, err := WithSessionRetry(ctx, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
