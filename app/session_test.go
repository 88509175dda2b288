package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/skyline-tui/skyline/domain"
)

type stubRefresher struct {
	calls int
	err   error
}

func (s *stubRefresher) Refresh(context.Context) error {
	s.calls++
	return s.err
}

func TestWithSessionRetry_RetriesOnceAfterRefresh(t *testing.T) {
	r := &stubRefresher{}
	attempts := 0
	got, err := WithSessionRetry(context.Background(), r, func(context.Context) (string, error) {
		attempts++
		if attempts == 1 {
			return "", fmt.Errorf("timeline: %w", &domain.APIError{Kind: domain.KindSessionExpired})
		}
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("expected retry to succeed, got %q, %v", got, err)
	}
	if attempts != 2 || r.calls != 1 {
		t.Fatalf("expected 2 attempts and 1 refresh, got %d and %d", attempts, r.calls)
	}
}

func TestWithSessionRetry_SecondFailureSurfaces(t *testing.T) {
	r := &stubRefresher{}
	attempts := 0
	err := Do(context.Background(), r, func(context.Context) error {
		attempts++
		return domain.ErrSessionExpired
	})
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected session error, got %v", err)
	}
	if attempts != 2 || r.calls != 1 {
		t.Fatalf("expected exactly one retry, got %d attempts, %d refreshes", attempts, r.calls)
	}
}

func TestWithSessionRetry_OtherErrorsNotRetried(t *testing.T) {
	r := &stubRefresher{}
	attempts := 0
	err := Do(context.Background(), r, func(context.Context) error {
		attempts++
		return domain.ErrRateLimited
	})
	if !errors.Is(err, domain.ErrRateLimited) || attempts != 1 || r.calls != 0 {
		t.Fatalf("rate limit must not trigger refresh: err=%v attempts=%d refreshes=%d", err, attempts, r.calls)
	}
}

func TestWithSessionRetry_RefreshFailure(t *testing.T) {
	r := &stubRefresher{err: domain.ErrNotAuthenticated}
	err := Do(context.Background(), r, func(context.Context) error {
		return domain.ErrSessionExpired
	})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected refresh error to surface, got %v", err)
	}
}

func TestStatusText(t *testing.T) {
	if got := StatusText(domain.NetworkError(errors.New("dial tcp: refused"))); !strings.HasPrefix(got, "Network error: dial tcp") {
		t.Fatalf("unexpected network status: %q", got)
	}
	if got := StatusText(fmt.Errorf("x: %w", domain.ErrRateLimited)); got != "Rate limited, try again later" {
		t.Fatalf("unexpected rate limit status: %q", got)
	}
	if got := StatusText(errors.New("boom")); got != "Error: boom" {
		t.Fatalf("unexpected plain status: %q", got)
	}
	if StatusText(nil) != "" {
		t.Fatalf("nil error should render empty")
	}
}
