package app

import (
	"errors"

	"github.com/skyline-tui/skyline/domain"
)

// StatusText renders err as a short status-line message.
func StatusText(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		return "Error: " + err.Error()
	}
	switch apiErr.Kind {
	case domain.KindNotAuthenticated:
		return "Not logged in"
	case domain.KindSessionExpired:
		return "Session expired, please log in again"
	case domain.KindRateLimited:
		return "Rate limited, try again later"
	case domain.KindNetwork:
		return "Network error: " + apiErr.Detail
	case domain.KindInvalidCredentials:
		return "Invalid handle or password"
	case domain.KindPermissionDenied:
		return "Permission denied"
	case domain.KindNotFound:
		return "Not found"
	default:
		if apiErr.Detail != "" {
			return "Error: " + apiErr.Detail
		}
		return "Error: " + apiErr.Error()
	}
}
