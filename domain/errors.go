package domain

import (
	"errors"
	"strings"
)

// ErrorKind classifies API failures by how the client should react.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotAuthenticated
	KindSessionExpired
	KindRateLimited
	KindNetwork
	KindInvalidCredentials
	KindPermissionDenied
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotAuthenticated:
		return "not authenticated"
	case KindSessionExpired:
		return "session expired"
	case KindRateLimited:
		return "rate limited"
	case KindNetwork:
		return "network error"
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindPermissionDenied:
		return "permission denied"
	case KindNotFound:
		return "not found"
	default:
		return "unknown error"
	}
}

// APIError is a classified failure from the remote service.
type APIError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

func (e *APIError) Unwrap() error { return e.Err }

// Is matches any APIError of the same kind, so the sentinels below work with errors.Is.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotAuthenticated   = &APIError{Kind: KindNotAuthenticated}
	ErrSessionExpired     = &APIError{Kind: KindSessionExpired}
	ErrRateLimited        = &APIError{Kind: KindRateLimited}
	ErrNetwork            = &APIError{Kind: KindNetwork}
	ErrInvalidCredentials = &APIError{Kind: KindInvalidCredentials}
	ErrPermissionDenied   = &APIError{Kind: KindPermissionDenied}
	ErrNotFound           = &APIError{Kind: KindNotFound}
)

var (
	// ErrEmptyPost indicates the user submitted an empty post.
	ErrEmptyPost = errors.New("post cannot be empty")

	// ErrPostTooLong indicates the post exceeds the character limit.
	ErrPostTooLong = errors.New("post exceeds character limit")
)

// MaxPostLength is the longest post text accepted, in characters.
const MaxPostLength = 300

// NetworkError wraps a transport failure.
func NetworkError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Detail: err.Error(), Err: err}
}

// ClassifyMessage maps a free-text server message to an error kind.
func ClassifyMessage(msg string) ErrorKind {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "rate limit"):
		return KindRateLimited
	case strings.Contains(lower, "unauthorized"):
		return KindSessionExpired
	default:
		return KindUnknown
	}
}

// KindOf returns the kind of the first APIError in err's chain.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}
