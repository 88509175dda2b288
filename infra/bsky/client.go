package bsky

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skyline-tui/skyline/domain"
	"github.com/skyline-tui/skyline/infra/auth"
)

const maxResponseBytes = 8 << 20

// Client is a thin HTTP wrapper for XRPC endpoints.
// It handles URL construction, bearer token injection and error classification.
type Client struct {
	baseURL  string
	sessions *auth.SessionProvider
	http     *http.Client
}

// NewClient creates an XRPC client for the given service.
func NewClient(baseURL string, sessions *auth.SessionProvider) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: sessions,
		http:     &http.Client{Timeout: 20 * time.Second},
	}
}

// DID returns the logged-in account's DID.
func (c *Client) DID() string {
	return c.sessions.Session().DID
}

// Query performs an authenticated GET of an XRPC query.
func (c *Client) Query(ctx context.Context, nsid string, params url.Values, out any) error {
	token, err := c.sessions.AccessToken()
	if err != nil {
		return &domain.APIError{Kind: domain.KindNotAuthenticated, Err: err}
	}
	return c.do(ctx, http.MethodGet, nsid, params, nil, out, token)
}

// Procedure performs an authenticated POST of an XRPC procedure with a JSON body.
func (c *Client) Procedure(ctx context.Context, nsid string, in, out any) error {
	token, err := c.sessions.AccessToken()
	if err != nil {
		return &domain.APIError{Kind: domain.KindNotAuthenticated, Err: err}
	}
	return c.do(ctx, http.MethodPost, nsid, nil, in, out, token)
}

// Refresh exchanges the refresh token for a new session and stores it.
func (c *Client) Refresh(ctx context.Context) error {
	refresh, err := c.sessions.RefreshToken()
	if err != nil {
		return &domain.APIError{Kind: domain.KindNotAuthenticated, Err: err}
	}
	var out sessionResponse
	if err := c.do(ctx, http.MethodPost, "com.atproto.server.refreshSession", nil, nil, &out, refresh); err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			// An expired refresh token means the user has to log in again.
			return &domain.APIError{Kind: domain.KindNotAuthenticated, Detail: "refresh token expired", Err: err}
		}
		return fmt.Errorf("refreshing session: %w", err)
	}
	sess := out.session(c.baseURL)
	if err := c.sessions.Update(sess); err != nil {
		slog.Warn("persisting refreshed session failed", "err", err)
	}
	slog.Debug("session refreshed", "did", sess.DID)
	return nil
}

type xrpcError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, nsid string, params url.Values, in, out any, token string) error {
	u := c.baseURL + "/xrpc/" + nsid
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", nsid, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.NetworkError(err)
	}
	slog.Debug("xrpc", "method", method, "nsid", nsid, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classify(nsid, resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", nsid, err)
	}
	return nil
}

// classify maps a non-2xx XRPC response to a domain.APIError.
func classify(nsid string, status int, body []byte) error {
	var xe xrpcError
	_ = json.Unmarshal(body, &xe)
	detail := xe.Message
	if detail == "" {
		detail = xe.Error
	}
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}

	var kind domain.ErrorKind
	switch {
	case status == http.StatusUnauthorized && xe.Error == "ExpiredToken":
		kind = domain.KindSessionExpired
	case status == http.StatusUnauthorized && nsid == "com.atproto.server.createSession":
		kind = domain.KindInvalidCredentials
	case status == http.StatusUnauthorized:
		kind = domain.KindNotAuthenticated
	case status == http.StatusTooManyRequests:
		kind = domain.KindRateLimited
	case status == http.StatusForbidden:
		kind = domain.KindPermissionDenied
	case status == http.StatusNotFound, xe.Error == "NotFound":
		kind = domain.KindNotFound
	case xe.Error == "ExpiredToken":
		kind = domain.KindSessionExpired
	default:
		kind = domain.ClassifyMessage(detail)
	}
	return &domain.APIError{Kind: kind, Detail: fmt.Sprintf("%s returned %d: %s", nsid, status, detail)}
}
