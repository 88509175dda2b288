package bsky

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/skyline-tui/skyline/infra/auth"
)

// Login creates a new session with an identifier (handle or email) and an app password.
func Login(ctx context.Context, baseURL, identifier, password string) (auth.Session, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 20 * time.Second},
	}
	in := map[string]string{"identifier": identifier, "password": password}
	var out sessionResponse
	if err := c.do(ctx, http.MethodPost, "com.atproto.server.createSession", nil, in, &out, ""); err != nil {
		return auth.Session{}, err
	}
	return out.session(c.baseURL), nil
}
