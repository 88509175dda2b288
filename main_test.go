package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/skyline-tui/skyline/infra/auth"
	"github.com/skyline-tui/skyline/infra/config"
)

func TestResolveVersionInfo(t *testing.T) {
	settings := map[string]string{
		"vcs.revision": "0123456789abcdef",
		"vcs.time":     "2026-01-02T03:04:05Z",
	}
	tests := []struct {
		name          string
		v, c, d       string
		moduleVersion string
		want          [3]string
	}{
		{name: "fills from build info", v: "dev", c: "none", d: "unknown", moduleVersion: "v1.2.3",
			want: [3]string{"v1.2.3", "0123456789ab", "2026-01-02T03:04:05Z"}},
		{name: "devel module version ignored", v: "dev", c: "none", d: "unknown", moduleVersion: "(devel)",
			want: [3]string{"dev", "0123456789ab", "2026-01-02T03:04:05Z"}},
		{name: "ldflags win", v: "v9", c: "abc", d: "today", moduleVersion: "v1.2.3",
			want: [3]string{"v9", "abc", "today"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, c, d := resolveVersionInfo(tc.v, tc.c, tc.d, tc.moduleVersion, settings)
			if got := [3]string{v, c, d}; got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestBuildSettingsMap(t *testing.T) {
	m := buildSettingsMap([]debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}})
	if m["vcs.revision"] != "abc" {
		t.Fatalf("unexpected map %v", m)
	}
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"handle", "debug", "no-stream", "no-images"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Fatalf("missing flag --%s", name)
		}
	}
	if _, _, err := cmd.Find([]string{"logout"}); err != nil {
		t.Fatalf("missing logout command: %v", err)
	}
}

func TestLogout_RemovesSession(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SKYLINE_CONFIG_DIR", dir)
	store := auth.NewSessionStore(filepath.Join(dir, "session.json"))
	if err := store.Save(auth.Session{DID: "did:plc:me", AccessJwt: "a"}); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"logout"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out.String(), "Logged out.") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if _, err := store.Load(); err != auth.ErrNoSession {
		t.Fatalf("expected session to be gone, got %v", err)
	}
}

func TestEnsureSession_UsesStoredSession(t *testing.T) {
	store := auth.NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	stored := auth.Session{DID: "did:plc:me", Handle: "me.test", AccessJwt: "a", RefreshJwt: "r"}
	if err := store.Save(stored); err != nil {
		t.Fatal(err)
	}

	got, err := ensureSession(context.Background(), config.Config{Identifier: "ME.test"}, store, strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if got != stored {
		t.Fatalf("expected the stored session, got %+v", got)
	}
}

func TestEnsureSession_LogsInForDifferentHandle(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/xrpc/com.atproto.server.createSession" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"did":"did:plc:bob","handle":"bob.test","accessJwt":"A","refreshJwt":"R"}`))
	}))
	defer srv.Close()

	store := auth.NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(auth.Session{DID: "did:plc:me", Handle: "me.test", AccessJwt: "a"}); err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{ServiceURL: srv.URL, Identifier: "bob.test", Password: "app-pw"}

	sess, err := ensureSession(context.Background(), cfg, store, strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if sess.DID != "did:plc:bob" || body["identifier"] != "bob.test" || body["password"] != "app-pw" {
		t.Fatalf("unexpected login: sess=%+v body=%v", sess, body)
	}
	saved, err := store.Load()
	if err != nil || saved.DID != "did:plc:bob" {
		t.Fatalf("expected new session to be stored, got %+v (%v)", saved, err)
	}
}

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer
	got, err := promptLine(bufio.NewReader(strings.NewReader("  alice.test \n")), &out, "Handle: ")
	if err != nil || got != "alice.test" {
		t.Fatalf("got %q, %v", got, err)
	}
	if out.String() != "Handle: " {
		t.Fatalf("unexpected prompt %q", out.String())
	}

	_, err = promptLine(bufio.NewReader(strings.NewReader("\n")), &out, "Handle: ")
	if err == nil || err.Error() != "handle is required" {
		t.Fatalf("expected a required error, got %v", err)
	}
}
