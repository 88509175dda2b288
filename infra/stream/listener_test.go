package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const me = "did:plc:me"

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/subscribe"
}

func nextEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}

func TestListener_EmitsNotificationsForOwnRecords(t *testing.T) {
	var query atomic.Value
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.RawQuery)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		msgs := []string{
			`{"did":"did:plc:bob","kind":"commit","commit":{"operation":"create","collection":"app.bsky.feed.like","rkey":"l1","record":{"subject":{"uri":"at://did:plc:other/app.bsky.feed.post/1"}}}}`,
			`{"did":"did:plc:bob","kind":"identity"}`,
			`not json`,
			`{"did":"did:plc:me","kind":"commit","commit":{"operation":"create","collection":"app.bsky.feed.like","rkey":"self","record":{"subject":{"uri":"at://did:plc:me/app.bsky.feed.post/1"}}}}`,
			`{"did":"did:plc:bob","kind":"commit","commit":{"operation":"create","collection":"app.bsky.feed.like","rkey":"l2","record":{"subject":{"uri":"at://did:plc:me/app.bsky.feed.post/1"}}}}`,
			`{"did":"did:plc:eve","kind":"commit","commit":{"operation":"create","collection":"app.bsky.graph.follow","rkey":"f1","record":{"subject":"did:plc:me"}}}`,
			`{"did":"did:plc:eve","kind":"commit","commit":{"operation":"create","collection":"app.bsky.feed.post","rkey":"p1","record":{"text":"hi","reply":{"parent":{"uri":"at://did:plc:me/app.bsky.feed.post/1"}}}}}`,
		}
		for _, m := range msgs {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(m))
		}
		// Hold the connection until the client goes away.
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	l := NewListener(wsURL(srv), me)
	l.Start(context.Background())
	defer l.Stop()

	require.Equal(t, Event{Kind: ConnectionStatus, Status: Connected}, nextEvent(t, l.Events()))
	require.Equal(t, "at://did:plc:bob/app.bsky.feed.like/l2", nextEvent(t, l.Events()).URI)
	require.Equal(t, "at://did:plc:eve/app.bsky.graph.follow/f1", nextEvent(t, l.Events()).URI)
	ev := nextEvent(t, l.Events())
	require.Equal(t, NewNotification, ev.Kind)
	require.Equal(t, "at://did:plc:eve/app.bsky.feed.post/p1", ev.URI)

	q, _ := query.Load().(string)
	require.Contains(t, q, "wantedCollections=app.bsky.feed.like")
	require.Contains(t, q, "wantedCollections=app.bsky.graph.follow")
}

func TestListener_ReconnectsAfterDrop(t *testing.T) {
	var connections atomic.Int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if connections.Add(1) == 1 {
			conn.Close()
			return
		}
		defer conn.Close()
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	l := NewListener(wsURL(srv), me, WithReconnectInterval(20*time.Millisecond))
	l.Start(context.Background())
	defer l.Stop()

	var statuses []Status
	for len(statuses) < 4 {
		ev := nextEvent(t, l.Events())
		require.Equal(t, ConnectionStatus, ev.Kind)
		statuses = append(statuses, ev.Status)
	}
	require.Equal(t, []Status{Connected, Disconnected, Reconnecting, Connected}, statuses)
	require.EqualValues(t, 2, connections.Load())
}

func TestListener_StopEndsTask(t *testing.T) {
	l := NewListener("ws://127.0.0.1:1/subscribe", me, WithReconnectInterval(time.Hour))
	l.Start(context.Background())

	require.Equal(t, Disconnected, nextEvent(t, l.Events()).Status)

	stopped := make(chan struct{})
	go func() {
		l.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatalf("Stop did not abort the reconnect wait")
	}
	l.Stop()
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "connected", Connected.String())
	require.Equal(t, "reconnecting", Reconnecting.String())
	require.Equal(t, "disconnected", Disconnected.String())
}
