package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
)

const (
	// EventBuffer is the capacity of the events channel.
	EventBuffer = 100
	// ReconnectInterval is the fixed delay between reconnect attempts.
	ReconnectInterval = 5 * time.Second

	handshakeTimeout = 10 * time.Second
)

var wantedCollections = []string{
	"app.bsky.feed.like",
	"app.bsky.feed.repost",
	"app.bsky.feed.post",
	"app.bsky.graph.follow",
}

// Status is the state of the live connection.
type Status int

const (
	Disconnected Status = iota
	Connected
	Reconnecting
)

func (s Status) String() string {
	switch s {
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	default:
		return "disconnected"
	}
}

// EventKind tells the two kinds of Event apart.
type EventKind int

const (
	NewNotification EventKind = iota
	ConnectionStatus
)

// Event is delivered on the listener's channel.
type Event struct {
	Kind   EventKind
	URI    string // NewNotification: uri of the record that notified the user
	Status Status // ConnectionStatus
}

// Listener follows a Jetstream firehose and reports records that concern one account.
type Listener struct {
	endpoint string
	did      string
	dialer   *websocket.Dialer
	backoff  backoff.BackOff
	events   chan Event

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Listener.
type Option func(*Listener)

// WithReconnectInterval overrides the delay between reconnect attempts.
func WithReconnectInterval(d time.Duration) Option {
	return func(l *Listener) { l.backoff = backoff.NewConstantBackOff(d) }
}

// NewListener creates a listener for events addressed to did.
func NewListener(endpoint, did string, opts ...Option) *Listener {
	l := &Listener{
		endpoint: endpoint,
		did:      did,
		dialer:   &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		backoff:  backoff.NewConstantBackOff(ReconnectInterval),
		events:   make(chan Event, EventBuffer),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Events returns the channel events are delivered on.
func (l *Listener) Events() <-chan Event {
	return l.events
}

// Start launches the listener task. Calling Start twice is a no-op.
func (l *Listener) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})
	go l.run(ctx)
}

// Stop aborts the listener task and waits for it to exit.
func (l *Listener) Stop() {
	l.mu.Lock()
	cancel, done, conn := l.cancel, l.done, l.conn
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	if conn != nil {
		_ = conn.Close()
	}
	<-done
}

func (l *Listener) run(ctx context.Context) {
	defer close(l.done)
	for {
		err := l.session(ctx)
		if ctx.Err() != nil {
			return
		}
		slog.Warn("live updates disconnected", "err", err)
		l.emit(Event{Kind: ConnectionStatus, Status: Disconnected})

		wait := l.backoff.NextBackOff()
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		l.emit(Event{Kind: ConnectionStatus, Status: Reconnecting})
	}
}

// session holds one connection open until it fails or ctx ends.
func (l *Listener) session(ctx context.Context) error {
	u, err := l.subscribeURL()
	if err != nil {
		return err
	}
	conn, _, err := l.dialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", l.endpoint, err)
	}
	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.conn = nil
		l.mu.Unlock()
		_ = conn.Close()
	}()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	l.backoff.Reset()
	l.emit(Event{Kind: ConnectionStatus, Status: Connected})
	slog.Debug("live updates connected", "endpoint", l.endpoint)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("reading: %w", err)
		}
		if uri, ok := l.match(data); ok {
			l.emit(Event{Kind: NewNotification, URI: uri})
		}
	}
}

func (l *Listener) subscribeURL() (string, error) {
	u, err := url.Parse(l.endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing stream url: %w", err)
	}
	q := u.Query()
	for _, c := range wantedCollections {
		q.Add("wantedCollections", c)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// emit drops the event when the channel is full; consumers only need the latest state.
func (l *Listener) emit(ev Event) {
	select {
	case l.events <- ev:
	default:
		slog.Debug("live update dropped, channel full", "kind", ev.Kind)
	}
}

type jetstreamEvent struct {
	DID    string `json:"did"`
	Kind   string `json:"kind"`
	Commit *struct {
		Operation  string          `json:"operation"`
		Collection string          `json:"collection"`
		Rkey       string          `json:"rkey"`
		Record     json.RawMessage `json:"record"`
	} `json:"commit"`
}

type commitRecord struct {
	Subject json.RawMessage `json:"subject"`
	Reply   *struct {
		Parent struct {
			URI string `json:"uri"`
		} `json:"parent"`
	} `json:"reply"`
}

// match reports whether a firehose message notifies the listener's account and,
// if so, the uri of the record that did.
func (l *Listener) match(data []byte) (string, bool) {
	var ev jetstreamEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return "", false
	}
	if ev.Kind != "commit" || ev.Commit == nil || ev.Commit.Operation != "create" || ev.DID == l.did {
		return "", false
	}
	var rec commitRecord
	if err := json.Unmarshal(ev.Commit.Record, &rec); err != nil {
		return "", false
	}

	mine := "at://" + l.did + "/"
	hit := false
	switch ev.Commit.Collection {
	case "app.bsky.feed.like", "app.bsky.feed.repost":
		var subject struct {
			URI string `json:"uri"`
		}
		hit = json.Unmarshal(rec.Subject, &subject) == nil && strings.HasPrefix(subject.URI, mine)
	case "app.bsky.graph.follow":
		var subject string
		hit = json.Unmarshal(rec.Subject, &subject) == nil && subject == l.did
	case "app.bsky.feed.post":
		hit = rec.Reply != nil && strings.HasPrefix(rec.Reply.Parent.URI, mine)
	}
	if !hit {
		return "", false
	}
	return "at://" + ev.DID + "/" + ev.Commit.Collection + "/" + ev.Commit.Rkey, true
}
