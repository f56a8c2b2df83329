// Package bridge connects the menu service to the player window's content
// layer over a WebSocket. The content layer performs dialogs, clipboard,
// history and devtools requests and answers the ones that return a value.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mchmarny/tunebar/pkg/metric"
)

const (
	// DefaultWriteTimeout bounds a single frame write.
	DefaultWriteTimeout = 5 * time.Second
)

var (
	// ErrNotConnected is returned when no content layer is attached.
	ErrNotConnected = errors.New("window content layer not connected")

	// ErrDisconnected is returned to calls pending when the connection drops.
	ErrDisconnected = errors.New("window content layer disconnected")
)

// Envelope is the frame exchanged in both directions. Replies carry the
// ID of the request they answer.
type Envelope struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Bridge holds the single active content layer connection.
type Bridge struct {
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	calls        metric.IncrementalCounter

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[string]chan Envelope

	writeMu sync.Mutex
	seq     atomic.Uint64
}

// Option is a functional option for configuring the Bridge.
type Option func(*Bridge)

// WithWriteTimeout sets the per-frame write deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(b *Bridge) { b.writeTimeout = d }
}

// WithCallCounter counts requests by type and result.
func WithCallCounter(c metric.IncrementalCounter) Option {
	return func(b *Bridge) { b.calls = c }
}

// New creates a Bridge with no connection.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		writeTimeout: DefaultWriteTimeout,
		pending:      make(map[string]chan Envelope),
		upgrader: websocket.Upgrader{
			// the content layer is served from the app's own origin scheme
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Connected reports whether a content layer is attached.
func (b *Bridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// Handler upgrades the request and serves the connection until it closes.
// A new connection replaces the previous one.
func (b *Bridge) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("failed to upgrade bridge connection", "error", err)
			return
		}

		b.mu.Lock()
		prev := b.conn
		b.conn = conn
		if prev != nil {
			b.failPending()
		}
		b.mu.Unlock()

		if prev != nil {
			slog.Info("replacing bridge connection", "remote", prev.RemoteAddr().String())
			_ = prev.Close()
		}
		slog.Info("bridge connected", "remote", conn.RemoteAddr().String())

		b.read(conn)
	})
}

func (b *Bridge) read(conn *websocket.Conn) {
	defer b.drop(conn)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("bridge read ended", "error", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			slog.Warn("invalid bridge frame", "error", err)
			continue
		}
		if env.ID == "" {
			slog.Debug("unsolicited bridge frame", "type", env.Type)
			continue
		}

		b.mu.Lock()
		ch, ok := b.pending[env.ID]
		delete(b.pending, env.ID)
		b.mu.Unlock()

		if ok {
			ch <- env
		}
	}
}

// drop detaches conn and fails every pending call.
func (b *Bridge) drop(conn *websocket.Conn) {
	_ = conn.Close()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != conn {
		return
	}
	b.conn = nil
	b.failPending()
	slog.Info("bridge disconnected")
}

// failPending must be called with mu held.
func (b *Bridge) failPending() {
	for id, ch := range b.pending {
		ch <- Envelope{ID: id, Error: ErrDisconnected.Error()}
		delete(b.pending, id)
	}
}

func (b *Bridge) write(env Envelope) error {
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode %s frame: %w", env.Type, err)
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(b.writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		return fmt.Errorf("failed to write %s frame: %w", env.Type, err)
	}
	return nil
}

func encodePayload(payload any) (json.RawMessage, error) {
	if payload == nil {
		return nil, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return raw, nil
}

// Send writes a request that expects no reply.
func (b *Bridge) Send(_ context.Context, typ string, payload any) error {
	raw, err := encodePayload(payload)
	if err != nil {
		return err
	}
	err = b.write(Envelope{Type: typ, Payload: raw})
	b.count(typ, err)
	return err
}

// Call writes a request and waits for its reply, decoding the reply
// payload into out when out is not nil.
func (b *Bridge) Call(ctx context.Context, typ string, payload any, out any) error {
	raw, err := encodePayload(payload)
	if err != nil {
		return err
	}

	id := strconv.FormatUint(b.seq.Add(1), 10)
	ch := make(chan Envelope, 1)

	b.mu.Lock()
	b.pending[id] = ch
	b.mu.Unlock()

	if err := b.write(Envelope{ID: id, Type: typ, Payload: raw}); err != nil {
		b.forget(id)
		b.count(typ, err)
		return err
	}

	select {
	case <-ctx.Done():
		b.forget(id)
		b.count(typ, ctx.Err())
		return ctx.Err()
	case reply := <-ch:
		if reply.Error != "" {
			err := fmt.Errorf("%s failed: %s", typ, reply.Error)
			if reply.Error == ErrDisconnected.Error() {
				err = fmt.Errorf("%s: %w", typ, ErrDisconnected)
			}
			b.count(typ, err)
			return err
		}
		b.count(typ, nil)
		if out == nil || len(reply.Payload) == 0 {
			return nil
		}
		if err := json.Unmarshal(reply.Payload, out); err != nil {
			return fmt.Errorf("failed to decode %s reply: %w", typ, err)
		}
		return nil
	}
}

func (b *Bridge) forget(id string) {
	b.mu.Lock()
	delete(b.pending, id)
	b.mu.Unlock()
}

func (b *Bridge) count(typ string, err error) {
	if b.calls == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	b.calls.Increment(typ, result)
}

// Close drops the active connection, failing pending calls.
func (b *Bridge) Close() error {
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()

	if conn == nil {
		return nil
	}
	b.drop(conn)
	return nil
}
