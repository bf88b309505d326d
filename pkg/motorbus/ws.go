// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package motorbus

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// ErrConnectionClosed is returned when the WebSocket bridge has gone away.
var ErrConnectionClosed = fmt.Errorf("motorbus: websocket connection closed")

// WSConfig describes a WebSocket serial bridge connection.
type WSConfig struct {
	URL           string
	Username      string
	Password      string
	SkipTLSVerify bool
	ReadTimeout   time.Duration
}

// WSTransport is a Transport over a WebSocket binary stream, for serial
// adapters exposed by a network bridge. Message boundaries on the socket do
// not have to match frame boundaries: leftover bytes from one message are
// consumed by the next Receive.
type WSTransport struct {
	conn        *websocket.Conn
	readTimeout time.Duration
	buf         []byte
	bufOffset   int
	closed      bool
}

// OpenWebSocket dials the bridge described by cfg.
func OpenWebSocket(cfg WSConfig) (*WSTransport, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("motorbus: invalid URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("motorbus: unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: cfg.SkipTLSVerify,
		}
	}

	headers := http.Header{}
	if cfg.Username != "" && cfg.Password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.Password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, cfg.URL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("motorbus: websocket connect (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("motorbus: websocket connect: %w", err)
	}

	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	return &WSTransport{conn: conn, readTimeout: timeout}, nil
}

// Send writes p as one binary message.
func (t *WSTransport) Send(p []byte) (int, error) {
	if t.closed {
		return 0, ErrConnectionClosed
	}
	if err := t.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		t.closed = true
		return 0, fmt.Errorf("motorbus: websocket write: %w", err)
	}
	return len(p), nil
}

// Receive accumulates exactly n bytes, reading further binary messages as
// needed until the read timeout elapses.
func (t *WSTransport) Receive(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	deadline := time.Now().Add(t.readTimeout)

	for len(out) < n {
		if t.bufOffset < len(t.buf) {
			take := n - len(out)
			if avail := len(t.buf) - t.bufOffset; take > avail {
				take = avail
			}
			out = append(out, t.buf[t.bufOffset:t.bufOffset+take]...)
			t.bufOffset += take
			continue
		}

		if t.closed {
			return out, ErrConnectionClosed
		}
		if err := t.conn.SetReadDeadline(deadline); err != nil {
			return out, fmt.Errorf("motorbus: websocket deadline: %w", err)
		}

		messageType, data, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err) {
				t.closed = true
				return out, ErrConnectionClosed
			}
			return out, fmt.Errorf("%w: got %d of %d bytes", ErrTimeout, len(out), n)
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		t.buf = data
		t.bufOffset = 0
	}

	return out, nil
}

// DiscardInput drops locally buffered bytes. Bytes still in flight on the
// bridge cannot be flushed from here; the next Receive's CRC check catches
// any stale frame that slips through.
func (t *WSTransport) DiscardInput() error {
	t.buf = nil
	t.bufOffset = 0
	return nil
}

// Close releases the connection.
func (t *WSTransport) Close() error {
	t.closed = true
	return t.conn.Close()
}
