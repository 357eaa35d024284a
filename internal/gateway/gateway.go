package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"sync"

	"nbterm/internal/logger"
)

// Gateway is the serialized message channel to the host/extension process.
// Sends are fire-and-forget: one JSON line per message, no response awaited.
type Gateway struct {
	mu  sync.Mutex
	w   io.Writer
	log *logger.LogEntry
}

// New wraps a writer as the outbound half of the channel.
func New(w io.Writer) *Gateway {
	return &Gateway{w: w, log: logger.Named("gateway")}
}

// Send marshals one envelope line. A nil writer is a silent no-op so the
// UI keeps working when the host side is absent (e.g. in tests).
func (g *Gateway) Send(msgType string, payload any) error {
	if g == nil || g.w == nil {
		return nil
	}
	env := Envelope{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		env.Payload = data
	}
	line, err := json.Marshal(env)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := g.w.Write(append(line, '\n')); err != nil {
		g.log.WithField("type", msgType).Warnf("send failed: %v", err)
		return err
	}
	return nil
}

// Listen decodes inbound envelopes until EOF or ctx cancellation and hands
// each to handle. It is meant to run in its own goroutine.
func (g *Gateway) Listen(ctx context.Context, r io.Reader, handle func(Envelope)) error {
	if r == nil || handle == nil {
		return errors.New("gateway listen requires a reader and a handler")
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var env Envelope
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			if g != nil {
				g.log.Warnf("drop malformed host frame: %v", err)
			}
			continue
		}
		if env.Type == "" {
			continue
		}
		handle(env)
	}
	return scanner.Err()
}

// Connect resolves the configured channel address. "stdio" (or empty) pairs
// stdout/stdin with the host; anything else is a unix socket path.
func Connect(addr string) (io.Writer, io.Reader, io.Closer, error) {
	switch strings.TrimSpace(addr) {
	case "", "stdio":
		return os.Stdout, os.Stdin, nil, nil
	default:
		conn, err := net.Dial("unix", addr)
		if err != nil {
			return nil, nil, nil, err
		}
		return conn, conn, conn, nil
	}
}

// Decode unmarshals an envelope payload into out, tolerating empty payloads.
func Decode(env Envelope, out any) error {
	if len(env.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(env.Payload, out)
}
