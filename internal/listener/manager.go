package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// ErrTooManySessions is returned when the manager is at its session limit.
var ErrTooManySessions = errors.New("too many sessions")

// SessionRunner drives one interactive session over a connection.
type SessionRunner interface {
	RunSession(ctx context.Context, rw io.ReadWriter, remote string) error
}

// ConnectionManager hands accepted connections to a SessionRunner and caps
// how many sessions run at once.
type ConnectionManager struct {
	runner      SessionRunner
	maxSessions int

	mu     sync.Mutex
	active int
}

type ConnectionManagerOpt func(*ConnectionManager)

// WithMaxSessions limits concurrent sessions. Zero means no limit.
func WithMaxSessions(n int) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		if n >= 0 {
			m.maxSessions = n
		}
	}
}

func NewConnectionManager(runner SessionRunner, opts ...ConnectionManagerOpt) *ConnectionManager {
	m := &ConnectionManager{
		runner: runner,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Active returns the number of running sessions.
func (m *ConnectionManager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// AcceptConnection runs a session on conn and blocks until it ends.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter, remote string) {
	if !m.acquire() {
		slog.WarnContext(ctx, "rejecting connection", "remote", remote, "error", ErrTooManySessions)
		_, _ = fmt.Fprintf(conn, "%s, try again later\n", ErrTooManySessions)
		return
	}
	defer m.release()

	slog.InfoContext(ctx, "session started", "remote", remote)
	if err := m.runner.RunSession(ctx, conn, remote); err != nil && !errors.Is(err, context.Canceled) {
		slog.WarnContext(ctx, "console session", "remote", remote, "error", err)
	}
	slog.InfoContext(ctx, "session ended", "remote", remote)
}

func (m *ConnectionManager) acquire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxSessions > 0 && m.active >= m.maxSessions {
		return false
	}
	m.active++
	return true
}

func (m *ConnectionManager) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active--
}
