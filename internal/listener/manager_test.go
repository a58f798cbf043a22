package listener

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/pixil98/go-testutil"
)

type blockingRunner struct {
	started chan string
	release chan struct{}
	err     error
}

func (r *blockingRunner) RunSession(ctx context.Context, rw io.ReadWriter, remote string) error {
	r.started <- remote
	<-r.release
	_, _ = io.WriteString(rw, "bye\n")
	return r.err
}

func TestConnectionManager_AcceptConnection(t *testing.T) {
	r := &blockingRunner{started: make(chan string, 1), release: make(chan struct{})}
	cm := NewConnectionManager(r)

	conn := &bufferConn{in: &bytes.Buffer{}}
	done := make(chan struct{})
	go func() {
		cm.AcceptConnection(context.Background(), conn, "10.0.0.1:5000")
		close(done)
	}()

	testutil.AssertEqual(t, "remote", <-r.started, "10.0.0.1:5000")
	testutil.AssertEqual(t, "active", cm.Active(), 1)

	close(r.release)
	<-done
	testutil.AssertEqual(t, "active after", cm.Active(), 0)
	testutil.AssertEqual(t, "output", conn.out.String(), "bye\n")
}

func TestConnectionManager_SessionErrorIsContained(t *testing.T) {
	r := &blockingRunner{started: make(chan string, 1), release: make(chan struct{}), err: errors.New("boom")}
	close(r.release)
	cm := NewConnectionManager(r)

	cm.AcceptConnection(context.Background(), &bufferConn{in: &bytes.Buffer{}}, "remote")
	testutil.AssertEqual(t, "active", cm.Active(), 0)
}

func TestConnectionManager_MaxSessions(t *testing.T) {
	r := &blockingRunner{started: make(chan string, 2), release: make(chan struct{})}
	cm := NewConnectionManager(r, WithMaxSessions(1))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cm.AcceptConnection(context.Background(), &bufferConn{in: &bytes.Buffer{}}, "first")
	}()
	<-r.started

	rejected := &bufferConn{in: &bytes.Buffer{}}
	cm.AcceptConnection(context.Background(), rejected, "second")
	testutil.AssertEqual(t, "rejected", strings.Contains(rejected.out.String(), ErrTooManySessions.Error()), true)
	testutil.AssertEqual(t, "active", cm.Active(), 1)

	close(r.release)
	wg.Wait()
	testutil.AssertEqual(t, "active after", cm.Active(), 0)
}
