package listener

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/crypto/ssh"
)

type SshListener struct {
	addr     string
	cm       *ConnectionManager
	hostKey  ssh.Signer
	password string

	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}
}

type SshListenerOpt func(*SshListener)

// WithPassword requires clients to authenticate with the given password.
// Without it any client is accepted.
func WithPassword(password string) SshListenerOpt {
	return func(l *SshListener) {
		l.password = password
	}
}

func NewSshListener(addr string, cm *ConnectionManager, hostKey ssh.Signer, opts ...SshListenerOpt) *SshListener {
	l := &SshListener{
		addr:    addr,
		cm:      cm,
		hostKey: hostKey,
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Ready is closed once the listener accepts connections.
func (l *SshListener) Ready() <-chan struct{} {
	return l.ready
}

// Addr returns the bound address, or nil before Start has bound it.
func (l *SshListener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener == nil {
		return nil
	}
	return l.listener.Addr()
}

func (l *SshListener) serverConfig() *ssh.ServerConfig {
	config := &ssh.ServerConfig{}
	if l.password == "" {
		config.NoClientAuth = true
	} else {
		want := []byte(l.password)
		config.PasswordCallback = func(meta ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if subtle.ConstantTimeCompare(pass, want) == 1 {
				return nil, nil
			}
			return nil, fmt.Errorf("password rejected for %q", meta.User())
		}
	}
	config.AddHostKey(l.hostKey)
	return config
}

func (l *SshListener) Start(ctx context.Context) error {
	config := l.serverConfig()

	listener, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", l.addr, err)
	}
	l.mu.Lock()
	l.listener = listener
	l.mu.Unlock()
	close(l.ready)

	slog.InfoContext(ctx, "listening for ssh", "addr", listener.Addr().String())

	connCtx, cancelConns := context.WithCancel(context.WithoutCancel(ctx))
	var wg sync.WaitGroup

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				cancelConns()
				wg.Wait()
				return nil
			default:
			}
			slog.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.handleConnection(connCtx, conn, config)
		}()
	}
}

func (l *SshListener) handleConnection(ctx context.Context, conn net.Conn, config *ssh.ServerConfig) {
	defer func() { _ = conn.Close() }()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		slog.WarnContext(ctx, "ssh handshake", "remote", conn.RemoteAddr().String(), "error", err)
		return
	}
	defer func() { _ = sshConn.Close() }()

	remote := sshConn.RemoteAddr().String()
	slog.InfoContext(ctx, "ssh connection established", "remote", remote, "user", sshConn.User())

	// Closing the connection ends the channel loop below.
	go func() {
		<-ctx.Done()
		_ = sshConn.Close()
	}()

	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			_ = newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}

		ch, requests, err := newChan.Accept()
		if err != nil {
			slog.ErrorContext(ctx, "accepting ssh channel", "error", err)
			continue
		}

		// Clients only forward input once the shell request is answered.
		shellReady := make(chan struct{})
		go func(in <-chan *ssh.Request) {
			var once sync.Once
			for req := range in {
				switch req.Type {
				case "pty-req":
					// No pty keeps local echo and line editing on the client.
					_ = req.Reply(false, nil)
				case "shell":
					_ = req.Reply(true, nil)
					once.Do(func() { close(shellReady) })
				default:
					_ = req.Reply(false, nil)
				}
			}
		}(requests)

		select {
		case <-shellReady:
		case <-ctx.Done():
			_ = ch.Close()
			continue
		}

		l.cm.AcceptConnection(ctx, newCRLFReadWriter(ch), remote)
		_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{0}))
		_ = ch.Close()
	}
}
