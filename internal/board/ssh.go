package board

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/crypto/ssh"
)

// SshListener serves board sessions over ssh. Viewers authenticate with
// nothing: the board is read-only, so there is no account to protect.
type SshListener struct {
	port    uint16
	board   *Board
	hostKey ssh.Signer
}

func NewSshListener(port uint16, board *Board, hostKey ssh.Signer) *SshListener {
	return &SshListener{
		port:    port,
		board:   board,
		hostKey: hostKey,
	}
}

func (l *SshListener) Start(ctx context.Context) error {
	config := &ssh.ServerConfig{
		NoClientAuth: true,
	}
	config.AddHostKey(l.hostKey)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	slog.InfoContext(ctx, "listening for ssh", "port", l.port)

	// Sessions share one context so every viewer drops together on shutdown,
	// after the accept loop has stopped.
	sessCtx, cancelSessions := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				cancelSessions()
				wg.Wait()
				return nil
			}
			slog.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.serve(sessCtx, conn, config)
		}()
	}
}

// serve handshakes one tcp connection and runs a board session per session
// channel. Sessions are independent read-only streams, so channels opened on
// a multiplexed connection are served concurrently rather than queued.
func (l *SshListener) serve(ctx context.Context, conn net.Conn, config *ssh.ServerConfig) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		slog.ErrorContext(ctx, "ssh handshake", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	defer sshConn.Close()

	slog.InfoContext(ctx, "ssh viewer connected", "remote", conn.RemoteAddr())

	// Closing the ssh connection unblocks the channel loop on shutdown.
	go func() {
		<-ctx.Done()
		sshConn.Close()
	}()

	go ssh.DiscardRequests(reqs)

	var sessions sync.WaitGroup
	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}

		ch, requests, err := newChan.Accept()
		if err != nil {
			slog.ErrorContext(ctx, "accepting ssh channel", "error", err)
			continue
		}

		sessions.Add(1)
		go func() {
			defer sessions.Done()
			defer ch.Close()
			if !awaitShell(ctx, requests) {
				return
			}
			l.board.AcceptConnection(ctx, newLineEndings(ch))
		}()
	}
	sessions.Wait()
}

// awaitShell answers session requests until the client asks for a shell.
// Clients hold input back until the shell reply, so the session must not
// start before it. The pty request is refused: without one the client keeps
// line buffering, and the disconnect keystroke arrives as a clean line.
func awaitShell(ctx context.Context, requests <-chan *ssh.Request) bool {
	shellReady := make(chan struct{})
	var once sync.Once
	go func() {
		for req := range requests {
			switch req.Type {
			case "pty-req":
				req.Reply(false, nil)
			case "shell":
				req.Reply(true, nil)
				once.Do(func() { close(shellReady) })
			default:
				req.Reply(false, nil)
			}
		}
	}()

	select {
	case <-shellReady:
		return true
	case <-ctx.Done():
		return false
	}
}
