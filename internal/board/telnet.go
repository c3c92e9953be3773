package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"syscall"

	"github.com/iammegalith/telnet"
	"github.com/pixil98/go-log"
	"github.com/sirupsen/logrus"
)

// TelnetListener serves board sessions over plain telnet.
type TelnetListener struct {
	port  uint16
	board *Board
}

func NewTelnetListener(port uint16, board *Board) *TelnetListener {
	return &TelnetListener{
		port:  port,
		board: board,
	}
}

func (l *TelnetListener) Start(ctx context.Context) error {
	// Sessions share one context so every viewer drops together on shutdown,
	// after the accept loop has stopped.
	sessCtx, cancelSessions := context.WithCancel(context.Background())
	defer cancelSessions()

	sessions := &telnetSessions{
		board:  l.board,
		logger: log.GetLogger(ctx),
		ctx:    sessCtx,
	}

	svr := telnet.NewServer(fmt.Sprintf(":%d", l.port), sessions)

	stop := context.AfterFunc(ctx, func() { svr.Stop() })
	defer stop()

	if err := svr.ListenAndServe(); err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (another server running?)", l.port)
		}
		return fmt.Errorf("serving telnet on port %d: %w", l.port, err)
	}

	cancelSessions()
	sessions.wait()
	return nil
}

// telnetSessions runs and tracks the viewer sessions the accept loop hands
// it, so the listener can wait them out on shutdown.
type telnetSessions struct {
	wg     sync.WaitGroup
	board  *Board
	logger logrus.FieldLogger
	ctx    context.Context
}

func (s *telnetSessions) HandleTelnet(conn *telnet.Connection) {
	s.wg.Add(1)
	defer s.wg.Done()
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Warnf("closing telnet session: %s", err)
		}
	}()

	s.logger.Info("telnet viewer connected")

	ctx := log.SetLogger(s.ctx, s.logger)
	s.board.AcceptConnection(ctx, conn)
}

func (s *telnetSessions) wait() {
	s.wg.Wait()
}
