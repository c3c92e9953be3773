package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// NatsServer runs an embedded NATS broker so the lobby binary and the
// integration tests can come up with no external infrastructure.
type NatsServer struct {
	ns *server.Server

	startupTimeout time.Duration
	host           string
	port           int
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, err
	}
	s.ns = ns

	return s, nil
}

// Start runs the broker until ctx is done.
func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())

	<-ctx.Done()
	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

// Ready blocks until the broker accepts connections or the timeout lapses.
func (n *NatsServer) Ready(timeout time.Duration) bool {
	return n.ns.ReadyForConnections(timeout)
}

// ClientURL returns the URL clients dial. With port -1 the broker picks a
// free port, so read this only once Ready reports true.
func (n *NatsServer) ClientURL() string {
	return n.ns.ClientURL()
}
