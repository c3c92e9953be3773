package command

import (
	"context"
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-lobby/internal/messaging"
	"github.com/pixil98/go-lobby/internal/mirror"
	"github.com/pixil98/go-lobby/internal/simulate"
	"github.com/pixil98/go-lobby/internal/transport"
	"github.com/pixil98/go-lobby/internal/watch"
)

type TransportKind int

const (
	TransportNats TransportKind = iota
	TransportWs
)

func (k *TransportKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "nats":
		*k = TransportNats
	case "ws":
		*k = TransportWs
	default:
		return fmt.Errorf("unknown transport kind: %s", text)
	}
	return nil
}

type TransportConfig struct {
	Kind TransportKind `json:"kind"`

	// Url of the lobby server. Ignored when an embedded broker is
	// configured, since the broker picks its own client url.
	Url string `json:"url"`

	RequestTimeout string `json:"request_timeout,omitempty"`
	EventPrefix    string `json:"event_prefix,omitempty"`
	RequestPrefix  string `json:"request_prefix,omitempty"`

	// Embedded runs an in-process nats broker instead of connecting out.
	// Useful with simulate, and for development without a lobby server.
	Embedded *EmbeddedNatsConfig `json:"embedded,omitempty"`
}

func (c *TransportConfig) Validate() error {
	el := errors.NewErrorList()

	if c.RequestTimeout != "" {
		_, err := time.ParseDuration(c.RequestTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing request_timeout: %w", err))
		}
	}

	switch c.Kind {
	case TransportNats:
		if c.Url == "" && c.Embedded == nil {
			el.Add(fmt.Errorf("url is required without an embedded broker"))
		}
	case TransportWs:
		if c.Url == "" {
			el.Add(fmt.Errorf("url is required"))
		}
		if c.Embedded != nil {
			el.Add(fmt.Errorf("embedded broker only pairs with the nats transport"))
		}
	}

	if c.Embedded != nil {
		el.Add(c.Embedded.Validate())
	}

	return el.Err()
}

// BuildDialer returns the dialer the watcher uses to open lobby channels.
// When broker is set, the dialer reads its client url at dial time so the
// watcher's retry loop covers broker startup too.
func (c *TransportConfig) BuildDialer(m *mirror.Synchronizer, broker *messaging.NatsServer) (watch.Dialer, error) {
	switch c.Kind {
	case TransportNats:
		var opts []transport.NatsOpt
		if c.RequestTimeout != "" {
			d, err := time.ParseDuration(c.RequestTimeout)
			if err != nil {
				return nil, fmt.Errorf("parsing request_timeout: %w", err)
			}
			opts = append(opts, transport.WithRequestTimeout(d))
		}
		if c.EventPrefix != "" {
			opts = append(opts, transport.WithEventPrefix(c.EventPrefix))
		}
		if c.RequestPrefix != "" {
			opts = append(opts, transport.WithRequestPrefix(c.RequestPrefix))
		}
		// A silent reconnect means missed events. Resync from scratch.
		opts = append(opts, transport.WithReconnectFunc(m.Refresh))

		return func(ctx context.Context) (watch.Channel, error) {
			url := c.Url
			if broker != nil {
				url = broker.ClientURL()
			}
			return transport.DialNats(url, opts...)
		}, nil

	case TransportWs:
		var opts []transport.WsOpt
		if c.RequestTimeout != "" {
			d, err := time.ParseDuration(c.RequestTimeout)
			if err != nil {
				return nil, fmt.Errorf("parsing request_timeout: %w", err)
			}
			opts = append(opts, transport.WithAckTimeout(d))
		}

		return func(ctx context.Context) (watch.Channel, error) {
			return transport.DialWs(ctx, c.Url, opts...)
		}, nil

	default:
		return nil, fmt.Errorf("unknown transport kind: %v", c.Kind)
	}
}

// BuildBroadcastDialer returns the dialer the simulated feed publishes
// through. Only the nats transport can broadcast.
func (c *TransportConfig) BuildBroadcastDialer(broker *messaging.NatsServer) (simulate.Dialer, error) {
	if c.Kind != TransportNats {
		return nil, fmt.Errorf("broadcasting requires the nats transport")
	}

	opts := []transport.NatsOpt{transport.WithName("lobby-feed")}
	if c.EventPrefix != "" {
		opts = append(opts, transport.WithEventPrefix(c.EventPrefix))
	}

	return func(ctx context.Context) (simulate.Broadcaster, error) {
		url := c.Url
		if broker != nil {
			url = broker.ClientURL()
		}
		return transport.DialNats(url, opts...)
	}, nil
}

type EmbeddedNatsConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
}

func (c *EmbeddedNatsConfig) Validate() error {
	el := errors.NewErrorList()

	if c.StartTimeout != "" {
		_, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing start_timeout: %w", err))
		}
	}

	return el.Err()
}

func (c *EmbeddedNatsConfig) BuildServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt
	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if c.Host != "" {
		opts = append(opts, messaging.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, messaging.WithPort(c.Port))
	}

	s, err := messaging.NewNatsServer(opts...)
	if err != nil {
		return nil, err
	}

	return s, nil
}
