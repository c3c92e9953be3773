package transport

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/pixil98/go-lobby/internal/mirror"
)

const (
	// DefaultEventPrefix carries server-to-client events; DefaultRequestPrefix
	// carries client-to-server requests. Separate prefixes keep names like
	// room:join, which exist in both directions, unambiguous on a broadcast
	// medium.
	DefaultEventPrefix   = "lobby.event."
	DefaultRequestPrefix = "lobby.request."
)

// NatsChannel is a mirror.Channel over a NATS connection. Event names map to
// subjects by swapping ":" for "." under a direction prefix.
type NatsChannel struct {
	conn *nats.Conn

	name          string
	eventPrefix   string
	requestPrefix string
	reqTimeout    time.Duration

	onDisconnect func(error)
	onReconnect  func()

	done      chan struct{}
	closeOnce sync.Once
}

// DialNats connects to the NATS server at url and returns a channel over it.
func DialNats(url string, opts ...NatsOpt) (*NatsChannel, error) {
	c := &NatsChannel{
		name:          fmt.Sprintf("lobby-%s", uuid.NewString()),
		eventPrefix:   DefaultEventPrefix,
		requestPrefix: DefaultRequestPrefix,
		reqTimeout:    10 * time.Second,
		done:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	conn, err := nats.Connect(url,
		nats.Name(c.name),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if c.onDisconnect != nil {
				c.onDisconnect(err)
			}
		}),
		nats.ReconnectHandler(func(*nats.Conn) {
			if c.onReconnect != nil {
				c.onReconnect()
			}
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			c.closeOnce.Do(func() { close(c.done) })
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}

	c.conn = conn
	return c, nil
}

// Subscribe registers handler for the named inbound event. The handler is
// called for each message received. Returns an unsubscribe function to
// remove the subscription.
func (c *NatsChannel) Subscribe(event string, handler func(data []byte)) (func(), error) {
	sub, err := c.conn.Subscribe(c.eventSubject(event), func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", event, err)
	}
	return func() { sub.Unsubscribe() }, nil
}

// Emit sends the named request. With an ack it becomes a request/reply and
// the ack fires with the reply or the timeout error; without one it is a
// plain publish.
func (c *NatsChannel) Emit(event string, data []byte, ack mirror.AckFunc) error {
	subject := c.requestSubject(event)

	if ack == nil {
		return c.conn.Publish(subject, data)
	}

	go func() {
		msg, err := c.conn.Request(subject, data, c.reqTimeout)
		if err != nil {
			ack(nil, err)
			return
		}
		ack(msg.Data, nil)
	}()
	return nil
}

// Broadcast publishes under the event prefix: the server direction of the
// channel. The scripted feed uses it to stand in for a lobby server.
func (c *NatsChannel) Broadcast(event string, data []byte) error {
	return c.conn.Publish(c.eventSubject(event), data)
}

// Done closes when the connection is permanently closed and no reconnect
// will be attempted.
func (c *NatsChannel) Done() <-chan struct{} {
	return c.done
}

// Close tears the connection down.
func (c *NatsChannel) Close() {
	c.conn.Close()
}

func (c *NatsChannel) eventSubject(event string) string {
	return c.eventPrefix + strings.ReplaceAll(event, ":", ".")
}

func (c *NatsChannel) requestSubject(event string) string {
	return c.requestPrefix + strings.ReplaceAll(event, ":", ".")
}
