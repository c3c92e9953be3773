package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-lobby/internal/bus"
	"github.com/pixil98/go-lobby/internal/mirror"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// ackEvent is the reserved frame name the server answers requests with.
	ackEvent = "ack"
)

// ErrClosed is returned by Emit, and delivered to pending acks, once the
// channel has shut down.
var ErrClosed = errors.New("channel closed")

// frame is the JSON envelope on the wire: an event name, its raw payload,
// and a nonzero correlation id when the sender wants an acknowledgement.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	ID    uint64          `json:"id,omitempty"`
}

// WsChannel is a mirror.Channel over a websocket connection. A read pump
// dispatches inbound frames to subscribers by event name; a single write
// pump owns the connection for outbound frames and pings.
type WsChannel struct {
	conn *websocket.Conn

	inbound *bus.Bus[[]byte]
	send    chan frame

	ackTimeout time.Duration

	mu      sync.Mutex
	pending map[uint64]*pendingAck
	nextId  uint64

	done      chan struct{}
	closeOnce sync.Once
}

type pendingAck struct {
	ack   mirror.AckFunc
	timer *time.Timer
}

// DialWs connects to the websocket endpoint at url and returns a channel
// over it.
func DialWs(ctx context.Context, url string, opts ...WsOpt) (*WsChannel, error) {
	c := &WsChannel{
		inbound:    bus.New[[]byte](),
		send:       make(chan frame, 16),
		ackTimeout: 10 * time.Second,
		pending:    map[uint64]*pendingAck{},
		done:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	c.conn = conn

	go c.readLoop()
	go c.writeLoop()

	return c, nil
}

// Subscribe registers handler for the named inbound event. Handlers run on
// the read pump goroutine, one frame at a time.
func (c *WsChannel) Subscribe(event string, handler func(data []byte)) (func(), error) {
	return c.inbound.Subscribe(event, handler), nil
}

// Emit queues the named request for the write pump. With an ack, the frame
// carries a correlation id and the ack fires with the server's reply, the
// timeout error, or ErrClosed.
func (c *WsChannel) Emit(event string, data []byte, ack mirror.AckFunc) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	f := frame{Event: event, Data: json.RawMessage(data)}

	if ack != nil {
		id, err := c.register(ack)
		if err != nil {
			return err
		}
		f.ID = id
	}

	select {
	case c.send <- f:
		return nil
	case <-c.done:
		if f.ID != 0 {
			c.settle(f.ID, nil, ErrClosed)
		}
		return ErrClosed
	}
}

// Done closes when the read pump has exited.
func (c *WsChannel) Done() <-chan struct{} {
	return c.done
}

// Close shuts the channel down, failing every pending ack with ErrClosed.
func (c *WsChannel) Close() {
	c.close()
}

func (c *WsChannel) readLoop() {
	defer c.close()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			return
		}

		if f.Event == ackEvent {
			c.settle(f.ID, f.Data, nil)
			continue
		}

		c.inbound.Emit(f.Event, []byte(f.Data))
	}
}

func (c *WsChannel) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case f := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(f); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// register stores ack under a fresh correlation id and arms its timeout.
func (c *WsChannel) register(ack mirror.AckFunc) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return 0, ErrClosed
	default:
	}

	c.nextId++
	id := c.nextId
	c.pending[id] = &pendingAck{
		ack: ack,
		timer: time.AfterFunc(c.ackTimeout, func() {
			c.settle(id, nil, fmt.Errorf("ack %d: timed out", id))
		}),
	}
	return id, nil
}

// settle resolves a pending ack exactly once and invokes it outside the
// lock.
func (c *WsChannel) settle(id uint64, data []byte, err error) {
	c.mu.Lock()
	p, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
		p.timer.Stop()
	}
	c.mu.Unlock()

	if ok {
		p.ack(data, err)
	}
}

func (c *WsChannel) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()

		c.mu.Lock()
		pending := c.pending
		c.pending = map[uint64]*pendingAck{}
		c.mu.Unlock()

		for _, p := range pending {
			p.timer.Stop()
			p.ack(nil, ErrClosed)
		}
	})
}
