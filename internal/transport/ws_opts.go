package transport

import "time"

type WsOpt func(*WsChannel)

// WithAckTimeout sets how long an acked Emit waits for the server's reply.
func WithAckTimeout(d time.Duration) WsOpt {
	return func(c *WsChannel) {
		c.ackTimeout = d
	}
}

// WithSendBuffer sets the outbound frame buffer size.
func WithSendBuffer(n int) WsOpt {
	return func(c *WsChannel) {
		c.send = make(chan frame, n)
	}
}
