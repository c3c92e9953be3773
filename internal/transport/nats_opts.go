package transport

import "time"

type NatsOpt func(*NatsChannel)

// WithName sets the connection name reported to the server.
func WithName(name string) NatsOpt {
	return func(c *NatsChannel) {
		c.name = name
	}
}

// WithRequestTimeout sets how long an acked Emit waits for the reply.
func WithRequestTimeout(d time.Duration) NatsOpt {
	return func(c *NatsChannel) {
		c.reqTimeout = d
	}
}

// WithEventPrefix sets the subject prefix for inbound events.
func WithEventPrefix(prefix string) NatsOpt {
	return func(c *NatsChannel) {
		c.eventPrefix = prefix
	}
}

// WithRequestPrefix sets the subject prefix for outbound requests.
func WithRequestPrefix(prefix string) NatsOpt {
	return func(c *NatsChannel) {
		c.requestPrefix = prefix
	}
}

// WithDisconnectFunc registers a callback for transient disconnects.
func WithDisconnectFunc(fn func(error)) NatsOpt {
	return func(c *NatsChannel) {
		c.onDisconnect = fn
	}
}

// WithReconnectFunc registers a callback for successful reconnects. This is
// where a mirror's Refresh belongs: the server resends its room list to a
// fresh connection.
func WithReconnectFunc(fn func()) NatsOpt {
	return func(c *NatsChannel) {
		c.onReconnect = fn
	}
}
