package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-lobby/internal/display"
	"github.com/pixil98/go-lobby/internal/mirror"
	"github.com/pixil98/go-lobby/internal/watch"
)

type WatchConfig struct {
	// EventFormat overrides the template used to log lobby events.
	EventFormat string `json:"event_format,omitempty"`

	// DisableRoster skips logging the room roster after every sync.
	DisableRoster bool `json:"disable_roster,omitempty"`

	RetryInterval string `json:"retry_interval,omitempty"`
}

func (c *WatchConfig) Validate() error {
	el := errors.NewErrorList()

	if c.EventFormat != "" {
		_, err := display.NewEventTemplate(c.EventFormat)
		if err != nil {
			el.Add(fmt.Errorf("parsing event_format: %w", err))
		}
	}

	if c.RetryInterval != "" {
		_, err := time.ParseDuration(c.RetryInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing retry_interval: %w", err))
		}
	}

	return el.Err()
}

func (c *WatchConfig) BuildWatcher(m *mirror.Synchronizer, dial watch.Dialer) (*watch.Watcher, error) {
	var opts []watch.WatcherOpt
	if c.EventFormat != "" {
		tmpl, err := display.NewEventTemplate(c.EventFormat)
		if err != nil {
			return nil, fmt.Errorf("parsing event_format: %w", err)
		}
		opts = append(opts, watch.WithEventTemplate(tmpl))
	}
	if c.DisableRoster {
		opts = append(opts, watch.WithRosterOnSync(false))
	}
	if c.RetryInterval != "" {
		d, err := time.ParseDuration(c.RetryInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing retry_interval: %w", err)
		}
		opts = append(opts, watch.WithRetryInterval(d))
	}

	return watch.NewWatcher(m, dial, opts...)
}
