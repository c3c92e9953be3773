package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-lobby/internal/simulate"
)

// SimulateConfig runs a scripted lobby feed against the broker so the rest
// of the process has something to mirror. Development only.
type SimulateConfig struct {
	Enabled  bool   `json:"enabled"`
	Interval string `json:"interval,omitempty"`
}

func (c *SimulateConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Interval != "" {
		_, err := time.ParseDuration(c.Interval)
		if err != nil {
			el.Add(fmt.Errorf("parsing interval: %w", err))
		}
	}

	return el.Err()
}

func (c *SimulateConfig) BuildFeed(dial simulate.Dialer) (*simulate.Feed, error) {
	var opts []simulate.FeedOpt
	if c.Interval != "" {
		d, err := time.ParseDuration(c.Interval)
		if err != nil {
			return nil, fmt.Errorf("parsing interval: %w", err)
		}
		opts = append(opts, simulate.WithInterval(d))
	}

	return simulate.NewFeed(dial, opts...), nil
}
