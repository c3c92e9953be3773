package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type Config struct {
	Transport TransportConfig `json:"transport"`
	Watch     WatchConfig     `json:"watch"`
	Boards    []BoardConfig   `json:"boards"`
	Simulate  SimulateConfig  `json:"simulate"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Transport.Validate())
	el.Add(c.Watch.Validate())

	for i, b := range c.Boards {
		err := b.Validate()
		if err != nil {
			el.Add(fmt.Errorf("board %d: %w", i, err))
		}
	}

	el.Add(c.Simulate.Validate())

	if c.Simulate.Enabled && c.Transport.Kind != TransportNats {
		el.Add(fmt.Errorf("simulate requires the nats transport"))
	}

	return el.Err()
}
