package command

import (
	"fmt"

	"github.com/pixil98/go-lobby/internal/messaging"
	"github.com/pixil98/go-lobby/internal/mirror"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	workers := service.WorkerList{}

	// Run a broker in-process when configured
	var broker *messaging.NatsServer
	if cfg.Transport.Embedded != nil {
		var err error
		broker, err = cfg.Transport.Embedded.BuildServer()
		if err != nil {
			return nil, fmt.Errorf("creating nats server: %w", err)
		}
		workers["nats"] = broker
	}

	// One mirror shared by the watcher and every board
	m := mirror.NewSynchronizer()

	dial, err := cfg.Transport.BuildDialer(m, broker)
	if err != nil {
		return nil, fmt.Errorf("creating transport dialer: %w", err)
	}

	watcher, err := cfg.Watch.BuildWatcher(m, dial)
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	workers["watcher"] = watcher

	for i, b := range cfg.Boards {
		listener, err := b.BuildListener(m)
		if err != nil {
			return nil, fmt.Errorf("creating board %d: %w", i, err)
		}
		workers[fmt.Sprintf("board-%d", i)] = listener
	}

	if cfg.Simulate.Enabled {
		feedDial, err := cfg.Transport.BuildBroadcastDialer(broker)
		if err != nil {
			return nil, fmt.Errorf("creating feed dialer: %w", err)
		}
		feed, err := cfg.Simulate.BuildFeed(feedDial)
		if err != nil {
			return nil, fmt.Errorf("creating feed: %w", err)
		}
		workers["feed"] = feed
	}

	return workers, nil
}
