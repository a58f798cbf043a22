package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-service"

	"github.com/pixil98/sms-tracker/internal/console"
	"github.com/pixil98/sms-tracker/internal/driver"
	"github.com/pixil98/sms-tracker/internal/listener"
	"github.com/pixil98/sms-tracker/internal/messaging"
	"github.com/pixil98/sms-tracker/internal/tracker"
	"github.com/pixil98/sms-tracker/internal/world"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	if _, err := cfg.Logging.Setup(); err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	layout := cfg.Tracker.Layout()
	w, err := world.Load(cfg.WorldPath, layout)
	if err != nil {
		return nil, err
	}

	natsServer, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	t := tracker.New(w, layout,
		tracker.WithAutoTrack(cfg.Tracker.AutoTrack),
		tracker.WithObserver(messaging.NewTrackerPublisher(natsServer)),
	)

	slots, err := cfg.Storage.BuildSlotStore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("creating slot store: %w", err)
	}

	// Create Listeners
	runner := console.NewRunner(t, slots, console.WithSubscriber(natsServer))
	cm := listener.NewConnectionManager(runner, listener.WithMaxSessions(cfg.Console.MaxSessions))

	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		worker, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = worker
	}

	workers := service.WorkerList{
		"nats":      natsServer,
		"listeners": &listeners,
	}

	// Setup the poll driver for the game hook
	if syncer := cfg.Tracker.BuildSyncer(t); syncer != nil {
		d := driver.NewPollDriver([]driver.Manager{syncer},
			driver.WithInterval(syncer.Interval()),
			driver.WithImmediateTick(),
		)
		syncer.SetScheduler(d)
		workers["driver"] = d
	}

	return workers, nil
}
