package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
)

type Config struct {
	WorldPath string           `json:"world_path"`
	Logging   LoggingConfig    `json:"logging"`
	Tracker   TrackerConfig    `json:"tracker"`
	Storage   StorageConfig    `json:"storage"`
	Nats      NatsConfig       `json:"nats"`
	Console   ConsoleConfig    `json:"console"`
	Listeners []ListenerConfig `json:"listeners"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.WorldPath == "" {
		el.Add(fmt.Errorf("world_path is required"))
	} else if _, err := os.Stat(c.WorldPath); err != nil {
		el.Add(fmt.Errorf("invalid world_path %q: %w", c.WorldPath, err))
	}

	el.Add(c.Logging.validate())
	el.Add(c.Tracker.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Console.validate())

	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	return el.Err()
}

type ConsoleConfig struct {
	MaxSessions int `json:"max_sessions"`
}

func (c *ConsoleConfig) validate() error {
	if c.MaxSessions < 0 {
		return fmt.Errorf("console: max_sessions must not be negative")
	}
	return nil
}
