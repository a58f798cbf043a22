package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/sms-tracker/internal/messaging"
)

// NatsConfig configures the embedded bus that carries tracker updates and
// gate transitions to console sessions.
type NatsConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
}

func (c *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if _, err := c.startTimeout(); err != nil {
		el.Add(fmt.Errorf("nats: %w", err))
	}
	if c.Port < -1 || c.Port > 65535 {
		el.Add(fmt.Errorf("nats: port %d is out of range", c.Port))
	}

	return el.Err()
}

// startTimeout returns zero when no timeout is configured.
func (c *NatsConfig) startTimeout() (time.Duration, error) {
	if c.StartTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.StartTimeout)
	if err != nil {
		return 0, fmt.Errorf("parsing start_timeout: %w", err)
	}
	return d, nil
}

// BuildNatsServer creates the update bus. Unset fields keep the server's
// loopback defaults.
func (c *NatsConfig) BuildNatsServer() (*messaging.NatsServer, error) {
	timeout, err := c.startTimeout()
	if err != nil {
		return nil, err
	}

	var opts []messaging.NatsServerOpt
	if timeout > 0 {
		opts = append(opts, messaging.WithStartTimeout(timeout))
	}
	if c.Host != "" {
		opts = append(opts, messaging.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, messaging.WithPort(c.Port))
	}

	return messaging.NewNatsServer(opts...)
}
