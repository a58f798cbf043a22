package command

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pixil98/go-errors"
)

type LoggingConfig struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

func (c *LoggingConfig) validate() error {
	el := errors.NewErrorList()

	switch strings.ToLower(c.Format) {
	case "", "text", "json":
	default:
		el.Add(fmt.Errorf("logging: unknown format %q", c.Format))
	}

	if _, err := c.level(); err != nil {
		el.Add(fmt.Errorf("logging: %w", err))
	}

	return el.Err()
}

func (c *LoggingConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return lvl, fmt.Errorf("parsing level: %w", err)
	}
	return lvl, nil
}

// Setup installs the configured handler as the default logger.
func (c *LoggingConfig) Setup() (*slog.Logger, error) {
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.EqualFold(c.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
