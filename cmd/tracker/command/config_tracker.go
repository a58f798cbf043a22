package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/sms-tracker/internal/autotrack"
	"github.com/pixil98/sms-tracker/internal/world"
)

type TrackerConfig struct {
	PollInterval  string           `json:"poll_interval"`
	AutoTrack     bool             `json:"auto_track"`
	SourceURL     string           `json:"source_url"`
	SourceTimeout string           `json:"source_timeout"`
	GateZones     []world.GateZone `json:"gate_zones"`
}

func (c *TrackerConfig) validate() error {
	el := errors.NewErrorList()

	if c.PollInterval != "" {
		d, err := time.ParseDuration(c.PollInterval)
		if err != nil {
			el.Add(fmt.Errorf("tracker: parsing poll_interval: %w", err))
		} else if d < 100*time.Millisecond {
			el.Add(fmt.Errorf("tracker: poll_interval must be at least 100ms"))
		}
	}

	if c.SourceTimeout != "" {
		if _, err := time.ParseDuration(c.SourceTimeout); err != nil {
			el.Add(fmt.Errorf("tracker: parsing source_timeout: %w", err))
		}
	}

	if c.AutoTrack && c.SourceURL == "" {
		el.Add(fmt.Errorf("tracker: auto_track requires source_url"))
	}

	for i, gz := range c.GateZones {
		if gz.ZoneID == "" {
			el.Add(fmt.Errorf("tracker: gate zone %d: zone_id is required", i))
		}
	}

	return el.Err()
}

// Layout returns the plaza layout, with the configured gate zones if any.
func (c *TrackerConfig) Layout() world.Layout {
	l := world.DefaultLayout()
	if len(c.GateZones) > 0 {
		l.GateZones = c.GateZones
	}
	return l
}

func (c *TrackerConfig) pollInterval() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d <= 0 {
		return autotrack.DefaultInterval
	}
	return d
}

// BuildSyncer returns nil when no hook source is configured.
func (c *TrackerConfig) BuildSyncer(target autotrack.Target) *autotrack.Syncer {
	if c.SourceURL == "" {
		return nil
	}

	timeout := autotrack.DefaultTimeout
	if d, err := time.ParseDuration(c.SourceTimeout); err == nil && d > 0 {
		timeout = d
	}

	source := autotrack.NewHTTPSource(c.SourceURL, timeout)
	return autotrack.NewSyncer(source, target, autotrack.WithPollInterval(c.pollInterval()))
}
