package driver

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultInterval = time.Second * 2
)

type Manager interface {
	Tick(context.Context) error
}

// PollDriver ticks its managers on a fixed interval. The interval can be
// changed while running; the pending tick is replaced, never doubled.
type PollDriver struct {
	managers  []Manager
	immediate bool

	mu       sync.Mutex
	interval time.Duration
	reset    chan time.Duration
}

func NewPollDriver(managers []Manager, opts ...PollDriverOpt) *PollDriver {
	d := &PollDriver{
		interval: DefaultInterval,
		managers: managers,
		reset:    make(chan time.Duration, 1),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Interval returns the current tick interval.
func (d *PollDriver) Interval() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.interval
}

// Reschedule cancels the pending tick and schedules the next one after
// interval. Non-positive intervals are ignored.
func (d *PollDriver) Reschedule(interval time.Duration) {
	if interval <= 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if interval == d.interval {
		return
	}
	d.interval = interval

	// Only the latest request matters.
	select {
	case <-d.reset:
	default:
	}
	d.reset <- interval
}

func (d *PollDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.Interval())
	defer ticker.Stop()

	if d.immediate {
		if err := d.Tick(ctx); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case interval := <-d.reset:
			ticker.Reset(interval)
			slog.DebugContext(ctx, "poll interval changed", "interval", interval)
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *PollDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
