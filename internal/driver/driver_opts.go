package driver

import "time"

type PollDriverOpt func(*PollDriver)

func WithInterval(interval time.Duration) PollDriverOpt {
	return func(d *PollDriver) {
		if interval > 0 {
			d.interval = interval
		}
	}
}

// WithImmediateTick runs the managers once as soon as the driver starts.
func WithImmediateTick() PollDriverOpt {
	return func(d *PollDriver) {
		d.immediate = true
	}
}
