package autotrack

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/sms-tracker/internal/tracker"
)

// DefaultInterval is used when the hook does not ask for one.
const DefaultInterval = 5 * time.Second

// Target is the part of the tracker the syncer drives.
type Target interface {
	AutoTrack() bool
	SetAutoTrack(ctx context.Context, enabled bool)
	SetLive(s tracker.LiveStatus)
	MergeUnlocks(ctx context.Context, unlocks map[string]bool) bool
}

// Scheduler owns the poll loop the syncer runs in.
type Scheduler interface {
	Reschedule(interval time.Duration)
}

// Syncer copies hook state into the tracker on every tick. It satisfies
// driver.Manager.
type Syncer struct {
	source Source
	target Target

	mu        sync.Mutex
	scheduler Scheduler
	firstLoad bool
	interval  time.Duration
	now       func() time.Time
}

type SyncerOpt func(*Syncer)

// WithPollInterval sets the interval the poll loop starts with.
func WithPollInterval(interval time.Duration) SyncerOpt {
	return func(s *Syncer) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithClock overrides the time source used for live status.
func WithClock(now func() time.Time) SyncerOpt {
	return func(s *Syncer) {
		s.now = now
	}
}

func NewSyncer(source Source, target Target, opts ...SyncerOpt) *Syncer {
	s := &Syncer{
		source:    source,
		target:    target,
		firstLoad: true,
		interval:  DefaultInterval,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetScheduler attaches the poll loop whose interval the hook controls.
func (s *Syncer) SetScheduler(sch Scheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduler = sch
}

// Interval returns the interval the syncer last scheduled.
func (s *Syncer) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Tick fetches once. Fetch failures mark the hook disconnected and are not
// returned, so a missing hook never stops the poll loop.
func (s *Syncer) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// After the first load the hook is only consulted in auto mode.
	if !s.firstLoad && !s.target.AutoTrack() {
		return nil
	}

	st, err := s.source.Fetch(ctx)
	first := s.firstLoad
	s.firstLoad = false
	if err != nil {
		slog.WarnContext(ctx, "memory hook unavailable", "error", err)
		s.target.SetLive(tracker.LiveStatus{UpdatedAt: s.now()})
		return nil
	}

	if first {
		s.target.SetAutoTrack(ctx, st.AutoTrack)
		interval := st.PollInterval()
		if interval == 0 {
			interval = DefaultInterval
		}
		s.reschedule(ctx, interval)
	} else if interval := st.PollInterval(); interval != 0 && interval != s.interval {
		s.reschedule(ctx, interval)
		return nil
	}

	live := tracker.LiveStatus{
		Hooked:    st.IsHooked,
		Seed:      st.Seed,
		UpdatedAt: s.now(),
	}
	if st.IsHooked {
		live.Location = st.CurrentLevel
		live.Episode = st.CurrentEpisode
	}
	s.target.SetLive(live)

	if !st.IsHooked {
		return nil
	}

	if s.target.MergeUnlocks(ctx, st.Unlocks) {
		slog.InfoContext(ctx, "unlocks synced from hook", "level", st.CurrentLevel)
	}
	return nil
}

// reschedule must be called with s.mu held.
func (s *Syncer) reschedule(ctx context.Context, interval time.Duration) {
	if interval != s.interval {
		slog.InfoContext(ctx, "poll interval changed", "from", s.interval, "to", interval)
	}
	s.interval = interval
	if s.scheduler != nil {
		s.scheduler.Reschedule(interval)
	}
}
