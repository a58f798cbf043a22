package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pixil98/sms-tracker/internal/snapshot"
	"github.com/pixil98/sms-tracker/internal/world"
)

// Update describes the state after a mutation has been applied and every
// aggregate recomputed.
type Update struct {
	Reason      string  `json:"reason"`
	Report      *Report `json:"report"`
	GateChanged bool    `json:"gate_changed"`
}

// Observer is told about every applied mutation, in order, after the tracker
// lock has been released.
type Observer interface {
	TrackerUpdated(ctx context.Context, u Update)
}

// LiveStatus is the last state reported by the game hook.
type LiveStatus struct {
	Hooked    bool      `json:"hooked"`
	Location  string    `json:"location"`
	Episode   string    `json:"episode"`
	Seed      string    `json:"seed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tracker owns the stores of one session. Every mutation and the
// recomputation it triggers happen under one lock, so readers never observe a
// partially applied change.
type Tracker struct {
	mu sync.Mutex

	world  *world.Data
	layout world.Layout

	assignments *Assignments
	progress    *Progress
	collapsed   *OrderedSet[string]
	gate        *Gate

	autoTrack bool
	live      LiveStatus
	report    *Report
	gateOpen  bool

	observers []Observer
	now       func() time.Time
	notifyMu  sync.Mutex
}

type TrackerOpt func(*Tracker)

// WithAutoTrack sets whether unlocks start out driven by the auto-tracker.
func WithAutoTrack(enabled bool) TrackerOpt {
	return func(t *Tracker) {
		t.autoTrack = enabled
	}
}

// WithObserver registers an observer for updates.
func WithObserver(o Observer) TrackerOpt {
	return func(t *Tracker) {
		t.observers = append(t.observers, o)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) TrackerOpt {
	return func(t *Tracker) {
		t.now = now
	}
}

// New creates a tracker with empty progress and the default boss route.
func New(w *world.Data, layout world.Layout, opts ...TrackerOpt) *Tracker {
	t := &Tracker{
		world:       w,
		layout:      layout,
		assignments: NewAssignments(),
		progress:    NewProgress(),
		collapsed:   NewOrderedSet[string](),
		gate:        NewGate(layout.GateZones),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.assignments.Set(layout.BossKey(), layout.BossZone)
	t.recompute()
	return t
}

// AddObserver registers an observer after construction.
func (t *Tracker) AddObserver(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// World returns the session's world data.
func (t *Tracker) World() *world.Data {
	return t.world
}

// Layout returns the fixed plaza structures.
func (t *Tracker) Layout() world.Layout {
	return t.layout
}

// Report returns the aggregates computed by the last mutation.
func (t *Tracker) Report() *Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.report
}

// Route walks a routing key from the plaza against the current state.
func (t *Tracker) Route(key world.RouteKey) *Branch {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.aggregator().Route(key)
}

// GateOpen reports whether the boss route is reachable.
func (t *Tracker) GateOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gateOpen
}

// Assignment returns the destination of a routing key.
func (t *Tracker) Assignment(key world.RouteKey) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.assignments.Get(key)
}

// ShineStatus returns the status of a shine.
func (t *Tracker) ShineStatus(id string) ShineStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress.Shine(id)
}

// CoinCollected reports whether a coin is collected.
func (t *Tracker) CoinCollected(key world.RouteKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress.Coin(key)
}

// Unlocks returns every held unlock.
func (t *Tracker) Unlocks() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress.Unlocks()
}

// AutoTrack reports whether the auto-tracker drives unlocks.
func (t *Tracker) AutoTrack() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.autoTrack
}

// Live returns the last hook status.
func (t *Tracker) Live() LiveStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

// Assign routes key to zoneID. The boss route is fixed.
func (t *Tracker) Assign(ctx context.Context, key world.RouteKey, zoneID string) error {
	if key == t.layout.BossKey() {
		return fmt.Errorf("assigning %s: %w", key, ErrFixedRoute)
	}
	if key.IsZero() {
		return fmt.Errorf("assigning empty key: %w", ErrUnknownRoute)
	}

	t.apply(ctx, "assign", func() bool {
		prev, _ := t.assignments.Get(key)
		t.assignments.Set(key, zoneID)
		return prev != zoneID
	})
	return nil
}

// Unassign clears the destination of key.
func (t *Tracker) Unassign(ctx context.Context, key world.RouteKey) error {
	return t.Assign(ctx, key, "")
}

// CycleShine advances a shine through uncollected, collected and excluded.
func (t *Tracker) CycleShine(ctx context.Context, id string) ShineStatus {
	var next ShineStatus
	t.apply(ctx, "shine", func() bool {
		next = t.progress.CycleShine(id)
		return true
	})
	return next
}

// SetShine sets the status of a shine.
func (t *Tracker) SetShine(ctx context.Context, id string, s ShineStatus) {
	t.apply(ctx, "shine", func() bool {
		changed := t.progress.Shine(id) != s
		t.progress.SetShine(id, s)
		return changed
	})
}

// ToggleCoin flips a coin and returns whether it is now collected.
func (t *Tracker) ToggleCoin(ctx context.Context, key world.RouteKey) bool {
	var collected bool
	t.apply(ctx, "coin", func() bool {
		collected = t.progress.ToggleCoin(key)
		return true
	})
	return collected
}

// ToggleUnlock flips an unlock by hand. It is refused while the auto-tracker
// owns unlocks.
func (t *Tracker) ToggleUnlock(ctx context.Context, id string) (bool, error) {
	var held bool
	var err error
	t.apply(ctx, "unlock", func() bool {
		if t.autoTrack {
			err = ErrManualOnly
			return false
		}
		held = !t.progress.Unlock(id)
		return t.progress.SetUnlock(id, held)
	})
	return held, err
}

// MergeUnlocks applies an unlock snapshot from the game hook. Names match
// case-insensitively. The snapshot is ignored while in manual mode; the
// return value reports whether anything changed.
func (t *Tracker) MergeUnlocks(ctx context.Context, unlocks map[string]bool) bool {
	changed := false
	t.apply(ctx, "autotrack", func() bool {
		if !t.autoTrack {
			return false
		}
		names := make([]string, 0, len(unlocks))
		for name := range unlocks {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if t.progress.SetUnlock(name, unlocks[name]) {
				changed = true
			}
		}
		return changed
	})
	return changed
}

// SetAutoTrack switches between auto-tracked and manual unlocks.
func (t *Tracker) SetAutoTrack(ctx context.Context, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.autoTrack != enabled {
		slog.InfoContext(ctx, "auto-track changed", "enabled", enabled)
	}
	t.autoTrack = enabled
}

// SetLive records the last hook status.
func (t *Tracker) SetLive(s LiveStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = t.now()
	}
	t.live = s
}

// SetCollapsed records presentation state that only needs to survive a save.
func (t *Tracker) SetCollapsed(id string, collapsed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if collapsed {
		t.collapsed.Add(id)
		return
	}
	kept := NewOrderedSet[string]()
	for _, c := range t.collapsed.Items() {
		if c != id {
			kept.Add(c)
		}
	}
	t.collapsed = kept
}

// Collapsed reports whether a presentation element is collapsed.
func (t *Tracker) Collapsed(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.collapsed.Has(id)
}

// Export captures the session as a snapshot.
func (t *Tracker) Export() *snapshot.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := &snapshot.Snapshot{
		Unlocks:            nonNil(t.progress.Unlocks()),
		GlobalAssignments:  map[string]string{},
		CollectedShines:    nonNil(t.progress.ShinesWith(ShineCollected)),
		ExcludedShines:     nonNil(t.progress.ShinesWith(ShineExcluded)),
		CollectedBlueCoins: []string{},
		CollapsedElements:  nonNil(t.collapsed.Items()),
	}
	for key, zoneID := range t.assignments.All() {
		s.GlobalAssignments[key.String()] = zoneID
	}
	for _, key := range t.progress.Coins() {
		s.CollectedBlueCoins = append(s.CollectedBlueCoins, key.String())
	}
	s.Stamp(t.now())
	return s
}

// Import replaces the session state with a snapshot. An invalid snapshot
// leaves the state untouched.
func (t *Tracker) Import(ctx context.Context, s *snapshot.Snapshot) error {
	if s == nil {
		return fmt.Errorf("%w: empty document", snapshot.ErrInvalidSave)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %w", snapshot.ErrInvalidSave, err)
	}

	assignments := NewAssignments()
	for key, zoneID := range s.GlobalAssignments {
		assignments.Set(world.ParseRouteKey(key), zoneID)
	}
	// The boss route is fixed; a saved destination for it is ignored.
	assignments.Set(t.layout.BossKey(), t.layout.BossZone)

	progress := NewProgress()
	for _, id := range s.Unlocks {
		progress.SetUnlock(id, true)
	}
	for _, id := range s.CollectedShines {
		progress.SetShine(id, ShineCollected)
	}
	for _, id := range s.ExcludedShines {
		progress.SetShine(id, ShineExcluded)
	}
	for _, key := range s.CollectedBlueCoins {
		progress.SetCoin(world.ParseRouteKey(key), true)
	}

	collapsed := NewOrderedSet[string]()
	for _, id := range s.CollapsedElements {
		collapsed.Add(id)
	}

	t.apply(ctx, "import", func() bool {
		t.assignments = assignments
		t.progress = progress
		t.collapsed = collapsed
		return true
	})

	slog.InfoContext(ctx, "snapshot imported",
		"assignments", assignments.Len(),
		"collected_shines", len(s.CollectedShines),
		"saved_at", s.Timestamp)
	return nil
}

// apply runs mutate under the lock and, if it reports a change, recomputes
// the aggregates and notifies observers.
func (t *Tracker) apply(ctx context.Context, reason string, mutate func() bool) {
	// notifyMu keeps observer callbacks in mutation order without holding the
	// state lock while they run.
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()
	if !mutate() {
		t.mu.Unlock()
		return
	}
	wasOpen := t.gateOpen
	t.recompute()
	u := Update{Reason: reason, Report: t.report, GateChanged: wasOpen != t.gateOpen}
	observers := slices.Clone(t.observers)
	t.mu.Unlock()

	if u.GateChanged {
		slog.InfoContext(ctx, "boss gate changed", "open", u.Report.Gate.Open)
	}

	for _, o := range observers {
		o.TrackerUpdated(ctx, u)
	}
}

// recompute must be called with t.mu held.
func (t *Tracker) recompute() {
	r := t.aggregator().Report(t.now())
	t.report = r
	t.gateOpen = r.Gate.Open
}

func (t *Tracker) aggregator() *Aggregator {
	walker := NewWalker(t.world, t.assignments, t.progress)
	return NewAggregator(t.world, t.layout, walker, t.gate, t.progress)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
