package tracker

import (
	"slices"

	"github.com/pixil98/sms-tracker/internal/world"
)

// BranchState says how a routing key resolved during a walk.
type BranchState int

const (
	BranchResolved BranchState = iota
	// BranchUnassigned means the key has no destination yet.
	BranchUnassigned
	// BranchLoop means the destination is already on the current path.
	BranchLoop
	// BranchMissing means the destination is not a zone of the world.
	BranchMissing
)

func (s BranchState) String() string {
	switch s {
	case BranchUnassigned:
		return "unassigned"
	case BranchLoop:
		return "loop"
	case BranchMissing:
		return "missing"
	default:
		return "resolved"
	}
}

// Branch is one node of a walk: a routing key, the zone it resolved to, and
// the branches of that zone's exits. Tally covers the whole subtree.
type Branch struct {
	Key      world.RouteKey
	Label    string
	ZoneID   string
	State    BranchState
	Tally    *Tally
	Children []*Branch
}

// Zone returns the zone the branch resolved to, if any.
func (b *Branch) Zone(w *world.Data) *world.Zone {
	if b.State != BranchResolved {
		return nil
	}
	return w.Zone(b.ZoneID)
}

// Walker resolves routing keys into reachable subgraphs.
type Walker struct {
	world       *world.Data
	assignments *Assignments
	progress    *Progress
}

func NewWalker(w *world.Data, a *Assignments, p *Progress) *Walker {
	return &Walker{world: w, assignments: a, progress: p}
}

// Walk follows key depth first. path holds the zone ids of the ancestors on the
// current path; a destination already on it ends the branch with an empty
// tally. Siblings each get their own path, so two branches may both reach the
// same zone.
func (w *Walker) Walk(key world.RouteKey, path []string) *Branch {
	b := &Branch{Key: key, Label: key.String(), Tally: NewTally()}

	zoneID, ok := w.assignments.Get(key)
	if !ok {
		b.State = BranchUnassigned
		return b
	}
	b.ZoneID = zoneID

	if slices.Contains(path, zoneID) {
		b.State = BranchLoop
		return b
	}

	zone := w.world.Zone(zoneID)
	if zone == nil {
		b.State = BranchMissing
		return b
	}

	w.tallyZone(zoneID, zone, b.Tally)

	// Full slice expression so appends below never share a backing array
	// with a sibling's path.
	childPath := append(path[:len(path):len(path)], zoneID)
	for _, exit := range zone.Exits {
		child := w.Walk(world.ExitKey(zoneID, exit.ID), childPath)
		child.Label = exit.Name
		b.Children = append(b.Children, child)
		b.Tally.Merge(child.Tally)
	}

	return b
}

// ZoneTally returns the collectibles placed directly in a zone, ignoring exits.
func (w *Walker) ZoneTally(zoneID string) *Tally {
	t := NewTally()
	if zone := w.world.Zone(zoneID); zone != nil {
		w.tallyZone(zoneID, zone, t)
	}
	return t
}

func (w *Walker) tallyZone(zoneID string, zone *world.Zone, t *Tally) {
	for _, s := range zone.Shines {
		t.addShine(s.ID, w.progress.Shine(s.ID))
	}
	for _, coinID := range zone.BlueCoinIDs {
		key := world.CoinKey(zoneID, coinID)
		t.addCoin(key, w.progress.Coin(key))
	}
}

// Depth returns the longest resolved chain below b, counting b itself.
func (b *Branch) Depth() int {
	if b.State != BranchResolved {
		return 0
	}
	deepest := 0
	for _, c := range b.Children {
		deepest = max(deepest, c.Depth())
	}
	return deepest + 1
}
