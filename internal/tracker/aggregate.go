package tracker

import (
	"time"

	"github.com/pixil98/sms-tracker/internal/world"
)

// Aggregator combines walks into completion tallies for routes, entrance
// groups and the whole world.
type Aggregator struct {
	world    *world.Data
	layout   world.Layout
	walker   *Walker
	gate     *Gate
	progress *Progress
}

func NewAggregator(w *world.Data, layout world.Layout, walker *Walker, gate *Gate, p *Progress) *Aggregator {
	return &Aggregator{world: w, layout: layout, walker: walker, gate: gate, progress: p}
}

// Route walks a single routing key from the plaza.
func (a *Aggregator) Route(key world.RouteKey) *Branch {
	b := a.walker.Walk(key, nil)
	if e, ok := a.world.Entrance(key.Local); ok && key.IsEntrance() {
		b.Label = e.Name
	}
	return b
}

// Entrance returns the tally contributed by one plaza entrance. The boss
// entrance contributes nothing while the gate is closed.
func (a *Aggregator) Entrance(e world.Entrance) *Tally {
	if !e.IsWarp {
		t := NewTally()
		t.addShine(e.ID, a.progress.Shine(e.ID))
		return t
	}
	if e.ID == a.layout.BossEntrance {
		return a.Boss()
	}
	return a.walker.Walk(e.Key(), nil).Tally
}

// Group unions the tallies of every entrance in a group.
func (a *Aggregator) Group(name string) *Tally {
	t := NewTally()
	for _, e := range a.world.GroupEntrances(name) {
		t.Merge(a.Entrance(e))
	}
	return t
}

// Hub returns the collectibles of the plaza itself: the hub zone and the
// static plaza shines.
func (a *Aggregator) Hub() *Tally {
	t := a.walker.ZoneTally(a.layout.HubZone)
	for _, e := range a.world.StaticShines() {
		t.addShine(e.ID, a.progress.Shine(e.ID))
	}
	return t
}

// Boss walks the fixed boss route when the gate is open.
func (a *Aggregator) Boss() *Tally {
	if !a.gate.IsOpen(a.world, a.progress) {
		return NewTally()
	}
	return a.walker.Walk(a.layout.BossKey(), nil).Tally
}

// World unions every group with the hub and the boss route.
func (a *Aggregator) World() *Tally {
	t := a.Hub()
	for _, g := range a.world.EntranceGroups() {
		t.Merge(a.Group(g))
	}
	t.Merge(a.Boss())
	return t
}

// RouteReport is the completion of one plaza entrance.
type RouteReport struct {
	EntranceID string `json:"entrance_id"`
	Name       string `json:"name"`
	ZoneID     string `json:"zone_id,omitempty"`
	IsWarp     bool   `json:"is_warp"`
	Counts     Counts `json:"counts"`
}

// GroupReport is the completion of an entrance group.
type GroupReport struct {
	Name   string        `json:"name"`
	Counts Counts        `json:"counts"`
	Routes []RouteReport `json:"routes"`
}

// GateReport is the boss gate state.
type GateReport struct {
	Open   bool        `json:"open"`
	Checks []GateCheck `json:"checks"`
}

// Report is a full recomputation of every aggregate.
type Report struct {
	World       Counts        `json:"world"`
	Hub         Counts        `json:"hub"`
	Boss        Counts        `json:"boss"`
	Groups      []GroupReport `json:"groups"`
	Gate        GateReport    `json:"gate"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Group returns the report of a named group.
func (r *Report) Group(name string) (GroupReport, bool) {
	for _, g := range r.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupReport{}, false
}

// Report recomputes every aggregate.
func (a *Aggregator) Report(now time.Time) *Report {
	checks := a.gate.Checks(a.world, a.progress)
	open := true
	for _, c := range checks {
		open = open && c.Done
	}

	hub := a.Hub()
	boss := a.Boss()
	r := &Report{
		Hub:         hub.Counts(),
		Boss:        boss.Counts(),
		Gate:        GateReport{Open: open, Checks: checks},
		GeneratedAt: now,
	}

	all := NewTally()
	all.Merge(hub)
	for _, name := range a.world.EntranceGroups() {
		gr := GroupReport{Name: name}
		group := NewTally()
		for _, e := range a.world.GroupEntrances(name) {
			t := a.Entrance(e)
			group.Merge(t)

			rr := RouteReport{EntranceID: e.ID, Name: e.Name, IsWarp: e.IsWarp, Counts: t.Counts()}
			if e.IsWarp {
				rr.ZoneID, _ = a.walker.assignments.Get(e.Key())
			}
			gr.Routes = append(gr.Routes, rr)
		}
		gr.Counts = group.Counts()
		r.Groups = append(r.Groups, gr)
		all.Merge(group)
	}
	all.Merge(boss)

	r.World = all.Counts()
	return r
}
