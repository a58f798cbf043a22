package tracker

import (
	"maps"

	"github.com/pixil98/sms-tracker/internal/world"
)

// Assignments maps routing keys to destination zone ids. Destinations are not
// validated here; the walker treats unknown zones as empty.
type Assignments struct {
	routes map[world.RouteKey]string
}

func NewAssignments() *Assignments {
	return &Assignments{routes: map[world.RouteKey]string{}}
}

// Set routes key to zoneID, replacing any previous destination. An empty
// zoneID clears the route.
func (a *Assignments) Set(key world.RouteKey, zoneID string) {
	if zoneID == "" {
		delete(a.routes, key)
		return
	}
	a.routes[key] = zoneID
}

// Get returns the destination of key, if assigned.
func (a *Assignments) Get(key world.RouteKey) (string, bool) {
	zoneID, ok := a.routes[key]
	return zoneID, ok
}

// All returns a copy of every assignment.
func (a *Assignments) All() map[world.RouteKey]string {
	return maps.Clone(a.routes)
}

func (a *Assignments) Len() int {
	return len(a.routes)
}
