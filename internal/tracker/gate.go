package tracker

import "github.com/pixil98/sms-tracker/internal/world"

// GateCheck is the state of one gating zone.
type GateCheck struct {
	ZoneID  string `json:"zone_id"`
	Name    string `json:"name"`
	ShineID string `json:"shine_id,omitempty"`
	Done    bool   `json:"done"`
}

// Gate is the boss gate predicate: it opens once the designated shine of
// every gating zone is collected. The designated shine is the first one the
// zone lists.
type Gate struct {
	zones []world.GateZone
}

func NewGate(zones []world.GateZone) *Gate {
	return &Gate{zones: zones}
}

// Checks evaluates every gating zone in order. Zones absent from the world or
// without shines impose no condition and are reported as done.
func (g *Gate) Checks(w *world.Data, p *Progress) []GateCheck {
	checks := make([]GateCheck, 0, len(g.zones))
	for _, gz := range g.zones {
		c := GateCheck{ZoneID: gz.ZoneID, Name: gz.Name, Done: true}
		if z := w.Zone(gz.ZoneID); z != nil && len(z.Shines) > 0 {
			c.ShineID = z.Shines[0].ID
			c.Done = p.Shine(c.ShineID) == ShineCollected
		}
		checks = append(checks, c)
	}
	return checks
}

// IsOpen reports whether every check passes.
func (g *Gate) IsOpen(w *world.Data, p *Progress) bool {
	for _, c := range g.Checks(w, p) {
		if !c.Done {
			return false
		}
	}
	return true
}
