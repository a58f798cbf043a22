package world

import "fmt"

// GateZone is a zone whose first shine is required to open the boss gate.
type GateZone struct {
	ZoneID string `json:"zone_id"`
	Name   string `json:"name"`
}

// Layout names the fixed structures of the plaza that are not driven by
// assignments.
type Layout struct {
	HubZone      string     `json:"hub_zone"`
	BossEntrance string     `json:"boss_entrance"`
	BossZone     string     `json:"boss_zone"`
	HiddenZones  []string   `json:"hidden_zones"`
	GateZones    []GateZone `json:"gate_zones"`
}

// DefaultLayout returns the plaza layout of the base game.
func DefaultLayout() Layout {
	return Layout{
		HubZone:      "dolpic_base",
		BossEntrance: "enter_corona",
		BossZone:     "coro_ex6",
		HiddenZones:  []string{"coro_ex6", "coronaBoss"},
		GateZones: []GateZone{
			{ZoneID: "bianco6", Name: "Bianco"},
			{ZoneID: "ricco6", Name: "Ricco"},
			{ZoneID: "mamma6", Name: "Gelato"},
			{ZoneID: "pinnaParco4", Name: "Pinna"},
			{ZoneID: "delfino3", Name: "Sirena"},
			{ZoneID: "mare6", Name: "Noki"},
			{ZoneID: "monte6", Name: "Pianta"},
		},
	}
}

// BossKey returns the routing key of the boss entrance.
func (l Layout) BossKey() RouteKey {
	return EntranceKey(l.BossEntrance)
}

const (
	specialGroup   = "Plaza: Special & Secrets"
	episodesPerHub = 8
)

var defaultWorlds = []struct {
	id, name, image string
}{
	{"bianco", "Bianco Hills", "bianco_entry.png"},
	{"ricco", "Ricco Harbor", "ricco_entry.png"},
	{"gelato", "Gelato Beach", "gelato_entry.png"},
	{"pinna", "Pinna Park", "pinna_entry.png"},
	{"sirena", "Sirena Beach", "sirena_entry.png"},
	{"noki", "Noki Bay", "noki_entry.png"},
	{"pianta", "Pianta Village", "pianta_entry.png"},
}

// DefaultEntrances builds the plaza entrance list used when the world document
// does not carry one: the boss entrance followed by every episode of every world.
func DefaultEntrances(l Layout) []Entrance {
	entrances := []Entrance{{
		ID:        l.BossEntrance,
		Name:      "Corona Mountain",
		GroupName: specialGroup,
		Image:     "corona.png",
		IsWarp:    true,
	}}

	for _, w := range defaultWorlds {
		for ep := 1; ep <= episodesPerHub; ep++ {
			entrances = append(entrances, Entrance{
				ID:        fmt.Sprintf("enter_%s_ep%d", w.id, ep),
				Name:      fmt.Sprintf("Episode %d", ep),
				GroupName: w.name,
				Image:     w.image,
				IsWarp:    true,
			})
		}
	}

	return entrances
}
