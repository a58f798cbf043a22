package tracker

import (
	"time"

	"github.com/pixil98/sms-tracker/internal/world"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// plazaWorld is a small world with one gated boss route, one world group of
// two episodes and a static plaza shine.
func plazaWorld() (*world.Data, world.Layout) {
	w := worldOf(
		zone("dolpic_base", []string{"hub_shine"}, []string{"hub_coin"}),
		zone("bianco1", []string{"b1_red", "b1_gate"}, []string{"c1"}, "cave"),
		zone("bianco2", []string{"b2_red"}, []string{"c1", "c2"}),
		zone("ricco1", []string{"r1_gate"}, nil),
		zone("coro_ex6", []string{"boss_shine"}, nil),
	)
	w.Entrances = []world.Entrance{
		{ID: "enter_corona", Name: "Corona Mountain", GroupName: "Special", IsWarp: true},
		{ID: "plaza_statue", Name: "Statue", GroupName: "Special"},
		{ID: "enter_bianco_ep1", Name: "Episode 1", GroupName: "Bianco Hills", IsWarp: true},
		{ID: "enter_bianco_ep2", Name: "Episode 2", GroupName: "Bianco Hills", IsWarp: true},
	}

	layout := world.Layout{
		HubZone:      "dolpic_base",
		BossEntrance: "enter_corona",
		BossZone:     "coro_ex6",
		HiddenZones:  []string{"coro_ex6"},
		GateZones: []world.GateZone{
			{ZoneID: "ricco1", Name: "Ricco"},
			{ZoneID: "pinna9", Name: "Pinna"},
		},
	}
	return w, layout
}
