package console

import (
	"context"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/sms-tracker/internal/tracker"
	"github.com/pixil98/sms-tracker/internal/world"
)

func TestCommands(t *testing.T) {
	tests := map[string]struct {
		opts   []tracker.TrackerOpt
		lines  []string
		expOut []string
		notOut []string
		check  func(t *testing.T, tr *tracker.Tracker)
	}{
		"assign entrance": {
			lines:  []string{"assign enter_bianco_ep1 bianco1"},
			expOut: []string{"enter_bianco_ep1 now leads to Bianco Hills 1."},
			check: func(t *testing.T, tr *tracker.Tracker) {
				zoneID, _ := tr.Assignment(world.EntranceKey("enter_bianco_ep1"))
				testutil.AssertEqual(t, "assigned", zoneID, "bianco1")
			},
		},
		"assign exit": {
			lines:  []string{"assign bianco::cave bianco2"},
			expOut: []string{"bianco::cave now leads to Bianco Hills 2."},
		},
		"assign unknown zone": {
			lines:  []string{"assign enter_bianco_ep1 nowhere"},
			expOut: []string{`Unknown zone "nowhere"`},
			check: func(t *testing.T, tr *tracker.Tracker) {
				_, ok := tr.Assignment(world.EntranceKey("enter_bianco_ep1"))
				testutil.AssertEqual(t, "assigned", ok, false)
			},
		},
		"assign unknown exit": {
			lines:  []string{"assign bianco::nope bianco2"},
			expOut: []string{`Unknown exit "bianco::nope"`},
		},
		"assign static entrance": {
			lines:  []string{"assign plaza_statue bianco1"},
			expOut: []string{"Statue Shine is a plaza shine, not a warp."},
		},
		"boss route is fixed": {
			lines:  []string{"assign enter_corona bianco1"},
			expOut: []string{"That route is fixed."},
			check: func(t *testing.T, tr *tracker.Tracker) {
				zoneID, _ := tr.Assignment(world.EntranceKey("enter_corona"))
				testutil.AssertEqual(t, "boss zone", zoneID, "coro_ex6")
			},
		},
		"unassign": {
			lines:  []string{"assign enter_bianco_ep1 bianco1", "unassign enter_bianco_ep1"},
			expOut: []string{"enter_bianco_ep1 is unassigned."},
			check: func(t *testing.T, tr *tracker.Tracker) {
				_, ok := tr.Assignment(world.EntranceKey("enter_bianco_ep1"))
				testutil.AssertEqual(t, "assigned", ok, false)
			},
		},
		"route tree": {
			lines: []string{"assign enter_bianco_ep1 bianco1", "route enter_bianco_ep1"},
			expOut: []string{
				"Episode 1 -> Bianco Hills 1  shines 0/1  coins 0/1",
				"  [ ] Road to the Big Windmill",
				"  Cave -> ?  bianco::cave",
			},
		},
		"route loop": {
			lines:  []string{"assign enter_bianco_ep1 bianco1", "assign bianco::cave bianco1", "route enter_bianco_ep1"},
			expOut: []string{"  Cave -> Bianco Hills 1 (loop)"},
		},
		"shine cycles": {
			lines:  []string{"shine b1_red", "shine b1_red"},
			expOut: []string{"Road to the Big Windmill is collected.", "Road to the Big Windmill is excluded."},
			check: func(t *testing.T, tr *tracker.Tracker) {
				testutil.AssertEqual(t, "status", tr.ShineStatus("b1_red"), tracker.ShineExcluded)
			},
		},
		"shine set": {
			lines:  []string{"shine plaza_statue done"},
			expOut: []string{"Statue Shine is collected."},
		},
		"shine bad status": {
			lines:  []string{"shine b1_red shiny"},
			expOut: []string{`Unknown shine status "shiny".`},
		},
		"shine unknown": {
			lines:  []string{"shine moon"},
			expOut: []string{`Unknown shine "moon".`},
		},
		"coin toggles": {
			lines:  []string{"coin bianco1 c1", "coin bianco1 c1"},
			expOut: []string{"[x] Windmill coin collected.", "[ ] Windmill coin no longer collected."},
			check: func(t *testing.T, tr *tracker.Tracker) {
				testutil.AssertEqual(t, "collected", tr.CoinCollected(world.CoinKey("bianco1", "c1")), false)
			},
		},
		"coin not in zone": {
			lines:  []string{"coin bianco1 c9"},
			expOut: []string{`Bianco Hills 1 has no blue coin "c9".`},
		},
		"unlock by hand": {
			lines:  []string{"unlock ROCKET_NOZZLE", "unlock yoshi"},
			expOut: []string{"[x] Rocket Nozzle", "[x] Yoshi"},
			check: func(t *testing.T, tr *tracker.Tracker) {
				testutil.AssertEqual(t, "unlocks", strings.Join(tr.Unlocks(), ","), "rocket_nozzle,yoshi")
			},
		},
		"unlock refused while auto-tracking": {
			opts:   []tracker.TrackerOpt{tracker.WithAutoTrack(true)},
			lines:  []string{"unlock yoshi"},
			expOut: []string{"Use 'autotrack off' first."},
			check: func(t *testing.T, tr *tracker.Tracker) {
				testutil.AssertEqual(t, "unlocks", len(tr.Unlocks()), 0)
			},
		},
		"unlock unknown": {
			lines:  []string{"unlock cape"},
			expOut: []string{`Unknown unlock "cape".`},
		},
		"gate closed": {
			lines:  []string{"gate"},
			expOut: []string{"[ ] Ricco", "Gooper Blooper Breaks Out", "Corona Mountain is closed."},
		},
		"gate opens": {
			lines:  []string{"shine r1_gate", "gate"},
			expOut: []string{"[x] Ricco", "Corona Mountain is open."},
			check: func(t *testing.T, tr *tracker.Tracker) {
				testutil.AssertEqual(t, "open", tr.GateOpen(), true)
			},
		},
		"stats": {
			lines:  []string{"stats"},
			expOut: []string{"World", "Plaza", "Bianco Hills", "Special"},
			notOut: []string{"Corona "},
		},
		"stats of a group": {
			lines:  []string{"assign enter_bianco_ep1 bianco1", "stats bian"},
			expOut: []string{"Bianco Hills  shines 0/1", "Episode 1", "bianco1", "unassigned"},
		},
		"stats of an unknown group": {
			lines:  []string{"stats noki"},
			expOut: []string{`Unknown group "noki".`},
		},
		"entrances collapse": {
			lines:  []string{"collapse bianco hills", "entrances"},
			expOut: []string{"Bianco Hills collapsed.", "Bianco Hills (collapsed)", "Statue Shine"},
			check: func(t *testing.T, tr *tracker.Tracker) {
				testutil.AssertEqual(t, "collapsed", tr.Collapsed("group-bianco-hills"), true)
			},
		},
		"entrances expand": {
			lines:  []string{"collapse bianco", "expand bianco", "entrances"},
			expOut: []string{"Bianco Hills expanded.", "Episode 2"},
			notOut: []string{"(collapsed)"},
		},
		"zones hide the boss zone": {
			lines:  []string{"zones"},
			expOut: []string{"bianco1", "ricco1"},
			notOut: []string{"coro_ex6"},
		},
		"zones filter": {
			lines:  []string{"zones harbor"},
			expOut: []string{"ricco1"},
			notOut: []string{"bianco1"},
		},
		"zones filter without match": {
			lines:  []string{"zones volcano"},
			expOut: []string{"No zones match."},
		},
		"status": {
			lines:  []string{"unlock yoshi", "status"},
			expOut: []string{"Unlock tracking: manual", "never contacted", "Unlocks: Yoshi"},
		},
		"autotrack switch": {
			lines:  []string{"autotrack", "autotrack on", "autotrack sideways"},
			expOut: []string{"Auto-track is off.", "Auto-track is on. Unlocks now follow the game.", "Usage: autotrack [on|off]"},
			check: func(t *testing.T, tr *tracker.Tracker) {
				testutil.AssertEqual(t, "auto", tr.AutoTrack(), true)
			},
		},
		"export": {
			lines:  []string{"assign enter_bianco_ep1 bianco1", "export"},
			expOut: []string{`"globalAssignments"`, `"enter_bianco_ep1": "bianco1"`},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, tr, _ := newTestRunner(t, tt.opts...)
			out := runScript(t, r, tt.lines...)
			for _, exp := range tt.expOut {
				if !strings.Contains(out, exp) {
					t.Errorf("output missing %q:\n%s", exp, out)
				}
			}
			for _, unexp := range tt.notOut {
				if strings.Contains(out, unexp) {
					t.Errorf("output unexpectedly has %q:\n%s", unexp, out)
				}
			}
			if tt.check != nil {
				tt.check(t, tr)
			}
		})
	}
}

func TestCommands_Slots(t *testing.T) {
	tests := map[string]struct {
		lines     []string
		expOut    []string
		expStatus tracker.ShineStatus
		expSlots  string
	}{
		"load replaces progress": {
			lines:     []string{"save run-1", "shine b1_red", "load run-1", "y"},
			expOut:    []string{"Saved to slot run-1.", "Replace the current progress? [y/n]", "Loaded slot run-1."},
			expStatus: tracker.ShineUncollected,
			expSlots:  "run-1",
		},
		"load cancelled": {
			lines:     []string{"save run-1", "shine b1_red", "load run-1", "n"},
			expOut:    []string{"Load cancelled."},
			expStatus: tracker.ShineCollected,
			expSlots:  "run-1",
		},
		"load missing slot": {
			lines:     []string{"load nothing"},
			expOut:    []string{`No slot named "nothing".`},
			expStatus: tracker.ShineUncollected,
		},
		"unnamed save": {
			lines:     []string{"save"},
			expOut:    []string{"Saved to slot generated-slot."},
			expStatus: tracker.ShineUncollected,
			expSlots:  "generated-slot",
		},
		"bad slot name": {
			lines:     []string{"save ../up"},
			expOut:    []string{`Bad slot name "../up": id must be alphanumeric.`},
			expStatus: tracker.ShineUncollected,
		},
		"list slots": {
			lines:     []string{"slots", "shine b1_red", "save run-2", "save run-1", "slots"},
			expOut:    []string{"No saved slots.", "run-1", "run-2", "1 shines"},
			expStatus: tracker.ShineCollected,
			expSlots:  "run-1,run-2",
		},
		"delete asks again on bad answer": {
			lines:     []string{"save run-1", "delete run-1", "maybe", "yes"},
			expOut:    []string{"Enter 'yes' or 'no'.", "Deleted slot run-1."},
			expStatus: tracker.ShineUncollected,
		},
		"delete cancelled": {
			lines:     []string{"save run-1", "delete run-1", "no"},
			expOut:    []string{"Delete cancelled."},
			expStatus: tracker.ShineUncollected,
			expSlots:  "run-1",
		},
		"delete missing slot": {
			lines:     []string{"delete run-9"},
			expOut:    []string{`No slot named "run-9".`},
			expStatus: tracker.ShineUncollected,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, tr, slots := newTestRunner(t)
			out := runScript(t, r, tt.lines...)
			for _, exp := range tt.expOut {
				if !strings.Contains(out, exp) {
					t.Errorf("output missing %q:\n%s", exp, out)
				}
			}

			testutil.AssertEqual(t, "shine status", tr.ShineStatus("b1_red"), tt.expStatus)

			ids, err := slots.List(context.Background())
			testutil.AssertEqual(t, "list error", err, nil)
			testutil.AssertEqual(t, "slots", strings.Join(ids, ","), tt.expSlots)
		})
	}
}
