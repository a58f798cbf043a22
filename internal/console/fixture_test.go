package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/pixil98/go-testutil"

	"github.com/pixil98/sms-tracker/internal/snapshot"
	"github.com/pixil98/sms-tracker/internal/storage"
	"github.com/pixil98/sms-tracker/internal/tracker"
	"github.com/pixil98/sms-tracker/internal/world"
)

const worldJSON = `{
  "zones": {
    "dolpic_base": {"name": "Delfino Plaza", "shines_available": [{"id": "hub_shine", "name": "Plaza Shine"}]},
    "bianco1": {
      "name": "Bianco Hills 1",
      "shines_available": [{"id": "b1_red", "name": "Road to the Big Windmill"}],
      "exits": [{"id": "cave", "name": "Cave"}],
      "blue_coin_ids": ["c1"]
    },
    "bianco2": {"name": "Bianco Hills 2", "shines_available": [{"id": "b2_red", "name": "Down with Petey Piranha"}]},
    "ricco1": {"name": "Ricco Harbor 1", "shines_available": [{"id": "r1_gate", "name": "Gooper Blooper Breaks Out"}]},
    "coro_ex6": {"name": "Corona Mountain", "shines_available": [{"id": "boss_shine", "name": "Father and Son Shine"}]}
  },
  "unlocks": [{"id": "rocket_nozzle", "name": "Rocket Nozzle"}, {"id": "yoshi"}],
  "plaza_entrances": [
    {"id": "enter_corona", "name": "Corona Mountain", "group_name": "Special", "is_warp": true},
    {"id": "plaza_statue", "name": "Statue Shine", "group_name": "Special"},
    {"id": "enter_bianco_ep1", "name": "Episode 1", "group_name": "Bianco Hills", "is_warp": true},
    {"id": "enter_bianco_ep2", "name": "Episode 2", "group_name": "Bianco Hills", "is_warp": true}
  ],
  "blue_coins": [{"id": "c1", "title": "Windmill coin"}]
}`

func testLayout() world.Layout {
	return world.Layout{
		HubZone:      "dolpic_base",
		BossEntrance: "enter_corona",
		BossZone:     "coro_ex6",
		HiddenZones:  []string{"coro_ex6"},
		GateZones:    []world.GateZone{{ZoneID: "ricco1", Name: "Ricco"}},
	}
}

func newTestTracker(t *testing.T, opts ...tracker.TrackerOpt) *tracker.Tracker {
	t.Helper()
	layout := testLayout()
	w, err := world.Decode(strings.NewReader(worldJSON), layout)
	if err != nil {
		t.Fatalf("decoding world: %v", err)
	}
	return tracker.New(w, layout, opts...)
}

func newTestRunner(t *testing.T, opts ...tracker.TrackerOpt) (*Runner, *tracker.Tracker, *storage.FileStore[*snapshot.Snapshot]) {
	t.Helper()
	tr := newTestTracker(t, opts...)
	slots, err := storage.NewFileStore[*snapshot.Snapshot](t.TempDir())
	if err != nil {
		t.Fatalf("creating slot store: %v", err)
	}
	return NewRunner(tr, slots, WithSlotIDs(func() string { return "generated-slot" })), tr, slots
}

// staticSlots is a slot store whose every call fails with err, or reports
// nothing found when err is nil.
type staticSlots struct {
	err error
}

func (s *staticSlots) Save(context.Context, string, *snapshot.Snapshot) error { return s.err }

func (s *staticSlots) Get(context.Context, string) (*snapshot.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return nil, storage.ErrNotFound
}

func (s *staticSlots) List(context.Context) ([]string, error) { return nil, s.err }

func (s *staticSlots) Delete(context.Context, string) error { return s.err }

type scriptConn struct {
	io.Reader
	out bytes.Buffer
}

func (c *scriptConn) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

// runScript feeds lines to a session until its input runs out and returns the
// uncoloured output.
func runScript(t *testing.T, r *Runner, lines ...string) string {
	t.Helper()
	conn := &scriptConn{Reader: strings.NewReader(strings.Join(lines, "\n") + "\n")}
	err := r.RunSession(context.Background(), conn, "test")
	testutil.AssertEqual(t, "session error", err, nil)
	return color.ClearCode(conn.out.String())
}

// syncBuffer is a Writer that can be read while a session writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return color.ClearCode(b.buf.String())
}

func (b *syncBuffer) waitFor(t *testing.T, text string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(b.String(), text) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %q in output:\n%s", text, b.String())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
