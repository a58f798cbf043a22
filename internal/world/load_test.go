package world

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

const testWorld = `{
  "zones": {
    "bianco6": {
      "name": "Bianco Hills 6",
      "shines_available": [{"id": "bianco6_shadow", "name": "Shadow Mario"}],
      "exits": [{"id": "ex1", "name": "Secret"}],
      "blue_coin_ids": ["bc01", "bc02"]
    },
    "dolpic_base": {"name": "Delfino Plaza"}
  },
  "unlocks": [{"id": "double_jump", "name": "Double Jump"}],
  "blue_coins": [{"id": "bc01", "title": "Windmill", "mariopartylegacylink": "https://example.invalid/bianco#coin-7"}]
}`

func TestDecode(t *testing.T) {
	d, err := Decode(strings.NewReader(testWorld), DefaultLayout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	z := d.Zone("bianco6")
	if z == nil {
		t.Fatal("expected bianco6 to be loaded")
	}
	testutil.AssertEqual(t, "injected id", z.ID, "bianco6")
	testutil.AssertEqual(t, "shines", len(z.Shines), 1)
	testutil.AssertEqual(t, "default entrances", len(d.Entrances), 1+7*8)
	testutil.AssertEqual(t, "first entrance", d.Entrances[0].ID, "enter_corona")
	testutil.AssertEqual(t, "groups", len(d.EntranceGroups()), 8)
	testutil.AssertEqual(t, "unknown zone", d.Zone("nope") == nil, true)

	bc, ok := d.BlueCoin("bc01")
	testutil.AssertEqual(t, "coin found", ok, true)
	testutil.AssertEqual(t, "coin number", bc.Number(), 7)
}

func TestDecode_KeepsEntrances(t *testing.T) {
	doc := `{"zones": {}, "plaza_entrances": [
		{"id": "enter_x", "group_name": "G", "is_warp": true},
		{"id": "plaza_shine", "group_name": "Plaza", "is_warp": false}
	]}`

	d, err := Decode(strings.NewReader(doc), DefaultLayout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "entrances", len(d.Entrances), 2)
	testutil.AssertEqual(t, "static shines", len(d.StaticShines()), 1)
	testutil.AssertEqual(t, "static id", d.StaticShines()[0].ID, "plaza_shine")
}

func TestDecode_Errors(t *testing.T) {
	tests := map[string]struct {
		doc    string
		expErr string
	}{
		"invalid json":       {doc: `{"zones":`, expErr: "decoding world"},
		"duplicate exit":     {doc: `{"zones":{"a1":{"exits":[{"id":"e"},{"id":"e"}]}}}`, expErr: "duplicate id"},
		"exit without id":    {doc: `{"zones":{"a1":{"exits":[{"name":"e"}]}}}`, expErr: "id is required"},
		"duplicate entrance": {doc: `{"plaza_entrances":[{"id":"x"},{"id":"x"}]}`, expErr: "duplicate id"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), DefaultLayout())
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	if err := os.WriteFile(path, []byte(testWorld), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	d, err := Load(path, DefaultLayout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "zones", len(d.Zones), 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"), DefaultLayout())
	testutil.AssertErrorContains(t, err, "opening world")
}

func TestAssignableZones(t *testing.T) {
	d := &Data{Zones: map[string]*Zone{
		"coro_ex6": {ID: "coro_ex6", Name: "Corona"},
		"b1":       {ID: "b1", Name: "beta"},
		"a1":       {ID: "a1", Name: "Alpha"},
	}}

	zones := d.AssignableZones(DefaultLayout().HiddenZones...)
	testutil.AssertEqual(t, "count", len(zones), 2)
	testutil.AssertEqual(t, "first", zones[0].ID, "a1")
	testutil.AssertEqual(t, "second", zones[1].ID, "b1")
}
