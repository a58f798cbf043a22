package world

import (
	"encoding/json"
	"maps"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestZoneGroup(t *testing.T) {
	tests := map[string]struct {
		zoneID string
		exp    string
	}{
		"numbered variant":   {zoneID: "bianco6", exp: "bianco"},
		"multi digit suffix": {zoneID: "mare12", exp: "mare"},
		"digits mid id kept": {zoneID: "coro_ex6", exp: "coro_ex"},
		"no suffix":          {zoneID: "dolpic_base", exp: "dolpic_base"},
		"only digits":        {zoneID: "123", exp: ""},
		"empty":              {zoneID: "", exp: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "group", ZoneGroup(tt.zoneID), tt.exp)
		})
	}
}

func TestRouteKey_String(t *testing.T) {
	tests := map[string]struct {
		key RouteKey
		exp string
	}{
		"entrance":                {key: EntranceKey("enter_bianco_ep1"), exp: "enter_bianco_ep1"},
		"exit":                    {key: ExitKey("bianco6", "ex1"), exp: "bianco::ex1"},
		"coin":                    {key: CoinKey("ricco2", "bc03"), exp: "ricco::bc03"},
		"exit of digit only zone": {key: ExitKey("42", "e"), exp: "::e"},
		"separator in group":      {key: ExitKey("x::y1", "e"), exp: "x::y::e"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "string", tt.key.String(), tt.exp)
			testutil.AssertEqual(t, "parsed", ParseRouteKey(tt.exp), tt.key)
		})
	}
}

func TestRouteKey_EntranceDistinctFromEmptyGroup(t *testing.T) {
	exit := ExitKey("42", "e")
	entrance := EntranceKey("e")

	testutil.AssertEqual(t, "equal", exit == entrance, false)
	testutil.AssertEqual(t, "text", exit.String() == entrance.String(), false)
	testutil.AssertEqual(t, "exit is entrance", exit.IsEntrance(), false)
	testutil.AssertEqual(t, "entrance is entrance", entrance.IsEntrance(), true)
	testutil.AssertEqual(t, "entrance zero", entrance.IsZero(), false)
	testutil.AssertEqual(t, "zero", RouteKey{}.IsZero(), true)
}

func TestRouteKey_SeparatorInGroup(t *testing.T) {
	k := ExitKey("x::y1", "e")

	testutil.AssertEqual(t, "group", k.Group, "x::y")
	testutil.AssertEqual(t, "parsed", ParseRouteKey(k.String()), k)
}

func TestRouteKey_JSONMapKey(t *testing.T) {
	in := map[RouteKey]string{
		EntranceKey("enter_corona"): "coro_ex6",
		ExitKey("bianco1", "ex2"):   "mamma3",
		ExitKey("7", "ex1"):         "bianco2",
	}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "json", string(b), `{"::ex1":"bianco2","bianco::ex2":"mamma3","enter_corona":"coro_ex6"}`)

	var out map[RouteKey]string
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "round trip", maps.Equal(out, in), true)
}
