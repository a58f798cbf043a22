package world

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pixil98/go-errors"
)

// Shine is a collectible whose id is unique across the whole world.
type Shine struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	NumID int    `json:"num_id"` // id reported by the game hook, when mapped
}

// Exit is a loading zone inside a zone. Its destination comes from an assignment.
type Exit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Zone is a level or area the player can be routed into.
type Zone struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Shines      []Shine  `json:"shines_available"`
	Exits       []Exit   `json:"exits"`
	BlueCoinIDs []string `json:"blue_coin_ids"`
}

// Validate checks a zone for references the walker cannot route through.
func (z *Zone) Validate() error {
	el := errors.NewErrorList()

	if z.ID == "" {
		el.Add(fmt.Errorf("zone id is required"))
	}

	exits := map[string]bool{}
	for i, e := range z.Exits {
		if e.ID == "" {
			el.Add(fmt.Errorf("exit %d: id is required", i))
			continue
		}
		if exits[e.ID] {
			el.Add(fmt.Errorf("exit %q: duplicate id", e.ID))
		}
		exits[e.ID] = true
	}

	for i, s := range z.Shines {
		if s.ID == "" {
			el.Add(fmt.Errorf("shine %d: id is required", i))
		}
	}

	return el.Err()
}

// Entrance is a starting point in the plaza hub. Warp entrances resolve through
// an assignment; the others are a single static shine with the entrance's id.
type Entrance struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GroupName string `json:"group_name"`
	Image     string `json:"image"`
	IsWarp    bool   `json:"is_warp"`
}

// Key returns the entrance's routing key.
func (e Entrance) Key() RouteKey {
	return EntranceKey(e.ID)
}

// Unlock is an ability, item or nozzle the player can obtain.
type Unlock struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var coinNumberPattern = regexp.MustCompile(`#coin-(\d+)$`)

// BlueCoin is descriptive metadata for a blue coin id.
type BlueCoin struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Episode       []int  `json:"episode"`
	EpisodeString string `json:"episodeString"`
	GuideLink     string `json:"mariopartylegacylink"`
}

// Number returns the coin's number within its area as listed in the guide link,
// or 0 when the link carries none.
func (b BlueCoin) Number() int {
	m := coinNumberPattern.FindStringSubmatch(b.GuideLink)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Data is the read-only world for a session.
type Data struct {
	Zones     map[string]*Zone `json:"zones"`
	Unlocks   []Unlock         `json:"unlocks"`
	Entrances []Entrance       `json:"plaza_entrances"`
	BlueCoins []BlueCoin       `json:"blue_coins"`
}

// Validate checks every zone and entrance of the document.
func (d *Data) Validate() error {
	el := errors.NewErrorList()

	for id, z := range d.Zones {
		if z == nil {
			el.Add(fmt.Errorf("zone %q: empty definition", id))
			continue
		}
		if err := z.Validate(); err != nil {
			el.Add(fmt.Errorf("zone %q: %w", id, err))
		}
	}

	seen := map[string]bool{}
	for i, e := range d.Entrances {
		switch {
		case e.ID == "":
			el.Add(fmt.Errorf("entrance %d: id is required", i))
		case seen[e.ID]:
			el.Add(fmt.Errorf("entrance %q: duplicate id", e.ID))
		}
		seen[e.ID] = true
	}

	return el.Err()
}

// Zone returns the zone with the given id, or nil.
func (d *Data) Zone(id string) *Zone {
	if d == nil {
		return nil
	}
	return d.Zones[id]
}

// BlueCoin returns the metadata for a coin id.
func (d *Data) BlueCoin(id string) (BlueCoin, bool) {
	for _, bc := range d.BlueCoins {
		if bc.ID == id {
			return bc, true
		}
	}
	return BlueCoin{}, false
}

// Entrance returns the entrance with the given id.
func (d *Data) Entrance(id string) (Entrance, bool) {
	for _, e := range d.Entrances {
		if e.ID == id {
			return e, true
		}
	}
	return Entrance{}, false
}

// EntranceGroups returns group names in the order they first appear.
func (d *Data) EntranceGroups() []string {
	var groups []string
	for _, e := range d.Entrances {
		if !slices.Contains(groups, e.GroupName) {
			groups = append(groups, e.GroupName)
		}
	}
	return groups
}

// GroupEntrances returns the entrances belonging to a group, in order.
func (d *Data) GroupEntrances(group string) []Entrance {
	var out []Entrance
	for _, e := range d.Entrances {
		if e.GroupName == group {
			out = append(out, e)
		}
	}
	return out
}

// StaticShines returns the non-warp entrances, each of which is a shine.
func (d *Data) StaticShines() []Entrance {
	var out []Entrance
	for _, e := range d.Entrances {
		if !e.IsWarp {
			out = append(out, e)
		}
	}
	return out
}

// AssignableZones returns the zones a user may route to, sorted by name.
func (d *Data) AssignableZones(hidden ...string) []*Zone {
	out := make([]*Zone, 0, len(d.Zones))
	for id, z := range d.Zones {
		if slices.Contains(hidden, id) {
			continue
		}
		out = append(out, z)
	}
	slices.SortFunc(out, func(a, b *Zone) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// HasUnlock reports whether id names a known unlock.
func (d *Data) HasUnlock(id string) bool {
	for _, u := range d.Unlocks {
		if strings.EqualFold(u.ID, id) {
			return true
		}
	}
	return false
}
