package tracker

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/pixil98/sms-tracker/internal/world"
)

// ShineStatus is the per-player state of a shine.
type ShineStatus int

const (
	ShineUncollected ShineStatus = iota
	ShineCollected
	// ShineExcluded marks a shine deliberately left out of completion, e.g. a missable one.
	ShineExcluded
)

// Next returns the status that follows s in the click cycle.
func (s ShineStatus) Next() ShineStatus {
	switch s {
	case ShineUncollected:
		return ShineCollected
	case ShineCollected:
		return ShineExcluded
	default:
		return ShineUncollected
	}
}

func (s ShineStatus) String() string {
	switch s {
	case ShineCollected:
		return "collected"
	case ShineExcluded:
		return "excluded"
	default:
		return "uncollected"
	}
}

// ParseShineStatus parses the text form of a status.
func ParseShineStatus(s string) (ShineStatus, error) {
	switch strings.ToLower(s) {
	case "uncollected", "none", "":
		return ShineUncollected, nil
	case "collected", "done":
		return ShineCollected, nil
	case "excluded", "skip":
		return ShineExcluded, nil
	default:
		return ShineUncollected, fmt.Errorf("unknown shine status %q", s)
	}
}

// Progress holds the player's collection state. Every status is keyed by the
// collectible's identity, so all places an identifier appears share it.
type Progress struct {
	shines  map[string]ShineStatus
	coins   mapset.Set[world.RouteKey]
	unlocks mapset.Set[string]
}

func NewProgress() *Progress {
	return &Progress{
		shines:  map[string]ShineStatus{},
		coins:   mapset.New[world.RouteKey](),
		unlocks: mapset.New[string](),
	}
}

// Shine returns the status of a shine. Unknown shines are uncollected.
func (p *Progress) Shine(id string) ShineStatus {
	return p.shines[id]
}

// SetShine sets the status of a shine.
func (p *Progress) SetShine(id string, s ShineStatus) {
	if s == ShineUncollected {
		delete(p.shines, id)
		return
	}
	p.shines[id] = s
}

// CycleShine advances a shine to its next status and returns it.
func (p *Progress) CycleShine(id string) ShineStatus {
	next := p.Shine(id).Next()
	p.SetShine(id, next)
	return next
}

// ShinesWith returns the sorted ids of every shine in the given status.
func (p *Progress) ShinesWith(s ShineStatus) []string {
	var ids []string
	for id, st := range p.shines {
		if st == s {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Coin reports whether the coin with the given dedup key is collected.
func (p *Progress) Coin(key world.RouteKey) bool {
	return p.coins.Has(key)
}

// SetCoin marks a coin collected or uncollected.
func (p *Progress) SetCoin(key world.RouteKey, collected bool) {
	if collected {
		p.coins.Put(key)
	} else {
		p.coins.Remove(key)
	}
}

// ToggleCoin flips a coin and returns its new state.
func (p *Progress) ToggleCoin(key world.RouteKey) bool {
	collected := !p.Coin(key)
	p.SetCoin(key, collected)
	return collected
}

// Coins returns the sorted dedup keys of every collected coin.
func (p *Progress) Coins() []world.RouteKey {
	var keys []world.RouteKey
	p.coins.Each(func(k world.RouteKey) {
		keys = append(keys, k)
	})
	slices.SortFunc(keys, func(a, b world.RouteKey) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}

// Unlock reports whether an unlock is held. Ids are case-insensitive.
func (p *Progress) Unlock(id string) bool {
	return p.unlocks.Has(strings.ToLower(id))
}

// SetUnlock grants or revokes an unlock and reports whether anything changed.
func (p *Progress) SetUnlock(id string, held bool) bool {
	id = strings.ToLower(id)
	if p.unlocks.Has(id) == held {
		return false
	}
	if held {
		p.unlocks.Put(id)
	} else {
		p.unlocks.Remove(id)
	}
	return true
}

// Unlocks returns the sorted ids of every held unlock.
func (p *Progress) Unlocks() []string {
	var ids []string
	p.unlocks.Each(func(id string) {
		ids = append(ids, id)
	})
	slices.Sort(ids)
	return ids
}
