package tracker

import "github.com/pixil98/sms-tracker/internal/world"

// Tally accumulates the unique collectibles reachable from some root, and which
// of them the player has.
type Tally struct {
	Shines         *OrderedSet[string]
	ShinesFound    *OrderedSet[string]
	ShinesExcluded *OrderedSet[string]
	Coins          *OrderedSet[world.RouteKey]
	CoinsFound     *OrderedSet[world.RouteKey]
}

func NewTally() *Tally {
	return &Tally{
		Shines:         NewOrderedSet[string](),
		ShinesFound:    NewOrderedSet[string](),
		ShinesExcluded: NewOrderedSet[string](),
		Coins:          NewOrderedSet[world.RouteKey](),
		CoinsFound:     NewOrderedSet[world.RouteKey](),
	}
}

func (t *Tally) addShine(id string, s ShineStatus) {
	t.Shines.Add(id)
	switch s {
	case ShineCollected:
		t.ShinesFound.Add(id)
	case ShineExcluded:
		t.ShinesExcluded.Add(id)
	}
}

func (t *Tally) addCoin(key world.RouteKey, collected bool) {
	t.Coins.Add(key)
	if collected {
		t.CoinsFound.Add(key)
	}
}

// Merge unions o into t. Collectibles already present are not counted twice.
func (t *Tally) Merge(o *Tally) {
	if o == nil {
		return
	}
	t.Shines.Union(o.Shines)
	t.ShinesFound.Union(o.ShinesFound)
	t.ShinesExcluded.Union(o.ShinesExcluded)
	t.Coins.Union(o.Coins)
	t.CoinsFound.Union(o.CoinsFound)
}

// Counts returns the unique found/total numbers of the tally.
func (t *Tally) Counts() Counts {
	excluded := t.ShinesExcluded.Len()
	return Counts{
		ShinesFound:    t.ShinesFound.Len(),
		ShinesTotal:    t.Shines.Len() - excluded,
		ShinesExcluded: excluded,
		CoinsFound:     t.CoinsFound.Len(),
		CoinsTotal:     t.Coins.Len(),
	}
}

// Completion describes one category of a Counts.
type Completion int

const (
	// NotApplicable means there is nothing to collect in the category.
	NotApplicable Completion = iota
	InProgress
	Done
)

func (c Completion) String() string {
	switch c {
	case InProgress:
		return "in progress"
	case Done:
		return "done"
	default:
		return "n/a"
	}
}

func (c Completion) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Counts are unique-identifier counts. Excluded shines are not part of
// ShinesTotal.
type Counts struct {
	ShinesFound    int `json:"shines_found"`
	ShinesTotal    int `json:"shines_total"`
	ShinesExcluded int `json:"shines_excluded"`
	CoinsFound     int `json:"coins_found"`
	CoinsTotal     int `json:"coins_total"`
}

func completion(found, total int) Completion {
	switch {
	case total == 0:
		return NotApplicable
	case found >= total:
		return Done
	default:
		return InProgress
	}
}

func (c Counts) Shines() Completion {
	return completion(c.ShinesFound, c.ShinesTotal)
}

func (c Counts) Coins() Completion {
	return completion(c.CoinsFound, c.CoinsTotal)
}

// Empty reports whether there is nothing at all to collect.
func (c Counts) Empty() bool {
	return c.ShinesTotal == 0 && c.ShinesExcluded == 0 && c.CoinsTotal == 0
}
