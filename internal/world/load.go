package world

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Load reads and validates a world document from disk.
func Load(path string, layout Layout) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening world %q: %w", path, err)
	}

	// Ignoring close error - file is read-only, error is not actionable
	defer func() { _ = f.Close() }()

	d, err := Decode(f, layout)
	if err != nil {
		return nil, fmt.Errorf("loading world %q: %w", path, err)
	}
	return d, nil
}

// Decode parses a world document. Zone ids are taken from the map keys, and the
// default plaza entrances are generated when the document lists none.
func Decode(r io.Reader, layout Layout) (*Data, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding world: %w", err)
	}

	if d.Zones == nil {
		d.Zones = map[string]*Zone{}
	}
	for id, z := range d.Zones {
		if z != nil {
			z.ID = id
		}
	}

	if len(d.Entrances) == 0 {
		d.Entrances = DefaultEntrances(layout)
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("validating world: %w", err)
	}

	slog.Info("world loaded",
		"zones", len(d.Zones),
		"entrances", len(d.Entrances),
		"unlocks", len(d.Unlocks),
		"blue_coins", len(d.BlueCoins))

	return &d, nil
}
