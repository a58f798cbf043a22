// Package snapshot encodes tracker progress as the save document shared with
// the browser tracker.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	goerrors "github.com/pixil98/go-errors"
)

// ErrInvalidSave is returned for any document that cannot be imported.
var ErrInvalidSave = errors.New("invalid save")

// Snapshot is a saved session. Lists are sets; their order carries no meaning.
type Snapshot struct {
	Unlocks            []string          `json:"unlocks"`
	GlobalAssignments  map[string]string `json:"globalAssignments"`
	CollectedShines    []string          `json:"collectedShines"`
	ExcludedShines     []string          `json:"excludedShines"`
	CollectedBlueCoins []string          `json:"collectedBlueCoins"`
	CollapsedElements  []string          `json:"collapsedElements"`
	Timestamp          string            `json:"timestamp"`
}

// Validate satisfies storage.ValidatingSpec.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("empty document")
	}

	el := goerrors.NewErrorList()

	for key, zoneID := range s.GlobalAssignments {
		if key == "" {
			el.Add(fmt.Errorf("assignment to %q has an empty routing key", zoneID))
		}
	}

	collected := make(map[string]bool, len(s.CollectedShines))
	for _, id := range s.CollectedShines {
		collected[id] = true
	}
	for _, id := range s.ExcludedShines {
		if collected[id] {
			el.Add(fmt.Errorf("shine %q is both collected and excluded", id))
		}
	}

	if s.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339Nano, s.Timestamp); err != nil {
			el.Add(fmt.Errorf("parsing timestamp: %w", err))
		}
	}

	return el.Err()
}

// Time returns the save time, or the zero time when the document has none.
func (s *Snapshot) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, s.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Stamp sets the save time.
func (s *Snapshot) Stamp(t time.Time) {
	s.Timestamp = t.UTC().Format(time.RFC3339Nano)
}

// Encode writes s as an indented JSON document.
func Encode(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// Decode reads a save document. Every failure wraps ErrInvalidSave.
func Decode(r io.Reader) (*Snapshot, error) {
	var s *Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSave, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidSave)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSave, err)
	}
	return s, nil
}
