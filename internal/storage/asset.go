package storage

import (
	"fmt"
	"regexp"
	"time"

	"github.com/pixil98/go-errors"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9-]*$`)

type ValidatingSpec interface {
	Validate() error
}

// Asset is the envelope every record is persisted in.
type Asset[T ValidatingSpec] struct {
	Version    uint      `json:"version"`
	Identifier string    `json:"id"`
	SavedAt    time.Time `json:"saved_at"`
	Spec       T         `json:"spec"`
}

func (a *Asset[T]) Id() string {
	return a.Identifier
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	el.Add(ValidateID(a.Identifier))
	el.Add(a.Spec.Validate())

	return el.Err()
}

// ValidateID checks that id can be used as a record key in every backend.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id must be set")
	}
	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("id must be alphanumeric")
	}
	return nil
}

func newAsset[T ValidatingSpec](id string, spec T, now time.Time) *Asset[T] {
	return &Asset[T]{
		Version:    1,
		Identifier: id,
		SavedAt:    now.UTC(),
		Spec:       spec,
	}
}
