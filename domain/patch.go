// Package domain contains the canonical shape of every stored entity
// and the partial-update protocol shared by all of them.
//
// An update is always a pair: a Partial* patch whose nil fields mean
// "leave untouched", and a list of Fields* values naming fields to reset.
// Removals are applied after the patch and always win.
package domain

import (
	"chat-store/errors"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Field is a closed enumeration of the removable fields of one entity.
type Field interface {
	~string
	Valid() bool
}

// Updatable is implemented by every entity that can be patched.
type Updatable[P any, F Field] interface {
	Apply(patch P)
	Remove(field F)
}

// ApplyUpdate runs the two phases of an update on entity: the patch first,
// then every removal. Nothing is touched when a removal is not recognised.
func ApplyUpdate[E Updatable[P, F], P any, F Field](entity E, patch P, remove []F) error {
	if err := ValidateRemovals(remove); err != nil {
		return err
	}
	entity.Apply(patch)
	for _, field := range remove {
		entity.Remove(field)
	}
	return nil
}

// ValidateRemovals rejects any entry outside the entity's enumeration.
func ValidateRemovals[F Field](remove []F) error {
	for _, field := range remove {
		if !field.Valid() {
			return fmt.Errorf("%w: %q", errors.ErrInvalidRemoval, string(field))
		}
	}
	return nil
}

// ParseFields converts raw names received from the network.
func ParseFields[F Field](names []string) ([]F, error) {
	fields := make([]F, 0, len(names))
	for _, name := range names {
		field := F(name)
		if !field.Valid() {
			return nil, fmt.Errorf("%w: %q", errors.ErrInvalidRemoval, name)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func unmarshalField[F Field](data []byte, field *F) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed := F(name)
	if !parsed.Valid() {
		return fmt.Errorf("%w: %q", errors.ErrInvalidRemoval, name)
	}
	*field = parsed
	return nil
}

// NewSet returns the values sorted and without duplicates, or nil when empty.
func NewSet(values ...string) []string {
	if len(values) == 0 {
		return nil
	}
	set := lo.Uniq(values)
	slices.Sort(set)
	return set
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
