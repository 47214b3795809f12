package pipeline

import (
	"errors"
	"fmt"

	"github.com/roman-kulish/vehicle-dashboard/internal/catalog"
)

// ErrUnknownKind is returned when a chart name does not resolve to a kind
var ErrUnknownKind = errors.New("unknown chart kind")

// Selection marks the chart kinds to draw. Kinds mapped to false and keys
// that are not registered are ignored.
type Selection map[catalog.KindID]bool

// SelectAll selects every kind of the registry.
func SelectAll(registry *catalog.Registry) Selection {
	s := make(Selection, registry.Len())
	for _, id := range registry.IDs() {
		s[id] = true
	}
	return s
}

// ParseSelection resolves user-supplied chart names, which may be kind IDs,
// display numbers or names. Every unknown name is reported.
func ParseSelection(registry *catalog.Registry, names []string) (Selection, error) {
	s := make(Selection, len(names))

	var errs []error
	for _, name := range names {
		def, ok := registry.Lookup(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownKind, name))
			continue
		}
		s[def.ID] = true
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// IDs returns the selected kinds of registry in display order.
func (s Selection) IDs(registry *catalog.Registry) []catalog.KindID {
	var ids []catalog.KindID
	for _, def := range s.resolve(registry) {
		ids = append(ids, def.ID)
	}
	return ids
}

// resolve returns the selected definitions in display order.
func (s Selection) resolve(registry *catalog.Registry) []catalog.Definition {
	var defs []catalog.Definition
	for _, def := range registry.All() {
		if s[def.ID] {
			defs = append(defs, def)
		}
	}
	return defs
}
