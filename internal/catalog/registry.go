// Package catalog is the fixed catalogue of chart kinds the dashboard can
// draw. Each kind declares the columns it needs and how it is built; adding a
// kind is adding a Definition to the built-in list.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
	"github.com/roman-kulish/vehicle-dashboard/internal/telemetry"
)

var (
	// ErrDuplicateKind is returned when two definitions share an ID or number
	ErrDuplicateKind = errors.New("duplicate chart kind")

	// ErrInvalidKind is returned for a definition without ID, name or builder
	ErrInvalidKind = errors.New("invalid chart kind")
)

// KindID identifies a chart kind, e.g. "rpm-histogram".
type KindID string

func (id KindID) String() string {
	return string(id)
}

// BuildFunc derives and composes the chart of one kind. It may assume that
// every required column is present.
type BuildFunc func(table *telemetry.Table) (*chart.Spec, error)

// Definition is one chart kind. Definitions are immutable once registered.
type Definition struct {
	ID          KindID             // Stable identifier used in selections
	Number      int                // Display position, 1-based
	Name        string             // Human-readable name
	Description string             // One-line description shown next to the name
	Required    []telemetry.Column // Columns that must be present, in report order
	Build       BuildFunc
}

// DisplayName is the numbered name shown to users, e.g.
// "1. Histogram of Engine RPM".
func (d Definition) DisplayName() string {
	return fmt.Sprintf("%d. %s", d.Number, d.Name)
}

// Registry holds chart kinds in display order.
type Registry struct {
	defs []Definition
	byID map[KindID]int
}

// NewRegistry validates the definitions and orders them by Number.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		defs: slices.Clone(defs),
		byID: make(map[KindID]int, len(defs)),
	}
	slices.SortFunc(r.defs, func(a, b Definition) int {
		return a.Number - b.Number
	})

	numbers := make(map[int]struct{}, len(defs))
	for i, def := range r.defs {
		if def.ID == "" || def.Name == "" || def.Build == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKind, def.ID)
		}
		if _, ok := r.byID[def.ID]; ok {
			return nil, fmt.Errorf("%w: id %s", ErrDuplicateKind, def.ID)
		}
		if _, ok := numbers[def.Number]; ok {
			return nil, fmt.Errorf("%w: number %d", ErrDuplicateKind, def.Number)
		}
		def.Required = slices.Clone(def.Required)
		r.defs[i] = def
		r.byID[def.ID] = i
		numbers[def.Number] = struct{}{}
	}
	return r, nil
}

// Len returns the number of kinds.
func (r *Registry) Len() int {
	return len(r.defs)
}

// All returns every definition in display order.
func (r *Registry) All() []Definition {
	return slices.Clone(r.defs)
}

// IDs returns every kind ID in display order.
func (r *Registry) IDs() []KindID {
	ids := make([]KindID, len(r.defs))
	for i, def := range r.defs {
		ids[i] = def.ID
	}
	return ids
}

// Get returns the definition with the given ID.
func (r *Registry) Get(id KindID) (Definition, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Lookup resolves a user-supplied chart name. It accepts a kind ID, a display
// number, a name or a numbered display name, ignoring case and surrounding
// spaces.
func (r *Registry) Lookup(name string) (Definition, bool) {
	name = strings.TrimSpace(name)
	if def, ok := r.Get(KindID(strings.ToLower(name))); ok {
		return def, true
	}

	if n, err := strconv.Atoi(strings.TrimSuffix(name, ".")); err == nil {
		for _, def := range r.defs {
			if def.Number == n {
				return def, true
			}
		}
		return Definition{}, false
	}

	for _, def := range r.defs {
		if strings.EqualFold(def.Name, name) || strings.EqualFold(def.DisplayName(), name) {
			return def, true
		}
	}
	return Definition{}, false
}

var builtin = mustRegistry(builtinKinds()...)

// Builtin returns the registry of the built-in chart kinds.
func Builtin() *Registry {
	return builtin
}

func mustRegistry(defs ...Definition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}
