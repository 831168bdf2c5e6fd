package resource

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyRegistry     = errors.New("resource registry is empty")
	ErrDuplicateResource = errors.New("duplicate resource id")
	ErrResourceNotFound  = errors.New("resource not found")
)

// Registry is the ordered, read-only set of bays known at startup.
type Registry struct {
	resources []*Resource
	index     map[string]int
	loc       *time.Location
}

func NewRegistry(loc *time.Location, resources ...*Resource) (*Registry, error) {
	if len(resources) == 0 {
		return nil, ErrEmptyRegistry
	}
	if loc == nil {
		loc = time.UTC
	}

	index := make(map[string]int, len(resources))
	for i, r := range resources {
		if _, dup := index[r.ID()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateResource, r.ID())
		}
		index[r.ID()] = i
	}

	list := make([]*Resource, len(resources))
	copy(list, resources)

	return &Registry{resources: list, index: index, loc: loc}, nil
}

// DefaultRegistry builds the stock two-bay shop: Monday to Saturday, 08:00-17:00.
func DefaultRegistry(loc *time.Location) *Registry {
	hours := WeeklyHours{}
	for day := time.Monday; day <= time.Saturday; day++ {
		hours[day] = Hours{Open: 8 * 60, Close: 17 * 60}
	}

	bay1, _ := NewResource("bay-1", "Bay 1", []string{"lift", "diagnostics"}, hours)
	bay2, _ := NewResource("bay-2", "Bay 2", []string{"lift", "alignment"}, hours)

	reg, _ := NewRegistry(loc, bay1, bay2)
	return reg
}

func (r *Registry) ByID(id string) (*Resource, error) {
	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, id)
	}
	return r.resources[i], nil
}

func (r *Registry) All() []*Resource {
	out := make([]*Resource, len(r.resources))
	copy(out, r.resources)
	return out
}

// Position returns the registry order of id, or -1 when unknown.
func (r *Registry) Position(id string) int {
	if i, ok := r.index[id]; ok {
		return i
	}
	return -1
}

// Alternate picks the resource to offer in a switch-resource resolution: the other bay of a two-bay
// registry, otherwise the next bay in registry order (wrapping).
func (r *Registry) Alternate(id string) (*Resource, bool) {
	i, ok := r.index[id]
	if !ok || len(r.resources) < 2 {
		return nil, false
	}
	return r.resources[(i+1)%len(r.resources)], true
}

func (r *Registry) Location() *time.Location { return r.loc }

func (r *Registry) Len() int { return len(r.resources) }
