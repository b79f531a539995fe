package ecs

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

// Entity is an opaque identity handle. Two entities are equal iff both the id
// and the generation match; the generation increments each time an id is
// reissued so a stale copy never aliases the entity that reuses its id.
type Entity struct {
	ID         uint32
	Generation uint32
}

func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.ID, e.Generation)
}

// EntityRegistry allocates entity identities with generational ids and a free list.
type EntityRegistry struct {
	free []Entity
	next uint32
}

func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{
		free: make([]Entity, 0, 256),
	}
}

// NewEntity reissues the most recently freed id with its generation bumped,
// or mints a fresh id at generation 0. An id whose generation is already at
// the maximum is retired instead of reissued.
// Panics with ErrRegistryExhausted when the id space runs out.
func (r *EntityRegistry) NewEntity() Entity {
	for len(r.free) > 0 {
		e := r.free[len(r.free)-1]
		r.free = r.free[:len(r.free)-1]
		if e.Generation == math.MaxUint32 {
			continue // retired
		}
		e.Generation++
		return e
	}
	if r.next == math.MaxUint32 {
		panic(eris.Wrapf(ErrRegistryExhausted, "entity id space exhausted at %d", r.next))
	}
	e := Entity{ID: r.next}
	r.next++
	return e
}

// RemoveEntity returns the entity's id to the free list. The caller guarantees
// the entity was live.
func (r *EntityRegistry) RemoveEntity(e Entity) {
	r.free = append(r.free, e)
}

// Minted reports how many distinct ids have been issued.
func (r *EntityRegistry) Minted() uint32 { return r.next }
