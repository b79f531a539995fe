package ecs

import (
	"math"
	"reflect"

	"github.com/rotisserie/eris"
)

// ComponentID is a small dense integer assigned once per component type.
type ComponentID uint32

// ComponentRegistry assigns ComponentIDs to component types on first use.
// Ids are never reclaimed.
type ComponentRegistry struct {
	ids   map[reflect.Type]ComponentID
	types []reflect.Type
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		ids:   make(map[reflect.Type]ComponentID, 16),
		types: make([]reflect.Type, 0, 16),
	}
}

// IDFor returns the id for t, assigning the next sequential id on first use.
func (r *ComponentRegistry) IDFor(t reflect.Type) ComponentID {
	if id, ok := r.ids[t]; ok {
		return id
	}
	if uint64(len(r.types)) >= math.MaxUint32 {
		panic(eris.Wrapf(ErrRegistryExhausted, "cannot register component %s", t))
	}
	id := ComponentID(len(r.types))
	r.ids[t] = id
	r.types = append(r.types, t)
	return id
}

// Lookup returns the id for t without registering it.
func (r *ComponentRegistry) Lookup(t reflect.Type) (ComponentID, bool) {
	id, ok := r.ids[t]
	return id, ok
}

// Type returns the component type registered under id.
func (r *ComponentRegistry) Type(id ComponentID) reflect.Type {
	return r.types[id]
}

// Len returns the number of registered component types.
func (r *ComponentRegistry) Len() int { return len(r.types) }

// ID returns the id of component type T in w, registering it if needed.
func ID[T Component](w *World) ComponentID {
	return w.components.IDFor(typeOf[T]())
}
