package ecs

import "slices"

// Param selects the component fetched at one position of a system query.
// Req positions must be present for the callback to run; Opt positions yield
// a nil pointer when absent and never cause the entity to be skipped.
type Param[T Component] struct {
	optional bool
}

// Req fetches *T and skips entities that lack T.
func Req[T Component]() Param[T] { return Param[T]{} }

// Opt fetches *T, nil when the entity lacks T.
func Opt[T Component]() Param[T] { return Param[T]{optional: true} }

// term is a Param bound to a world's component ids.
type term[T Component] struct {
	id       int64 // -1 when T has never been stored
	optional bool
}

func (p Param[T]) bind(w *World, pl *plan) term[T] {
	t := term[T]{id: componentID[T](w), optional: p.optional}
	if !t.optional {
		pl.require(t.id)
	}
	return t
}

// get reports ok=false only when a required component is missing.
func (t term[T]) get(w *World, rec *record) (*T, bool) {
	v, ok := fetch[T](w, rec, t.id)
	if !ok {
		return nil, t.optional
	}
	return v, true
}

// plan accumulates the required ids of a query.
type plan struct {
	required []ComponentID
	empty    bool // some required type was never stored, nothing can match
}

func (p *plan) require(id int64) {
	if id < 0 {
		p.empty = true
		return
	}
	p.required = append(p.required, ComponentID(id))
}

// snapshot freezes the candidate entities before any callback runs: every
// entity whose archetype holds all required ids.
func (w *World) snapshot(p *plan) []Entity {
	if p.empty {
		return nil
	}
	slices.Sort(p.required)
	p.required = slices.Compact(p.required)

	var out []Entity
	for _, a := range w.archetypeList {
		if len(a.entities) == 0 || !a.containsAll(p.required) {
			continue
		}
		out = append(out, a.entities...)
	}
	return out
}

// candidate re-validates a snapshot entry against the live records.
func (w *World) candidate(e Entity) (*record, bool) {
	return w.record(e)
}
