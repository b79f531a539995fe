package ecs

import (
	"encoding/binary"
	"slices"
)

// archetype is the bucket of entities holding exactly one component-id set.
type archetype struct {
	key      string
	ids      []ComponentID // sorted, deduplicated
	entities []Entity

	// cached transitions to the neighbouring sets
	adds    map[ComponentID]*archetype
	removes map[ComponentID]*archetype
}

func newArchetype(ids []ComponentID) *archetype {
	return &archetype{
		key:      archetypeKey(ids),
		ids:      ids,
		entities: make([]Entity, 0, 64),
		adds:     make(map[ComponentID]*archetype, 4),
		removes:  make(map[ComponentID]*archetype, 4),
	}
}

// archetypeKey encodes a sorted id set as a map key.
func archetypeKey(ids []ComponentID) string {
	buf := make([]byte, 0, 4*len(ids))
	for _, id := range ids {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(id))
	}
	return string(buf)
}

// push appends e and returns its position.
func (a *archetype) push(e Entity) int {
	a.entities = append(a.entities, e)
	return len(a.entities) - 1
}

// swapRemove removes position i. If another entity moved into i it is
// returned with ok=true so the caller can fix up its position.
func (a *archetype) swapRemove(i int) (moved Entity, ok bool) {
	last := len(a.entities) - 1
	if i != last {
		moved = a.entities[last]
		a.entities[i] = moved
		ok = true
	}
	a.entities = a.entities[:last]
	return moved, ok
}

// has reports whether id is in the set.
func (a *archetype) has(id ComponentID) bool {
	_, found := slices.BinarySearch(a.ids, id)
	return found
}

// containsAll reports whether every id in sorted is in the set.
func (a *archetype) containsAll(sorted []ComponentID) bool {
	i := 0
	for _, want := range sorted {
		for i < len(a.ids) && a.ids[i] < want {
			i++
		}
		if i == len(a.ids) || a.ids[i] != want {
			return false
		}
	}
	return true
}

func (a *archetype) Len() int { return len(a.entities) }

// archetypeWith returns the bucket for from's set plus id, creating it on first use.
func (w *World) archetypeWith(from *archetype, id ComponentID) *archetype {
	if to, ok := from.adds[id]; ok {
		return to
	}
	pos, _ := slices.BinarySearch(from.ids, id)
	ids := slices.Insert(slices.Clone(from.ids), pos, id)
	to := w.archetypeFor(ids)
	from.adds[id] = to
	to.removes[id] = from
	return to
}

// archetypeWithout returns the bucket for from's set minus id.
func (w *World) archetypeWithout(from *archetype, id ComponentID) *archetype {
	if to, ok := from.removes[id]; ok {
		return to
	}
	ids := slices.DeleteFunc(slices.Clone(from.ids), func(c ComponentID) bool { return c == id })
	to := w.archetypeFor(ids)
	from.removes[id] = to
	to.adds[id] = from
	return to
}

func (w *World) archetypeFor(ids []ComponentID) *archetype {
	key := archetypeKey(ids)
	if a, ok := w.archetypes[key]; ok {
		return a
	}
	a := newArchetype(ids)
	w.archetypes[key] = a
	w.archetypeList = append(w.archetypeList, a)
	return a
}
