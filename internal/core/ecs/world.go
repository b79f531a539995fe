package ecs

import (
	"cmp"
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// slot maps one held component id to the entity's index in that column.
type slot struct {
	id    ComponentID
	index int
}

// record is the per-entity bookkeeping for a live entity.
type record struct {
	entity Entity
	slots  []slot // sorted by id; doubles as the entity's archetype id set
	arch   *archetype
	row    int // position inside arch.entities
}

func (r *record) find(id ComponentID) (int, bool) {
	return slices.BinarySearchFunc(r.slots, id, func(s slot, id ComponentID) int {
		return cmp.Compare(s.id, id)
	})
}

// storage pairs a column with its reverse index: owners[i] is the entity
// occupying column index i.
type storage struct {
	col    column
	owners []Entity
}

// World owns every column, both registries, the entity<->slot maps and the
// archetype partition. It is not safe for concurrent use.
type World struct {
	entities   *EntityRegistry
	components *ComponentRegistry
	records    *intmap.Map[uint32, *record]
	storages   []*storage // indexed by ComponentID, nil until first value

	archetypes    map[string]*archetype
	archetypeList []*archetype
	empty         *archetype

	despawnQueue []Entity
	capacity     int

	// structural changes requested while a system pass is running
	dispatching int
	pending     []func()
}

// NewWorld creates an empty world sized for roughly capacity entities.
func NewWorld(capacity int) *World {
	if capacity <= 0 {
		capacity = 256
	}
	w := &World{
		entities:      NewEntityRegistry(),
		components:    NewComponentRegistry(),
		records:       intmap.New[uint32, *record](capacity),
		storages:      make([]*storage, 0, 16),
		archetypes:    make(map[string]*archetype, 16),
		archetypeList: make([]*archetype, 0, 16),
		despawnQueue:  make([]Entity, 0, 64),
		capacity:      capacity,
	}
	w.empty = w.archetypeFor(nil)
	return w
}

func (w *World) Components() *ComponentRegistry { return w.components }

// record returns the live record for e, rejecting stale generations.
func (w *World) record(e Entity) (*record, bool) {
	rec, ok := w.records.Get(e.ID)
	if !ok || rec.entity != e {
		return nil, false
	}
	return rec, true
}

// mustRecord is used for entities the World's own indexes name as live.
func (w *World) mustRecord(e Entity) *record {
	rec, ok := w.record(e)
	if !ok {
		panic(eris.Wrapf(ErrEntityNotFound, "index references dead entity %s", e))
	}
	return rec
}

// Alive reports whether e is currently live.
func (w *World) Alive(e Entity) bool {
	_, ok := w.record(e)
	return ok
}

// Len returns the number of live entities.
func (w *World) Len() int { return w.records.Len() }

// ArchetypeCount returns the number of archetype buckets created so far,
// including empty ones.
func (w *World) ArchetypeCount() int { return len(w.archetypeList) }

// Entities returns a snapshot of every live entity.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, w.Len())
	for _, a := range w.archetypeList {
		out = append(out, a.entities...)
	}
	return out
}

// beginDispatch and endDispatch bracket a system pass. While any pass is
// running, despawns and component adds and removes are validated against the
// current state, queued, and applied in request order once the outermost pass
// returns. Column storage therefore never moves under a *T held by a callback.
func (w *World) beginDispatch() { w.dispatching++ }

func (w *World) endDispatch() {
	w.dispatching--
	if w.dispatching > 0 {
		return
	}
	for len(w.pending) > 0 {
		ops := w.pending
		w.pending = nil
		for _, op := range ops {
			op()
		}
	}
}

// deferring reports whether structural changes must be queued.
func (w *World) deferring() bool { return w.dispatching > 0 }

// SpawnEntity allocates an entity with no components. It lives in the
// empty-set archetype until its first component is added.
func (w *World) SpawnEntity() Entity {
	e := w.entities.NewEntity()
	rec := &record{entity: e, arch: w.empty}
	rec.row = w.empty.push(e)
	w.records.Put(e.ID, rec)
	return e
}

// DespawnEntity evicts e from its archetype and every column, then frees its
// id. Inside a system pass the despawn is applied when the pass returns.
func (w *World) DespawnEntity(e Entity) error {
	rec, ok := w.record(e)
	if !ok {
		return eris.Wrapf(ErrEntityNotFound, "despawn %s", e)
	}
	if w.deferring() {
		w.pending = append(w.pending, func() { _ = w.DespawnEntity(e) })
		return nil
	}
	w.leaveArchetype(rec)
	for _, s := range rec.slots {
		w.evict(s)
	}
	rec.slots = nil
	rec.arch = nil
	w.records.Del(e.ID)
	w.entities.RemoveEntity(e)
	return nil
}

// MarkForDespawn queues e for the next FlushDespawnQueue. Safe to call from
// inside a system callback.
func (w *World) MarkForDespawn(e Entity) {
	w.despawnQueue = append(w.despawnQueue, e)
}

// FlushDespawnQueue despawns every queued entity that is still live and
// returns those actually despawned. Stale and repeated entries are skipped.
func (w *World) FlushDespawnQueue() []Entity {
	if len(w.despawnQueue) == 0 {
		return nil
	}
	done := make([]Entity, 0, len(w.despawnQueue))
	for _, e := range w.despawnQueue {
		if w.DespawnEntity(e) == nil {
			done = append(done, e)
		}
	}
	w.despawnQueue = w.despawnQueue[:0]
	return done
}

// leaveArchetype swap-removes rec from its bucket and fixes up the position
// of whichever entity moved into the vacated row.
func (w *World) leaveArchetype(rec *record) {
	if moved, ok := rec.arch.swapRemove(rec.row); ok {
		w.mustRecord(moved).row = rec.row
	}
}

// moveArchetype relocates rec from its current bucket to to.
func (w *World) moveArchetype(rec *record, to *archetype) {
	w.leaveArchetype(rec)
	rec.arch = to
	rec.row = to.push(rec.entity)
}

// evict swap-removes s from its column. The entity that moved into the freed
// index is read from the reverse index before that entry is overwritten.
func (w *World) evict(s slot) {
	st := w.storages[s.id]
	last := len(st.owners) - 1
	if moved := st.col.SwapRemove(s.index); moved >= 0 {
		mover := st.owners[moved]
		st.owners[s.index] = mover
		rec := w.mustRecord(mover)
		i, found := rec.find(s.id)
		if !found {
			panic(eris.Wrapf(ErrComponentTypeMismatch, "reverse index names %s for component %d it does not hold", mover, s.id))
		}
		rec.slots[i].index = s.index
	}
	st.owners[last] = Entity{}
	st.owners = st.owners[:last]
}

// storageFor returns the storage for id, creating a Column[T] on first use.
func storageFor[T Component](w *World, id ComponentID) *storage {
	for int(id) >= len(w.storages) {
		w.storages = append(w.storages, nil)
	}
	st := w.storages[id]
	if st == nil {
		n := min(w.capacity, 64)
		st = &storage{col: newColumn[T](n), owners: make([]Entity, 0, n)}
		w.storages[id] = st
	}
	return st
}

// AddComponent attaches v to e and moves e to the archetype for its new set.
// Inside a system pass the add is applied when the pass returns; a second add
// of the same type queued in one pass is dropped.
func AddComponent[T Component](w *World, e Entity, v T) error {
	rec, ok := w.record(e)
	if !ok {
		return eris.Wrapf(ErrEntityNotFound, "add %s to %s", typeOf[T](), e)
	}
	id := ID[T](w)
	pos, found := rec.find(id)
	if found {
		return eris.Wrapf(ErrDuplicateComponent, "add %s to %s", typeOf[T](), e)
	}
	if w.deferring() {
		w.pending = append(w.pending, func() { _ = AddComponent(w, e, v) })
		return nil
	}

	st := storageFor[T](w, id)
	index := columnOf[T](st.col).Push(v)
	st.owners = append(st.owners, e)
	rec.slots = slices.Insert(rec.slots, pos, slot{id: id, index: index})

	w.moveArchetype(rec, w.archetypeWith(rec.arch, id))
	return nil
}

// RemoveComponent detaches T from e and moves e to the archetype for its
// reduced set. Inside a system pass the removal is applied when the pass
// returns.
func RemoveComponent[T Component](w *World, e Entity) error {
	rec, ok := w.record(e)
	if !ok {
		return eris.Wrapf(ErrEntityNotFound, "remove %s from %s", typeOf[T](), e)
	}
	id, ok := w.components.Lookup(typeOf[T]())
	if !ok {
		return eris.Wrapf(ErrComponentNotFound, "remove %s from %s", typeOf[T](), e)
	}
	pos, found := rec.find(id)
	if !found {
		return eris.Wrapf(ErrComponentNotFound, "remove %s from %s", typeOf[T](), e)
	}
	if w.deferring() {
		w.pending = append(w.pending, func() { _ = RemoveComponent[T](w, e) })
		return nil
	}

	w.evict(rec.slots[pos])
	rec.slots = slices.Delete(rec.slots, pos, pos+1)

	w.moveArchetype(rec, w.archetypeWithout(rec.arch, id))
	return nil
}

// Get returns a pointer to e's T. The pointer is valid only until the next
// add, remove or despawn touching the T column; prefer Read for a copy, or
// Mutate or a system callback, which scope the reference for you.
func Get[T Component](w *World, e Entity) (*T, error) {
	rec, ok := w.record(e)
	if !ok {
		return nil, eris.Wrapf(ErrEntityNotFound, "get %s of %s", typeOf[T](), e)
	}
	v, ok := fetch[T](w, rec, componentID[T](w))
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotFound, "get %s of %s", typeOf[T](), e)
	}
	return v, nil
}

// Read returns a copy of e's T.
func Read[T Component](w *World, e Entity) (T, error) {
	v, err := Get[T](w, e)
	if err != nil {
		var zero T
		return zero, err
	}
	return *v, nil
}

// Mutate runs fn with e's T.
func Mutate[T Component](w *World, e Entity, fn func(*T)) error {
	v, err := Get[T](w, e)
	if err != nil {
		return err
	}
	fn(v)
	return nil
}

// Has reports whether e is live and holds a T.
func Has[T Component](w *World, e Entity) bool {
	rec, ok := w.record(e)
	if !ok {
		return false
	}
	_, ok = fetch[T](w, rec, componentID[T](w))
	return ok
}

// componentID looks up T's id without registering it; -1 when T was never stored.
func componentID[T Component](w *World) int64 {
	id, ok := w.components.Lookup(typeOf[T]())
	if !ok {
		return -1
	}
	return int64(id)
}

// fetch returns rec's value in column id, or false when rec does not hold it.
func fetch[T Component](w *World, rec *record, id int64) (*T, bool) {
	if id < 0 {
		return nil, false
	}
	i, found := rec.find(ComponentID(id))
	if !found {
		return nil, false
	}
	s := rec.slots[i]
	return columnOf[T](w.storages[s.id].col).At(s.index), true
}
