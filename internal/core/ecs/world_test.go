package ecs

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnPlacesEntityInEmptyArchetype(t *testing.T) {
	w := NewWorld(0)
	e := w.SpawnEntity()
	assert.True(t, w.Alive(e))
	assert.Equal(t, 1, w.Len())
	assert.Equal(t, []Entity{e}, w.empty.entities)
	checkInvariants(t, w, map[Entity]bool{e: true})
}

func TestAddComponentRoundTrip(t *testing.T) {
	w := NewWorld(0)
	e := w.SpawnEntity()
	require.NoError(t, AddComponent(w, e, position{X: 1, Y: 2, Z: 3}))

	p, err := Get[position](w, e)
	require.NoError(t, err)
	assert.Equal(t, position{X: 1, Y: 2, Z: 3}, *p)

	p.X = 10
	p, err = Get[position](w, e)
	require.NoError(t, err)
	assert.Equal(t, float32(10), p.X)

	require.NoError(t, Mutate(w, e, func(p *position) { p.Y = 20 }))
	p, _ = Get[position](w, e)
	assert.Equal(t, float32(20), p.Y)
}

func TestAddComponentDuplicate(t *testing.T) {
	w := NewWorld(0)
	e := w.SpawnEntity()
	require.NoError(t, AddComponent(w, e, position{X: 1}))
	err := AddComponent(w, e, position{X: 2})
	assert.ErrorIs(t, err, ErrDuplicateComponent)

	p, _ := Get[position](w, e)
	assert.Equal(t, float32(1), p.X)
	checkInvariants(t, w, nil)
}

func TestAddComponentMovesArchetype(t *testing.T) {
	w := NewWorld(0)
	e := w.SpawnEntity()
	require.NoError(t, AddComponent(w, e, position{}))
	require.NoError(t, AddComponent(w, e, velocity{}))

	rec, _ := w.record(e)
	assert.Equal(t, []ComponentID{ID[position](w), ID[velocity](w)}, rec.arch.ids)
	assert.Empty(t, w.empty.entities)
	// {}, {position}, {position, velocity}
	assert.Equal(t, 3, w.ArchetypeCount())
}

func TestArchetypeKeyIgnoresInsertionOrder(t *testing.T) {
	w := NewWorld(0)
	a := w.SpawnEntity()
	b := w.SpawnEntity()
	require.NoError(t, AddComponent(w, a, position{}))
	require.NoError(t, AddComponent(w, a, velocity{}))
	require.NoError(t, AddComponent(w, b, velocity{}))
	require.NoError(t, AddComponent(w, b, position{}))

	ra, _ := w.record(a)
	rb, _ := w.record(b)
	assert.Same(t, ra.arch, rb.arch)
	checkInvariants(t, w, nil)
}

func TestArchetypePositionFixupOnTransition(t *testing.T) {
	w := NewWorld(0)
	es := make([]Entity, 3)
	for i := range es {
		es[i] = w.SpawnEntity()
		require.NoError(t, AddComponent(w, es[i], position{}))
	}
	// es[0] leaves {position}; es[2] must take its row
	require.NoError(t, AddComponent(w, es[0], velocity{}))
	r2, _ := w.record(es[2])
	assert.Equal(t, 0, r2.row)
	checkInvariants(t, w, nil)
}

func TestDespawnFixesReverseIndex(t *testing.T) {
	w := NewWorld(0)
	a := w.SpawnEntity()
	b := w.SpawnEntity()
	c := w.SpawnEntity()
	for i, e := range []Entity{a, b, c} {
		require.NoError(t, AddComponent(w, e, position{X: float32(i)}))
	}

	require.NoError(t, w.DespawnEntity(a))
	checkInvariants(t, w, map[Entity]bool{b: true, c: true})

	// c moved into a's old column slot
	rc, _ := w.record(c)
	assert.Equal(t, 0, rc.slots[0].index)
	p, err := Get[position](w, c)
	require.NoError(t, err)
	assert.Equal(t, float32(2), p.X)
	p, err = Get[position](w, b)
	require.NoError(t, err)
	assert.Equal(t, float32(1), p.X)
}

func TestPostDespawnOperationsFail(t *testing.T) {
	w := NewWorld(0)
	e := w.SpawnEntity()
	require.NoError(t, AddComponent(w, e, position{}))
	require.NoError(t, w.DespawnEntity(e))

	_, err := Get[position](w, e)
	assert.ErrorIs(t, err, ErrEntityNotFound)
	assert.ErrorIs(t, AddComponent(w, e, velocity{}), ErrEntityNotFound)
	assert.ErrorIs(t, w.DespawnEntity(e), ErrEntityNotFound)
	assert.ErrorIs(t, RemoveComponent[position](w, e), ErrEntityNotFound)
	assert.ErrorIs(t, Mutate(w, e, func(*position) {}), ErrEntityNotFound)
	assert.False(t, Has[position](w, e))
	assert.False(t, w.Alive(e))
}

func TestStaleHandleDoesNotAliasReusedID(t *testing.T) {
	w := NewWorld(0)
	old := w.SpawnEntity()
	require.NoError(t, AddComponent(w, old, position{X: 1}))
	require.NoError(t, w.DespawnEntity(old))

	reused := w.SpawnEntity()
	require.Equal(t, old.ID, reused.ID)
	require.NotEqual(t, old, reused)
	require.NoError(t, AddComponent(w, reused, position{X: 2}))

	_, err := Get[position](w, old)
	assert.ErrorIs(t, err, ErrEntityNotFound)
	assert.False(t, w.Alive(old))
	assert.True(t, w.Alive(reused))
}

func TestGetMissingComponent(t *testing.T) {
	w := NewWorld(0)
	e := w.SpawnEntity()
	_, err := Get[sprite](w, e)
	assert.ErrorIs(t, err, ErrComponentNotFound)
	assert.False(t, Has[sprite](w, e))
	// reads never register a type
	assert.Equal(t, 0, w.Components().Len())
}

func TestReadReturnsCopy(t *testing.T) {
	w := NewWorld(0)
	e, err := w.Spawn(With(position{X: 1}))
	require.NoError(t, err)

	got, err := Read[position](w, e)
	require.NoError(t, err)
	got.X = 5
	again, err := Read[position](w, e)
	require.NoError(t, err)
	assert.Equal(t, float32(1), again.X)

	_, err = Read[velocity](w, e)
	assert.ErrorIs(t, err, ErrComponentNotFound)
	require.NoError(t, w.DespawnEntity(e))
	_, err = Read[position](w, e)
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestRemoveComponent(t *testing.T) {
	w := NewWorld(0)
	a := w.SpawnEntity()
	b := w.SpawnEntity()
	require.NoError(t, AddComponent(w, a, position{X: 1}))
	require.NoError(t, AddComponent(w, a, velocity{X: 1}))
	require.NoError(t, AddComponent(w, b, position{X: 2}))

	require.NoError(t, RemoveComponent[position](w, a))
	assert.False(t, Has[position](w, a))
	assert.True(t, Has[velocity](w, a))
	assert.ErrorIs(t, RemoveComponent[position](w, a), ErrComponentNotFound)
	assert.ErrorIs(t, RemoveComponent[sprite](w, a), ErrComponentNotFound)

	p, err := Get[position](w, b)
	require.NoError(t, err)
	assert.Equal(t, float32(2), p.X)

	// re-adding after removal is allowed
	require.NoError(t, AddComponent(w, a, position{X: 3}))
	checkInvariants(t, w, map[Entity]bool{a: true, b: true})
}

func TestFlushDespawnQueue(t *testing.T) {
	w := NewWorld(0)
	a := w.SpawnEntity()
	b := w.SpawnEntity()
	w.MarkForDespawn(a)
	w.MarkForDespawn(a)
	w.MarkForDespawn(Entity{ID: 99})

	assert.Equal(t, []Entity{a}, w.FlushDespawnQueue())
	assert.False(t, w.Alive(a))
	assert.True(t, w.Alive(b))
	assert.Nil(t, w.FlushDespawnQueue())
}

func TestEntitiesSnapshot(t *testing.T) {
	w := NewWorld(0)
	a := w.SpawnEntity()
	b := w.SpawnEntity()
	require.NoError(t, AddComponent(w, b, tag{}))
	assert.ElementsMatch(t, []Entity{a, b}, w.Entities())
}

// model mirrors the world state for the randomized test.
type model map[Entity]map[int]float32

func addKind(w *World, e Entity, kind int, v float32) error {
	switch kind {
	case 0:
		return AddComponent(w, e, position{X: v})
	case 1:
		return AddComponent(w, e, velocity{Y: v})
	case 2:
		return AddComponent(w, e, sprite{Name: fmt.Sprint(v)})
	default:
		return AddComponent(w, e, tag{})
	}
}

func removeKind(w *World, e Entity, kind int) error {
	switch kind {
	case 0:
		return RemoveComponent[position](w, e)
	case 1:
		return RemoveComponent[velocity](w, e)
	case 2:
		return RemoveComponent[sprite](w, e)
	default:
		return RemoveComponent[tag](w, e)
	}
}

func checkValues(t *testing.T, w *World, m model) {
	t.Helper()
	for e, held := range m {
		for kind := 0; kind < 4; kind++ {
			v, ok := held[kind]
			switch kind {
			case 0:
				p, err := Get[position](w, e)
				if ok {
					require.NoError(t, err)
					require.Equal(t, v, p.X)
				} else {
					require.ErrorIs(t, err, ErrComponentNotFound)
				}
			case 1:
				p, err := Get[velocity](w, e)
				if ok {
					require.NoError(t, err)
					require.Equal(t, v, p.Y)
				} else {
					require.ErrorIs(t, err, ErrComponentNotFound)
				}
			case 2:
				s, err := Get[sprite](w, e)
				if ok {
					require.NoError(t, err)
					require.Equal(t, fmt.Sprint(v), s.Name)
				} else {
					require.ErrorIs(t, err, ErrComponentNotFound)
				}
			default:
				require.Equal(t, ok, Has[tag](w, e))
			}
		}
	}
}

func TestRandomizedOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	w := NewWorld(16)
	m := model{}
	var dead []Entity
	next := float32(0)

	for step := 0; step < 4000; step++ {
		// bucket order is deterministic, map order is not
		live := w.Entities()

		switch op := rng.Intn(10); {
		case op < 2 || len(live) == 0:
			e := w.SpawnEntity()
			for _, d := range dead {
				require.NotEqual(t, d, e)
			}
			m[e] = map[int]float32{}
		case op < 6:
			e := live[rng.Intn(len(live))]
			kind := rng.Intn(4)
			next++
			err := addKind(w, e, kind, next)
			if _, held := m[e][kind]; held {
				require.ErrorIs(t, err, ErrDuplicateComponent)
			} else {
				require.NoError(t, err)
				m[e][kind] = next
			}
		case op < 8:
			e := live[rng.Intn(len(live))]
			kind := rng.Intn(4)
			err := removeKind(w, e, kind)
			if _, held := m[e][kind]; held {
				require.NoError(t, err)
				delete(m[e], kind)
			} else {
				require.ErrorIs(t, err, ErrComponentNotFound)
			}
		default:
			e := live[rng.Intn(len(live))]
			require.NoError(t, w.DespawnEntity(e))
			delete(m, e)
			dead = append(dead, e)
		}

		expected := make(map[Entity]bool, len(m))
		for e := range m {
			expected[e] = true
		}
		checkInvariants(t, w, expected)
		if step%50 == 0 {
			checkValues(t, w, m)
		}
	}
	checkValues(t, w, m)

	for _, d := range dead {
		assert.False(t, w.Alive(d))
	}
}
