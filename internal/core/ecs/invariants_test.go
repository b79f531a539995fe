package ecs

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// checkInvariants verifies the archetype partition and that the entity->slot
// and slot->entity maps are exact inverses.
func checkInvariants(t *testing.T, w *World, live map[Entity]bool) {
	t.Helper()

	seen := make(map[Entity]bool, w.Len())
	for _, a := range w.archetypeList {
		require.True(t, slices.IsSorted(a.ids))
		for row, e := range a.entities {
			require.False(t, seen[e], "entity %s in more than one bucket", e)
			seen[e] = true

			rec, ok := w.record(e)
			require.True(t, ok, "bucket holds dead entity %s", e)
			require.Same(t, a, rec.arch)
			require.Equal(t, row, rec.row)

			ids := make([]ComponentID, 0, len(rec.slots))
			for _, s := range rec.slots {
				ids = append(ids, s.id)
				st := w.storages[s.id]
				require.Equal(t, e, st.owners[s.index], "reverse index disagrees for %s", e)
			}
			require.True(t, slices.IsSorted(ids))
			require.Equal(t, a.key, archetypeKey(ids))
		}
	}
	require.Len(t, seen, w.Len())
	if live != nil {
		require.Len(t, seen, len(live))
		for e := range live {
			require.True(t, seen[e], "live entity %s missing from every bucket", e)
		}
	}

	for id, st := range w.storages {
		if st == nil {
			continue
		}
		require.Equal(t, st.col.Len(), len(st.owners))
		for i, e := range st.owners {
			rec, ok := w.record(e)
			require.True(t, ok, "column %d slot %d owned by dead entity %s", id, i, e)
			j, found := rec.find(ComponentID(id))
			require.True(t, found)
			require.Equal(t, i, rec.slots[j].index)
		}
	}
}
