package system

import (
	"testing"

	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
	"github.com/l1jgo/ecsim/internal/core/event"
	"github.com/l1jgo/ecsim/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	world   *ecs.World
	bus     *event.Bus
	spawner *Spawner
}

func newHarness(seed int64) *harness {
	w := ecs.NewWorld(0)
	bus := event.NewBus()
	return &harness{world: w, bus: bus, spawner: NewSpawner(w, bus, seed, zap.NewNop())}
}

func TestSpawnTemplateAttachesOnlyGivenComponents(t *testing.T) {
	h := newHarness(1)

	player, err := h.spawner.SpawnTemplate(data.EntityTemplate{
		Name:     "player",
		Count:    1,
		Position: &data.Vec3{X: 6, Y: 6},
		Velocity: &data.Vec3{X: -0.01, Y: -0.01},
		Sprite:   "grass",
	})
	require.NoError(t, err)
	require.Len(t, player, 1)
	e := player[0]

	pos, err := ecs.Read[component.Position](h.world, e)
	require.NoError(t, err)
	assert.Equal(t, float32(6), pos.X)
	assert.True(t, ecs.Has[component.Velocity](h.world, e))
	sprite, err := ecs.Read[component.Sprite](h.world, e)
	require.NoError(t, err)
	assert.Equal(t, "grass", sprite.TextureName)
	assert.False(t, ecs.Has[component.Lifetime](h.world, e))

	bare, err := h.spawner.SpawnTemplate(data.EntityTemplate{Name: "bare", Count: 2})
	require.NoError(t, err)
	require.Len(t, bare, 2)
	for _, b := range bare {
		assert.True(t, h.world.Alive(b))
		assert.False(t, ecs.Has[component.Position](h.world, b))
	}
	assert.Equal(t, 3, h.world.Len())
}

func TestSpawnTemplateEmitsSpawnedNextTick(t *testing.T) {
	h := newHarness(1)
	var names []string
	event.Subscribe(h.bus, func(ev event.EntitySpawned) { names = append(names, ev.Name) })

	_, err := h.spawner.SpawnTemplate(data.EntityTemplate{Name: "spark", Count: 3})
	require.NoError(t, err)
	assert.Empty(t, names)

	NewEventDispatchSystem(h.bus).Update(0)
	assert.Equal(t, []string{"spark", "spark", "spark"}, names)
}

func TestSpreadIsSeededAndBounded(t *testing.T) {
	tmpl := data.EntityTemplate{Name: "cloud", Count: 20, Position: &data.Vec3{X: 10}, Spread: 2}

	positions := func(seed int64) []component.Position {
		h := newHarness(seed)
		es, err := h.spawner.SpawnTemplate(tmpl)
		require.NoError(t, err)
		out := make([]component.Position, 0, len(es))
		for _, e := range es {
			p, err := ecs.Read[component.Position](h.world, e)
			require.NoError(t, err)
			out = append(out, p)
		}
		return out
	}

	a, b := positions(7), positions(7)
	assert.Equal(t, a, b)
	for _, p := range a {
		assert.InDelta(t, 10, p.X, 2)
		assert.InDelta(t, 0, p.Y, 2)
		assert.InDelta(t, 0, p.Z, 2)
	}
	assert.NotEqual(t, a, positions(8))
}

func TestSpawnScenario(t *testing.T) {
	sc, err := data.ParseScenario([]byte(`
entities:
  - name: player
    position: {x: 6, y: 6, z: 0}
  - name: spark
    count: 4
    lifetime: 2
`))
	require.NoError(t, err)

	h := newHarness(1)
	n, err := h.spawner.SpawnScenario(sc)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, h.world.Len())
}

func TestSpawnerDespawnIsDeferred(t *testing.T) {
	h := newHarness(1)
	es, err := h.spawner.SpawnTemplate(data.EntityTemplate{Name: "x", Count: 1})
	require.NoError(t, err)

	h.spawner.Despawn(es[0])
	assert.True(t, h.spawner.Alive(es[0]))
	h.world.FlushDespawnQueue()
	assert.False(t, h.spawner.Alive(es[0]))
}
