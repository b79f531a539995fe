package system

import (
	"fmt"
	"math/rand"

	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
	"github.com/l1jgo/ecsim/internal/core/event"
	"github.com/l1jgo/ecsim/internal/data"
	"go.uber.org/zap"
)

// Spawner turns entity templates into live entities. Scenario loading and Lua
// scripts both go through it, so every spawn emits EntitySpawned.
type Spawner struct {
	world *ecs.World
	bus   *event.Bus
	rng   *rand.Rand
	log   *zap.Logger
}

// NewSpawner seeds its own RNG; spread offsets are reproducible per seed.
func NewSpawner(world *ecs.World, bus *event.Bus, seed int64, log *zap.Logger) *Spawner {
	return &Spawner{
		world: world,
		bus:   bus,
		rng:   rand.New(rand.NewSource(seed)),
		log:   log,
	}
}

// SpawnScenario spawns every template in file order and returns how many
// entities were created.
func (s *Spawner) SpawnScenario(sc *data.Scenario) (int, error) {
	n := 0
	for _, t := range sc.Templates() {
		spawned, err := s.SpawnTemplate(t)
		n += len(spawned)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// SpawnTemplate spawns t.Count entities. A nil Position or Velocity, an empty
// Sprite or a zero Lifetime leaves that component off.
func (s *Spawner) SpawnTemplate(t data.EntityTemplate) ([]ecs.Entity, error) {
	out := make([]ecs.Entity, 0, min(t.Count, 64))
	for i := 0; i < t.Count; i++ {
		e, err := s.world.Spawn(s.bundles(t)...)
		if err != nil {
			return out, fmt.Errorf("spawn %s #%d: %w", t.Name, i, err)
		}
		out = append(out, e)
		event.Emit(s.bus, event.EntitySpawned{Entity: e, Name: t.Name})
	}
	s.log.Debug("spawned template",
		zap.String("name", t.Name),
		zap.Int("count", len(out)),
	)
	return out, nil
}

// Despawn defers e's removal to CleanupSystem.
func (s *Spawner) Despawn(e ecs.Entity) {
	s.world.MarkForDespawn(e)
}

func (s *Spawner) Alive(e ecs.Entity) bool {
	return s.world.Alive(e)
}

func (s *Spawner) bundles(t data.EntityTemplate) []ecs.Bundle {
	bs := make([]ecs.Bundle, 0, 4)
	if t.Position != nil {
		p := component.Position{X: t.Position.X, Y: t.Position.Y, Z: t.Position.Z}
		if t.Spread > 0 {
			p.X += s.offset(t.Spread)
			p.Y += s.offset(t.Spread)
			p.Z += s.offset(t.Spread)
		}
		bs = append(bs, ecs.With(p))
	}
	if t.Velocity != nil {
		bs = append(bs, ecs.With(component.Velocity{X: t.Velocity.X, Y: t.Velocity.Y, Z: t.Velocity.Z}))
	}
	if t.Sprite != "" {
		bs = append(bs, ecs.With(component.Sprite{TextureName: t.Sprite}))
	}
	if t.Lifetime > 0 {
		bs = append(bs, ecs.With(component.Lifetime{Ticks: t.Lifetime}))
	}
	return bs
}

// offset returns a value in [-spread, spread).
func (s *Spawner) offset(spread float32) float32 {
	return (s.rng.Float32()*2 - 1) * spread
}
