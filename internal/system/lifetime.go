package system

import (
	"time"

	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
	coresys "github.com/l1jgo/ecsim/internal/core/system"
)

// LifetimeSystem counts Lifetime down and queues expired entities for despawn.
// Phase 2 (Update).
type LifetimeSystem struct {
	world *ecs.World
}

func NewLifetimeSystem(world *ecs.World) *LifetimeSystem {
	return &LifetimeSystem{world: world}
}

func (s *LifetimeSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *LifetimeSystem) Update(_ time.Duration) {
	ecs.System1(s.world, ecs.Req[component.Lifetime](), func(e ecs.Entity, l *component.Lifetime) {
		l.Ticks--
		if l.Ticks <= 0 {
			s.world.MarkForDespawn(e)
		}
	})
}
