package system

import (
	"time"

	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
	coresys "github.com/l1jgo/ecsim/internal/core/system"
)

// BoundsSystem queues entities that left the cube [-bounds, bounds]^3 for
// despawn. A zero bounds disables the check.
// Phase 3 (PostUpdate).
type BoundsSystem struct {
	world  *ecs.World
	bounds float32
}

func NewBoundsSystem(world *ecs.World, bounds float32) *BoundsSystem {
	return &BoundsSystem{world: world, bounds: bounds}
}

func (s *BoundsSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *BoundsSystem) Update(_ time.Duration) {
	if s.bounds <= 0 {
		return
	}
	ecs.System1(s.world, ecs.Req[component.Position](), func(e ecs.Entity, p *component.Position) {
		if outside(p.X, s.bounds) || outside(p.Y, s.bounds) || outside(p.Z, s.bounds) {
			s.world.MarkForDespawn(e)
		}
	})
}

func outside(v, bound float32) bool {
	return v < -bound || v > bound
}
