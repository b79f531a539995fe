package system

import (
	"time"

	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
	coresys "github.com/l1jgo/ecsim/internal/core/system"
)

// MovementSystem applies Velocity to Position once per tick and publishes
// sprite-bearing entities to the SpriteIndex.
// Phase 2 (Update).
type MovementSystem struct {
	world   *ecs.World
	sprites *SpriteIndex
	moved   int // entities moved during the last tick
}

func NewMovementSystem(world *ecs.World, sprites *SpriteIndex) *MovementSystem {
	return &MovementSystem{world: world, sprites: sprites}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(_ time.Duration) {
	s.moved = ecs.System3(s.world,
		ecs.Req[component.Position](),
		ecs.Req[component.Velocity](),
		ecs.Opt[component.Sprite](),
		func(e ecs.Entity, pos *component.Position, vel *component.Velocity, sprite *component.Sprite) {
			pos.X += vel.X
			pos.Y += vel.Y
			pos.Z += vel.Z
			if sprite != nil {
				s.sprites.Put(e, sprite.TextureName, *pos)
			}
		})
}

// Moved returns how many entities the last Update moved.
func (s *MovementSystem) Moved() int { return s.moved }
