package component

import "github.com/l1jgo/ecsim/internal/core/ecs"

// Lifetime counts down once per tick; the entity is despawned at zero.
type Lifetime struct {
	ecs.Storable
	Ticks int
}
