package component

import "github.com/l1jgo/ecsim/internal/core/ecs"

// Position is an entity's location in world units.
// Pure data; systems do all the mutation.
type Position struct {
	ecs.Storable
	X, Y, Z float32
}

// Velocity is the per-tick displacement applied by MovementSystem.
type Velocity struct {
	ecs.Storable
	X, Y, Z float32
}
