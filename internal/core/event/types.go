package event

import "github.com/l1jgo/ecsim/internal/core/ecs"

// EntitySpawned is emitted when a template or script creates an entity.
type EntitySpawned struct {
	Entity ecs.Entity
	Name   string
}

// EntityDespawned is emitted once the entity has left the world.
type EntityDespawned struct {
	Entity ecs.Entity
}
