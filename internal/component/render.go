package component

import "github.com/l1jgo/ecsim/internal/core/ecs"

// Sprite names the texture a mesh builder draws for the entity.
type Sprite struct {
	ecs.Storable
	TextureName string
}
