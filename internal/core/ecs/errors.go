package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned when an operation references an entity that
	// is not live: never spawned, already despawned, or a stale generation.
	ErrEntityNotFound = eris.New("entity not found")

	// ErrDuplicateComponent is returned by AddComponent when the entity already
	// holds a component of that type.
	ErrDuplicateComponent = eris.New("component already on entity")

	// ErrComponentNotFound is returned when a live entity lacks the requested
	// component type.
	ErrComponentNotFound = eris.New("component not on entity")

	// ErrRegistryExhausted is raised (via panic) when the entity id space, or the
	// component id space, runs out. There is no safe continuation.
	ErrRegistryExhausted = eris.New("registry exhausted")

	// ErrComponentTypeMismatch is raised (via panic) when a column is accessed
	// with the wrong concrete type. Unreachable through the typed API.
	ErrComponentTypeMismatch = eris.New("component type mismatch")
)

func entityNotFound(e Entity) error {
	return eris.Wrapf(ErrEntityNotFound, "entity %s", e)
}
