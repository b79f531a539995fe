package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Storable is embedded by a struct to opt it in as a component:
//
//	type Position struct {
//		ecs.Storable
//		X, Y, Z float32
//	}
type Storable struct{}

func (Storable) storable() {}

// Component is the constraint every stored type satisfies by embedding Storable.
type Component interface {
	storable()
}

// column is the type-erased face of a component column. The World only needs
// these operations to maintain structure; values are reached through the
// typed *Column[T] recovered by columnOf.
type column interface {
	Len() int
	// SwapRemove removes index i by moving the last element into it. It
	// returns the index of the element that moved into i, or -1 if i was the
	// last element.
	SwapRemove(i int) int
	// elem is the concrete element type, checked on every typed recovery.
	elem() reflect.Type
}

// Column is a dense, swap-remove sequence of one component type.
// Indices are not stable across removals.
type Column[T Component] struct {
	values []T
}

func newColumn[T Component](capacity int) *Column[T] {
	return &Column[T]{values: make([]T, 0, capacity)}
}

func (c *Column[T]) Len() int { return len(c.values) }

// Push appends v and returns its index.
func (c *Column[T]) Push(v T) int {
	c.values = append(c.values, v)
	return len(c.values) - 1
}

// At returns a pointer to the value at i. The pointer is valid until the next
// structural change of the column.
func (c *Column[T]) At(i int) *T {
	return &c.values[i]
}

func (c *Column[T]) SwapRemove(i int) int {
	last := len(c.values) - 1
	moved := -1
	if i != last {
		c.values[i] = c.values[last]
		moved = last
	}
	var zero T
	c.values[last] = zero // release references held by the vacated slot
	c.values = c.values[:last]
	return moved
}

func (c *Column[T]) elem() reflect.Type {
	return typeOf[T]()
}

// columnOf recovers the concrete column behind col.
// A mismatch means the World's bookkeeping is corrupt and panics.
func columnOf[T Component](col column) *Column[T] {
	c, ok := col.(*Column[T])
	if !ok {
		panic(eris.Wrapf(ErrComponentTypeMismatch, "column holds %s, accessed as %s", col.elem(), typeOf[T]()))
	}
	return c
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
