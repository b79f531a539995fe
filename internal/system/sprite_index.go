package system

import (
	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
	"github.com/l1jgo/ecsim/internal/core/event"
)

// SpriteEntry is what a mesh builder needs to draw one entity.
type SpriteEntry struct {
	Texture  string
	Position component.Position
}

// SpriteIndex is the renderer-facing side table, keyed by entity. Entries are
// refreshed by MovementSystem and dropped when EntityDespawned is delivered.
type SpriteIndex struct {
	entries map[ecs.Entity]SpriteEntry
}

// NewSpriteIndex subscribes the index to bus.
func NewSpriteIndex(bus *event.Bus) *SpriteIndex {
	idx := &SpriteIndex{entries: make(map[ecs.Entity]SpriteEntry, 64)}
	event.Subscribe(bus, func(ev event.EntityDespawned) {
		idx.Remove(ev.Entity)
	})
	return idx
}

func (idx *SpriteIndex) Put(e ecs.Entity, texture string, pos component.Position) {
	idx.entries[e] = SpriteEntry{Texture: texture, Position: pos}
}

func (idx *SpriteIndex) Get(e ecs.Entity) (SpriteEntry, bool) {
	entry, ok := idx.entries[e]
	return entry, ok
}

func (idx *SpriteIndex) Remove(e ecs.Entity) {
	delete(idx.entries, e)
}

func (idx *SpriteIndex) Len() int { return len(idx.entries) }
