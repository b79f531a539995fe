package system

import (
	"time"

	"github.com/l1jgo/ecsim/internal/core/ecs"
	"github.com/l1jgo/ecsim/internal/core/event"
	coresys "github.com/l1jgo/ecsim/internal/core/system"
	"go.uber.org/zap"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end and
// announces each removal on the bus.
// Phase 5 (Cleanup).
type CleanupSystem struct {
	world *ecs.World
	bus   *event.Bus
	log   *zap.Logger
	total int
}

func NewCleanupSystem(world *ecs.World, bus *event.Bus, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: world, bus: bus, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	done := s.world.FlushDespawnQueue()
	if len(done) == 0 {
		return
	}
	for _, e := range done {
		event.Emit(s.bus, event.EntityDespawned{Entity: e})
	}
	s.total += len(done)
	s.log.Debug("despawned entities",
		zap.Int("count", len(done)),
		zap.Int("live", s.world.Len()),
	)
}

// Despawned returns the number of entities removed since startup.
func (s *CleanupSystem) Despawned() int { return s.total }
