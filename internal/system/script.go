package system

import (
	"time"

	coresys "github.com/l1jgo/ecsim/internal/core/system"
	"github.com/l1jgo/ecsim/internal/scripting"
	"go.uber.org/zap"
)

// ScriptSystem calls the Lua on_tick hook once per tick. Script errors are
// logged and do not stop the loop.
// Phase 2 (Update).
type ScriptSystem struct {
	lua  *scripting.Engine
	log  *zap.Logger
	tick uint64
}

func NewScriptSystem(lua *scripting.Engine, log *zap.Logger) *ScriptSystem {
	return &ScriptSystem{lua: lua, log: log}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScriptSystem) Update(_ time.Duration) {
	s.tick++
	if err := s.lua.OnTick(s.tick); err != nil {
		s.log.Error("lua on_tick failed", zap.Uint64("tick", s.tick), zap.Error(err))
	}
}
