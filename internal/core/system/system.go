package system

import "time"

// Phase orders systems within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: scripted input
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: simulation
	PhasePostUpdate              // 3: constraints on the new state
	PhaseOutput                  // 4: feed side tables for collaborators
	PhaseCleanup                 // 5: despawn queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre_update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post_update"
	case PhaseOutput:
		return "output"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
