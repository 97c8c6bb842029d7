package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseBehavior Phase = iota // 0: scripted decisions → move intents
	PhaseMovement              // 1: tick-synchronized path stepping
	PhasePersist               // 2: batched position saves
)

// System is the interface every tick-domain system implements. The frame
// domain is not a System — it has its own explicit driver, decoupled from
// the tick clock.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
