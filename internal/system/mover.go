package system

import (
	"time"

	"github.com/wildsim/server/internal/core/event"
	coresys "github.com/wildsim/server/internal/core/system"
	"github.com/wildsim/server/internal/world"
	"go.uber.org/zap"
)

// MoverSystem advances every moving entity by at most one waypoint per tick.
// Position is a step function of tick count: an entity with ticks_per_move=n
// commits a tile exactly every n ticks and holds still in between. Phase 1
// (Movement).
type MoverSystem struct {
	world *world.State
	bus   *event.Bus
	log   *zap.Logger
}

func NewMoverSystem(ws *world.State, bus *event.Bus, log *zap.Logger) *MoverSystem {
	return &MoverSystem{world: ws, bus: bus, log: log}
}

func (s *MoverSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *MoverSystem) Update(_ time.Duration) {
	s.world.EachMoving(func(id world.EntityID, path *world.ComputedPath, ms *world.MovementState) {
		ms.TicksSinceMove++
		if ms.TicksSinceMove < ms.TicksPerMove {
			return // between steps
		}
		ms.TicksSinceMove = 0

		next, ok := path.NextWaypoint()
		if !ok {
			// Empty path should never be attached; clean up quietly.
			s.world.ClearPath(id)
			return
		}

		s.world.SetPosition(id, next)
		path.Advance()

		if path.Exhausted() {
			s.world.ClearPath(id)
			event.Emit(s.bus, event.MoveFinished{Entity: id, At: next})
		}
	})
}
