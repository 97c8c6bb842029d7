package system

import (
	"errors"

	"github.com/wildsim/server/internal/core/event"
	"github.com/wildsim/server/internal/pathfind"
	"github.com/wildsim/server/internal/world"
	"go.uber.org/zap"
)

// LifecycleSystem turns move intents into solved paths. It belongs to the
// frame-rate scheduling domain: the host calls RunFrame at whatever cadence
// it likes, independent of the tick clock. The solver runs synchronously
// inside the pass, so no request survives the frame that ingests it.
type LifecycleSystem struct {
	world    *world.State
	grid     *pathfind.CostGrid
	bus      *event.Bus
	log      *zap.Logger
	maxSteps int
}

func NewLifecycleSystem(ws *world.State, grid *pathfind.CostGrid, bus *event.Bus, maxSteps int, log *zap.Logger) *LifecycleSystem {
	return &LifecycleSystem{world: ws, grid: grid, bus: bus, log: log, maxSteps: maxSteps}
}

// RunFrame ingests every pending move intent. Two intents for the same
// entity in one frame have already collapsed to the last one observed; no
// intent is solved twice. A solver failure is recovered here — it never
// aborts the frame or any other entity's processing.
func (s *LifecycleSystem) RunFrame() {
	intents := s.world.TakeIntents()
	for id, intent := range intents {
		info, ok := s.world.Info(id)
		if !ok {
			continue
		}
		start, ok := s.world.GetPosition(id)
		if !ok {
			continue
		}

		// Supersession: the newest intent wins. Whatever path the
		// entity was walking is discarded wholesale — expected
		// control flow, not a failure.
		s.world.ClearPath(id)

		opts := pathfind.Options{
			AllowDiagonal: info.AllowDiagonal,
			MaxSteps:      s.maxSteps,
		}
		s.world.SetPending(id, world.PendingRequest{Start: start, Goal: intent.Destination, Opts: opts})
		waypoints, err := pathfind.FindPath(s.grid, start, intent.Destination, opts)
		s.world.ClearPending(id)

		if err != nil {
			event.Emit(s.bus, event.MoveFailed{
				Entity:      id,
				Destination: intent.Destination,
				Reason:      failReason(err),
			})
			s.log.Debug("move order failed",
				zap.Uint64("entity", uint64(id)),
				zap.Int32("goal_x", intent.Destination.X),
				zap.Int32("goal_y", intent.Destination.Y),
				zap.Error(err))
			continue
		}
		if len(waypoints) == 0 {
			// Already standing on the destination.
			event.Emit(s.bus, event.MoveFinished{Entity: id, At: start})
			continue
		}

		s.world.AttachPath(id, waypoints, info.TicksPerMove)
	}
}

func failReason(err error) event.FailReason {
	switch {
	case errors.Is(err, pathfind.ErrStepLimitExceeded):
		return event.FailStepLimit
	case errors.Is(err, pathfind.ErrInvalidDestination):
		return event.FailInvalidDestination
	default:
		return event.FailNoPath
	}
}
