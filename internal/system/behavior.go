package system

import (
	"math/rand"
	"time"

	"github.com/wildsim/server/internal/core/event"
	coresys "github.com/wildsim/server/internal/core/system"
	"github.com/wildsim/server/internal/pathfind"
	"github.com/wildsim/server/internal/scripting"
	"github.com/wildsim/server/internal/world"
	"go.uber.org/zap"
)

// BehaviorSystem drives entity decisions via Lua: Go handles iteration,
// cooldown bookkeeping and command execution, Lua decides what to do.
// Phase 0 (Behavior).
type BehaviorSystem struct {
	world  *world.State
	grid   *pathfind.CostGrid
	engine *scripting.Engine
	log    *zap.Logger

	cooldown        map[world.EntityID]int
	defaultCooldown int
}

func NewBehaviorSystem(ws *world.State, grid *pathfind.CostGrid, engine *scripting.Engine, bus *event.Bus, defaultCooldown int, log *zap.Logger) *BehaviorSystem {
	s := &BehaviorSystem{
		world:           ws,
		grid:            grid,
		engine:          engine,
		log:             log,
		cooldown:        make(map[world.EntityID]int, 256),
		defaultCooldown: defaultCooldown,
	}

	// Forward movement outcomes to the script callbacks.
	event.Subscribe(bus, func(ev event.MoveFinished) {
		s.engine.OnArrival(uint64(ev.Entity), int(ev.At.X), int(ev.At.Y))
	})
	event.Subscribe(bus, func(ev event.MoveFailed) {
		s.engine.OnPathFailed(uint64(ev.Entity), int(ev.Destination.X), int(ev.Destination.Y), string(ev.Reason))
	})

	return s
}

func (s *BehaviorSystem) Phase() coresys.Phase { return coresys.PhaseBehavior }

func (s *BehaviorSystem) Update(_ time.Duration) {
	s.world.EachActor(func(id world.EntityID, info *world.ActorInfo) {
		if cd := s.cooldown[id]; cd > 0 {
			s.cooldown[id] = cd - 1
			return
		}
		pos, ok := s.world.GetPosition(id)
		if !ok {
			return
		}

		cmds := s.engine.Decide(scripting.BehaviorContext{
			Entity:       uint64(id),
			Species:      info.Species,
			X:            int(pos.X),
			Y:            int(pos.Y),
			Moving:       s.world.IsMoving(id),
			WanderRadius: int(info.WanderRadius),
		})

		s.cooldown[id] = s.defaultCooldown
		for _, cmd := range cmds {
			switch cmd.Type {
			case "move_to":
				s.world.IssueMoveOrder(id, pathfind.Coord{X: int32(cmd.X), Y: int32(cmd.Y)})
			case "wander":
				if target, ok := s.wanderTarget(pos, info.WanderRadius); ok {
					s.world.IssueMoveOrder(id, target)
				}
			case "stop":
				s.world.StopMovement(id)
			case "idle":
				if cmd.Ticks > 0 {
					s.cooldown[id] = cmd.Ticks
				}
			default:
				s.log.Warn("unknown behavior command",
					zap.String("type", cmd.Type),
					zap.Uint64("entity", uint64(id)))
			}
		}
	})
}

// wanderTarget picks a random walkable tile within radius of pos. Gives up
// after a handful of attempts on crowded terrain.
func (s *BehaviorSystem) wanderTarget(pos pathfind.Coord, radius int32) (pathfind.Coord, bool) {
	if radius < 1 {
		radius = 1
	}
	span := radius*2 + 1
	for try := 0; try < 8; try++ {
		c := pathfind.Coord{
			X: pos.X + rand.Int31n(span) - radius,
			Y: pos.Y + rand.Int31n(span) - radius,
		}
		if c != pos && s.grid.Walkable(c) {
			return c, true
		}
	}
	return pathfind.Coord{}, false
}
