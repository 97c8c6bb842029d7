package sim

import (
	"time"

	"github.com/wildsim/server/internal/core/event"
	coresys "github.com/wildsim/server/internal/core/system"
	"github.com/wildsim/server/internal/pathfind"
	"github.com/wildsim/server/internal/system"
	"github.com/wildsim/server/internal/world"
	"go.uber.org/zap"
)

// TerrainOracle is the per-tile query consumed from the world/terrain
// collaborator when changed coordinates are reported.
type TerrainOracle interface {
	CostAndWalkability(c pathfind.Coord) (int32, bool)
}

// Engine owns the two scheduling domains of the simulation. RunFrame is the
// variable-rate driver that turns move intents into solved paths; RunTick is
// the fixed-rate driver for everything synchronized to the discrete clock.
// The two share no call stack — the only coupling is the records one pass
// writes and the next one reads. Both run as ordinary synchronous passes on
// the loop goroutine; nothing here is concurrent.
type Engine struct {
	World *world.State
	Grid  *pathfind.CostGrid
	Bus   *event.Bus

	runner    *coresys.Runner
	lifecycle *system.LifecycleSystem
	log       *zap.Logger
	tick      uint64
}

func New(ws *world.State, grid *pathfind.CostGrid, bus *event.Bus, maxSteps int, log *zap.Logger) *Engine {
	return &Engine{
		World:     ws,
		Grid:      grid,
		Bus:       bus,
		runner:    coresys.NewRunner(),
		lifecycle: system.NewLifecycleSystem(ws, grid, bus, maxSteps, log),
		log:       log,
	}
}

// Register adds a tick-domain system.
func (e *Engine) Register(s coresys.System) {
	e.runner.Register(s)
}

// RunFrame executes one frame-domain pass: ingest and solve move intents.
// Within one frame boundary, intent processing happens-before the ticks that
// consume the resulting paths — an entity given a path this frame steps on
// the very next tick, never earlier.
func (e *Engine) RunFrame() {
	e.lifecycle.RunFrame()
}

// RunTick advances the simulation by one discrete tick: deliver the signals
// emitted since the previous tick, then run every system in phase order.
func (e *Engine) RunTick(dt time.Duration) {
	e.tick++
	e.Bus.Dispatch()
	e.runner.Tick(dt)
}

// Tick returns the number of ticks executed so far.
func (e *Engine) Tick() uint64 {
	return e.tick
}

// WatchTerrain subscribes the cost grid to terrain change notifications,
// repopulating each reported tile from the oracle. In-flight paths are not
// replanned; the next solver call observes the new costs.
func (e *Engine) WatchTerrain(oracle TerrainOracle) {
	event.Subscribe(e.Bus, func(ev event.TerrainChanged) {
		for _, c := range ev.Tiles {
			cost, walkable := oracle.CostAndWalkability(c)
			e.Grid.Set(c, cost, walkable)
		}
		e.log.Debug("terrain repopulated", zap.Int("tiles", len(ev.Tiles)))
	})
}
