package system

import (
	"testing"

	"github.com/wildsim/server/internal/core/event"
	"github.com/wildsim/server/internal/pathfind"
	"github.com/wildsim/server/internal/world"
	"go.uber.org/zap"
)

func openGrid(w, h int32) *pathfind.CostGrid {
	g := pathfind.NewCostGrid()
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			g.Set(pathfind.Coord{X: x, Y: y}, 1, true)
		}
	}
	return g
}

func newHarness(maxSteps int) (*world.State, *pathfind.CostGrid, *event.Bus, *LifecycleSystem) {
	ws := world.NewState()
	grid := openGrid(10, 10)
	bus := event.NewBus()
	lc := NewLifecycleSystem(ws, grid, bus, maxSteps, zap.NewNop())
	return ws, grid, bus, lc
}

func spawnRabbit(ws *world.State, at pathfind.Coord) world.EntityID {
	return ws.Spawn(world.ActorInfo{Species: "rabbit", TicksPerMove: 2}, at)
}

func TestFrameAttachesPath(t *testing.T) {
	ws, _, _, lc := newHarness(0)
	id := spawnRabbit(ws, pathfind.Coord{X: 0, Y: 0})

	ws.IssueMoveOrder(id, pathfind.Coord{X: 3, Y: 0})
	lc.RunFrame()

	if !ws.IsMoving(id) {
		t.Fatal("entity should hold a path after the frame pass")
	}
	p, _ := ws.Path(id)
	if p.Destination() != (pathfind.Coord{X: 3, Y: 0}) {
		t.Errorf("destination = %v, want (3,0)", p.Destination())
	}
	if p.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", p.Cursor)
	}
	// Position is untouched by the frame pass; only ticks move entities.
	if pos, _ := ws.GetPosition(id); pos != (pathfind.Coord{X: 0, Y: 0}) {
		t.Errorf("frame pass moved the entity to %v", pos)
	}
}

func TestFrameFailureSignals(t *testing.T) {
	cases := []struct {
		name   string
		goal   pathfind.Coord
		setup  func(g *pathfind.CostGrid)
		steps  int
		reason event.FailReason
	}{
		{
			name:   "unreachable goal",
			goal:   pathfind.Coord{X: 5, Y: 5},
			setup: func(g *pathfind.CostGrid) {
				for _, c := range []pathfind.Coord{{X: 4, Y: 5}, {X: 6, Y: 5}, {X: 5, Y: 4}, {X: 5, Y: 6}} {
					g.Set(c, 1, false)
				}
			},
			reason: event.FailNoPath,
		},
		{
			name:   "impassable goal",
			goal:   pathfind.Coord{X: 5, Y: 5},
			setup:  func(g *pathfind.CostGrid) { g.Set(pathfind.Coord{X: 5, Y: 5}, 1, false) },
			reason: event.FailInvalidDestination,
		},
		{
			name:   "step limit",
			goal:   pathfind.Coord{X: 9, Y: 9},
			setup:  func(*pathfind.CostGrid) {},
			steps:  3,
			reason: event.FailStepLimit,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ws, grid, bus, lc := newHarness(tc.steps)
			tc.setup(grid)
			id := spawnRabbit(ws, pathfind.Coord{X: 0, Y: 0})

			var failed []event.MoveFailed
			event.Subscribe(bus, func(ev event.MoveFailed) { failed = append(failed, ev) })

			ws.IssueMoveOrder(id, tc.goal)
			lc.RunFrame()
			bus.Dispatch()

			if ws.IsMoving(id) {
				t.Error("failed order left the entity moving")
			}
			if len(failed) != 1 {
				t.Fatalf("got %d failure signals, want 1", len(failed))
			}
			if failed[0].Entity != id || failed[0].Reason != tc.reason {
				t.Errorf("signal = %+v, want entity %d reason %s", failed[0], id, tc.reason)
			}
			if failed[0].Destination != tc.goal {
				t.Errorf("signal destination = %v, want %v", failed[0].Destination, tc.goal)
			}
		})
	}
}

func TestFrameAlreadyAtDestination(t *testing.T) {
	ws, _, bus, lc := newHarness(0)
	at := pathfind.Coord{X: 4, Y: 4}
	id := spawnRabbit(ws, at)

	var finished []event.MoveFinished
	event.Subscribe(bus, func(ev event.MoveFinished) { finished = append(finished, ev) })

	ws.IssueMoveOrder(id, at)
	lc.RunFrame()
	bus.Dispatch()

	if ws.IsMoving(id) {
		t.Error("no-op order left the entity moving")
	}
	if len(finished) != 1 || finished[0].At != at {
		t.Fatalf("finished signals = %v, want one at %v", finished, at)
	}
}

func TestNewOrderSupersedesActivePath(t *testing.T) {
	ws, _, _, lc := newHarness(0)
	id := spawnRabbit(ws, pathfind.Coord{X: 0, Y: 0})

	ws.IssueMoveOrder(id, pathfind.Coord{X: 9, Y: 0})
	lc.RunFrame()
	p, _ := ws.Path(id)
	p.Advance() // mid-walk

	ws.IssueMoveOrder(id, pathfind.Coord{X: 0, Y: 4})
	lc.RunFrame()

	p, ok := ws.Path(id)
	if !ok {
		t.Fatal("superseding order left no path")
	}
	if p.Destination() != (pathfind.Coord{X: 0, Y: 4}) {
		t.Errorf("destination = %v, want (0,4)", p.Destination())
	}
	if p.Cursor != 0 {
		t.Errorf("cursor = %d, want fresh path", p.Cursor)
	}
}

func TestSameFrameLastOrderWins(t *testing.T) {
	ws, _, _, lc := newHarness(0)
	id := spawnRabbit(ws, pathfind.Coord{X: 0, Y: 0})

	ws.IssueMoveOrder(id, pathfind.Coord{X: 9, Y: 9})
	ws.IssueMoveOrder(id, pathfind.Coord{X: 2, Y: 0})
	lc.RunFrame()

	p, ok := ws.Path(id)
	if !ok {
		t.Fatal("no path attached")
	}
	if p.Destination() != (pathfind.Coord{X: 2, Y: 0}) {
		t.Errorf("destination = %v, want (2,0)", p.Destination())
	}
	if len(p.Waypoints) != 2 {
		t.Errorf("got %d waypoints, want 2", len(p.Waypoints))
	}
}

func TestFailedOrderDropsOldPath(t *testing.T) {
	ws, grid, bus, lc := newHarness(0)
	id := spawnRabbit(ws, pathfind.Coord{X: 0, Y: 0})

	ws.IssueMoveOrder(id, pathfind.Coord{X: 5, Y: 0})
	lc.RunFrame()
	if !ws.IsMoving(id) {
		t.Fatal("setup: first order did not attach")
	}

	grid.Set(pathfind.Coord{X: 8, Y: 8}, 1, false)
	var failed int
	event.Subscribe(bus, func(event.MoveFailed) { failed++ })

	ws.IssueMoveOrder(id, pathfind.Coord{X: 8, Y: 8})
	lc.RunFrame()
	bus.Dispatch()

	// Supersession discards the old path even when the new solve fails.
	if ws.IsMoving(id) {
		t.Error("old path survived a superseding failed order")
	}
	if failed != 1 {
		t.Errorf("got %d failure signals, want 1", failed)
	}
}
