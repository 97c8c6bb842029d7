package world

import "github.com/wildsim/server/internal/pathfind"

// ActorInfo is the per-entity movement configuration, fixed at spawn.
type ActorInfo struct {
	Species       string
	TicksPerMove  int32
	AllowDiagonal bool
	WanderRadius  int32
}

// MoveIntent is a transient move request. It lives at most until the next
// frame pass consumes it; a newer intent for the same entity replaces it
// outright.
type MoveIntent struct {
	Destination pathfind.Coord
}

// PendingRequest exists only while the solver has not yet produced a result
// for the entity. The solver runs synchronously inside the frame pass, so a
// pending request never outlives the frame that created it.
type PendingRequest struct {
	Start pathfind.Coord
	Goal  pathfind.Coord
	Opts  pathfind.Options
}

// ComputedPath is the solver output attached to a moving entity. Waypoints
// exclude the entity's start tile and end at the destination. Cursor indexes
// the next unconsumed waypoint. The path is owned exclusively by its entity
// and replaced wholesale when a new intent supersedes it.
type ComputedPath struct {
	Waypoints []pathfind.Coord
	Cursor    int
}

// NextWaypoint returns the next unconsumed waypoint, if any.
func (p *ComputedPath) NextWaypoint() (pathfind.Coord, bool) {
	if p.Cursor >= len(p.Waypoints) {
		return pathfind.Coord{}, false
	}
	return p.Waypoints[p.Cursor], true
}

// Advance moves the cursor past the waypoint just committed.
func (p *ComputedPath) Advance() {
	if p.Cursor < len(p.Waypoints) {
		p.Cursor++
	}
}

// Exhausted reports whether every waypoint has been consumed.
func (p *ComputedPath) Exhausted() bool {
	return p.Cursor >= len(p.Waypoints)
}

// Destination returns the final waypoint. Paths are never attached empty.
func (p *ComputedPath) Destination() pathfind.Coord {
	return p.Waypoints[len(p.Waypoints)-1]
}

// MovementState governs step cadence while a path is walked: one waypoint
// every TicksPerMove ticks. Created together with ComputedPath, removed
// together with it.
type MovementState struct {
	TicksPerMove   int32
	TicksSinceMove int32
}
