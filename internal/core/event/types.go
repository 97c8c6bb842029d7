package event

import (
	"github.com/wildsim/server/internal/pathfind"
	"github.com/wildsim/server/internal/world"
)

// FailReason classifies why a move order produced no path.
type FailReason string

const (
	// FailNoPath: the goal is unreachable under the current grid.
	FailNoPath FailReason = "no_path"
	// FailStepLimit: the search was aborted before exhausting the open
	// set; the true answer is unknown, not proven impossible.
	FailStepLimit FailReason = "step_limit"
	// FailInvalidDestination: the goal is outside the known world or
	// impassable, detected before any search.
	FailInvalidDestination FailReason = "invalid_destination"
)

// MoveFinished is raised once when an entity consumes the last waypoint of
// its path.
type MoveFinished struct {
	Entity world.EntityID
	At     pathfind.Coord
}

// MoveFailed is raised once when a move order cannot be turned into a path.
// No partial path is ever attached; the entity's position is unchanged.
type MoveFailed struct {
	Entity      world.EntityID
	Destination pathfind.Coord
	Reason      FailReason
}

// TerrainChanged carries the coordinates the world/terrain collaborator
// reports as changed. The cost grid repopulates those tiles; in-flight paths
// are not replanned.
type TerrainChanged struct {
	Tiles []pathfind.Coord
}
