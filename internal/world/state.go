package world

import "github.com/wildsim/server/internal/pathfind"

// State holds every per-entity movement record as a plain typed map keyed by
// entity id. Record presence is the dispatch mechanism: each scheduled pass
// iterates only the maps it needs, and an entity without a ComputedPath is
// simply not moving — never an error.
//
// Accessed only from the loop goroutine — no locks needed.
type State struct {
	pool *entityPool

	infos     map[EntityID]*ActorInfo
	positions map[EntityID]pathfind.Coord
	intents   map[EntityID]MoveIntent
	pending   map[EntityID]PendingRequest
	paths     map[EntityID]*ComputedPath
	movement  map[EntityID]*MovementState

	// entities whose position changed since the last save flush
	dirty map[EntityID]struct{}
}

func NewState() *State {
	return &State{
		pool:      newEntityPool(),
		infos:     make(map[EntityID]*ActorInfo, 256),
		positions: make(map[EntityID]pathfind.Coord, 256),
		intents:   make(map[EntityID]MoveIntent, 64),
		pending:   make(map[EntityID]PendingRequest, 64),
		paths:     make(map[EntityID]*ComputedPath, 128),
		movement:  make(map[EntityID]*MovementState, 128),
		dirty:     make(map[EntityID]struct{}, 256),
	}
}

// Spawn creates an entity at the given tile. Position persists for the
// entity's whole existence; every other record is optional.
func (s *State) Spawn(info ActorInfo, at pathfind.Coord) EntityID {
	id := s.pool.create()
	ic := info
	s.infos[id] = &ic
	s.positions[id] = at
	s.dirty[id] = struct{}{}
	return id
}

// Despawn removes the entity and every record attached to it.
func (s *State) Despawn(id EntityID) {
	if !s.pool.alive(id) {
		return
	}
	delete(s.infos, id)
	delete(s.positions, id)
	delete(s.intents, id)
	delete(s.pending, id)
	delete(s.paths, id)
	delete(s.movement, id)
	delete(s.dirty, id)
	s.pool.destroy(id)
}

func (s *State) Alive(id EntityID) bool {
	return s.pool.alive(id)
}

func (s *State) Count() int {
	return len(s.infos)
}

// Info returns the entity's movement configuration.
func (s *State) Info(id EntityID) (*ActorInfo, bool) {
	info, ok := s.infos[id]
	return info, ok
}

// EachActor calls fn for every live entity.
func (s *State) EachActor(fn func(id EntityID, info *ActorInfo)) {
	for id, info := range s.infos {
		fn(id, info)
	}
}

// ── Behavior-layer operations ─────────────────────────────────────

// IssueMoveOrder records the intent to move the entity to dest. Intents are
// last-writer-wins: a second order before the next frame pass silently
// replaces the first.
func (s *State) IssueMoveOrder(id EntityID, dest pathfind.Coord) {
	if !s.pool.alive(id) {
		return
	}
	s.intents[id] = MoveIntent{Destination: dest}
}

// StopMovement cancels the entity's path immediately, regardless of tick
// phase; the entity stays at its last committed position. Idempotent —
// stopping an entity with no active path is a no-op.
func (s *State) StopMovement(id EntityID) {
	delete(s.intents, id)
	delete(s.pending, id)
	delete(s.paths, id)
	delete(s.movement, id)
}

// IsMoving reports whether the entity currently holds a computed path.
func (s *State) IsMoving(id EntityID) bool {
	_, ok := s.paths[id]
	return ok
}

// GetPosition returns the entity's authoritative tile.
func (s *State) GetPosition(id EntityID) (pathfind.Coord, bool) {
	c, ok := s.positions[id]
	return c, ok
}

// SetPosition commits a new position. Called by the tick mover (one waypoint
// per cadence step) and at boot when restoring a saved world.
func (s *State) SetPosition(id EntityID, c pathfind.Coord) {
	if !s.pool.alive(id) {
		return
	}
	s.positions[id] = c
	s.dirty[id] = struct{}{}
}

// ── Frame-pass record plumbing ────────────────────────────────────

// TakeIntents drains all pending move intents. Called exactly once per frame
// pass; intents never survive the frame that consumes them.
func (s *State) TakeIntents() map[EntityID]MoveIntent {
	out := s.intents
	s.intents = make(map[EntityID]MoveIntent, 64)
	return out
}

// SetPending marks a solver invocation in flight for the entity.
func (s *State) SetPending(id EntityID, req PendingRequest) {
	s.pending[id] = req
}

// ClearPending removes the in-flight marker.
func (s *State) ClearPending(id EntityID) {
	delete(s.pending, id)
}

// AttachPath installs a freshly solved path and its movement state, replacing
// whatever the entity held before. Both records are created together and
// removed together.
func (s *State) AttachPath(id EntityID, waypoints []pathfind.Coord, ticksPerMove int32) {
	if !s.pool.alive(id) || len(waypoints) == 0 {
		return
	}
	if ticksPerMove < 1 {
		ticksPerMove = 1
	}
	s.paths[id] = &ComputedPath{Waypoints: waypoints}
	s.movement[id] = &MovementState{TicksPerMove: ticksPerMove}
}

// ClearPath removes the entity's path and movement state together.
func (s *State) ClearPath(id EntityID) {
	delete(s.paths, id)
	delete(s.movement, id)
}

// Path returns the entity's computed path, if it has one.
func (s *State) Path(id EntityID) (*ComputedPath, bool) {
	p, ok := s.paths[id]
	return p, ok
}

// EachMoving calls fn for every entity holding both a path and movement
// state. fn may clear the current entity's path.
func (s *State) EachMoving(fn func(id EntityID, path *ComputedPath, ms *MovementState)) {
	for id, path := range s.paths {
		ms, ok := s.movement[id]
		if !ok {
			continue
		}
		fn(id, path, ms)
	}
}

// ── Persistence plumbing ──────────────────────────────────────────

// DrainDirty returns and clears the set of entities whose position changed
// since the last flush.
func (s *State) DrainDirty() []EntityID {
	if len(s.dirty) == 0 {
		return nil
	}
	out := make([]EntityID, 0, len(s.dirty))
	for id := range s.dirty {
		out = append(out, id)
	}
	s.dirty = make(map[EntityID]struct{}, 256)
	return out
}
