package pathfind

// Tile is one cost grid entry. Cost is only meaningful when Walkable is set;
// an unwalkable tile is impassable no matter what its cost says.
type Tile struct {
	Cost     int32
	Walkable bool
}

// CostGrid maps tile coordinates to traversal cost and walkability. It is the
// single source of truth for traversability and owns no entity data.
//
// Coordinates the grid has never been told about default to impassable —
// lookups outside the known world never panic and never guess. The grid is
// read by the solver at call time, so a terrain edit is reflected in the next
// search, not retroactively in one already underway.
type CostGrid struct {
	tiles map[Coord]Tile
}

func NewCostGrid() *CostGrid {
	return &CostGrid{tiles: make(map[Coord]Tile, 4096)}
}

// Set upserts one tile. Negative costs are clamped to zero. Setting the same
// tile twice with the same values is a no-op.
func (g *CostGrid) Set(c Coord, cost int32, walkable bool) {
	if cost < 0 {
		cost = 0
	}
	g.tiles[c] = Tile{Cost: cost, Walkable: walkable}
}

// Lookup returns the tile at c. Unknown coordinates come back impassable.
func (g *CostGrid) Lookup(c Coord) Tile {
	return g.tiles[c]
}

// Walkable reports whether c can be entered.
func (g *CostGrid) Walkable(c Coord) bool {
	return g.tiles[c].Walkable
}

// Remove forgets a tile, making it impassable.
func (g *CostGrid) Remove(c Coord) {
	delete(g.tiles, c)
}

// Len returns the number of known tiles.
func (g *CostGrid) Len() int {
	return len(g.tiles)
}
