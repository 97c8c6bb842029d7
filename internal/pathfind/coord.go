package pathfind

// Coord is a grid-aligned tile coordinate. Entities occupy exactly one tile;
// there is no fractional component anywhere in the movement model.
type Coord struct {
	X int32
	Y int32
}

// Manhattan returns the 4-way walking distance between two tiles.
func Manhattan(a, b Coord) int32 {
	return abs32(a.X-b.X) + abs32(a.Y-b.Y)
}

// Chebyshev returns the 8-way walking distance between two tiles.
func Chebyshev(a, b Coord) int32 {
	dx := abs32(a.X - b.X)
	dy := abs32(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Adjacent reports whether b is one step from a, diagonals included.
func Adjacent(a, b Coord) bool {
	return a != b && Chebyshev(a, b) == 1
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
