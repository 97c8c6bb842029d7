package pathfind

import (
	"container/heap"
	"errors"
)

// Solver failure outcomes. ErrStepLimitExceeded is distinct from ErrNoPath:
// the search was cut off before the open set emptied, so the true answer is
// unknown rather than proven impossible. ErrInvalidDestination is detected
// before any node is expanded.
var (
	ErrNoPath             = errors.New("pathfind: no path to destination")
	ErrStepLimitExceeded  = errors.New("pathfind: step limit exceeded")
	ErrInvalidDestination = errors.New("pathfind: destination not walkable")
)

// Options tunes a single search.
type Options struct {
	// AllowDiagonal enables the four diagonal directions in addition to
	// N/E/S/W. A diagonal step whose two orthogonal neighbors are both
	// blocked is rejected — no squeezing through corners.
	AllowDiagonal bool

	// MaxSteps caps the number of expanded nodes. Zero means no cap.
	MaxSteps int
}

// Neighbor order is fixed so searches expand deterministically:
// N, E, S, W first, then NE, SE, SW, NW when diagonals are enabled.
var (
	orthoDX = [4]int32{0, 1, 0, -1}
	orthoDY = [4]int32{-1, 0, 1, 0}
	diagDX  = [4]int32{1, 1, -1, -1}
	diagDY  = [4]int32{-1, 1, 1, -1}
)

type searchNode struct {
	coord  Coord
	parent *searchNode
	g      int32 // accumulated traversal cost from start
	h      int32 // heuristic distance to goal
	seq    int   // insertion order, final tie-break
	index  int   // position in the open heap
	closed bool
}

// openHeap orders the open set by f = g + h, breaking ties by smaller h
// (bias toward direct paths), then by earliest insertion. The last tie-break
// keeps repeated searches byte-for-byte identical.
type openHeap []*searchNode

func (o openHeap) Len() int { return len(o) }

func (o openHeap) Less(i, j int) bool {
	a, b := o[i], o[j]
	fa, fb := a.g+a.h, b.g+b.h
	if fa != fb {
		return fa < fb
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

func (o openHeap) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}

func (o *openHeap) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*o)
	*o = append(*o, n)
}

func (o *openHeap) Pop() any {
	old := *o
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*o = old[:len(old)-1]
	return n
}

// FindPath runs an A* search over the grid and returns the waypoints from the
// tile after start up to and including goal. The start tile is never part of
// the result and is allowed to be impassable — the entity already stands
// there. The goal must be walkable or the search fails without expanding a
// single node.
//
// For fixed grid, start, goal and options the result is always the same
// sequence: no randomness, no map-order dependence.
func FindPath(grid *CostGrid, start, goal Coord, opts Options) ([]Coord, error) {
	if !grid.Walkable(goal) {
		return nil, ErrInvalidDestination
	}
	if start == goal {
		return nil, nil
	}

	estimate := Manhattan
	if opts.AllowDiagonal {
		estimate = Chebyshev
	}

	nodes := make(map[Coord]*searchNode, 256)
	open := make(openHeap, 0, 64)
	seq := 0

	root := &searchNode{coord: start, h: estimate(start, goal), seq: seq}
	seq++
	nodes[start] = root
	heap.Push(&open, root)

	expanded := 0
	for open.Len() > 0 {
		cur := heap.Pop(&open).(*searchNode)
		cur.closed = true

		if cur.coord == goal {
			return rebuild(cur), nil
		}

		expanded++
		if opts.MaxSteps > 0 && expanded > opts.MaxSteps {
			return nil, ErrStepLimitExceeded
		}

		for i := 0; i < 4; i++ {
			next := Coord{X: cur.coord.X + orthoDX[i], Y: cur.coord.Y + orthoDY[i]}
			seq = relax(grid, nodes, &open, cur, next, goal, estimate, seq)
		}
		if opts.AllowDiagonal {
			for i := 0; i < 4; i++ {
				next := Coord{X: cur.coord.X + diagDX[i], Y: cur.coord.Y + diagDY[i]}
				// Reject the squeeze: both orthogonal neighbors blocked.
				sideA := Coord{X: cur.coord.X + diagDX[i], Y: cur.coord.Y}
				sideB := Coord{X: cur.coord.X, Y: cur.coord.Y + diagDY[i]}
				if !grid.Walkable(sideA) && !grid.Walkable(sideB) {
					continue
				}
				seq = relax(grid, nodes, &open, cur, next, goal, estimate, seq)
			}
		}
	}

	return nil, ErrNoPath
}

// relax considers stepping from cur into next. Moving into a tile costs that
// tile's traversal cost; impassable and unknown tiles are never expanded.
func relax(grid *CostGrid, nodes map[Coord]*searchNode, open *openHeap, cur *searchNode, next, goal Coord, estimate func(Coord, Coord) int32, seq int) int {
	tile := grid.Lookup(next)
	if !tile.Walkable {
		return seq
	}
	g := cur.g + tile.Cost

	if n, ok := nodes[next]; ok {
		if n.closed || n.g <= g {
			return seq
		}
		n.g = g
		n.parent = cur
		heap.Fix(open, n.index)
		return seq
	}

	n := &searchNode{coord: next, parent: cur, g: g, h: estimate(next, goal), seq: seq}
	nodes[next] = n
	heap.Push(open, n)
	return seq + 1
}

// rebuild walks parent links back to the start node and returns the waypoints
// in start→goal order, start excluded.
func rebuild(goalNode *searchNode) []Coord {
	n := 0
	for sn := goalNode; sn.parent != nil; sn = sn.parent {
		n++
	}
	out := make([]Coord, n)
	for sn := goalNode; sn.parent != nil; sn = sn.parent {
		n--
		out[n] = sn.coord
	}
	return out
}
