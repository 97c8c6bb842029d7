package data

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wildsim/server/internal/pathfind"
)

// WorldMap holds the terrain id for every tile of the bounded world, loaded
// from a text file where each line is one row of comma-separated terrain ids.
// Lines starting with '#' are comments. Rows are Y, columns are X; tile (0,0)
// is the top-left corner.
type WorldMap struct {
	Width  int32
	Height int32
	tiles  []int32 // [y*Width + x]
}

// LoadWorldMap reads a tile file. Every row must have the same width.
func LoadWorldMap(path string) (*WorldMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map file %s: %w", path, err)
	}
	defer f.Close()

	var tiles []int32
	width := 0
	height := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		toks := strings.Split(line, ",")
		if width == 0 {
			width = len(toks)
		} else if len(toks) != width {
			return nil, fmt.Errorf("map file %s: row %d has %d columns, want %d", path, height, len(toks), width)
		}
		for _, tok := range toks {
			val, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 32)
			if err != nil {
				val = 0
			}
			tiles = append(tiles, int32(val))
		}
		height++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read map file %s: %w", path, err)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("map file %s: empty map", path)
	}

	return &WorldMap{Width: int32(width), Height: int32(height), tiles: tiles}, nil
}

// InBounds checks if a tile lies inside the map.
func (m *WorldMap) InBounds(c pathfind.Coord) bool {
	return c.X >= 0 && c.X < m.Width && c.Y >= 0 && c.Y < m.Height
}

// TerrainAt returns the terrain id at c, or 0 (unknown) out of bounds.
func (m *WorldMap) TerrainAt(c pathfind.Coord) int32 {
	if !m.InBounds(c) {
		return 0
	}
	return m.tiles[c.Y*m.Width+c.X]
}

// SetTerrain rewrites one tile's terrain id. Out-of-bounds writes are ignored.
func (m *WorldMap) SetTerrain(c pathfind.Coord, id int32) {
	if !m.InBounds(c) {
		return
	}
	m.tiles[c.Y*m.Width+c.X] = id
}

// Oracle is the per-tile cost/walkability query the movement core consumes
// from the world/terrain collaborator.
type Oracle struct {
	Map     *WorldMap
	Terrain *TerrainTable
}

// CostAndWalkability answers for one tile. Out-of-bounds tiles are impassable.
func (o Oracle) CostAndWalkability(c pathfind.Coord) (int32, bool) {
	if !o.Map.InBounds(c) {
		return 0, false
	}
	return o.Terrain.CostAndWalkability(o.Map.TerrainAt(c))
}

// BuildCostGrid populates a fresh cost grid from every tile of the map.
func (o Oracle) BuildCostGrid() *pathfind.CostGrid {
	grid := pathfind.NewCostGrid()
	for y := int32(0); y < o.Map.Height; y++ {
		for x := int32(0); x < o.Map.Width; x++ {
			c := pathfind.Coord{X: x, Y: y}
			cost, walkable := o.CostAndWalkability(c)
			grid.Set(c, cost, walkable)
		}
	}
	return grid
}
