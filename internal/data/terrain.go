package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TerrainInfo describes one terrain type, loaded from terrain_list.yaml.
type TerrainInfo struct {
	ID           int32  `yaml:"id"`
	Name         string `yaml:"name"`
	MovementCost int32  `yaml:"movement_cost"`
	Walkable     bool   `yaml:"walkable"`
}

// TerrainTable provides terrain type lookups by id.
type TerrainTable struct {
	byID map[int32]*TerrainInfo
}

type terrainListFile struct {
	Terrains []TerrainInfo `yaml:"terrains"`
}

// LoadTerrainTable loads terrain types from YAML.
func LoadTerrainTable(path string) (*TerrainTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read terrain list %s: %w", path, err)
	}
	var file terrainListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse terrain list: %w", err)
	}

	table := &TerrainTable{byID: make(map[int32]*TerrainInfo, len(file.Terrains))}
	for i := range file.Terrains {
		info := &file.Terrains[i]
		if info.MovementCost < 1 {
			info.MovementCost = 1
		}
		table.byID[info.ID] = info
	}
	return table, nil
}

// Count returns the number of terrain types loaded.
func (t *TerrainTable) Count() int {
	return len(t.byID)
}

// Get returns the terrain type, or nil if unknown.
func (t *TerrainTable) Get(id int32) *TerrainInfo {
	return t.byID[id]
}

// CostAndWalkability returns the traversal cost and walkability for a terrain
// id. Unknown terrain is impassable.
func (t *TerrainTable) CostAndWalkability(id int32) (int32, bool) {
	info := t.byID[id]
	if info == nil || !info.Walkable {
		return 0, false
	}
	return info.MovementCost, true
}
