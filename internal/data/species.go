package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpeciesInfo holds movement configuration for one species, loaded from
// species_list.yaml. TicksPerMove=1 is one tile per tick (fastest).
type SpeciesInfo struct {
	Name          string `yaml:"name"`
	TicksPerMove  int32  `yaml:"ticks_per_move"`
	AllowDiagonal bool   `yaml:"allow_diagonal"`
	WanderRadius  int32  `yaml:"wander_radius"`
}

// SpeciesTable provides species lookups by name.
type SpeciesTable struct {
	byName map[string]*SpeciesInfo
}

type speciesListFile struct {
	Species []SpeciesInfo `yaml:"species"`
}

// LoadSpeciesTable loads species metadata from YAML.
func LoadSpeciesTable(path string) (*SpeciesTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read species list %s: %w", path, err)
	}
	var file speciesListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse species list: %w", err)
	}

	table := &SpeciesTable{byName: make(map[string]*SpeciesInfo, len(file.Species))}
	for i := range file.Species {
		info := &file.Species[i]
		if info.TicksPerMove < 1 {
			info.TicksPerMove = 1
		}
		if info.WanderRadius < 1 {
			info.WanderRadius = 8
		}
		table.byName[info.Name] = info
	}
	return table, nil
}

// Count returns the number of species loaded.
func (t *SpeciesTable) Count() int {
	return len(t.byName)
}

// Get returns the species, or nil if unknown.
func (t *SpeciesTable) Get(name string) *SpeciesInfo {
	return t.byName[name]
}

// SpawnEntry places count entities of a species around a tile at boot.
type SpawnEntry struct {
	Species string `yaml:"species"`
	X       int32  `yaml:"x"`
	Y       int32  `yaml:"y"`
	Count   int    `yaml:"count"`
}

type spawnListFile struct {
	Spawns []SpawnEntry `yaml:"spawns"`
}

// LoadSpawnList loads spawn placements from YAML.
func LoadSpawnList(path string) ([]SpawnEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn list %s: %w", path, err)
	}
	var file spawnListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse spawn list: %w", err)
	}
	return file.Spawns, nil
}
