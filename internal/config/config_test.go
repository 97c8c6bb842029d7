package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	body := `
[server]
name = "testworld"

[simulation]
tick_rate = "50ms"

[pathfinding]
max_steps = 1234

[persistence]
enabled = true
save_interval_ticks = 60
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Name != "testworld" {
		t.Errorf("name = %q", cfg.Server.Name)
	}
	if cfg.Simulation.TickRate != 50*time.Millisecond {
		t.Errorf("tick rate = %v", cfg.Simulation.TickRate)
	}
	if cfg.Pathfinding.MaxSteps != 1234 {
		t.Errorf("max steps = %d", cfg.Pathfinding.MaxSteps)
	}
	if !cfg.Persistence.Enabled || cfg.Persistence.SaveIntervalTicks != 60 {
		t.Errorf("persistence = %+v", cfg.Persistence)
	}
	// Untouched sections keep their defaults.
	if cfg.Simulation.FrameRate != 33*time.Millisecond {
		t.Errorf("frame rate = %v, want default", cfg.Simulation.FrameRate)
	}
	if cfg.Behavior.DecisionCooldownTicks != 4 {
		t.Errorf("cooldown = %d, want default", cfg.Behavior.DecisionCooldownTicks)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q, want default", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[server\nname="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed file accepted")
	}
}
