package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/wildsim/server/internal/config"
	"github.com/wildsim/server/internal/core/event"
	"github.com/wildsim/server/internal/data"
	"github.com/wildsim/server/internal/pathfind"
	"github.com/wildsim/server/internal/persist"
	"github.com/wildsim/server/internal/scripting"
	"github.com/wildsim/server/internal/sim"
	"github.com/wildsim/server/internal/system"
	"github.com/wildsim/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            wildsim  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     tile-world movement simulation        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mworld:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("WILDSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Connect to PostgreSQL (optional world-save store)
	var posRepo *persist.PositionRepo
	if cfg.Persistence.Enabled {
		printSection("database")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		fmt.Println()

		posRepo = persist.NewPositionRepo(db)
	}

	// 4. Load world data and build the cost grid
	printSection("world data")

	terrainTable, err := data.LoadTerrainTable(cfg.World.TerrainList)
	if err != nil {
		return fmt.Errorf("load terrain table: %w", err)
	}
	printStat("terrain types", terrainTable.Count())

	worldMap, err := data.LoadWorldMap(cfg.World.MapFile)
	if err != nil {
		return fmt.Errorf("load world map: %w", err)
	}
	printStat("map tiles", int(worldMap.Width*worldMap.Height))

	speciesTable, err := data.LoadSpeciesTable(cfg.World.SpeciesList)
	if err != nil {
		return fmt.Errorf("load species table: %w", err)
	}
	printStat("species", speciesTable.Count())

	spawnList, err := data.LoadSpawnList(cfg.World.SpawnList)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}

	oracle := data.Oracle{Map: worldMap, Terrain: terrainTable}
	grid := oracle.BuildCostGrid()

	// 5. Init Lua behavior engine
	luaEngine, err := scripting.NewEngine(cfg.Behavior.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("behavior scripts loaded")

	// 6. Spawn entities
	ws := world.NewState()
	spawned := spawnEntities(ws, grid, speciesTable, spawnList, log)
	printStat("entities spawned", spawned)

	// 7. Restore saved positions from a previous run
	if posRepo != nil {
		restored, err := restorePositions(ws, posRepo)
		if err != nil {
			return fmt.Errorf("restore positions: %w", err)
		}
		printStat("positions restored", restored)
	}
	fmt.Println()

	// 8. Wire the engine and tick-domain systems
	bus := event.NewBus()
	engine := sim.New(ws, grid, bus, cfg.Pathfinding.MaxSteps, log)
	engine.WatchTerrain(oracle)
	engine.Register(system.NewBehaviorSystem(ws, grid, luaEngine, bus, cfg.Behavior.DecisionCooldownTicks, log))
	engine.Register(system.NewMoverSystem(ws, bus, log))

	var persistSys *system.PersistenceSystem
	if posRepo != nil {
		persistSys = system.NewPersistenceSystem(ws, posRepo, cfg.Persistence.SaveIntervalTicks, log)
		engine.Register(persistSys)
	}

	// 9. Run the two-rate loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	tickTicker := time.NewTicker(cfg.Simulation.TickRate)
	defer tickTicker.Stop()
	frameTicker := time.NewTicker(cfg.Simulation.FrameRate)
	defer frameTicker.Stop()

	printSection("simulation ready")
	printReady(fmt.Sprintf("tick clock %s, frame clock %s", cfg.Simulation.TickRate, cfg.Simulation.FrameRate))
	fmt.Println()

	// One frame before the first tick so boot-time orders can resolve.
	engine.RunFrame()

	for {
		select {
		case <-frameTicker.C:
			engine.RunFrame()
		case <-tickTicker.C:
			engine.RunTick(cfg.Simulation.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if persistSys != nil {
				persistSys.Flush()
			}
			log.Info("simulation stopped", zap.Uint64("ticks", engine.Tick()))
			return nil
		}
	}
}

// spawnEntities places every spawn list entry, scattering multi-count spawns
// onto nearby walkable tiles.
func spawnEntities(ws *world.State, grid *pathfind.CostGrid, species *data.SpeciesTable, spawns []data.SpawnEntry, log *zap.Logger) int {
	total := 0
	for _, entry := range spawns {
		info := species.Get(entry.Species)
		if info == nil {
			log.Warn("spawn entry references unknown species", zap.String("species", entry.Species))
			continue
		}
		count := entry.Count
		if count < 1 {
			count = 1
		}
		for i := 0; i < count; i++ {
			at := findSpawnTile(grid, pathfind.Coord{X: entry.X, Y: entry.Y})
			ws.Spawn(world.ActorInfo{
				Species:       info.Name,
				TicksPerMove:  info.TicksPerMove,
				AllowDiagonal: info.AllowDiagonal,
				WanderRadius:  info.WanderRadius,
			}, at)
			total++
		}
	}
	return total
}

// findSpawnTile looks for a walkable tile near the requested one, falling
// back to the requested tile itself.
func findSpawnTile(grid *pathfind.CostGrid, want pathfind.Coord) pathfind.Coord {
	if grid.Walkable(want) {
		return want
	}
	for try := 0; try < 16; try++ {
		c := pathfind.Coord{
			X: want.X + rand.Int31n(9) - 4,
			Y: want.Y + rand.Int31n(9) - 4,
		}
		if grid.Walkable(c) {
			return c
		}
	}
	return want
}

// restorePositions re-applies saved positions to entities spawned this boot.
// Entity ids are allocated in spawn list order, so an unchanged spawn list
// lines up with the previous run's save.
func restorePositions(ws *world.State, repo *persist.PositionRepo) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := repo.LoadAll(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, row := range rows {
		id := world.EntityID(row.EntityID)
		info, ok := ws.Info(id)
		if !ok || info.Species != row.Species {
			continue
		}
		ws.SetPosition(id, pathfind.Coord{X: row.X, Y: row.Y})
		restored++
	}
	return restored, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
