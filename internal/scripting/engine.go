package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for behavior logic. Go owns entity
// iteration and command execution; Lua owns the decision.
// Single-goroutine access only (simulation loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all behavior scripts.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "ai"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// BehaviorContext holds pre-packed data for one entity's decision.
type BehaviorContext struct {
	Entity       uint64
	Species      string
	X, Y         int
	Moving       bool
	WanderRadius int
}

// Command is one action returned by the Lua decide function.
type Command struct {
	Type  string // "move_to", "wander", "stop", "idle"
	X, Y  int    // move_to destination
	Ticks int    // idle duration
}

// Decide calls Lua decide(ctx) and returns the command list. A missing or
// failing script yields no commands — the entity simply stays put.
func (e *Engine) Decide(ctx BehaviorContext) []Command {
	fn := e.vm.GetGlobal("decide")
	if fn == lua.LNil {
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("entity", lua.LNumber(ctx.Entity))
	t.RawSetString("species", lua.LString(ctx.Species))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("wander_radius", lua.LNumber(ctx.WanderRadius))
	if ctx.Moving {
		t.RawSetString("moving", lua.LTrue)
	} else {
		t.RawSetString("moving", lua.LFalse)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua decide error", zap.Error(err), zap.Uint64("entity", ctx.Entity))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	var cmds []Command
	n := rt.Len()
	for i := 1; i <= n; i++ {
		row, ok := rt.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		cmds = append(cmds, Command{
			Type:  lua.LVAsString(row.RawGetString("type")),
			X:     int(lua.LVAsNumber(row.RawGetString("x"))),
			Y:     int(lua.LVAsNumber(row.RawGetString("y"))),
			Ticks: int(lua.LVAsNumber(row.RawGetString("ticks"))),
		})
	}
	return cmds
}

// OnArrival calls the optional Lua on_arrival callback.
func (e *Engine) OnArrival(entity uint64, x, y int) {
	fn := e.vm.GetGlobal("on_arrival")
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(entity), lua.LNumber(x), lua.LNumber(y)); err != nil {
		e.log.Error("lua on_arrival error", zap.Error(err), zap.Uint64("entity", entity))
	}
}

// OnPathFailed calls the optional Lua on_path_failed callback.
func (e *Engine) OnPathFailed(entity uint64, x, y int, reason string) {
	fn := e.vm.GetGlobal("on_path_failed")
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(entity), lua.LNumber(x), lua.LNumber(y), lua.LString(reason)); err != nil {
		e.log.Error("lua on_path_failed error", zap.Error(err), zap.Uint64("entity", entity))
	}
}
