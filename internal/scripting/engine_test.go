package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func scriptsDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDecideReturnsCommands(t *testing.T) {
	dir := scriptsDir(t, map[string]string{
		"ai/basic.lua": `
function decide(ctx)
    if ctx.species == "wolf" and not ctx.moving then
        return {
            { type = "move_to", x = ctx.x + 2, y = ctx.y - 1 },
            { type = "idle", ticks = 5 },
        }
    end
    return {}
end
`,
	})
	engine, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()

	cmds := engine.Decide(BehaviorContext{Entity: 1, Species: "wolf", X: 10, Y: 10})
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}
	if cmds[0].Type != "move_to" || cmds[0].X != 12 || cmds[0].Y != 9 {
		t.Errorf("first command = %+v", cmds[0])
	}
	if cmds[1].Type != "idle" || cmds[1].Ticks != 5 {
		t.Errorf("second command = %+v", cmds[1])
	}

	// Moving wolves return an empty list, not nil commands with junk.
	cmds = engine.Decide(BehaviorContext{Species: "wolf", Moving: true})
	if len(cmds) != 0 {
		t.Errorf("moving wolf got commands: %v", cmds)
	}
}

func TestCoreScriptsLoadBeforeAI(t *testing.T) {
	dir := scriptsDir(t, map[string]string{
		"core/util.lua": `function double(n) return n * 2 end`,
		"ai/uses.lua": `
function decide(ctx)
    return { { type = "idle", ticks = double(3) } }
end
`,
	})
	engine, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()

	cmds := engine.Decide(BehaviorContext{})
	if len(cmds) != 1 || cmds[0].Ticks != 6 {
		t.Fatalf("got %v, want one idle of 6 ticks", cmds)
	}
}

func TestMissingDecideYieldsNoCommands(t *testing.T) {
	engine, err := NewEngine(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()

	if cmds := engine.Decide(BehaviorContext{}); cmds != nil {
		t.Errorf("got %v, want nil", cmds)
	}
	// Optional callbacks are no-ops when absent.
	engine.OnArrival(1, 2, 3)
	engine.OnPathFailed(1, 2, 3, "no_path")
}

func TestDecideErrorIsRecovered(t *testing.T) {
	dir := scriptsDir(t, map[string]string{
		"ai/broken.lua": `
function decide(ctx)
    error("boom")
end
`,
	})
	engine, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()

	if cmds := engine.Decide(BehaviorContext{}); cmds != nil {
		t.Errorf("got %v, want nil after script error", cmds)
	}
}

func TestBrokenScriptFailsLoad(t *testing.T) {
	dir := scriptsDir(t, map[string]string{
		"ai/syntax.lua": `function decide(ctx`,
	})
	if _, err := NewEngine(dir, zap.NewNop()); err == nil {
		t.Fatal("syntax error accepted at load")
	}
}

func TestCallbacksRun(t *testing.T) {
	dir := scriptsDir(t, map[string]string{
		"ai/track.lua": `
last = nil
function on_arrival(entity, x, y)
    last = { kind = "arrival", x = x, y = y }
end
function on_path_failed(entity, x, y, reason)
    last = { kind = "failed", reason = reason }
end
function decide(ctx)
    if last == nil then
        return {}
    end
    if last.kind == "arrival" then
        return { { type = "move_to", x = last.x, y = last.y } }
    end
    return { { type = "stop" } }
end
`,
	})
	engine, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()

	engine.OnArrival(1, 4, 5)
	cmds := engine.Decide(BehaviorContext{})
	if len(cmds) != 1 || cmds[0].Type != "move_to" || cmds[0].X != 4 || cmds[0].Y != 5 {
		t.Fatalf("after on_arrival got %v", cmds)
	}

	engine.OnPathFailed(1, 0, 0, "no_path")
	cmds = engine.Decide(BehaviorContext{})
	if len(cmds) != 1 || cmds[0].Type != "stop" {
		t.Fatalf("after on_path_failed got %v", cmds)
	}
}
