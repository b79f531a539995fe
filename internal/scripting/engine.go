package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/l1jgo/ecsim/internal/core/ecs"
	"github.com/l1jgo/ecsim/internal/data"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// maxSpawnCount bounds a single spawn{} call.
const maxSpawnCount = 1 << 16

// Spawner is the world surface scripts are allowed to touch.
type Spawner interface {
	SpawnTemplate(t data.EntityTemplate) ([]ecs.Entity, error)
	Despawn(e ecs.Entity)
	Alive(e ecs.Entity) bool
}

// Engine wraps a single gopher-lua VM for scenario scripts.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm      *lua.LState
	spawner Spawner
	log     *zap.Logger
	loaded  int
}

// NewEngine creates a Lua engine, installs the world API and loads every
// script in scriptsDir. A missing directory loads nothing.
func NewEngine(scriptsDir string, spawner Spawner, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, spawner: spawner, log: log}
	vm.SetGlobal("spawn", vm.NewFunction(e.luaSpawn))
	vm.SetGlobal("despawn", vm.NewFunction(e.luaDespawn))
	vm.SetGlobal("alive", vm.NewFunction(e.luaAlive))

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory, in file name order.
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
		e.loaded++
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Loaded returns the number of script files run at startup.
func (e *Engine) Loaded() int { return e.loaded }

// OnTick calls the optional global on_tick(n). Scripts without one are a no-op.
func (e *Engine) OnTick(n uint64) error {
	fn := e.vm.GetGlobal("on_tick")
	if fn == lua.LNil {
		return nil
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(n)); err != nil {
		return fmt.Errorf("on_tick(%d): %w", n, err)
	}
	return nil
}

// luaSpawn implements spawn{name=..., count=..., position={x=,y=,z=}, ...}.
// Returns the id and generation of the first entity created, or nothing when
// count is 0.
func (e *Engine) luaSpawn(L *lua.LState) int {
	tmpl, err := templateFromTable(L.CheckTable(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	spawned, err := e.spawner.SpawnTemplate(tmpl)
	if err != nil {
		L.RaiseError("spawn %q: %s", tmpl.Name, err.Error())
		return 0
	}
	if len(spawned) == 0 {
		return 0
	}
	L.Push(lua.LNumber(spawned[0].ID))
	L.Push(lua.LNumber(spawned[0].Generation))
	return 2
}

// luaDespawn queues (id, gen) for despawn at the end of the tick.
func (e *Engine) luaDespawn(L *lua.LState) int {
	e.spawner.Despawn(checkEntity(L))
	return 0
}

func (e *Engine) luaAlive(L *lua.LState) int {
	L.Push(lua.LBool(e.spawner.Alive(checkEntity(L))))
	return 1
}

func checkEntity(L *lua.LState) ecs.Entity {
	id := L.CheckInt64(1)
	gen := L.CheckInt64(2)
	if id < 0 || id > math.MaxUint32 {
		L.ArgError(1, fmt.Sprintf("entity id %d out of range", id))
	}
	if gen < 0 || gen > math.MaxUint32 {
		L.ArgError(2, fmt.Sprintf("entity generation %d out of range", gen))
	}
	return ecs.Entity{ID: uint32(id), Generation: uint32(gen)}
}

// templateFromTable reads the same fields a scenario YAML entry carries.
func templateFromTable(t *lua.LTable) (data.EntityTemplate, error) {
	tmpl := data.EntityTemplate{
		Name:     lua.LVAsString(t.RawGetString("name")),
		Count:    1,
		Sprite:   lua.LVAsString(t.RawGetString("sprite")),
		Lifetime: int(lua.LVAsNumber(t.RawGetString("lifetime"))),
		Spread:   float32(lua.LVAsNumber(t.RawGetString("spread"))),
	}
	if v := t.RawGetString("count"); v != lua.LNil {
		tmpl.Count = int(lua.LVAsNumber(v))
	}
	tmpl.Position = vecFromValue(t.RawGetString("position"))
	tmpl.Velocity = vecFromValue(t.RawGetString("velocity"))

	if tmpl.Count < 0 || tmpl.Count > maxSpawnCount {
		return tmpl, fmt.Errorf("count must be within [0, %d], got %d", maxSpawnCount, tmpl.Count)
	}
	if tmpl.Lifetime < 0 {
		return tmpl, fmt.Errorf("lifetime must not be negative, got %d", tmpl.Lifetime)
	}
	if tmpl.Spread < 0 {
		return tmpl, fmt.Errorf("spread must not be negative, got %g", tmpl.Spread)
	}
	return tmpl, nil
}

// vecFromValue accepts {x=, y=, z=} or the positional {x, y, z}.
func vecFromValue(v lua.LValue) *data.Vec3 {
	t, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	axis := func(key string, pos int) float32 {
		if v := t.RawGetString(key); v != lua.LNil {
			return float32(lua.LVAsNumber(v))
		}
		return float32(lua.LVAsNumber(t.RawGetInt(pos)))
	}
	return &data.Vec3{X: axis("x", 1), Y: axis("y", 2), Z: axis("z", 3)}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
