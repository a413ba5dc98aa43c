// Package scripting embeds a Lua VM that can read encoded references and
// walk the pools. Scripts only observe the world; every function exposed
// here is read-only.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/plus3/dunepool/encoded"
	"github.com/plus3/dunepool/pool"
)

// APIVersion is published to scripts as the API_VERSION global.
const APIVersion = 1

// Engine wraps a gopher-lua VM bound to one world.
type Engine struct {
	vm    *lua.LState
	world *pool.World
	log   *zap.Logger

	// reloads carries changed script paths from a Watcher to the tick
	// goroutine. The VM itself is only touched from Execute.
	reloads chan string
}

// NewEngine creates a VM with the standard libraries and the pool
// functions registered as globals.
func NewEngine(w *pool.World, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	e := &Engine{vm: vm, world: w, log: log, reloads: make(chan string, 16)}

	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))
	for name, fn := range map[string]lua.LGFunction{
		"index_type":             e.indexType,
		"index_decode":           e.indexDecode,
		"index_is_valid":         e.indexIsValid,
		"index_encode_tile":      e.indexEncodeTile,
		"index_encode_unit":      e.indexEncodeUnit,
		"index_encode_structure": e.indexEncodeStructure,
		"index_tile":             e.indexTile,
		"units":                  e.units,
		"structures":             e.structures,
	} {
		vm.SetGlobal(name, vm.NewFunction(fn))
	}
	return e
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// DoFile runs one script file.
func (e *Engine) DoFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("lua %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("path", path))
	return nil
}

// LoadDir runs every .lua file in dir in name order.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read script dir %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		if err := e.DoFile(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// Execute reloads any scripts a Watcher reported, then calls the
// script's on_tick(tick) if one is defined, so an Engine can be
// registered with a pool.Scheduler.
func (e *Engine) Execute(frame *pool.TickFrame) {
	e.applyReloads()

	fn := e.vm.GetGlobal("on_tick")
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(frame.Tick)); err != nil {
		e.log.Error("lua on_tick error", zap.Error(err), zap.Uint64("tick", frame.Tick))
	}
}

// CallInt calls a global Lua function with integer arguments and returns
// its first result as an integer.
func (e *Engine) CallInt(name string, args ...int) (int, error) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return 0, fmt.Errorf("lua function %q not found", name)
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		return 0, fmt.Errorf("lua %s: %w", name, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return int(lua.LVAsNumber(result)), nil
}

// Global returns a global variable, LNil when unset.
func (e *Engine) Global(name string) lua.LValue {
	return e.vm.GetGlobal(name)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

func checkIndex(L *lua.LState, n int) encoded.Index {
	return encoded.Index(uint16(L.CheckInt(n)))
}

// optFilter reads an optional house or type filter. nil and negative
// values mean any; values above 0xFF raise a Lua argument error.
func optFilter(L *lua.LState, n int) (uint8, bool) {
	v := L.OptInt(n, -1)
	if v < 0 {
		return 0, false
	}
	if v > 0xFF {
		L.ArgError(n, fmt.Sprintf("filter %d out of range", v))
	}
	return uint8(v), true
}

func (e *Engine) indexType(L *lua.LState) int {
	L.Push(lua.LString(checkIndex(L, 1).Type().String()))
	return 1
}

func (e *Engine) indexDecode(L *lua.LState) int {
	L.Push(lua.LNumber(checkIndex(L, 1).Decode()))
	return 1
}

func (e *Engine) indexIsValid(L *lua.LState) int {
	L.Push(lua.LBool(e.world.IsValid(checkIndex(L, 1))))
	return 1
}

func (e *Engine) indexEncodeTile(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	L.Push(lua.LNumber(encoded.EncodeTile(uint8(x), uint8(y))))
	return 1
}

func (e *Engine) indexEncodeUnit(L *lua.LState) int {
	L.Push(lua.LNumber(e.world.EncodeUnit(uint16(L.CheckInt(1)))))
	return 1
}

func (e *Engine) indexEncodeStructure(L *lua.LState) int {
	L.Push(lua.LNumber(e.world.EncodeStructure(uint16(L.CheckInt(1)))))
	return 1
}

// index_tile(ref) returns the tile32 x, y of the reference, or nil when
// it does not resolve.
func (e *Engine) indexTile(L *lua.LState) int {
	pos, ok := e.world.Tile(checkIndex(L, 1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(pos.X))
	L.Push(lua.LNumber(pos.Y))
	return 2
}

func (e *Engine) units(L *lua.LState) int {
	house, typ := filters(L)
	t := L.NewTable()
	for u := range e.world.Units().All(pool.HouseType(house), pool.UnitType(typ)) {
		t.Append(lua.LNumber(u.Index))
	}
	L.Push(t)
	return 1
}

func (e *Engine) structures(L *lua.LState) int {
	house, typ := filters(L)
	t := L.NewTable()
	for s := range e.world.Structures().All(pool.HouseType(house), pool.StructureType(typ)) {
		t.Append(lua.LNumber(s.Index))
	}
	L.Push(t)
	return 1
}

func filters(L *lua.LState) (house, typ uint8) {
	house, typ = uint8(pool.HouseInvalid), 0xFF
	if h, ok := optFilter(L, 1); ok {
		house = h
	}
	if t, ok := optFilter(L, 2); ok {
		typ = t
	}
	return house, typ
}
