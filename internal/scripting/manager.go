package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/infclass/internal/game/playerclass"
)

// globalKey is the reserved key for shared scripts loaded via LoadGlobal.
// Hooks fall back to this VM when a class has no VM of its own.
const globalKey = "__global__"

// vm is one sandboxed state. LStates are single-threaded; mu serialises calls.
type vm struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per class plus an optional shared one,
// and dispatches hook calls into them.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	states map[string]*vm
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VMs.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		states: make(map[string]*vm),
		logger: logger,
	}
}

// LoadClass creates a sandboxed VM for class, registers the engine module,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: class must name a known class kind; scriptDir must be a readable directory.
// Postcondition: Class VM is registered; returns error on Lua load failure.
func (m *Manager) LoadClass(class, scriptDir string, instLimit int) error {
	if _, err := playerclass.ParseKind(class); err != nil {
		return fmt.Errorf("scripting: loading %q: %w", scriptDir, err)
	}
	return m.loadInto(class, scriptDir, instLimit)
}

// LoadGlobal creates the shared VM used by every class without its own.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalKey, scriptDir, instLimit)
}

// LoadTree loads root's own *.lua files as the global VM (when there are
// any) and every subdirectory as the VM of the class it is named after.
//
// Postcondition: Returns an error if root is unreadable, a subdirectory does
// not name a class, or any script fails to load.
func (m *Manager) LoadTree(root string, instLimit int) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("scripting: reading script root %q: %w", root, err)
	}
	hasGlobal := false
	for _, e := range entries {
		if e.IsDir() {
			if err := m.LoadClass(e.Name(), filepath.Join(root, e.Name()), instLimit); err != nil {
				return err
			}
			continue
		}
		if filepath.Ext(e.Name()) == ".lua" {
			hasGlobal = true
		}
	}
	if hasGlobal {
		return m.LoadGlobal(root, instLimit)
	}
	return nil
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L, key)
	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}
	cancel()

	m.mu.Lock()
	if old, ok := m.states[key]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.states[key] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()
	m.logger.Info("scripts loaded", zap.String("vm", key), zap.Int("files", len(luaFiles)))
	return nil
}

// Has reports whether scripts apply to class, either its own or the shared VM.
func (m *Manager) Has(class string) bool {
	return m.lookup(class) != nil
}

func (m *Manager) lookup(key string) *vm {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.states[key]; ok {
		return v
	}
	return m.states[globalKey]
}

// CallHook calls the named Lua global function in key's VM, falling back to
// the shared VM. Returns (LNil, nil) if the hook is not defined or no VM
// exists. Lua runtime errors are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(key, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.call(key, hook, func(*lua.LState) []lua.LValue { return args })
}

// call builds the arguments inside the VM lock, only once the hook is known
// to exist.
func (m *Manager) call(key, hook string, build func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	v := m.lookup(key)
	if v == nil {
		m.logger.Debug("scripting: no VM for class",
			zap.String("class", key),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.L == nil {
		return lua.LNil, nil
	}

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	cancel := Arm(v.L, v.limit)
	defer cancel()
	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, build(v.L)...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("class", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close shuts down every VM.
//
// Postcondition: Subsequent CallHook calls return (LNil, nil).
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.states {
		v.mu.Lock()
		v.L.Close()
		v.L = nil
		v.mu.Unlock()
		delete(m.states, key)
	}
}
