package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RegisterModules registers all engine.* Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, key string) {
	engine := L.NewTable()
	logger := m.logger.With(zap.String("vm", key))

	log := L.NewTable()
	for name, level := range map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	} {
		L.SetField(log, name, L.NewFunction(func(L *lua.LState) int {
			if ce := logger.Check(level, L.CheckString(1)); ce != nil {
				ce.Write()
			}
			return 0
		}))
	}
	L.SetField(engine, "log", log)

	L.SetGlobal("engine", engine)
}
