package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/infclass/internal/scripting"
)

func runScript(t *testing.T, mgr *scripting.Manager, luaSrc, hook string) {
	t.Helper()
	dir := writeTempLua(t, "test.lua", luaSrc)
	require.NoError(t, mgr.LoadClass("engineer", dir, 0))
	_, err := mgr.CallHook("engineer", hook)
	require.NoError(t, err)
}

func TestEngineLog_WritesToLogger(t *testing.T) {
	mgr, logs := newTestManager(t)
	runScript(t, mgr, `
		function do_log()
			engine.log.info("hello from lua")
		end
	`, "do_log")

	entries := logs.FilterMessage("hello from lua").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "engineer", entries[0].ContextMap()["vm"])
}

func TestEngineLog_AllLevels(t *testing.T) {
	mgr, logs := newTestManager(t)
	runScript(t, mgr, `
		function do_all_logs()
			engine.log.debug("d")
			engine.log.info("i")
			engine.log.warn("w")
			engine.log.error("e")
		end
	`, "do_all_logs")

	for msg, level := range map[string]zapcore.Level{
		"d": zapcore.DebugLevel,
		"i": zapcore.InfoLevel,
		"w": zapcore.WarnLevel,
		"e": zapcore.ErrorLevel,
	} {
		entries := logs.FilterMessage(msg).All()
		require.Len(t, entries, 1, msg)
		assert.Equal(t, level, entries[0].Level, msg)
	}
}

func TestEngineLog_RespectsLoggerLevel(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	mgr := scripting.NewManager(zap.New(core))
	runScript(t, mgr, `
		function quiet()
			engine.log.info("dropped")
			engine.log.warn("kept")
		end
	`, "quiet")
	assert.Zero(t, logs.FilterMessage("dropped").Len())
	assert.Equal(t, 1, logs.FilterMessage("kept").Len())
}

func TestProperty_EngineLogNeverPanics(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "log.lua", `
		function say(msg) engine.log.info(msg) end
	`)
	require.NoError(t, mgr.LoadClass("scientist", dir, 0))
	rapid.Check(t, func(rt *rapid.T) {
		msg := rapid.String().Draw(rt, "msg")
		if _, err := mgr.CallHook("scientist", "say", lua.LString(msg)); err != nil {
			rt.Fatalf("CallHook: %v", err)
		}
	})
}
