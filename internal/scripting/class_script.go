package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/playerclass"
)

// Hook names a script can define.
const (
	HookSpawned        = "on_spawned"
	HookDeath          = "on_death"
	HookWeaponFired    = "on_weapon_fired"
	HookTick           = "on_tick"
	HookFloatingPoints = "on_floating_points"
)

// AttachTo extends inst with the scripts loaded for its class. Classes
// without scripts are left untouched.
func (m *Manager) AttachTo(inst *playerclass.Instance) error {
	key := inst.Kind().String()
	if !m.Has(key) {
		return nil
	}
	inst.AttachScript(&classScript{m: m, key: key})
	return nil
}

// classScript forwards class events to Lua hooks.
type classScript struct {
	m   *Manager
	key string
}

var _ playerclass.Script = (*classScript)(nil)

func (s *classScript) OnSpawned(i *playerclass.Instance, ctx playerclass.SpawnContext) {
	_, _ = s.m.call(s.key, HookSpawned, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{selfTable(L, i), lua.LNumber(ctx.Pos.X), lua.LNumber(ctx.Pos.Y)}
	})
}

func (s *classScript) OnDeath(i *playerclass.Instance, ctx playerclass.DeathContext) {
	_, _ = s.m.call(s.key, HookDeath, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{selfTable(L, i), lua.LNumber(ctx.Killer), lua.LString(ctx.Kind.String())}
	})
}

// OnWeaponFired cancels the shot when the hook returns true.
func (s *classScript) OnWeaponFired(i *playerclass.Instance, ctx *playerclass.WeaponFireContext) {
	ret, _ := s.m.call(s.key, HookWeaponFired, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{selfTable(L, i), lua.LString(ctx.Weapon.String())}
	})
	if lua.LVAsBool(ret) {
		ctx.Cancel()
	}
}

func (s *classScript) OnTick(i *playerclass.Instance) {
	_, _ = s.m.call(s.key, HookTick, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{selfTable(L, i)}
	})
}

func (s *classScript) OnFloatingPoints(i *playerclass.Instance, points int) {
	_, _ = s.m.call(s.key, HookFloatingPoints, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{selfTable(L, i), lua.LNumber(points)}
	})
}

// selfTable snapshots i for one hook call. Its functions act on i.
func selfTable(L *lua.LState, i *playerclass.Instance) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("player", lua.LNumber(i.Player()))
	t.RawSetString("class", lua.LString(i.Kind().String()))
	t.RawSetString("infected", lua.LBool(i.IsInfected()))
	t.RawSetString("tick", lua.LNumber(i.Env().CurrentTick()))
	t.RawSetString("poison", lua.LNumber(i.PoisonLevel()))
	t.RawSetString("healing_disabled", lua.LBool(i.IsHealingDisabled()))
	t.RawSetString("emote", lua.LString(i.DefaultEmote()))
	t.RawSetString("ghoul_percent", lua.LNumber(i.GhoulPercent()))
	if c, ok := i.Character(); ok {
		t.RawSetString("health", lua.LNumber(c.Health()))
		t.RawSetString("x", lua.LNumber(c.Pos.X))
		t.RawSetString("y", lua.LNumber(c.Pos.Y))
	}

	t.RawSetString("broadcast", L.NewFunction(func(L *lua.LState) int {
		i.Env().Broadcast(i.Player(), L.CheckString(1))
		return 0
	}))
	t.RawSetString("poison_self", L.NewFunction(func(L *lua.LState) int {
		i.Poison(L.CheckInt(1), i.Player(), character.DamagePoison)
		return 0
	}))
	t.RawSetString("disable_healing", L.NewFunction(func(L *lua.LState) int {
		i.DisableHealing(float64(L.CheckNumber(1)), i.Player(), character.DamageGame)
		return 0
	}))
	return t
}
