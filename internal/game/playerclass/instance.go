// Package playerclass implements the behavior layer bound to every player:
// one Instance per player, dispatching simulation events to the override
// table of the player's class kind and owning the child entities it spawns.
package playerclass

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/geom"
	"github.com/cory-johannsen/infclass/internal/game/status"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

// Script is an extension attached to an instance after its variant behavior.
// Every method runs after the built-in reaction to the same event.
type Script interface {
	OnSpawned(i *Instance, ctx SpawnContext)
	OnDeath(i *Instance, ctx DeathContext)
	OnWeaponFired(i *Instance, ctx *WeaponFireContext)
	OnTick(i *Instance)
	OnFloatingPoints(i *Instance, points int)
}

// Instance is the class object of one player.
//
// The forward reference (Character) and the character's back-reference
// (character.Character.Class) always agree while bound.
// It is not safe for concurrent use; the simulation goroutine owns it.
type Instance struct {
	handle    arena.Handle
	player    character.PlayerID
	kind      Kind
	def       *Definition
	behavior  *Behavior
	env       Env
	tuning    *tuning.Params
	logger    *zap.Logger
	character arena.Handle
	effects   status.Effects
	children  []arena.Handle
	scripts   []Script
}

// New creates the class instance of kind for player.
//
// Precondition: def, env, params and logger must be non-nil; def.Kind() == kind.
// Postcondition: Returns an unbound Instance, or an error wrapping ErrUnknownKind.
func New(kind Kind, player character.PlayerID, def *Definition, env Env, params *tuning.Params, logger *zap.Logger) (*Instance, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("creating class for player %d: %w: %d", player, ErrUnknownKind, kind)
	}
	factory, ok := factories[kind]
	if !ok {
		factory = defaultBehavior
	}
	i := &Instance{
		player:  player,
		kind:    kind,
		def:     def,
		env:     env,
		tuning:  params,
		logger:  logger.With(zap.Int("player", int(player)), zap.Stringer("class", kind)),
		effects: status.New(),
	}
	i.behavior = factory(i)
	return i, nil
}

// Handle returns the handle the driver stored this instance under.
func (i *Instance) Handle() arena.Handle { return i.handle }

// SetHandle records the instance's own handle. Binding requires it.
func (i *Instance) SetHandle(h arena.Handle) { i.handle = h }

// Kind returns the instance's class kind.
func (i *Instance) Kind() Kind { return i.kind }

// Definition returns the static class data.
func (i *Instance) Definition() *Definition { return i.def }

// Player returns the owning player's id.
func (i *Instance) Player() character.PlayerID { return i.player }

// CID returns the owning player's id, or -1 without a player.
func (i *Instance) CID() int {
	if i.player == character.NoPlayer {
		return -1
	}
	return int(i.player)
}

// PlayerClass returns the owning player's currently selected class.
//
// Postcondition: Returns KindNone when the player is unknown.
func (i *Instance) PlayerClass() Kind {
	if i.player == character.NoPlayer {
		return KindNone
	}
	k, ok := i.env.PlayerClass(i.player)
	if !ok {
		return KindNone
	}
	return k
}

// Tuning returns the injected parameter source.
func (i *Instance) Tuning() *tuning.Params { return i.tuning }

// Env returns the world the instance acts on.
func (i *Instance) Env() Env { return i.env }

// Logger returns the instance-scoped logger.
func (i *Instance) Logger() *zap.Logger { return i.logger }

// AttachScript appends s to the instance's extensions.
func (i *Instance) AttachScript(s Script) { i.scripts = append(i.scripts, s) }

// CharacterHandle returns the bound character's handle, or arena.None.
func (i *Instance) CharacterHandle() arena.Handle { return i.character }

// Character returns the bound character if it is still alive.
func (i *Instance) Character() (*character.Character, bool) {
	if i.character.IsNone() {
		return nil, false
	}
	return i.env.Character(i.character)
}

// SetCharacter binds the instance to the character under h.
// Binding the current character is a no-op. A previously bound character
// loses its child entities and back-reference first. A character still
// controlled by another instance is released by that instance before the
// new binding is made. arena.None only unbinds.
//
// Postcondition: Either the instance is unbound, or Character() returns c
// with c.Class() == Handle() and the class attributes freshly granted.
func (i *Instance) SetCharacter(h arena.Handle) {
	if h == i.character {
		return
	}
	if !i.character.IsNone() {
		i.DestroyChildEntities()
		if old, ok := i.env.Character(i.character); ok && old.Class() == i.handle {
			old.SetClass(arena.None)
		}
		i.logger.Debug("character unbound", zap.Uint64("character", uint64(i.character)))
		i.character = arena.None
	}
	if h.IsNone() {
		return
	}
	c, ok := i.env.Character(h)
	if !ok {
		return
	}
	if prev := c.Class(); !prev.IsNone() && prev != i.handle {
		if other, ok := i.env.Instance(prev); ok && other.character == h {
			i.logger.Warn("character still bound to another class; releasing it",
				zap.Int("other_player", int(other.player)))
			other.SetCharacter(arena.None)
		}
		c.SetClass(arena.None)
	}
	i.character = h
	c.SetClass(i.handle)
	i.logger.Debug("character bound", zap.Uint64("character", uint64(h)))
	i.GiveClassAttributes()
}

// Destroy releases the bound character and every child entity. Used when
// the class changes or the player leaves.
func (i *Instance) Destroy() {
	i.SetCharacter(arena.None)
	i.DestroyChildEntities()
}

// Pos returns the bound character's position, or the zero vector.
func (i *Instance) Pos() geom.Vec2 {
	if c, ok := i.Character(); ok {
		return c.Pos
	}
	return geom.Vec2{}
}

// Direction returns the bound character's facing, or the zero vector.
func (i *Instance) Direction() geom.Vec2 {
	if c, ok := i.Character(); ok {
		return c.Direction
	}
	return geom.Vec2{}
}

// ProximityRadius returns the bound character's hit radius, or 0.
func (i *Instance) ProximityRadius() float64 {
	if c, ok := i.Character(); ok {
		return c.ProximityRadius
	}
	return 0
}

// IsInfected reports whether the class is an infected role.
func (i *Instance) IsInfected() bool { return i.kind.IsInfected() }

// IsHuman reports whether the class is a human role.
func (i *Instance) IsHuman() bool { return !i.IsInfected() }

// Jumps returns the class's jump allowance.
func (i *Instance) Jumps() int {
	if i.behavior.Jumps != nil {
		return i.behavior.Jumps()
	}
	return i.def.jumps()
}

// CanDie reports whether the class can be killed.
func (i *Instance) CanDie() bool {
	if i.behavior.CanDie != nil {
		return i.behavior.CanDie()
	}
	return flag(i.def.CanDie)
}

// CanBeHit reports whether hits damage the class.
func (i *Instance) CanBeHit() bool {
	if i.behavior.CanBeHit != nil {
		return i.behavior.CanBeHit()
	}
	return flag(i.def.CanBeHit)
}

// CanBeUnfreezed reports whether the class can be thawed.
func (i *Instance) CanBeUnfreezed() bool {
	if i.behavior.CanBeUnfreezed != nil {
		return i.behavior.CanBeUnfreezed()
	}
	return flag(i.def.CanUnfreeze)
}

// DefaultEmote returns the idle facial expression.
func (i *Instance) DefaultEmote() Emote {
	if i.behavior.DefaultEmote != nil {
		return i.behavior.DefaultEmote()
	}
	return i.def.emote()
}

// GhoulPercent returns the class's ghoul level in [0, 1].
func (i *Instance) GhoulPercent() float64 { return i.def.GhoulPercent }

// HammerProjOffset is how far in front of the character a hammer swing starts.
func (i *Instance) HammerProjOffset() float64 { return i.ProximityRadius() * 0.75 }

// HammerRange is the reach of a hammer swing, 0 while unbound.
func (i *Instance) HammerRange() float64 { return i.ProximityRadius() * 0.5 }

// CreateHammerHit shows a hammer impact on target's surface facing projStart,
// or at projStart when the two coincide.
func (i *Instance) CreateHammerHit(projStart geom.Vec2, target *character.Character) {
	toTarget := target.Pos.Sub(projStart)
	if toTarget.Length() > 0 {
		i.env.CreateHammerHit(target.Pos.Sub(toTarget.Normalized().Mul(target.ProximityRadius * 0.5)))
		return
	}
	i.env.CreateHammerHit(projStart)
}

// AmmoRegenParams returns the refill rate and cap of weapon w.
func (i *Instance) AmmoRegenParams(w character.WeaponKind) AmmoRegenParams {
	params := AmmoRegenParams{
		RegenInterval: i.tuning.Int(tuning.AmmoRegenPrefix + w.String()),
		MaxAmmo:       i.tuning.Int(tuning.MaxAmmoPrefix + w.String()),
	}
	if i.behavior.AmmoRegen != nil {
		return i.behavior.AmmoRegen(w, params)
	}
	return params
}

// GiveClassAttributes strips every weapon from the bound character, sets its
// jump allowance and team, then lets the variant hand out its own kit.
// Safe to repeat.
//
// Postcondition: Without a variant kit the character has no weapons and
// Core.Jumps == Jumps().
func (i *Instance) GiveClassAttributes() {
	c, ok := i.Character()
	if !ok {
		return
	}
	c.TakeAllWeapons()
	c.Core.Jumps = i.Jumps()
	c.SetInfected(i.IsInfected())
	if i.behavior.GrantWeapons != nil {
		i.behavior.GrantWeapons(c)
	}
}

// UpdateSkin pushes the class skin to the owning player.
func (i *Instance) UpdateSkin() {
	if i.player == character.NoPlayer {
		return
	}
	i.env.UpdateSkin(i.player, i.def.Skin)
}
