package gameserver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/geom"
	"github.com/cory-johannsen/infclass/internal/game/playerclass"
	"github.com/cory-johannsen/infclass/internal/game/session"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

// AddPlayer connects a player with no class.
func (w *World) AddPlayer(pid character.PlayerID, name string) error {
	if _, err := w.players.AddPlayer(pid, name); err != nil {
		return fmt.Errorf("adding player: %w", err)
	}
	w.logger.Info("player connected", zap.Int("player", int(pid)), zap.String("name", name))
	return nil
}

// RemovePlayer disconnects pid, removing its character, class instance and
// every child entity the instance owned.
func (w *World) RemovePlayer(pid character.PlayerID) error {
	p, err := w.player(pid)
	if err != nil {
		return err
	}
	if inst, ok := w.instances.Get(p.Instance); ok {
		inst.Destroy()
		w.instances.Remove(p.Instance)
	}
	w.removeCharacter(p)
	if err := w.players.RemovePlayer(pid); err != nil {
		return fmt.Errorf("removing player: %w", err)
	}
	w.logger.Info("player disconnected", zap.Int("player", int(pid)))
	return nil
}

// SetClass replaces pid's class instance with a fresh instance of kind.
// A living character is rebound to the new instance and receives the new
// class attributes.
func (w *World) SetClass(pid character.PlayerID, kind playerclass.Kind) error {
	p, err := w.player(pid)
	if err != nil {
		return err
	}
	def, ok := w.catalog.Get(kind)
	if !ok {
		return fmt.Errorf("setting class of player %d: %w", pid, playerclass.ErrUnknownKind)
	}
	inst, err := playerclass.New(kind, pid, def, w, w.tuning, w.logger)
	if err != nil {
		return fmt.Errorf("setting class of player %d: %w", pid, err)
	}
	if w.scripts != nil {
		if err := w.scripts.AttachTo(inst); err != nil {
			return fmt.Errorf("setting class of player %d: %w", pid, err)
		}
	}

	if old, ok := w.instances.Get(p.Instance); ok {
		old.Destroy()
		w.instances.Remove(p.Instance)
	}
	h := w.instances.Insert(inst)
	inst.SetHandle(h)
	p.Instance = h
	if err := w.players.SetClass(pid, kind); err != nil {
		return fmt.Errorf("setting class of player %d: %w", pid, err)
	}

	inst.OnPlayerClassChanged()
	if _, alive := w.Character(p.Character); alive {
		inst.SetCharacter(p.Character)
	}
	w.logger.Info("class changed", zap.Int("player", int(pid)), zap.Stringer("class", kind))
	return nil
}

// Spawn places a new character for pid at pos and binds it to pid's class.
//
// Postcondition: On success the returned handle resolves to a living
// character whose class attributes are granted.
func (w *World) Spawn(pid character.PlayerID, pos geom.Vec2) (arena.Handle, error) {
	p, err := w.player(pid)
	if err != nil {
		return arena.None, err
	}
	inst, ok := w.instances.Get(p.Instance)
	if !ok {
		return arena.None, fmt.Errorf("spawning player %d: %w", pid, ErrNoClass)
	}
	if _, alive := w.Character(p.Character); alive {
		return arena.None, fmt.Errorf("spawning player %d: %w", pid, ErrAlreadySpawned)
	}
	c := character.New(pid, pos)
	h := w.chars.Insert(c)
	c.SetHandle(h)
	p.Character = h
	inst.SetCharacter(h)
	inst.OnSpawned(playerclass.SpawnContext{Pos: pos})
	w.logger.Debug("player spawned", zap.Int("player", int(pid)), zap.Stringer("class", inst.Kind()))
	return h, nil
}

// ApplyDamage deals amount to the character under target. The target's
// class may adjust the amount or be immune; a fatal hit goes through the
// death path.
func (w *World) ApplyDamage(target arena.Handle, amount int, from character.PlayerID, kind character.DamageKind) {
	c, ok := w.Character(target)
	if !ok {
		return
	}
	ctx := playerclass.DamageContext{Amount: amount, From: from, Kind: kind}
	if inst, ok := w.instances.Get(c.Class()); ok {
		if !inst.CanBeHit() && !environmental(kind) {
			return
		}
		inst.OnDamage(&ctx)
	}
	if c.TakeDamage(ctx.Amount) {
		w.Kill(target, from, kind)
	}
}

// Kill removes the character under target unless its class cannot die or
// refuses the death. A spared character keeps at least 1 health.
func (w *World) Kill(target arena.Handle, killer character.PlayerID, kind character.DamageKind) {
	c, ok := w.Character(target)
	if !ok {
		return
	}
	victim := c.Owner()
	ctx := playerclass.DeathContext{Killer: killer, Kind: kind}
	inst, hasClass := w.instances.Get(c.Class())
	if hasClass && (!inst.CanDie() || inst.PrepareToDie(ctx)) {
		if c.Health() == 0 {
			c.Heal(1)
		}
		w.logger.Debug("death refused",
			zap.Int("player", int(victim)),
			zap.Stringer("class", inst.Kind()),
			zap.Stringer("damage", kind))
		return
	}

	if hasClass {
		inst.OnDeath(ctx)
		inst.SetCharacter(arena.None)
	}
	if c.IsPassenger() {
		if taxi, ok := w.Character(c.Taxi()); ok {
			character.UnlinkPassenger(taxi, c)
		}
	}
	w.CreateDeath(c.Pos, victim)
	c.MarkDead()
	w.chars.Remove(target)
	if p, ok := w.players.GetPlayer(victim); ok && p.Character == target {
		p.Character = arena.None
	}
	w.logger.Info("character died",
		zap.Int("player", int(victim)),
		zap.Int("killer", int(killer)),
		zap.Stringer("damage", kind))

	if killer == victim || killer == character.NoPlayer {
		return
	}
	if kp, ok := w.players.GetPlayer(killer); ok {
		kp.Kills++
		if kinst, ok := w.instances.Get(kp.Instance); ok {
			kinst.OnKilledCharacter(victim, ctx)
		}
	}
}

// KillPlayer kills pid's character.
func (w *World) KillPlayer(pid, killer character.PlayerID, kind character.DamageKind) error {
	p, err := w.player(pid)
	if err != nil {
		return err
	}
	if _, alive := w.Character(p.Character); !alive {
		return fmt.Errorf("killing player %d: %w", pid, ErrNotSpawned)
	}
	w.Kill(p.Character, killer, kind)
	return nil
}

// DamagePlayer deals amount to pid's character.
func (w *World) DamagePlayer(pid character.PlayerID, amount int, from character.PlayerID, kind character.DamageKind) error {
	p, err := w.player(pid)
	if err != nil {
		return err
	}
	if _, alive := w.Character(p.Character); !alive {
		return fmt.Errorf("damaging player %d: %w", pid, ErrNotSpawned)
	}
	w.ApplyDamage(p.Character, amount, from, kind)
	return nil
}

// Heal restores up to amount health to pid's character and returns how much
// was restored. Nothing is restored while the class has healing disabled.
func (w *World) Heal(pid character.PlayerID, amount int) (int, error) {
	c, inst, err := w.living(pid)
	if err != nil {
		return 0, err
	}
	if inst != nil && inst.IsHealingDisabled() {
		return 0, nil
	}
	return c.Heal(amount), nil
}

// FreezePlayer freezes pid's character for at least seconds.
func (w *World) FreezePlayer(pid character.PlayerID, seconds float64) error {
	c, _, err := w.living(pid)
	if err != nil {
		return err
	}
	c.Freeze(tuning.SecondsToTicks(seconds, w.tickSpeed))
	return nil
}

// Unfreeze thaws pid's character and reports whether it was thawed. Classes
// that cannot be unfrozen stay frozen until the timer runs out.
func (w *World) Unfreeze(pid character.PlayerID) (bool, error) {
	c, inst, err := w.living(pid)
	if err != nil {
		return false, err
	}
	if !c.IsFrozen() {
		return false, nil
	}
	if inst != nil && !inst.CanBeUnfreezed() {
		return false, nil
	}
	c.Unfreeze()
	return true, nil
}

// HookAttach makes pid's hook grab target on the next core step. Hooks on
// a hook-protected teammate are ignored.
func (w *World) HookAttach(pid, target character.PlayerID) error {
	c, _, err := w.living(pid)
	if err != nil {
		return err
	}
	tp, err := w.player(target)
	if err != nil {
		return err
	}
	if tp.HookProtection && w.sameTeam(pid, target) {
		return nil
	}
	c.RequestHookAttach(target)
	return nil
}

// CollectFloatingPoints credits points to pid and notifies its class.
func (w *World) CollectFloatingPoints(pid character.PlayerID, points int) error {
	p, err := w.player(pid)
	if err != nil {
		return err
	}
	p.FloatingPoints += points
	if inst, ok := w.instances.Get(p.Instance); ok {
		inst.OnFloatingPointsCollected(points)
	}
	return nil
}

// SetInput stores the input pid's character acts on next tick.
func (w *World) SetInput(pid character.PlayerID, in character.Input) error {
	c, _, err := w.living(pid)
	if err != nil {
		return err
	}
	c.Input = in
	return nil
}

// LinkPassenger seats rider on taxi.
func (w *World) LinkPassenger(taxi, rider character.PlayerID) error {
	tc, _, err := w.living(taxi)
	if err != nil {
		return err
	}
	rc, _, err := w.living(rider)
	if err != nil {
		return err
	}
	if tc == rc || tc.HasPassenger() || rc.IsPassenger() {
		return fmt.Errorf("linking player %d onto %d: already linked", rider, taxi)
	}
	character.LinkPassenger(tc, rc)
	return nil
}

// DetachPassenger drops whoever rides the character under taxi.
func (w *World) DetachPassenger(taxi arena.Handle) {
	tc, ok := w.Character(taxi)
	if !ok || !tc.HasPassenger() {
		return
	}
	rider, _ := w.Character(tc.Passenger())
	character.UnlinkPassenger(tc, rider)
}

func (w *World) player(pid character.PlayerID) (*session.Player, error) {
	p, ok := w.players.GetPlayer(pid)
	if !ok {
		return nil, fmt.Errorf("player %d: %w", pid, ErrUnknownPlayer)
	}
	return p, nil
}

// living returns pid's character and class instance; inst is nil for a
// character without a class.
func (w *World) living(pid character.PlayerID) (*character.Character, *playerclass.Instance, error) {
	p, err := w.player(pid)
	if err != nil {
		return nil, nil, err
	}
	c, ok := w.Character(p.Character)
	if !ok {
		return nil, nil, fmt.Errorf("player %d: %w", pid, ErrNotSpawned)
	}
	inst, _ := w.instances.Get(c.Class())
	return c, inst, nil
}

func (w *World) removeCharacter(p *session.Player) {
	c, ok := w.Character(p.Character)
	if ok {
		if c.HasPassenger() {
			w.DetachPassenger(p.Character)
		}
		if c.IsPassenger() {
			if taxi, ok := w.Character(c.Taxi()); ok {
				character.UnlinkPassenger(taxi, c)
			}
		}
		c.MarkDead()
		w.chars.Remove(p.Character)
	}
	p.Character = arena.None
}

func (w *World) sameTeam(a, b character.PlayerID) bool {
	ka, _ := w.players.Class(a)
	kb, _ := w.players.Class(b)
	return ka.IsInfected() == kb.IsInfected() && ka != playerclass.KindNone && kb != playerclass.KindNone
}

// environmental damage ignores immunity.
func environmental(kind character.DamageKind) bool {
	return kind == character.DamageDeathTile || kind == character.DamageGame
}
