package gameserver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/entity"
	"github.com/cory-johannsen/infclass/internal/game/playerclass"
)

// weaponSpec is the generic shot each weapon produces before the class
// reacts to it. A zero lifespan means the weapon is melee.
type weaponSpec struct {
	speed           float64
	lifespanSeconds float64
	ammoCost        int
}

var weaponSpecs = [character.NumWeapons]weaponSpec{
	character.WeaponHammer:  {},
	character.WeaponGun:     {speed: 44, lifespanSeconds: 2, ammoCost: 1},
	character.WeaponShotgun: {speed: 40, lifespanSeconds: 0.2, ammoCost: 1},
	character.WeaponGrenade: {speed: 20, lifespanSeconds: 2, ammoCost: 1},
	character.WeaponLaser:   {speed: 80, lifespanSeconds: 0.16, ammoCost: 1},
	character.WeaponNinja:   {},
}

// FireWeapon fires pid's weapon. The class sees the shot first and may
// reshape or cancel it. Returns the projectile handle, or arena.None when
// no projectile was created.
func (w *World) FireWeapon(pid character.PlayerID, weapon character.WeaponKind) (arena.Handle, error) {
	c, inst, err := w.living(pid)
	if err != nil {
		return arena.None, err
	}
	if !weapon.Valid() || !c.HasWeapon(weapon) {
		return arena.None, fmt.Errorf("player %d firing %s: %w", pid, weapon, ErrNoWeapon)
	}
	c.SetActiveWeapon(weapon)

	spec := weaponSpecs[weapon]
	ctx := playerclass.WeaponFireContext{
		Weapon:    weapon,
		Direction: c.Direction,
		Speed:     spec.speed,
		Lifespan:  int(spec.lifespanSeconds * float64(w.tickSpeed)),
		AmmoCost:  spec.ammoCost,
	}
	ctx.ProjStart = c.Pos
	if inst != nil {
		ctx.ProjStart = c.Pos.Add(c.Direction.Mul(inst.HammerProjOffset()))
	}
	ammo := c.Ammo(weapon)
	if ammo >= 0 && ammo < ctx.AmmoCost {
		ctx.NoAmmo = true
	}

	if inst != nil {
		inst.OnWeaponFired(&ctx)
	}
	if ctx.Cancelled() || ctx.NoAmmo {
		return arena.None, nil
	}
	if ammo >= 0 && ctx.AmmoCost > 0 {
		c.SetAmmo(weapon, ammo-ctx.AmmoCost)
	}
	if ctx.Lifespan <= 0 {
		return arena.None, nil
	}

	vel := ctx.Direction.Normalized().Mul(ctx.Speed)
	proj, err := entity.NewProjectile(w.ids, weapon, ctx.ProjStart, vel, pid, w.tick, ctx.Lifespan)
	if err != nil {
		w.logger.Warn("projectile not created", zap.Int("player", int(pid)), zap.Error(err))
		return arena.None, nil
	}
	return w.entities.Add(proj), nil
}
