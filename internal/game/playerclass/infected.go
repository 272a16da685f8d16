package playerclass

import (
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/geom"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

// undeadFreezeSeconds is how long an undead stays frozen after refusing death.
const undeadFreezeSeconds = 10.0

func init() {
	for _, k := range []Kind{KindBoomer, KindHunter, KindGhost, KindSpider, KindGhoul, KindWitch} {
		register(k, withKit(hammer))
	}
	register(KindSmoker, newSmoker)
	register(KindBat, newBat)
	register(KindSlug, newSlug)
	register(KindVoodoo, newVoodoo)
	register(KindUndead, newUndead)
}

// newSmoker damages every human its hook grabs.
func newSmoker(i *Instance) *Behavior {
	return &Behavior{
		GrantWeapons: kit(i, hammer),
		OnHookAttachedPlayer: func(target character.PlayerID) {
			victim, ok := i.env.CharacterOf(target)
			if !ok || victim.IsInfected() {
				return
			}
			i.env.ApplyDamage(victim.Handle(), i.tuning.Int(tuning.SmokerHookDamage), i.player, character.DamageSmokerHook)
		},
	}
}

// newBat trades weapons for a large air-jump allowance.
func newBat(i *Instance) *Behavior {
	return &Behavior{
		GrantWeapons: kit(i, hammer),
		Jumps:        func() int { return i.tuning.Int(tuning.BatAirjumpLimit) },
	}
}

// newSlug poisons every human its hammer reaches.
func newSlug(i *Instance) *Behavior {
	b := &Behavior{GrantWeapons: kit(i, hammer)}
	b.Fire[character.WeaponHammer] = func(ctx *WeaponFireContext) {
		self, ok := i.Character()
		if !ok {
			return
		}
		reach := i.HammerRange()
		i.env.EachCharacter(func(c *character.Character) {
			if c == self || c.IsInfected() {
				return
			}
			if geom.Distance(ctx.ProjStart, c.Pos) > reach+c.ProximityRadius {
				return
			}
			i.CreateHammerHit(ctx.ProjStart, c)
			if victim, ok := i.env.Instance(c.Class()); ok {
				victim.Poison(i.tuning.Int(tuning.SlimePoisonDamage), i.player, character.DamageSlugSlime)
			}
		})
	}
	return b
}

type voodoo struct {
	i        *Instance
	spirit   bool
	deadline int
	killer   character.PlayerID
	kind     character.DamageKind
}

// newVoodoo survives its first death as an untouchable spirit and dies for
// good once inf_voodoo_alive_time has passed.
func newVoodoo(i *Instance) *Behavior {
	v := &voodoo{i: i}
	return &Behavior{
		GrantWeapons: kit(i, hammer),
		CanBeHit:     func() bool { return !v.spirit },
		OnSpawned:    func(SpawnContext) { v.spirit = false },
		PrepareToDie: v.prepareToDie,
		DeferredTick: v.deferredTick,
	}
}

func (v *voodoo) prepareToDie(ctx DeathContext) bool {
	if v.spirit {
		return false
	}
	v.spirit = true
	v.killer = ctx.Killer
	v.kind = ctx.Kind
	v.deadline = v.i.env.CurrentTick() + tuning.MillisToTicks(v.i.tuning.Float(tuning.VoodooAliveTime), v.i.env.TickSpeed())
	return true
}

func (v *voodoo) deferredTick(c *character.Character) {
	if v.spirit && v.i.env.CurrentTick() >= v.deadline {
		v.i.env.Kill(c.Handle(), v.killer, v.kind)
	}
}

// newUndead cannot be thawed and turns a death into a freeze unless it is
// already frozen.
func newUndead(i *Instance) *Behavior {
	return &Behavior{
		GrantWeapons:   kit(i, hammer),
		CanBeUnfreezed: func() bool { return false },
		PrepareToDie: func(DeathContext) bool {
			c, ok := i.Character()
			if !ok || c.IsFrozen() {
				return false
			}
			c.Freeze(tuning.SecondsToTicks(undeadFreezeSeconds, i.env.TickSpeed()))
			return true
		},
	}
}
