package playerclass

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

// Poison schedules count poison cycles unless a stronger poison is active.
func (i *Instance) Poison(count int, from character.PlayerID, kind character.DamageKind) {
	i.effects.ApplyPoison(count, from, kind)
}

// PoisonLevel returns the number of scheduled poison cycles.
func (i *Instance) PoisonLevel() int { return i.effects.Poison() }

// DisableHealing suppresses healing for at least seconds.
func (i *Instance) DisableHealing(seconds float64, from character.PlayerID, kind character.DamageKind) {
	i.effects.DisableHealing(seconds, i.env.TickSpeed(), from, kind)
}

// IsHealingDisabled reports whether healing is currently suppressed.
func (i *Instance) IsHealingDisabled() bool { return i.effects.IsHealingDisabled() }

// HealingDisabledTicks returns the remaining suppression countdown.
func (i *Instance) HealingDisabledTicks() int { return i.effects.HealingDisabledTicks() }

// PreCoreTick runs before the physics step. A passenger's movement and hook
// input is dropped unless jump was just pressed, which releases the ride.
func (i *Instance) PreCoreTick() {
	c, ok := i.Character()
	if !ok {
		return
	}
	if c.IsPassenger() && !c.JumpPressed() {
		c.ResetMovementsInput()
		c.ResetHookInput()
	}
	if i.behavior.PreCoreTick != nil {
		i.behavior.PreCoreTick(c)
	}
}

// CoreTick refills ammo, advances the status effects after the physics step
// and applies a poison cycle if one fired. Damage may kill and unbind the
// character.
func (i *Instance) CoreTick() {
	c, ok := i.Character()
	if !ok {
		return
	}
	i.regenAmmo(c)
	pos := c.Pos
	if hit, fired := i.effects.Tick(i.tuning, i.env.TickSpeed()); fired {
		i.env.ApplyDamage(i.character, hit.Damage, hit.From, hit.Kind)
		if k, ok := i.env.PlayerClass(hit.From); ok && k.IsPoisonSpecialist() {
			i.env.CreateDeath(pos, hit.From)
		}
	}
	if c, ok = i.Character(); ok && i.behavior.BroadcastWeaponState != nil {
		i.behavior.BroadcastWeaponState(c)
	}
	for _, s := range i.scripts {
		s.OnTick(i)
	}
}

// regenAmmo refills every held weapon at the rate AmmoRegenParams gives.
func (i *Instance) regenAmmo(c *character.Character) {
	for w := range character.NumWeapons {
		p := i.AmmoRegenParams(w)
		if p.RegenInterval <= 0 {
			continue
		}
		interval := max(tuning.MillisToTicks(float64(p.RegenInterval), i.env.TickSpeed()), 1)
		c.RegenAmmo(w, interval, p.MaxAmmo)
	}
}

// TickPaused runs instead of CoreTick while the character is paused.
func (i *Instance) TickPaused() {
	c, ok := i.Character()
	if !ok {
		return
	}
	if i.behavior.TickPaused != nil {
		i.behavior.TickPaused(c)
	}
}

// PostCoreTick reacts to this tick's physics events.
func (i *Instance) PostCoreTick() {
	c, ok := i.Character()
	if !ok {
		return
	}
	if c.Core.Has(character.EventHookAttachPlayer) {
		i.OnHookAttachedPlayer(c.Core.HookedPlayer)
	}
}

// DeferredTick runs after every instance finished its core tick.
func (i *Instance) DeferredTick() {
	c, ok := i.Character()
	if !ok {
		return
	}
	if i.behavior.DeferredTick != nil {
		i.behavior.DeferredTick(c)
	}
}

// OnHookAttachedPlayer reacts to this character's hook grabbing target.
func (i *Instance) OnHookAttachedPlayer(target character.PlayerID) {
	if i.behavior.OnHookAttachedPlayer != nil {
		i.behavior.OnHookAttachedPlayer(target)
	}
}

// OnSpawned resets the status effects, refreshes the skin and grants the
// class attributes to the freshly spawned character.
func (i *Instance) OnSpawned(ctx SpawnContext) {
	i.effects.Reset()
	i.UpdateSkin()
	i.GiveClassAttributes()
	if i.behavior.OnSpawned != nil {
		i.behavior.OnSpawned(ctx)
	}
	for _, s := range i.scripts {
		s.OnSpawned(i, ctx)
	}
}

// OnDeath drops any passenger and tears down child entities.
func (i *Instance) OnDeath(ctx DeathContext) {
	if c, ok := i.Character(); ok && c.HasPassenger() {
		i.env.DetachPassenger(i.character)
	}
	i.DestroyChildEntities()
	if i.behavior.OnDeath != nil {
		i.behavior.OnDeath(ctx)
	}
	for _, s := range i.scripts {
		s.OnDeath(i, ctx)
	}
}

// PrepareToDie gives the class a chance to refuse a death.
//
// Postcondition: Returns false unless the variant vetoes.
func (i *Instance) PrepareToDie(ctx DeathContext) (refused bool) {
	if i.behavior.PrepareToDie == nil {
		return false
	}
	refused = i.behavior.PrepareToDie(ctx)
	if refused {
		i.logger.Debug("death refused", zap.Int("killer", int(ctx.Killer)), zap.Stringer("damage", ctx.Kind))
	}
	return refused
}

// OnDamage lets the class adjust damage it is about to take.
func (i *Instance) OnDamage(ctx *DamageContext) {
	if i.behavior.OnDamage != nil {
		i.behavior.OnDamage(ctx)
	}
	ctx.Amount = max(ctx.Amount, 0)
}

// OnKilledCharacter notifies the killer's class of a kill.
func (i *Instance) OnKilledCharacter(victim character.PlayerID, ctx DeathContext) {
	if i.behavior.OnKilledCharacter != nil {
		i.behavior.OnKilledCharacter(victim, ctx)
	}
}

// OnFloatingPointsCollected handles picked-up currency.
func (i *Instance) OnFloatingPointsCollected(points int) {
	if i.behavior.OnFloatingPoints != nil {
		i.behavior.OnFloatingPoints(points)
	}
	for _, s := range i.scripts {
		s.OnFloatingPoints(i, points)
	}
}

// OnPlayerClassChanged refreshes the skin and grants the player hook
// protection, as every class change does.
func (i *Instance) OnPlayerClassChanged() {
	i.UpdateSkin()
	if i.player != character.NoPlayer {
		i.env.SetHookProtection(i.player, true)
	}
	if i.behavior.OnClassChanged != nil {
		i.behavior.OnClassChanged()
	}
}

// OnWeaponFired routes ctx to the reaction registered for its weapon.
// Kinds without a reaction are ignored.
func (i *Instance) OnWeaponFired(ctx *WeaponFireContext) {
	if !ctx.Weapon.Valid() {
		return
	}
	if fire := i.behavior.Fire[ctx.Weapon]; fire != nil {
		fire(ctx)
	}
	for _, s := range i.scripts {
		s.OnWeaponFired(i, ctx)
	}
}

// AdoptChild makes the instance responsible for destroying entity h.
func (i *Instance) AdoptChild(h arena.Handle) {
	i.children = append(i.children, h)
}

// Children returns the handles of child entities that are still alive.
func (i *Instance) Children() []arena.Handle {
	live := i.children[:0]
	for _, h := range i.children {
		if _, ok := i.env.Entity(h); ok {
			live = append(live, h)
		}
	}
	i.children = live
	return append([]arena.Handle(nil), live...)
}

// DestroyChildEntities destroys every entity the instance spawned.
//
// Postcondition: Children() is empty.
func (i *Instance) DestroyChildEntities() {
	for _, h := range i.children {
		i.env.DestroyEntity(h)
	}
	i.children = i.children[:0]
}
