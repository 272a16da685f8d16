// Package character defines the simulated body a player controls. The class
// layer reads and mutates it but never owns its lifetime.
package character

import (
	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/geom"
)

// DefaultProximityRadius is the hit radius of a standard body.
const DefaultProximityRadius = 28.0

// DefaultMaxHealth is the health a freshly spawned character starts with.
const DefaultMaxHealth = 10

// Weapon is one inventory slot. Negative Ammo means unlimited.
type Weapon struct {
	Got  bool
	Ammo int

	// regen counts ticks towards the next refilled round.
	regen int
}

// Character is a live body in the world.
//
// The class back-reference (Class) and the class instance's forward reference
// must always agree; only the class layer calls SetClass.
type Character struct {
	handle arena.Handle
	owner  PlayerID

	Pos             geom.Vec2
	Direction       geom.Vec2
	ProximityRadius float64

	Input     Input
	PrevInput Input
	Core      Core

	health    int
	armor     int
	maxHealth int
	alive     bool
	paused    bool

	weapons      [NumWeapons]Weapon
	activeWeapon WeaponKind

	class     arena.Handle
	passenger arena.Handle
	taxi      arena.Handle

	infected        bool
	slowMotionTicks int
	frozenTicks     int
	pendingHook     PlayerID
}

// New creates a living character for owner at pos.
//
// Postcondition: IsAlive() is true; no weapons; no class bound.
func New(owner PlayerID, pos geom.Vec2) *Character {
	return &Character{
		owner:           owner,
		Pos:             pos,
		Direction:       geom.V(1, 0),
		ProximityRadius: DefaultProximityRadius,
		health:          DefaultMaxHealth,
		maxHealth:       DefaultMaxHealth,
		alive:           true,
		activeWeapon:    WeaponHammer,
		pendingHook:     NoPlayer,
		Core:            Core{HookedPlayer: NoPlayer},
	}
}

// Handle returns the world handle assigned by SetHandle.
func (c *Character) Handle() arena.Handle { return c.handle }

// SetHandle records the handle the world stored this character under.
func (c *Character) SetHandle(h arena.Handle) { c.handle = h }

// Owner returns the controlling player's id.
func (c *Character) Owner() PlayerID { return c.owner }

// Class returns the handle of the class instance controlling this character.
func (c *Character) Class() arena.Handle { return c.class }

// SetClass sets the class back-reference. arena.None clears it.
func (c *Character) SetClass(h arena.Handle) { c.class = h }

// IsAlive reports whether the character is still in the world.
func (c *Character) IsAlive() bool { return c.alive }

// MarkDead flags the character as removed from the world.
func (c *Character) MarkDead() { c.alive = false }

// IsPaused reports whether the character's simulation is frozen (spectating, pause menu).
func (c *Character) IsPaused() bool { return c.paused }

// SetPaused sets the pause flag.
func (c *Character) SetPaused(p bool) { c.paused = p }

// IsInfected reports whether the controlling class is an infected role.
func (c *Character) IsInfected() bool { return c.infected }

// SetInfected records the team of the controlling class.
func (c *Character) SetInfected(v bool) { c.infected = v }

// Health returns current health.
func (c *Character) Health() int { return c.health }

// Armor returns current armor.
func (c *Character) Armor() int { return c.armor }

// MaxHealth returns the health cap.
func (c *Character) MaxHealth() int { return c.maxHealth }

// SetArmor sets armor, floored at zero.
func (c *Character) SetArmor(a int) { c.armor = max(a, 0) }

// TakeDamage removes amount points, armor first.
//
// Precondition: amount >= 0.
// Postcondition: Returns true iff this call brought health to zero.
func (c *Character) TakeDamage(amount int) (killed bool) {
	if !c.alive || amount <= 0 {
		return false
	}
	if c.armor > 0 {
		absorbed := min(c.armor, amount-amount/2)
		c.armor -= absorbed
		amount -= absorbed
	}
	c.health -= amount
	if c.health <= 0 {
		c.health = 0
		return true
	}
	return false
}

// Heal restores up to amount health and returns how much was restored.
//
// Postcondition: Health() <= MaxHealth().
func (c *Character) Heal(amount int) int {
	if !c.alive || amount <= 0 {
		return 0
	}
	before := c.health
	c.health = min(c.health+amount, c.maxHealth)
	return c.health - before
}

// TakeAllWeapons empties every weapon slot.
//
// Postcondition: WeaponCount() == 0.
func (c *Character) TakeAllWeapons() {
	c.weapons = [NumWeapons]Weapon{}
	c.activeWeapon = WeaponHammer
}

// GiveWeapon fills slot w with ammo. Invalid kinds are ignored.
func (c *Character) GiveWeapon(w WeaponKind, ammo int) {
	if !w.Valid() {
		return
	}
	c.weapons[w] = Weapon{Got: true, Ammo: ammo}
}

// HasWeapon reports whether slot w is filled.
func (c *Character) HasWeapon(w WeaponKind) bool {
	return w.Valid() && c.weapons[w].Got
}

// Ammo returns the ammo in slot w, or 0 when empty.
func (c *Character) Ammo(w WeaponKind) int {
	if !c.HasWeapon(w) {
		return 0
	}
	return c.weapons[w].Ammo
}

// SetAmmo sets the ammo of a filled slot.
func (c *Character) SetAmmo(w WeaponKind, ammo int) {
	if c.HasWeapon(w) {
		c.weapons[w].Ammo = ammo
	}
}

// RegenAmmo advances the refill timer of slot w by one tick and adds a round
// every intervalTicks ticks while the slot is below maxAmmo. Empty slots,
// unlimited ammo and a non-positive interval never refill.
//
// Postcondition: regeneration never raises Ammo(w) above maxAmmo.
func (c *Character) RegenAmmo(w WeaponKind, intervalTicks, maxAmmo int) {
	if !c.HasWeapon(w) || intervalTicks <= 0 || maxAmmo < 0 {
		return
	}
	slot := &c.weapons[w]
	if slot.Ammo < 0 || slot.Ammo >= maxAmmo {
		slot.regen = 0
		return
	}
	slot.regen++
	if slot.regen >= intervalTicks {
		slot.Ammo++
		slot.regen = 0
	}
}

// WeaponCount returns the number of filled slots.
func (c *Character) WeaponCount() int {
	n := 0
	for _, w := range c.weapons {
		if w.Got {
			n++
		}
	}
	return n
}

// ActiveWeapon returns the selected weapon slot.
func (c *Character) ActiveWeapon() WeaponKind { return c.activeWeapon }

// SetActiveWeapon selects slot w if it is filled.
func (c *Character) SetActiveWeapon(w WeaponKind) {
	if c.HasWeapon(w) {
		c.activeWeapon = w
	}
}

// IsPassenger reports whether this character rides on a taxi.
func (c *Character) IsPassenger() bool { return !c.taxi.IsNone() }

// HasPassenger reports whether someone rides on this character.
func (c *Character) HasPassenger() bool { return !c.passenger.IsNone() }

// Passenger returns the handle of the rider, or arena.None.
func (c *Character) Passenger() arena.Handle { return c.passenger }

// Taxi returns the handle of the character being ridden, or arena.None.
func (c *Character) Taxi() arena.Handle { return c.taxi }

// LinkPassenger seats passenger on taxi.
//
// Precondition: both are non-nil and distinct; neither is already linked.
func LinkPassenger(taxi, passenger *Character) {
	taxi.passenger = passenger.handle
	passenger.taxi = taxi.handle
}

// UnlinkPassenger clears taxi's rider. passenger may be nil when the rider
// is already gone from the world.
func UnlinkPassenger(taxi, passenger *Character) {
	taxi.passenger = arena.None
	if passenger != nil && passenger.taxi == taxi.handle {
		passenger.taxi = arena.None
	}
}

// JumpPressed reports whether jump went down this tick.
func (c *Character) JumpPressed() bool { return c.Input.Jump && !c.PrevInput.Jump }

// ResetMovementsInput drops horizontal movement and jump input for this tick.
func (c *Character) ResetMovementsInput() {
	c.Input.Direction = 0
	c.Input.Jump = false
}

// ResetHookInput drops hook input for this tick.
func (c *Character) ResetHookInput() {
	c.Input.Hook = false
}

// SlowMotionEffect slows the character for at least ticks ticks.
func (c *Character) SlowMotionEffect(ticks int) {
	c.slowMotionTicks = max(c.slowMotionTicks, ticks)
}

// IsInSlowMotion reports whether a slow-motion effect is active.
func (c *Character) IsInSlowMotion() bool { return c.slowMotionTicks > 0 }

// Freeze stops the character from acting for ticks ticks.
func (c *Character) Freeze(ticks int) {
	c.frozenTicks = max(c.frozenTicks, ticks)
}

// Unfreeze clears the freeze timer.
func (c *Character) Unfreeze() { c.frozenTicks = 0 }

// IsFrozen reports whether the character is frozen.
func (c *Character) IsFrozen() bool { return c.frozenTicks > 0 }

// RequestHookAttach makes the next physics step report that this character's
// hook grabbed target.
func (c *Character) RequestHookAttach(target PlayerID) {
	c.pendingHook = target
}

// TickCore advances the movement step by one tick. slowFactor in (0, 1]
// scales velocity while slow motion is active.
//
// Postcondition: Core.TriggeredEvents holds only this step's events.
func (c *Character) TickCore(slowFactor float64) {
	c.Core.TriggeredEvents = 0
	if c.frozenTicks > 0 {
		c.frozenTicks--
		c.Core.Vel = geom.Vec2{}
		return
	}

	if c.JumpPressed() && c.Core.JumpedTotal < c.Core.Jumps {
		if c.Core.Grounded {
			c.Core.Vel.Y = jumpImpulse
			c.Core.TriggeredEvents |= EventGroundJump
		} else {
			c.Core.Vel.Y = airJumpImpulse
			c.Core.TriggeredEvents |= EventAirJump
		}
		c.Core.JumpedTotal++
		c.Core.Grounded = false
	}

	if c.Input.Hook && !c.PrevInput.Hook {
		c.Core.HookState = HookFlying
		c.Core.TriggeredEvents |= EventHookLaunch
	}
	if !c.Input.Hook && c.Core.HookState != HookIdle {
		c.Core.HookState = HookIdle
		c.Core.HookedPlayer = NoPlayer
	}
	if c.pendingHook != NoPlayer {
		c.Core.HookState = HookGrabbed
		c.Core.HookedPlayer = c.pendingHook
		c.Core.TriggeredEvents |= EventHookAttachPlayer
		c.pendingHook = NoPlayer
	}

	c.Core.Vel.X = float64(c.Input.Direction) * groundSpeed
	vel := c.Core.Vel
	if c.slowMotionTicks > 0 {
		c.slowMotionTicks--
		vel = vel.Mul(slowFactor)
	}
	c.Pos = c.Pos.Add(vel)
	if c.Input.Target != (geom.Vec2{}) {
		c.Direction = c.Input.Target.Normalized()
	}
}

// Land resets the jump counter as if the character touched ground.
func (c *Character) Land() {
	c.Core.Grounded = true
	c.Core.JumpedTotal = 0
	c.Core.Vel.Y = 0
}

// EndTick remembers this tick's input for edge detection next tick.
func (c *Character) EndTick() {
	c.PrevInput = c.Input
}
