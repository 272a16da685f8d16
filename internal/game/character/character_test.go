package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/geom"
)

func newWithHandle(t *testing.T, slab *arena.Slab[*character.Character], owner character.PlayerID) *character.Character {
	t.Helper()
	c := character.New(owner, geom.V(0, 0))
	c.SetHandle(slab.Insert(c))
	return c
}

func TestNew_Defaults(t *testing.T) {
	c := character.New(3, geom.V(10, 20))
	assert.True(t, c.IsAlive())
	assert.Equal(t, character.PlayerID(3), c.Owner())
	assert.Equal(t, character.DefaultMaxHealth, c.Health())
	assert.Equal(t, 0, c.WeaponCount())
	assert.True(t, c.Class().IsNone())
	assert.Equal(t, character.NoPlayer, c.Core.HookedPlayer)
}

func TestTakeAllWeapons_EmptiesEverySlot(t *testing.T) {
	c := character.New(0, geom.Vec2{})
	c.GiveWeapon(character.WeaponHammer, -1)
	c.GiveWeapon(character.WeaponGun, 10)
	c.GiveWeapon(character.WeaponLaser, 5)
	require.Equal(t, 3, c.WeaponCount())

	c.TakeAllWeapons()
	assert.Equal(t, 0, c.WeaponCount())
	assert.Equal(t, 0, c.Ammo(character.WeaponGun))
}

func TestGiveWeapon_InvalidIgnored(t *testing.T) {
	c := character.New(0, geom.Vec2{})
	c.GiveWeapon(character.NumWeapons, 1)
	c.GiveWeapon(-1, 1)
	assert.Equal(t, 0, c.WeaponCount())
	assert.False(t, c.HasWeapon(character.NumWeapons))
}

func TestRegenAmmo_OneRoundPerInterval(t *testing.T) {
	c := character.New(0, geom.Vec2{})
	c.GiveWeapon(character.WeaponGun, 0)

	for range 5 {
		c.RegenAmmo(character.WeaponGun, 6, 10)
	}
	assert.Equal(t, 0, c.Ammo(character.WeaponGun))
	c.RegenAmmo(character.WeaponGun, 6, 10)
	assert.Equal(t, 1, c.Ammo(character.WeaponGun))
}

func TestRegenAmmo_SkipsEmptyUnlimitedAndDisabled(t *testing.T) {
	c := character.New(0, geom.Vec2{})
	c.GiveWeapon(character.WeaponHammer, -1)
	c.GiveWeapon(character.WeaponGun, 0)
	for range 100 {
		c.RegenAmmo(character.WeaponHammer, 1, 10)
		c.RegenAmmo(character.WeaponGun, 0, 10)
		c.RegenAmmo(character.WeaponLaser, 1, 10)
	}
	assert.Equal(t, -1, c.Ammo(character.WeaponHammer))
	assert.Equal(t, 0, c.Ammo(character.WeaponGun))
	assert.False(t, c.HasWeapon(character.WeaponLaser))
}

func TestPropertyRegenAmmo_NeverExceedsMax(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := character.New(0, geom.Vec2{})
		maxAmmo := rapid.IntRange(0, 20).Draw(t, "max")
		start := rapid.IntRange(0, maxAmmo).Draw(t, "start")
		interval := rapid.IntRange(1, 10).Draw(t, "interval")
		n := rapid.IntRange(0, 300).Draw(t, "ticks")
		c.GiveWeapon(character.WeaponGun, start)

		for range n {
			c.RegenAmmo(character.WeaponGun, interval, maxAmmo)
		}
		assert.Equal(t, min(start+n/interval, maxAmmo), c.Ammo(character.WeaponGun))
	})
}

func TestSetActiveWeapon_RequiresWeapon(t *testing.T) {
	c := character.New(0, geom.Vec2{})
	c.SetActiveWeapon(character.WeaponLaser)
	assert.Equal(t, character.WeaponHammer, c.ActiveWeapon())
	c.GiveWeapon(character.WeaponLaser, 3)
	c.SetActiveWeapon(character.WeaponLaser)
	assert.Equal(t, character.WeaponLaser, c.ActiveWeapon())
}

func TestTakeDamage_ArmorFirstThenHealth(t *testing.T) {
	c := character.New(0, geom.Vec2{})
	c.SetArmor(2)
	killed := c.TakeDamage(4)
	assert.False(t, killed)
	assert.Equal(t, 0, c.Armor())
	assert.Equal(t, character.DefaultMaxHealth-2, c.Health())
}

func TestTakeDamage_KillsAtZero(t *testing.T) {
	c := character.New(0, geom.Vec2{})
	assert.True(t, c.TakeDamage(character.DefaultMaxHealth))
	assert.Equal(t, 0, c.Health())
	c.MarkDead()
	assert.False(t, c.TakeDamage(5), "dead characters take no damage")
}

func TestHeal_CappedAtMax(t *testing.T) {
	c := character.New(0, geom.Vec2{})
	c.TakeDamage(3)
	assert.Equal(t, 3, c.Heal(10))
	assert.Equal(t, c.MaxHealth(), c.Health())
}

func TestPassengerLink(t *testing.T) {
	slab := arena.NewSlab[*character.Character](4)
	taxi := newWithHandle(t, slab, 0)
	rider := newWithHandle(t, slab, 1)

	character.LinkPassenger(taxi, rider)
	assert.True(t, taxi.HasPassenger())
	assert.True(t, rider.IsPassenger())
	assert.Equal(t, rider.Handle(), taxi.Passenger())
	assert.Equal(t, taxi.Handle(), rider.Taxi())

	character.UnlinkPassenger(taxi, rider)
	assert.False(t, taxi.HasPassenger())
	assert.False(t, rider.IsPassenger())
}

func TestUnlinkPassenger_RiderGone(t *testing.T) {
	slab := arena.NewSlab[*character.Character](4)
	taxi := newWithHandle(t, slab, 0)
	rider := newWithHandle(t, slab, 1)
	character.LinkPassenger(taxi, rider)

	character.UnlinkPassenger(taxi, nil)
	assert.False(t, taxi.HasPassenger())
}

func TestResetInputs(t *testing.T) {
	c := character.New(0, geom.Vec2{})
	c.Input = character.Input{Direction: 1, Jump: true, Hook: true, Fire: true}
	c.ResetMovementsInput()
	assert.Equal(t, 0, c.Input.Direction)
	assert.False(t, c.Input.Jump)
	assert.True(t, c.Input.Hook)
	c.ResetHookInput()
	assert.False(t, c.Input.Hook)
	assert.True(t, c.Input.Fire, "fire is untouched")
}

func TestTickCore_JumpEdgeConsumesAllowance(t *testing.T) {
	c := character.New(0, geom.Vec2{})
	c.Core.Jumps = 2
	c.Land()

	c.Input.Jump = true
	c.TickCore(1)
	assert.True(t, c.Core.Has(character.EventGroundJump))
	c.EndTick()

	c.TickCore(1)
	assert.Zero(t, c.Core.TriggeredEvents, "holding jump is not a new edge")
	c.EndTick()

	c.Input.Jump = false
	c.TickCore(1)
	c.EndTick()
	c.Input.Jump = true
	c.TickCore(1)
	assert.True(t, c.Core.Has(character.EventAirJump))
	c.EndTick()

	c.Input.Jump = false
	c.TickCore(1)
	c.EndTick()
	c.Input.Jump = true
	c.TickCore(1)
	assert.Zero(t, c.Core.TriggeredEvents, "allowance exhausted")
	assert.Equal(t, 2, c.Core.JumpedTotal)
}

func TestTickCore_HookAttachEvent(t *testing.T) {
	c := character.New(0, geom.Vec2{})
	c.RequestHookAttach(4)
	c.TickCore(1)
	assert.True(t, c.Core.Has(character.EventHookAttachPlayer))
	assert.Equal(t, character.PlayerID(4), c.Core.HookedPlayer)
	assert.Equal(t, character.HookGrabbed, c.Core.HookState)

	c.EndTick()
	c.TickCore(1)
	assert.False(t, c.Core.Has(character.EventHookAttachPlayer), "events are per step")
}

func TestTickCore_SlowMotionScalesMovement(t *testing.T) {
	normal := character.New(0, geom.Vec2{})
	slowed := character.New(1, geom.Vec2{})
	normal.Input.Direction = 1
	slowed.Input.Direction = 1
	slowed.SlowMotionEffect(1)

	normal.TickCore(0.5)
	slowed.TickCore(0.5)
	assert.InDelta(t, normal.Pos.X/2, slowed.Pos.X, 1e-9)
	assert.False(t, slowed.IsInSlowMotion())
}

func TestTickCore_FrozenDoesNotMove(t *testing.T) {
	c := character.New(0, geom.V(5, 5))
	c.Freeze(2)
	c.Input.Direction = 1
	c.TickCore(1)
	assert.Equal(t, geom.V(5, 5), c.Pos)
	assert.True(t, c.IsFrozen())
	c.Unfreeze()
	assert.False(t, c.IsFrozen())
}

func TestPropertySlowMotionKeepsMaximum(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := character.New(0, geom.Vec2{})
		durations := rapid.SliceOfN(rapid.IntRange(0, 500), 1, 20).Draw(t, "durations")
		longest := 0
		for _, d := range durations {
			c.SlowMotionEffect(d)
			longest = max(longest, d)
		}
		for range longest {
			assert.True(t, c.IsInSlowMotion())
			c.TickCore(1)
		}
		assert.False(t, c.IsInSlowMotion())
	})
}
