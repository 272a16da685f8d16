package playerclass

import (
	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/entity"
	"github.com/cory-johannsen/infclass/internal/game/geom"
)

// WeaponFireContext describes a shot the generic weapon code is about to
// create. Handlers may adjust the projectile or cancel it.
type WeaponFireContext struct {
	Weapon    character.WeaponKind
	ProjStart geom.Vec2
	Direction geom.Vec2
	Speed     float64
	// Lifespan is the projectile lifetime in ticks; 0 means no projectile (melee).
	Lifespan int
	AmmoCost int
	// NoAmmo is set when the shooter lacked the ammo for this shot.
	NoAmmo    bool
	cancelled bool
}

// Cancel suppresses the projectile or effect this fire would create.
func (c *WeaponFireContext) Cancel() { c.cancelled = true }

// Cancelled reports whether a handler cancelled the fire.
func (c *WeaponFireContext) Cancelled() bool { return c.cancelled }

// DamageContext is damage about to be applied to a character.
// Handlers may change Amount; a negative result is treated as zero.
type DamageContext struct {
	Amount int
	From   character.PlayerID
	Kind   character.DamageKind
}

// DeathContext describes who killed a character and how.
type DeathContext struct {
	Killer character.PlayerID
	Kind   character.DamageKind
}

// SpawnContext describes where a character entered the world.
type SpawnContext struct {
	Pos geom.Vec2
}

// Env is the world a class instance acts on. The simulation driver
// implements it; no instance stores a pointer to another world object.
type Env interface {
	TickSpeed() int
	CurrentTick() int

	// Character resolves h to a living character.
	Character(h arena.Handle) (*character.Character, bool)
	// Instance resolves h to a live class instance.
	Instance(h arena.Handle) (*Instance, bool)
	// PlayerClass returns the current class of pid.
	PlayerClass(pid character.PlayerID) (Kind, bool)
	// CharacterOf returns the living character controlled by pid.
	CharacterOf(pid character.PlayerID) (*character.Character, bool)
	// EachCharacter calls fn for every living character.
	EachCharacter(fn func(c *character.Character))

	ApplyDamage(target arena.Handle, amount int, from character.PlayerID, kind character.DamageKind)
	// Kill removes the character under target unless its class refuses.
	Kill(target arena.Handle, killer character.PlayerID, kind character.DamageKind)
	DetachPassenger(taxi arena.Handle)

	CreateDeath(pos geom.Vec2, pid character.PlayerID)
	CreateHammerHit(pos geom.Vec2)
	Broadcast(pid character.PlayerID, text string)
	UpdateSkin(pid character.PlayerID, skin string)
	SetHookProtection(pid character.PlayerID, on bool)

	SpawnWall(pos, direction geom.Vec2, owner character.PlayerID, lifespan int) (arena.Handle, error)
	Entity(h arena.Handle) (entity.Entity, bool)
	DestroyEntity(h arena.Handle)
}
