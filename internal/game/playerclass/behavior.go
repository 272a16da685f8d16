package playerclass

import (
	"github.com/cory-johannsen/infclass/internal/game/character"
)

// FireFunc reacts to one weapon kind being fired.
type FireFunc func(ctx *WeaponFireContext)

// AmmoRegenParams says how fast a weapon refills and up to how much.
// MaxAmmo < 0 means unlimited.
type AmmoRegenParams struct {
	// RegenInterval is in milliseconds; 0 disables regeneration.
	RegenInterval int
	MaxAmmo       int
}

// Behavior is the override table of one class instance. A nil field keeps
// the shared default. Variant constructors capture per-instance state in
// the closures they install.
type Behavior struct {
	// Jumps overrides the definition's jump allowance.
	Jumps func() int
	// GrantWeapons runs after every weapon was taken away.
	GrantWeapons func(c *character.Character)

	CanDie         func() bool
	CanBeHit       func() bool
	CanBeUnfreezed func() bool

	PreCoreTick          func(c *character.Character)
	BroadcastWeaponState func(c *character.Character)
	OnHookAttachedPlayer func(target character.PlayerID)
	DeferredTick         func(c *character.Character)
	TickPaused           func(c *character.Character)

	OnSpawned         func(ctx SpawnContext)
	OnDeath           func(ctx DeathContext)
	OnDamage          func(ctx *DamageContext)
	OnKilledCharacter func(victim character.PlayerID, ctx DeathContext)
	OnFloatingPoints  func(points int)
	OnClassChanged    func()
	// PrepareToDie may veto a death by returning true.
	PrepareToDie func(ctx DeathContext) (refuse bool)

	// Fire holds one reaction per weapon kind, in WeaponKind order.
	Fire [character.NumWeapons]FireFunc

	AmmoRegen    func(w character.WeaponKind, def AmmoRegenParams) AmmoRegenParams
	DefaultEmote func() Emote
}

// Fire must stay one entry per weapon; a new WeaponKind breaks the build here
// until every variant table is revisited.
var (
	_ [6 - character.NumWeapons]struct{}
	_ [character.NumWeapons - 6]struct{}
)

// Factory builds the behavior table for a new instance of one kind.
type Factory func(i *Instance) *Behavior

var factories = map[Kind]Factory{}

// register installs the factory for k. Called from variant init functions.
func register(k Kind, f Factory) {
	if _, dup := factories[k]; dup {
		panic("playerclass: duplicate factory for " + k.String())
	}
	factories[k] = f
}

func defaultBehavior(*Instance) *Behavior { return &Behavior{} }
