package character

// PlayerID is a connected client's id. NoPlayer marks "nobody".
type PlayerID int

// NoPlayer is the PlayerID of world-caused effects and absent owners.
const NoPlayer PlayerID = -1

// WeaponKind enumerates the weapon slots of a character.
type WeaponKind int

const (
	WeaponHammer WeaponKind = iota
	WeaponGun
	WeaponShotgun
	WeaponGrenade
	WeaponLaser
	WeaponNinja

	// NumWeapons is the number of weapon slots.
	NumWeapons
)

var weaponNames = [NumWeapons]string{
	WeaponHammer:  "hammer",
	WeaponGun:     "gun",
	WeaponShotgun: "shotgun",
	WeaponGrenade: "grenade",
	WeaponLaser:   "laser",
	WeaponNinja:   "ninja",
}

// Valid reports whether w names a weapon slot.
func (w WeaponKind) Valid() bool { return w >= 0 && w < NumWeapons }

// String returns the weapon's lower-case name, or "unknown".
func (w WeaponKind) String() string {
	if !w.Valid() {
		return "unknown"
	}
	return weaponNames[w]
}

// DamageKind tags where damage came from, for kill attribution and cosmetics.
type DamageKind int

const (
	DamageNone DamageKind = iota
	DamageHammer
	DamageGun
	DamageShotgun
	DamageGrenade
	DamageLaser
	DamageNinja
	DamagePoison
	DamageSlugSlime
	DamageSmokerHook
	DamageInfection
	DamageDeathTile
	DamageGame
)

// String returns a human-readable damage label.
func (d DamageKind) String() string {
	switch d {
	case DamageNone:
		return "none"
	case DamageHammer:
		return "hammer"
	case DamageGun:
		return "gun"
	case DamageShotgun:
		return "shotgun"
	case DamageGrenade:
		return "grenade"
	case DamageLaser:
		return "laser"
	case DamageNinja:
		return "ninja"
	case DamagePoison:
		return "poison"
	case DamageSlugSlime:
		return "slug_slime"
	case DamageSmokerHook:
		return "smoker_hook"
	case DamageInfection:
		return "infection"
	case DamageDeathTile:
		return "death_tile"
	case DamageGame:
		return "game"
	default:
		return "unknown"
	}
}

// DamageForWeapon returns the damage kind dealt by weapon w.
func DamageForWeapon(w WeaponKind) DamageKind {
	switch w {
	case WeaponHammer:
		return DamageHammer
	case WeaponGun:
		return DamageGun
	case WeaponShotgun:
		return DamageShotgun
	case WeaponGrenade:
		return DamageGrenade
	case WeaponLaser:
		return DamageLaser
	case WeaponNinja:
		return DamageNinja
	default:
		return DamageNone
	}
}
