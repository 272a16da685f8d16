package playerclass

import (
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

// kit returns a GrantWeapons hook handing out weapons filled to their
// configured maximum. The first weapon becomes active.
func kit(i *Instance, weapons ...character.WeaponKind) func(c *character.Character) {
	return func(c *character.Character) {
		for _, w := range weapons {
			c.GiveWeapon(w, i.tuning.Int(tuning.MaxAmmoPrefix+w.String()))
		}
		if len(weapons) > 0 {
			c.SetActiveWeapon(weapons[0])
		}
	}
}

func withKit(weapons ...character.WeaponKind) Factory {
	return func(i *Instance) *Behavior {
		return &Behavior{GrantWeapons: kit(i, weapons...)}
	}
}
