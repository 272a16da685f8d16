// Package status implements the per-instance status effect state machine:
// stacked poison that deals one point of damage per cycle, and a healing
// suppression countdown.
//
// Effects never touch a character directly. Tick reports a PoisonHit when a
// cycle fires and the owner applies it, which keeps the engine testable
// without a world.
package status

import (
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

// PoisonDamagePerCycle is the damage one poison cycle deals.
const PoisonDamagePerCycle = 1

// PoisonHit is one poison cycle that fired during Tick.
type PoisonHit struct {
	Damage int
	From   character.PlayerID
	Kind   character.DamageKind
}

// Effects is the status effect state embedded in one class instance.
// The zero value has no active effects but an unset poison source; use Reset.
// It is not safe for concurrent use.
type Effects struct {
	poison     int
	poisonTick int
	poisonFrom character.PlayerID
	poisonKind character.DamageKind

	healingDisabledTicks int
	healingFrom          character.PlayerID
	healingKind          character.DamageKind
}

// New returns an Effects with nothing active.
func New() Effects {
	var e Effects
	e.Reset()
	return e
}

// Reset clears every effect. Called on (re)spawn.
//
// Postcondition: Poison() == 0 and IsHealingDisabled() is false.
func (e *Effects) Reset() {
	*e = Effects{
		poisonFrom:  character.NoPlayer,
		healingFrom: character.NoPlayer,
	}
}

// ApplyPoison raises the poison level to count if count exceeds the current
// level, recording from and kind as the new source. A smaller count is ignored.
//
// Postcondition: Poison() == max(previous, count).
func (e *Effects) ApplyPoison(count int, from character.PlayerID, kind character.DamageKind) {
	if count <= e.poison {
		return
	}
	e.poison = count
	e.poisonFrom = from
	e.poisonKind = kind
}

// DisableHealing suppresses healing for at least seconds, converted to ticks
// at tickSpeed. An active longer suppression is never shortened.
//
// Precondition: tickSpeed > 0.
// Postcondition: HealingDisabledTicks() == max(previous, int(seconds*tickSpeed)).
func (e *Effects) DisableHealing(seconds float64, tickSpeed int, from character.PlayerID, kind character.DamageKind) {
	ticks := tuning.SecondsToTicks(seconds, tickSpeed)
	if ticks <= e.healingDisabledTicks {
		return
	}
	e.healingDisabledTicks = ticks
	e.healingFrom = from
	e.healingKind = kind
}

// Tick advances both effects by one simulation tick. The countdown between
// poison cycles is re-armed from the current tunables every time a cycle fires.
//
// Precondition: p is non-nil; tickSpeed > 0.
// Postcondition: ok is true iff a poison cycle fired; Poison() decreased by one in that case.
func (e *Effects) Tick(p *tuning.Params, tickSpeed int) (hit PoisonHit, ok bool) {
	if e.poison > 0 {
		if e.poisonTick > 0 {
			e.poisonTick--
		}
		if e.poisonTick == 0 {
			e.poison--
			e.poisonTick = tuning.PoisonInterval(p, tickSpeed)
			hit = PoisonHit{Damage: PoisonDamagePerCycle, From: e.poisonFrom, Kind: e.poisonKind}
			ok = true
		}
	}
	if e.healingDisabledTicks > 0 {
		e.healingDisabledTicks--
	}
	return hit, ok
}

// Poison returns the number of poison cycles still scheduled.
func (e *Effects) Poison() int { return e.poison }

// PoisonSource returns the player credited with poison damage.
func (e *Effects) PoisonSource() character.PlayerID { return e.poisonFrom }

// PoisonKind returns the damage kind poison cycles are tagged with.
func (e *Effects) PoisonKind() character.DamageKind { return e.poisonKind }

// HealingDisabledTicks returns the remaining suppression countdown.
func (e *Effects) HealingDisabledTicks() int { return e.healingDisabledTicks }

// IsHealingDisabled reports whether healing is currently suppressed.
func (e *Effects) IsHealingDisabled() bool { return e.healingDisabledTicks > 0 }

// HealingSuppressor returns who last extended the healing suppression.
func (e *Effects) HealingSuppressor() (character.PlayerID, character.DamageKind) {
	return e.healingFrom, e.healingKind
}
