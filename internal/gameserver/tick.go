package gameserver

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/playerclass"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

// minSlowFactor keeps slowed characters moving.
const minSlowFactor = 0.05

// Tick advances the world by one tick:
// pre-core, movement core, class core tick (status effects), post-core,
// child entities, deferred, cleanup.
//
// Postcondition: CurrentTick() is one greater.
func (w *World) Tick() {
	ids := w.players.IDs()
	classes := make([]*playerclass.Instance, 0, len(ids))
	for _, pid := range ids {
		if inst, ok := w.InstanceOf(pid); ok {
			classes = append(classes, inst)
		}
	}

	for _, inst := range classes {
		if !w.paused {
			inst.PreCoreTick()
		}
	}

	if !w.paused {
		slow := w.slowFactor()
		w.EachCharacter(func(c *character.Character) {
			if c.IsPaused() {
				return
			}
			if c.IsPassenger() && c.JumpPressed() {
				w.dismount(c)
			}
			c.TickCore(slow)
		})
	}

	for _, inst := range classes {
		c, ok := inst.Character()
		switch {
		case !ok:
		case w.paused || c.IsPaused():
			inst.TickPaused()
		default:
			inst.CoreTick()
		}
	}

	for _, inst := range classes {
		if !w.paused {
			inst.PostCoreTick()
		}
	}

	w.entities.Tick(w, w.paused)

	for _, inst := range classes {
		if !w.paused {
			inst.DeferredTick()
		}
	}

	w.EachCharacter(func(c *character.Character) { c.EndTick() })
	w.tick++
}

// dismount ends rider's ride.
func (w *World) dismount(rider *character.Character) {
	taxi, _ := w.Character(rider.Taxi())
	if taxi == nil {
		return
	}
	character.UnlinkPassenger(taxi, rider)
	w.logger.Debug("passenger dismounted", zap.Int("player", int(rider.Owner())))
}

func (w *World) slowFactor() float64 {
	pct := w.tuning.Float(tuning.SlowMotionPercent)
	return max(1-pct/100, minSlowFactor)
}
