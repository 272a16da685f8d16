package gameserver

import (
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/geom"
)

// EffectKind names a cosmetic world event.
type EffectKind int

const (
	EffectDeath EffectKind = iota + 1
	EffectHammerHit
)

func (k EffectKind) String() string {
	switch k {
	case EffectDeath:
		return "death"
	case EffectHammerHit:
		return "hammer_hit"
	default:
		return "unknown"
	}
}

// Effect is a cosmetic event emitted during a tick for clients to render.
type Effect struct {
	Kind   EffectKind
	Pos    geom.Vec2
	Player character.PlayerID
	Tick   int
}

// CreateDeath records a death burst at pos attributed to pid.
func (w *World) CreateDeath(pos geom.Vec2, pid character.PlayerID) {
	w.effects = append(w.effects, Effect{Kind: EffectDeath, Pos: pos, Player: pid, Tick: w.tick})
}

// CreateHammerHit records a hammer impact at pos.
func (w *World) CreateHammerHit(pos geom.Vec2) {
	w.effects = append(w.effects, Effect{Kind: EffectHammerHit, Pos: pos, Player: character.NoPlayer, Tick: w.tick})
}

// Effects drains and returns every effect recorded since the previous call.
//
// Postcondition: A subsequent call returns only newer effects.
func (w *World) Effects() []Effect {
	out := w.effects
	w.effects = nil
	return out
}
