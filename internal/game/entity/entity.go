// Package entity holds transient world objects created and owned by class
// instances: placed walls and in-flight projectiles. Every entity holds a
// fixed set of network-visible sub-ids acquired at construction and released
// exactly once when it is destroyed.
package entity

import (
	"errors"

	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/geom"
	"github.com/cory-johannsen/infclass/internal/game/netid"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

// Kind identifies the concrete type of an entity.
type Kind int

const (
	KindWall Kind = iota + 1
	KindProjectile
)

// String returns the entity kind name.
func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// VisibilityRange is how far from an observer an entity is still sent.
const VisibilityRange = 1100.0

// Scene is the read access an entity needs to the world while ticking.
type Scene interface {
	CurrentTick() int
	TickSpeed() int
	Tuning() *tuning.Params
	// EachCharacter calls fn for every living character.
	EachCharacter(fn func(c *character.Character))
}

// SnapItem is one network-visible sub-part of an entity.
type SnapItem struct {
	ID  netid.ID
	Pos geom.Vec2
}

// Entity is a transient world object.
type Entity interface {
	Kind() Kind
	Owner() character.PlayerID
	Pos() geom.Vec2
	// Tick advances the entity one tick. It may destroy itself, in which case
	// it returns the error of releasing its sub-ids.
	Tick(s Scene) error
	// TickPaused runs instead of Tick while the world is paused.
	TickPaused(s Scene)
	// Destroy releases every sub-id. Calling it again is a no-op returning nil.
	// A non-nil error wraps netid.ErrNotAllocated: some id was already free.
	Destroy() error
	IsDestroyed() bool
	IsVisibleTo(observer geom.Vec2) bool
	SnapItems() []SnapItem
}

// release returns every id to pool. Ids that were not in use are reported
// together and do not stop the others from being released.
func release(pool *netid.Pool, ids ...netid.ID) error {
	var errs []error
	for _, id := range ids {
		if err := pool.Release(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
