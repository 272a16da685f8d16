package entity

import (
	"fmt"

	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/geom"
	"github.com/cory-johannsen/infclass/internal/game/netid"
)

// Projectile is a fired shot travelling in a straight line until its
// lifetime runs out. Collision is resolved elsewhere.
type Projectile struct {
	owner   character.PlayerID
	weapon  character.WeaponKind
	pos     geom.Vec2
	vel     geom.Vec2
	endTick int

	pool      *netid.Pool
	id        netid.ID
	destroyed bool
}

// NewProjectile spawns a projectile at pos moving by vel every tick.
//
// Precondition: pool is non-nil.
func NewProjectile(pool *netid.Pool, weapon character.WeaponKind, pos, vel geom.Vec2, owner character.PlayerID, createdTick, lifespan int) (*Projectile, error) {
	id, err := pool.Acquire()
	if err != nil {
		return nil, fmt.Errorf("firing %s: %w", weapon, err)
	}
	return &Projectile{
		owner:   owner,
		weapon:  weapon,
		pos:     pos,
		vel:     vel,
		endTick: createdTick + lifespan,
		pool:    pool,
		id:      id,
	}, nil
}

// Kind returns KindProjectile.
func (p *Projectile) Kind() Kind { return KindProjectile }

// Owner returns the player who fired the shot.
func (p *Projectile) Owner() character.PlayerID { return p.owner }

// Pos returns the current position.
func (p *Projectile) Pos() geom.Vec2 { return p.pos }

// Weapon returns the weapon that fired the shot.
func (p *Projectile) Weapon() character.WeaponKind { return p.weapon }

// IsDestroyed reports whether the projectile has expired or been torn down.
func (p *Projectile) IsDestroyed() bool { return p.destroyed }

// TickPaused holds the remaining lifetime.
func (p *Projectile) TickPaused(Scene) { p.endTick++ }

// IsVisibleTo reports whether the projectile is within VisibilityRange of observer.
func (p *Projectile) IsVisibleTo(observer geom.Vec2) bool {
	return geom.Distance(p.pos, observer) <= VisibilityRange
}

// Tick moves the projectile by its velocity, or destroys it once its end
// tick is reached.
func (p *Projectile) Tick(s Scene) error {
	if p.destroyed {
		return nil
	}
	if s.CurrentTick() >= p.endTick {
		return p.Destroy()
	}
	p.pos = p.pos.Add(p.vel)
	return nil
}

// Destroy releases the projectile's sub-id. Later calls do nothing.
func (p *Projectile) Destroy() error {
	if p.destroyed {
		return nil
	}
	p.destroyed = true
	if err := release(p.pool, p.id); err != nil {
		return fmt.Errorf("destroying %s projectile: %w", p.weapon, err)
	}
	return nil
}

// SnapItems returns the single network item of a live projectile.
//
// Postcondition: Returns nil once destroyed.
func (p *Projectile) SnapItems() []SnapItem {
	if p.destroyed {
		return nil
	}
	return []SnapItem{{ID: p.id, Pos: p.pos}}
}
