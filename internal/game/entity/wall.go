package entity

import (
	"fmt"

	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/geom"
	"github.com/cory-johannsen/infclass/internal/game/netid"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

const (
	// WallThickness is the width of the band that slows infected characters.
	WallThickness = 17.0
	// WallParticles is the number of interior particles drawn along a wall.
	WallParticles = 18
	// WallMaxLength caps the distance between the two endpoints.
	WallMaxLength = 400.0

	wallEndpoints = 2
	wallSubIDs    = wallEndpoints + WallParticles
	// particles complete one sweep along the wall in this many ticks.
	wallDriftPeriod = 50
)

// Wall is a placed, time-limited barrier between two fixed endpoints that
// slows every infected character touching it.
type Wall struct {
	owner   character.PlayerID
	start   geom.Vec2
	end     geom.Vec2
	extent  geom.Vec2
	endTick int

	pool        *netid.Pool
	endpointIDs [wallEndpoints]netid.ID
	particleIDs [WallParticles]netid.ID
	particles   [WallParticles]geom.Vec2
	startTick   int

	destroyed bool
}

// NewWall places a wall starting at pos and extending along direction,
// clamped to WallMaxLength. The wall expires lifespan ticks after createdTick.
//
// Precondition: pool is non-nil; lifespan >= 0.
// Postcondition: On error no sub-id remains acquired and the returned wall is nil.
func NewWall(pool *netid.Pool, pos, direction geom.Vec2, owner character.PlayerID, createdTick, lifespan int) (*Wall, error) {
	if direction.Length() > WallMaxLength {
		direction = direction.Normalized().Mul(WallMaxLength)
	}
	var ids [wallSubIDs]netid.ID
	if err := pool.AcquireN(ids[:]); err != nil {
		return nil, fmt.Errorf("placing wall: %w", err)
	}
	w := &Wall{
		owner:     owner,
		start:     pos,
		end:       pos.Add(direction),
		extent:    direction.Normalized().Perpendicular().Mul(WallThickness),
		endTick:   createdTick + lifespan,
		pool:      pool,
		startTick: createdTick,
	}
	copy(w.endpointIDs[:], ids[:wallEndpoints])
	copy(w.particleIDs[:], ids[wallEndpoints:])
	w.layoutParticles(createdTick)
	return w, nil
}

// Kind returns KindWall.
func (w *Wall) Kind() Kind { return KindWall }

// Owner returns the player who placed the wall.
func (w *Wall) Owner() character.PlayerID { return w.owner }

// Pos returns the first endpoint.
func (w *Wall) Pos() geom.Vec2 { return w.start }

// End returns the second endpoint.
func (w *Wall) End() geom.Vec2 { return w.end }

// EndTick returns the tick at which the wall destroys itself.
func (w *Wall) EndTick() int { return w.endTick }

// Tick expires the wall once its end tick is reached; otherwise it moves the
// particles and slows infected characters inside the band.
func (w *Wall) Tick(s Scene) error {
	if w.destroyed {
		return nil
	}
	now := s.CurrentTick()
	if now >= w.endTick {
		return w.Destroy()
	}
	w.layoutParticles(now)

	slowTicks := tuning.CentisToTicks(s.Tuning().Float(tuning.SlowMotionWallDuration), s.TickSpeed())
	s.EachCharacter(func(c *character.Character) {
		if !c.IsInfected() {
			return
		}
		if w.touches(c) {
			c.SlowMotionEffect(slowTicks)
		}
	})
	return nil
}

// TickPaused keeps the particles still and holds the remaining lifetime.
func (w *Wall) TickPaused(Scene) {
	if !w.destroyed {
		w.endTick++
	}
}

func (w *Wall) touches(c *character.Character) bool {
	closest := geom.ClosestPointOnSegment(w.start, w.end, c.Pos)
	return geom.Distance(closest, c.Pos) <= c.ProximityRadius+WallThickness/2
}

func (w *Wall) layoutParticles(tick int) {
	drift := float64((tick-w.startTick)%wallDriftPeriod) / wallDriftPeriod
	for i := range w.particles {
		t := (float64(i) + drift) / WallParticles
		side := 0.5
		if i%2 == 1 {
			side = -0.5
		}
		w.particles[i] = geom.Lerp(w.start, w.end, t).Add(w.extent.Mul(side))
	}
}

// Destroy releases the wall's sub-ids. Later calls do nothing.
//
// Postcondition: IsDestroyed() is true; every sub-id the wall still held was
// released exactly once. A non-nil error names the ids already free.
func (w *Wall) Destroy() error {
	if w.destroyed {
		return nil
	}
	w.destroyed = true
	ids := make([]netid.ID, 0, wallSubIDs)
	ids = append(ids, w.endpointIDs[:]...)
	ids = append(ids, w.particleIDs[:]...)
	if err := release(w.pool, ids...); err != nil {
		return fmt.Errorf("destroying wall of player %d: %w", w.owner, err)
	}
	return nil
}

// IsDestroyed reports whether the wall has been torn down.
func (w *Wall) IsDestroyed() bool { return w.destroyed }

// IsVisibleTo reports whether any part of the wall is within VisibilityRange of observer.
func (w *Wall) IsVisibleTo(observer geom.Vec2) bool {
	closest := geom.ClosestPointOnSegment(w.start, w.end, observer)
	return geom.Distance(closest, observer) <= VisibilityRange
}

// SnapItems returns the endpoints followed by the particles.
//
// Postcondition: Returns nil once destroyed.
func (w *Wall) SnapItems() []SnapItem {
	if w.destroyed {
		return nil
	}
	items := make([]SnapItem, 0, wallSubIDs)
	items = append(items,
		SnapItem{ID: w.endpointIDs[0], Pos: w.start},
		SnapItem{ID: w.endpointIDs[1], Pos: w.end},
	)
	for i, id := range w.particleIDs {
		items = append(items, SnapItem{ID: id, Pos: w.particles[i]})
	}
	return items
}
