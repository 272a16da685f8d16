package entity

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/geom"
)

// Registry stores the live entities of one world under generational handles.
// It is not safe for concurrent use; the simulation goroutine owns it.
type Registry struct {
	entities *arena.Slab[Entity]
	logger   *zap.Logger
}

// NewRegistry creates an empty Registry.
//
// Precondition: logger must be non-nil.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		panic("entity.NewRegistry: logger must not be nil")
	}
	return &Registry{entities: arena.NewSlab[Entity](64), logger: logger}
}

// Add stores e and returns its handle.
func (r *Registry) Add(e Entity) arena.Handle {
	h := r.entities.Insert(e)
	r.logger.Debug("entity added",
		zap.Stringer("kind", e.Kind()),
		zap.Int("owner", int(e.Owner())),
		zap.Uint64("handle", uint64(h)),
	)
	return h
}

// Get returns the entity stored under h.
//
// Postcondition: Returns (nil, false) for stale or destroyed handles.
func (r *Registry) Get(h arena.Handle) (Entity, bool) {
	return r.entities.Get(h)
}

// Alive reports whether h refers to a live entity.
func (r *Registry) Alive(h arena.Handle) bool {
	return r.entities.Alive(h)
}

// Destroy tears down and removes the entity under h. Stale handles are ignored.
//
// Postcondition: Alive(h) is false.
func (r *Registry) Destroy(h arena.Handle) bool {
	e, ok := r.entities.Get(h)
	if !ok {
		return false
	}
	r.warnRelease(e, e.Destroy())
	r.entities.Remove(h)
	return true
}

// Tick advances every entity once and removes those that destroyed themselves.
// When paused, TickPaused runs instead.
func (r *Registry) Tick(s Scene, paused bool) {
	r.entities.Each(func(h arena.Handle, e Entity) {
		if paused {
			e.TickPaused(s)
		} else {
			r.warnRelease(e, e.Tick(s))
		}
		if e.IsDestroyed() {
			r.entities.Remove(h)
			r.logger.Debug("entity expired",
				zap.Stringer("kind", e.Kind()),
				zap.Int("tick", s.CurrentTick()),
			)
		}
	})
}

// warnRelease logs sub-ids that were already free when e released them.
func (r *Registry) warnRelease(e Entity, err error) {
	if err == nil {
		return
	}
	r.logger.Warn("entity sub-id release failed",
		zap.Stringer("kind", e.Kind()),
		zap.Int("owner", int(e.Owner())),
		zap.Error(err),
	)
}

// Len returns the number of live entities.
func (r *Registry) Len() int { return r.entities.Len() }

// Snapshot returns the sub-parts of every entity visible from observer.
func (r *Registry) Snapshot(observer geom.Vec2) []SnapItem {
	var items []SnapItem
	r.entities.Each(func(_ arena.Handle, e Entity) {
		if e.IsVisibleTo(observer) {
			items = append(items, e.SnapItems()...)
		}
	})
	return items
}

// Each calls fn for every live entity.
func (r *Registry) Each(fn func(h arena.Handle, e Entity)) {
	r.entities.Each(fn)
}
