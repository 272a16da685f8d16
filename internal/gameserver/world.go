// Package gameserver is the simulation driver: it owns every player,
// character, class instance and child entity of one running world and
// advances them in a fixed per-tick order.
package gameserver

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/entity"
	"github.com/cory-johannsen/infclass/internal/game/geom"
	"github.com/cory-johannsen/infclass/internal/game/netid"
	"github.com/cory-johannsen/infclass/internal/game/playerclass"
	"github.com/cory-johannsen/infclass/internal/game/session"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

var (
	// ErrUnknownPlayer is returned for a player id that is not connected.
	ErrUnknownPlayer = errors.New("gameserver: unknown player")
	// ErrNoClass is returned when spawning a player without a class.
	ErrNoClass = errors.New("gameserver: player has no class")
	// ErrNotSpawned is returned when an operation needs a living character.
	ErrNotSpawned = errors.New("gameserver: player has no character")
	// ErrAlreadySpawned is returned when spawning a player who is alive.
	ErrAlreadySpawned = errors.New("gameserver: player already spawned")
	// ErrNoWeapon is returned when firing a weapon the character lacks.
	ErrNoWeapon = errors.New("gameserver: weapon not held")
)

// ScriptAttacher extends freshly created class instances with scripts.
type ScriptAttacher interface {
	AttachTo(inst *playerclass.Instance) error
}

// Options configures a World.
type Options struct {
	TickSpeed  int
	MaxPlayers int
	// SnapIDs is the number of network-visible ids shared by all entities.
	SnapIDs int
	Tuning  *tuning.Params
	Catalog *playerclass.Catalog
	Logger  *zap.Logger
	// Scripts is optional.
	Scripts ScriptAttacher
}

// World is one running simulation. It implements playerclass.Env and
// entity.Scene.
//
// World is not safe for concurrent use; TickLoop serialises access to it.
type World struct {
	runID     uuid.UUID
	logger    *zap.Logger
	tickSpeed int
	tick      int
	paused    bool

	tuning  *tuning.Params
	catalog *playerclass.Catalog
	scripts ScriptAttacher

	players   *session.Manager
	chars     *arena.Slab[*character.Character]
	instances *arena.Slab[*playerclass.Instance]
	entities  *entity.Registry
	ids       *netid.Pool

	effects []Effect
}

var (
	_ playerclass.Env = (*World)(nil)
	_ entity.Scene    = (*World)(nil)
)

// NewWorld creates an empty world.
//
// Precondition: opts.TickSpeed, opts.MaxPlayers and opts.SnapIDs must be > 0;
// opts.Tuning, opts.Catalog and opts.Logger must be non-nil.
func NewWorld(opts Options) *World {
	if opts.TickSpeed <= 0 {
		panic("gameserver.NewWorld: TickSpeed must be > 0")
	}
	if opts.Tuning == nil || opts.Catalog == nil || opts.Logger == nil {
		panic("gameserver.NewWorld: Tuning, Catalog and Logger must not be nil")
	}
	runID := uuid.New()
	logger := opts.Logger.With(zap.String("run_id", runID.String()))
	return &World{
		runID:     runID,
		logger:    logger,
		tickSpeed: opts.TickSpeed,
		tuning:    opts.Tuning,
		catalog:   opts.Catalog,
		scripts:   opts.Scripts,
		players:   session.NewManager(opts.MaxPlayers),
		chars:     arena.NewSlab[*character.Character](opts.MaxPlayers),
		instances: arena.NewSlab[*playerclass.Instance](opts.MaxPlayers),
		entities:  entity.NewRegistry(logger),
		ids:       netid.NewPool(opts.SnapIDs),
	}
}

// RunID identifies this world in logs.
func (w *World) RunID() uuid.UUID { return w.runID }

// TickSpeed returns ticks per second.
func (w *World) TickSpeed() int { return w.tickSpeed }

// CurrentTick returns the number of completed ticks.
func (w *World) CurrentTick() int { return w.tick }

// Tuning returns the parameter source.
func (w *World) Tuning() *tuning.Params { return w.tuning }

// Players returns the player registry.
func (w *World) Players() *session.Manager { return w.players }

// Entities returns the child entity registry.
func (w *World) Entities() *entity.Registry { return w.entities }

// SnapIDs returns the network-visible id pool.
func (w *World) SnapIDs() *netid.Pool { return w.ids }

// SetPaused pauses or resumes the whole world.
func (w *World) SetPaused(p bool) { w.paused = p }

// Character resolves h to a living character.
func (w *World) Character(h arena.Handle) (*character.Character, bool) {
	c, ok := w.chars.Get(h)
	if !ok || !c.IsAlive() {
		return nil, false
	}
	return c, true
}

// Instance resolves h to a class instance.
func (w *World) Instance(h arena.Handle) (*playerclass.Instance, bool) {
	return w.instances.Get(h)
}

// PlayerClass returns the class pid currently holds.
func (w *World) PlayerClass(pid character.PlayerID) (playerclass.Kind, bool) {
	return w.players.Class(pid)
}

// CharacterOf returns pid's living character.
func (w *World) CharacterOf(pid character.PlayerID) (*character.Character, bool) {
	p, ok := w.players.GetPlayer(pid)
	if !ok {
		return nil, false
	}
	return w.Character(p.Character)
}

// InstanceOf returns pid's class instance.
func (w *World) InstanceOf(pid character.PlayerID) (*playerclass.Instance, bool) {
	p, ok := w.players.GetPlayer(pid)
	if !ok {
		return nil, false
	}
	return w.instances.Get(p.Instance)
}

// EachCharacter calls fn for every living character.
func (w *World) EachCharacter(fn func(c *character.Character)) {
	w.chars.Each(func(_ arena.Handle, c *character.Character) {
		if c.IsAlive() {
			fn(c)
		}
	})
}

// Characters returns every living character in slot order.
func (w *World) Characters() []*character.Character {
	out := make([]*character.Character, 0, w.chars.Len())
	w.EachCharacter(func(c *character.Character) { out = append(out, c) })
	return out
}

// Entity resolves h to a live child entity.
func (w *World) Entity(h arena.Handle) (entity.Entity, bool) {
	return w.entities.Get(h)
}

// DestroyEntity destroys the entity under h. Stale handles are ignored.
func (w *World) DestroyEntity(h arena.Handle) {
	w.entities.Destroy(h)
}

// SpawnWall places a wall owned by owner for lifespan ticks.
func (w *World) SpawnWall(pos, direction geom.Vec2, owner character.PlayerID, lifespan int) (arena.Handle, error) {
	wall, err := entity.NewWall(w.ids, pos, direction, owner, w.tick, lifespan)
	if err != nil {
		return arena.None, err
	}
	return w.entities.Add(wall), nil
}

// Snapshot returns the entity parts pid can currently see.
func (w *World) Snapshot(pid character.PlayerID) []entity.SnapItem {
	c, ok := w.CharacterOf(pid)
	if !ok {
		return nil
	}
	return w.entities.Snapshot(c.Pos)
}

// PlayerView is what a client is shown about one player.
type PlayerView struct {
	Name            string
	Class           playerclass.Kind
	Skin            string
	Infected        bool
	Emote           playerclass.Emote
	GhoulPercent    float64
	Alive           bool
	Health          int
	Armor           int
	Poison          int
	HealingDisabled bool
}

// View describes pid for the snapshot layer. Class fields are zero while
// pid has no class; body fields are zero while it has no living character.
func (w *World) View(pid character.PlayerID) (PlayerView, error) {
	p, err := w.player(pid)
	if err != nil {
		return PlayerView{}, err
	}
	v := PlayerView{Name: p.Name, Class: p.Class, Skin: p.Skin}
	if inst, ok := w.instances.Get(p.Instance); ok {
		v.Infected = inst.IsInfected()
		v.Emote = inst.DefaultEmote()
		v.GhoulPercent = inst.GhoulPercent()
		v.Poison = inst.PoisonLevel()
		v.HealingDisabled = inst.IsHealingDisabled()
	}
	if c, ok := w.Character(p.Character); ok {
		v.Alive = true
		v.Health = c.Health()
		v.Armor = c.Armor()
	}
	return v, nil
}

// Broadcast sends text to pid's outbox.
func (w *World) Broadcast(pid character.PlayerID, text string) {
	p, ok := w.players.GetPlayer(pid)
	if !ok {
		return
	}
	if err := p.Outbox.Push(text); err != nil {
		w.logger.Debug("broadcast dropped", zap.Int("player", int(pid)), zap.Error(err))
	}
}

// UpdateSkin records the skin pid is shown with.
func (w *World) UpdateSkin(pid character.PlayerID, skin string) {
	if p, ok := w.players.GetPlayer(pid); ok {
		p.Skin = skin
	}
}

// SetHookProtection sets whether teammates' hooks can grab pid.
func (w *World) SetHookProtection(pid character.PlayerID, on bool) {
	if p, ok := w.players.GetPlayer(pid); ok {
		p.HookProtection = on
	}
}
