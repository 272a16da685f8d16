package playerclass_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/entity"
	"github.com/cory-johannsen/infclass/internal/game/geom"
	"github.com/cory-johannsen/infclass/internal/game/netid"
	"github.com/cory-johannsen/infclass/internal/game/playerclass"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

type damageRecord struct {
	target arena.Handle
	amount int
	from   character.PlayerID
	kind   character.DamageKind
}

// world is a minimal Env backed by slabs, enough to drive instances in tests.
type world struct {
	t         *testing.T
	tick      int
	chars     *arena.Slab[*character.Character]
	instances *arena.Slab[*playerclass.Instance]
	classes   map[character.PlayerID]playerclass.Kind
	entities  *entity.Registry
	pool      *netid.Pool
	params    *tuning.Params
	catalog   *playerclass.Catalog

	damage     []damageRecord
	deaths     []geom.Vec2
	hammerHits []geom.Vec2
	broadcasts []string
	skins      map[character.PlayerID]string
	hookProt   map[character.PlayerID]bool
	detached   []arena.Handle
	killed     []arena.Handle
}

func newWorld(t *testing.T) *world {
	return &world{
		t:         t,
		chars:     arena.NewSlab[*character.Character](8),
		instances: arena.NewSlab[*playerclass.Instance](8),
		classes:   make(map[character.PlayerID]playerclass.Kind),
		entities:  entity.NewRegistry(zaptest.NewLogger(t)),
		pool:      netid.NewPool(256),
		params:    tuning.New(nil),
		catalog:   playerclass.NewCatalog(),
		skins:     make(map[character.PlayerID]string),
		hookProt:  make(map[character.PlayerID]bool),
	}
}

func (w *world) addInstance(kind playerclass.Kind, pid character.PlayerID) *playerclass.Instance {
	w.t.Helper()
	def, ok := w.catalog.Get(kind)
	require.True(w.t, ok)
	inst, err := playerclass.New(kind, pid, def, w, w.params, zaptest.NewLogger(w.t))
	require.NoError(w.t, err)
	inst.SetHandle(w.instances.Insert(inst))
	w.classes[pid] = kind
	return inst
}

func (w *world) addCharacter(pid character.PlayerID, pos geom.Vec2) *character.Character {
	c := character.New(pid, pos)
	c.SetHandle(w.chars.Insert(c))
	return c
}

func (w *world) TickSpeed() int { return 50 }
func (w *world) CurrentTick() int { return w.tick }

func (w *world) Character(h arena.Handle) (*character.Character, bool) {
	c, ok := w.chars.Get(h)
	if !ok || !c.IsAlive() {
		return nil, false
	}
	return c, true
}

func (w *world) Instance(h arena.Handle) (*playerclass.Instance, bool) {
	return w.instances.Get(h)
}

func (w *world) PlayerClass(pid character.PlayerID) (playerclass.Kind, bool) {
	k, ok := w.classes[pid]
	return k, ok
}

func (w *world) CharacterOf(pid character.PlayerID) (*character.Character, bool) {
	var found *character.Character
	w.chars.Each(func(_ arena.Handle, c *character.Character) {
		if c.Owner() == pid && c.IsAlive() {
			found = c
		}
	})
	return found, found != nil
}

func (w *world) EachCharacter(fn func(c *character.Character)) {
	w.chars.Each(func(_ arena.Handle, c *character.Character) {
		if c.IsAlive() {
			fn(c)
		}
	})
}

func (w *world) ApplyDamage(target arena.Handle, amount int, from character.PlayerID, kind character.DamageKind) {
	w.damage = append(w.damage, damageRecord{target: target, amount: amount, from: from, kind: kind})
	if c, ok := w.Character(target); ok {
		c.TakeDamage(amount)
	}
}

func (w *world) Kill(target arena.Handle, _ character.PlayerID, _ character.DamageKind) {
	w.killed = append(w.killed, target)
}

func (w *world) DetachPassenger(taxi arena.Handle) {
	w.detached = append(w.detached, taxi)
	c, ok := w.Character(taxi)
	if !ok {
		return
	}
	rider, _ := w.Character(c.Passenger())
	character.UnlinkPassenger(c, rider)
}

func (w *world) CreateDeath(pos geom.Vec2, _ character.PlayerID) { w.deaths = append(w.deaths, pos) }
func (w *world) CreateHammerHit(pos geom.Vec2) { w.hammerHits = append(w.hammerHits, pos) }
func (w *world) Broadcast(_ character.PlayerID, text string) { w.broadcasts = append(w.broadcasts, text) }
func (w *world) UpdateSkin(pid character.PlayerID, skin string) { w.skins[pid] = skin }
func (w *world) SetHookProtection(pid character.PlayerID, on bool) {
	w.hookProt[pid] = on
}

func (w *world) SpawnWall(pos, direction geom.Vec2, owner character.PlayerID, lifespan int) (arena.Handle, error) {
	wall, err := entity.NewWall(w.pool, pos, direction, owner, w.tick, lifespan)
	if err != nil {
		return arena.None, err
	}
	return w.entities.Add(wall), nil
}

func (w *world) Entity(h arena.Handle) (entity.Entity, bool) { return w.entities.Get(h) }
func (w *world) DestroyEntity(h arena.Handle) { w.entities.Destroy(h) }

// Tuning completes entity.Scene so the registry can tick against the world.
func (w *world) Tuning() *tuning.Params { return w.params }
