package playerclass

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/entity"
	"github.com/cory-johannsen/infclass/internal/game/geom"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

const (
	hammer  = character.WeaponHammer
	gun     = character.WeaponGun
	shotgun = character.WeaponShotgun
	grenade = character.WeaponGrenade
	laser   = character.WeaponLaser
	ninja   = character.WeaponNinja
)

func init() {
	register(KindMercenary, withKit(gun, hammer, grenade, laser))
	register(KindMedic, withKit(shotgun, hammer, gun, grenade, laser))
	register(KindHero, withKit(gun, hammer, shotgun, grenade, laser))
	register(KindEngineer, withKit(laser, hammer, gun))
	register(KindSoldier, withKit(grenade, hammer, gun))
	register(KindScientist, withKit(gun, hammer, shotgun, grenade, laser))
	register(KindBiologist, withKit(shotgun, hammer, gun, laser))
	register(KindNinja, withKit(hammer, gun, grenade, ninja))
	register(KindSniper, withKit(laser, hammer, gun))
	register(KindLooper, newLooper)
}

// minWallLength rejects a second wall point placed on top of the first.
const minWallLength = 1.0

type looper struct {
	i          *Instance
	firstPoint *geom.Vec2
}

// newLooper builds walls with the hammer: the first swing marks a start
// point, the second raises a wall from there to the character. Walls beyond
// inf_looper_wall_limit replace the oldest one.
func newLooper(i *Instance) *Behavior {
	l := &looper{i: i}
	b := &Behavior{
		GrantWeapons:         kit(i, laser, hammer, gun),
		BroadcastWeaponState: l.broadcast,
		OnSpawned:            func(SpawnContext) { l.firstPoint = nil },
		OnDeath:              func(DeathContext) { l.firstPoint = nil },
	}
	b.Fire[character.WeaponHammer] = l.onHammer
	return b
}

func (l *looper) onHammer(ctx *WeaponFireContext) {
	c, ok := l.i.Character()
	if !ok {
		return
	}
	ctx.Cancel()
	if l.firstPoint == nil {
		p := c.Pos
		l.firstPoint = &p
		return
	}
	start := *l.firstPoint
	l.firstPoint = nil
	direction := c.Pos.Sub(start)
	if direction.Length() < minWallLength {
		return
	}

	env := l.i.env
	limit := max(l.i.tuning.Int(tuning.LooperWallLimit), 1)
	walls := l.walls()
	for len(walls) >= limit {
		env.DestroyEntity(walls[0])
		walls = walls[1:]
	}
	lifespan := tuning.SecondsToTicks(l.i.tuning.Float(tuning.LooperBarrierLifeSpan), env.TickSpeed())
	h, err := env.SpawnWall(start, direction, l.i.player, lifespan)
	if err != nil {
		l.i.logger.Warn("placing wall failed", zap.Error(err))
		return
	}
	l.i.AdoptChild(h)
	env.Broadcast(l.i.player, fmt.Sprintf("Walls: %d/%d", len(walls)+1, limit))
}

// walls returns live wall handles, oldest first.
func (l *looper) walls() []arena.Handle {
	var out []arena.Handle
	for _, h := range l.i.Children() {
		if e, ok := l.i.env.Entity(h); ok && e.Kind() == entity.KindWall {
			out = append(out, h)
		}
	}
	return out
}

func (l *looper) broadcast(*character.Character) {
	if l.firstPoint != nil {
		l.i.env.Broadcast(l.i.player, "Hammer again to raise the wall")
	}
}
