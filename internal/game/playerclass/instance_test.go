package playerclass_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/geom"
	"github.com/cory-johannsen/infclass/internal/game/playerclass"
	"github.com/cory-johannsen/infclass/internal/game/tuning"
)

func TestNew_RejectsInvalidKind(t *testing.T) {
	w := newWorld(t)
	def, _ := w.catalog.Get(playerclass.KindMedic)
	_, err := playerclass.New(playerclass.KindNone, 0, def, w, w.params, zaptest.NewLogger(t))
	assert.True(t, errors.Is(err, playerclass.ErrUnknownKind))
}

func TestUnbound_AccessorsReturnZeroSentinels(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstance(playerclass.KindHero, 0)

	assert.Equal(t, geom.Vec2{}, inst.Pos())
	assert.Equal(t, geom.Vec2{}, inst.Direction())
	assert.Zero(t, inst.ProximityRadius())
	assert.Zero(t, inst.HammerRange())
	assert.Zero(t, inst.HammerProjOffset())
	_, ok := inst.Character()
	assert.False(t, ok)

	// Tick hooks and events are safe while unbound.
	inst.PreCoreTick()
	inst.CoreTick()
	inst.PostCoreTick()
	inst.DeferredTick()
	inst.TickPaused()
	inst.OnDeath(playerclass.DeathContext{Killer: character.NoPlayer})
	inst.GiveClassAttributes()
}

func TestSetCharacter_BindsBothDirections(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstance(playerclass.KindSoldier, 0)
	c := w.addCharacter(0, geom.V(10, 20))

	inst.SetCharacter(c.Handle())
	assert.Equal(t, c.Handle(), inst.CharacterHandle())
	assert.Equal(t, inst.Handle(), c.Class())
	assert.Equal(t, geom.V(10, 20), inst.Pos())
	assert.Equal(t, character.DefaultProximityRadius, inst.ProximityRadius())
	assert.InDelta(t, character.DefaultProximityRadius*0.75, inst.HammerProjOffset(), 1e-9)
	assert.InDelta(t, character.DefaultProximityRadius*0.5, inst.HammerRange(), 1e-9)
}

func TestSetCharacter_SameCharacterIsNoop(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstance(playerclass.KindMedic, 0)
	c := w.addCharacter(0, geom.Vec2{})
	inst.SetCharacter(c.Handle())

	c.GiveWeapon(character.WeaponNinja, 1)
	inst.SetCharacter(c.Handle())
	assert.True(t, c.HasWeapon(character.WeaponNinja), "rebinding the same character must not regrant attributes")
}

func TestSetCharacter_RebindTearsDownOld(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstance(playerclass.KindLooper, 0)
	first := w.addCharacter(0, geom.V(0, 0))
	second := w.addCharacter(0, geom.V(500, 0))
	inst.SetCharacter(first.Handle())

	wall, err := w.SpawnWall(geom.V(0, 0), geom.V(100, 0), 0, 100)
	require.NoError(t, err)
	inst.AdoptChild(wall)
	require.Equal(t, 20, w.pool.InUse())

	inst.SetCharacter(second.Handle())
	assert.True(t, first.Class().IsNone())
	assert.Equal(t, inst.Handle(), second.Class())
	assert.False(t, w.entities.Alive(wall))
	assert.Empty(t, inst.Children())
	assert.Equal(t, 0, w.pool.InUse())
}

func TestSetCharacter_NoneOnlyUnbinds(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstance(playerclass.KindMedic, 0)
	c := w.addCharacter(0, geom.Vec2{})
	inst.SetCharacter(c.Handle())

	inst.SetCharacter(arena.None)
	assert.True(t, inst.CharacterHandle().IsNone())
	assert.True(t, c.Class().IsNone())
}

func TestSetCharacter_StealsFromOtherInstance(t *testing.T) {
	w := newWorld(t)
	a := w.addInstance(playerclass.KindMedic, 0)
	b := w.addInstance(playerclass.KindSmoker, 1)
	c := w.addCharacter(0, geom.Vec2{})
	a.SetCharacter(c.Handle())

	b.SetCharacter(c.Handle())
	assert.True(t, a.CharacterHandle().IsNone(), "the previous owner is unbound first")
	assert.Equal(t, b.Handle(), c.Class())
	assert.True(t, c.IsInfected())
}

func TestSetCharacter_DeadCharacterStaysUnbound(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstance(playerclass.KindMedic, 0)
	c := w.addCharacter(0, geom.Vec2{})
	c.MarkDead()

	inst.SetCharacter(c.Handle())
	assert.True(t, inst.CharacterHandle().IsNone())
}

func TestGiveClassAttributes_StripsWeaponsAndSetsJumps(t *testing.T) {
	w := newWorld(t)
	// Old weapons are stripped; only the class's own hammer kit is handed out.
	jumps := 3
	def := &playerclass.Definition{Class: "witch", Jumps: &jumps}
	require.NoError(t, w.catalog.Register(def))
	inst := w.addInstance(playerclass.KindWitch, 0)
	c := w.addCharacter(0, geom.Vec2{})
	c.GiveWeapon(character.WeaponLaser, 4)
	c.GiveWeapon(character.WeaponNinja, 4)

	inst.SetCharacter(c.Handle())
	assert.False(t, c.HasWeapon(character.WeaponLaser))
	assert.False(t, c.HasWeapon(character.WeaponNinja))
	assert.Equal(t, 1, c.WeaponCount(), "only the hammer kit remains")
	assert.Equal(t, 3, c.Core.Jumps)
}

func TestGiveClassAttributes_WithoutKitLeavesNoWeapons(t *testing.T) {
	t.Cleanup(playerclass.WithoutKit(playerclass.KindWitch))
	for n := range int(character.NumWeapons) + 1 {
		w := newWorld(t)
		inst := w.addInstance(playerclass.KindWitch, 0)
		c := w.addCharacter(0, geom.Vec2{})
		for k := range character.WeaponKind(n) {
			c.GiveWeapon(k, 3)
		}
		require.Equal(t, n, c.WeaponCount())

		inst.SetCharacter(c.Handle())
		assert.Zero(t, c.WeaponCount(), "with %d weapons before", n)
		assert.Equal(t, playerclass.DefaultJumps, c.Core.Jumps)
	}
}

func TestGiveClassAttributes_ZeroJumps(t *testing.T) {
	w := newWorld(t)
	zero := 0
	require.NoError(t, w.catalog.Register(&playerclass.Definition{Class: "ghost", Jumps: &zero}))
	inst := w.addInstance(playerclass.KindGhost, 0)
	c := w.addCharacter(0, geom.Vec2{})
	inst.SetCharacter(c.Handle())
	assert.Zero(t, c.Core.Jumps)
}

func TestGiveClassAttributes_DefaultJumps(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstance(playerclass.KindHero, 0)
	c := w.addCharacter(0, geom.Vec2{})
	inst.SetCharacter(c.Handle())
	assert.Equal(t, playerclass.DefaultJumps, c.Core.Jumps)
	assert.False(t, c.IsInfected())
}

func TestPropertyGiveClassAttributes_IndependentOfPriorWeapons(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := newWorld(t)
		kind := rapid.SampledFrom(playerclass.Kinds()).Draw(rt, "kind")
		inst := w.addInstance(kind, 0)
		c := w.addCharacter(0, geom.Vec2{})
		for _, wk := range rapid.SliceOf(rapid.IntRange(0, int(character.NumWeapons)-1)).Draw(rt, "weapons") {
			c.GiveWeapon(character.WeaponKind(wk), 7)
		}
		inst.SetCharacter(c.Handle())
		kitSize := c.WeaponCount()

		for _, wk := range rapid.SliceOf(rapid.IntRange(0, int(character.NumWeapons)-1)).Draw(rt, "more") {
			c.GiveWeapon(character.WeaponKind(wk), 7)
		}
		inst.GiveClassAttributes()
		assert.Equal(rt, kitSize, c.WeaponCount())
		assert.Equal(rt, inst.Jumps(), c.Core.Jumps)
	})
}

func TestTeams_ExactlyOneOfHumanOrInfected(t *testing.T) {
	w := newWorld(t)
	for n, k := range playerclass.Kinds() {
		inst := w.addInstance(k, character.PlayerID(n))
		assert.NotEqual(t, inst.IsHuman(), inst.IsInfected(), k.String())
	}
}

func TestPredicates_Defaults(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstance(playerclass.KindMedic, 0)
	assert.True(t, inst.CanDie())
	assert.True(t, inst.CanBeHit())
	assert.True(t, inst.CanBeUnfreezed())
	assert.Equal(t, playerclass.EmoteNormal, inst.DefaultEmote())
	assert.Zero(t, inst.GhoulPercent())
}

func TestPredicates_FromDefinition(t *testing.T) {
	w := newWorld(t)
	no := false
	require.NoError(t, w.catalog.Register(&playerclass.Definition{Class: "ghost", CanBeHit: &no, DefaultEmote: playerclass.EmoteBlink}))
	inst := w.addInstance(playerclass.KindGhost, 0)
	assert.False(t, inst.CanBeHit())
	assert.True(t, inst.CanDie())
	assert.Equal(t, playerclass.EmoteBlink, inst.DefaultEmote())
}

func TestCIDAndPlayerClass(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstance(playerclass.KindSniper, 4)
	assert.Equal(t, 4, inst.CID())
	assert.Equal(t, playerclass.KindSniper, inst.PlayerClass())

	def, _ := w.catalog.Get(playerclass.KindSniper)
	orphan, err := playerclass.New(playerclass.KindSniper, character.NoPlayer, def, w, w.params, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, -1, orphan.CID())
	assert.Equal(t, playerclass.KindNone, orphan.PlayerClass())
}

func TestAmmoRegenParams_FromTuning(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstance(playerclass.KindMedic, 0)
	w.params.Override(tuning.AmmoRegenPrefix+"gun", 300)
	assert.Equal(t, playerclass.AmmoRegenParams{RegenInterval: 300, MaxAmmo: 10}, inst.AmmoRegenParams(character.WeaponGun))
	assert.Equal(t, -1, inst.AmmoRegenParams(character.WeaponHammer).MaxAmmo)
}

func TestCreateHammerHit(t *testing.T) {
	w := newWorld(t)
	inst := w.addInstance(playerclass.KindSlug, 0)
	target := w.addCharacter(1, geom.V(100, 0))

	inst.CreateHammerHit(geom.V(0, 0), target)
	inst.CreateHammerHit(geom.V(100, 0), target)
	require.Len(t, w.hammerHits, 2)
	assert.InDelta(t, 100-character.DefaultProximityRadius*0.5, w.hammerHits[0].X, 1e-9)
	assert.Equal(t, geom.V(100, 0), w.hammerHits[1])
}
