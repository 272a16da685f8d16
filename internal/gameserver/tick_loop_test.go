package gameserver_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/infclass/internal/game/playerclass"
	"github.com/cory-johannsen/infclass/internal/gameserver"
)

func TestIntervalForTickRate(t *testing.T) {
	assert.Equal(t, 20*time.Millisecond, gameserver.IntervalForTickRate(50))
	assert.Panics(t, func() { gameserver.IntervalForTickRate(0) })
}

func TestNewTickLoop_Panics(t *testing.T) {
	assert.Panics(t, func() { gameserver.NewTickLoop(nil, time.Second) })
	assert.Panics(t, func() { gameserver.NewTickLoop(newWorld(t), 0) })
}

func TestTickLoop_StepAppliesCommandsBeforeTick(t *testing.T) {
	w := newWorld(t)
	loop := gameserver.NewTickLoop(w, time.Second)
	var tickSeen int
	loop.Submit(func(w *gameserver.World) {
		tickSeen = w.CurrentTick()
		require.NoError(t, w.AddPlayer(0, "Alice"))
		require.NoError(t, w.SetClass(0, playerclass.KindHero))
	})
	loop.Step()

	assert.Equal(t, 0, tickSeen)
	assert.Equal(t, 1, w.CurrentTick())
	kind, ok := w.PlayerClass(0)
	require.True(t, ok)
	assert.Equal(t, playerclass.KindHero, kind)
}

func TestTickLoop_StartsAndStops(t *testing.T) {
	loop := gameserver.NewTickLoop(newWorld(t), 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop.Start(ctx)
	time.Sleep(120 * time.Millisecond)
	cancel()
	// Should not block or panic after cancel
}

func TestTickLoop_ObserverInvoked(t *testing.T) {
	loop := gameserver.NewTickLoop(newWorld(t), 20*time.Millisecond)
	called := make(chan int, 1)
	loop.RegisterObserver("effects", func(w *gameserver.World) {
		select {
		case called <- w.CurrentTick():
		default:
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	loop.Start(ctx)
	select {
	case tick := <-called:
		assert.GreaterOrEqual(t, tick, 1)
	case <-ctx.Done():
		t.Fatal("observer not invoked within timeout")
	}
}

func TestTickLoop_UnregisterStopsObserver(t *testing.T) {
	loop := gameserver.NewTickLoop(newWorld(t), 20*time.Millisecond)
	var count atomic.Int64
	loop.RegisterObserver("o1", func(*gameserver.World) { count.Add(1) })
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	loop.Start(ctx)
	time.Sleep(60 * time.Millisecond)
	loop.Unregister("o1")
	countAfterUnregister := count.Load()
	time.Sleep(60 * time.Millisecond)
	if count.Load() > countAfterUnregister+1 {
		t.Fatalf("observer continued after unregister: before=%d after=%d", countAfterUnregister, count.Load())
	}
}
