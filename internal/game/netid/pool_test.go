package netid_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/infclass/internal/game/netid"
)

func TestPool_AcquireUntilExhausted(t *testing.T) {
	p := netid.NewPool(2)
	_, err := p.Acquire()
	require.NoError(t, err)
	_, err = p.Acquire()
	require.NoError(t, err)
	_, err = p.Acquire()
	assert.True(t, errors.Is(err, netid.ErrExhausted))
	assert.Equal(t, 2, p.InUse())
}

func TestPool_ReleaseTwice(t *testing.T) {
	p := netid.NewPool(4)
	id, err := p.Acquire()
	require.NoError(t, err)
	require.NoError(t, p.Release(id))
	assert.ErrorIs(t, p.Release(id), netid.ErrNotAllocated)
	assert.ErrorIs(t, p.Release(99), netid.ErrNotAllocated)
}

func TestPool_AcquireN_RollsBackOnExhaustion(t *testing.T) {
	p := netid.NewPool(5)
	_, err := p.Acquire()
	require.NoError(t, err)

	ids := make([]netid.ID, 6)
	err = p.AcquireN(ids)
	require.ErrorIs(t, err, netid.ErrExhausted)
	assert.Equal(t, 1, p.InUse(), "partial allocation must be released")
}

func TestPool_NewPool_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { netid.NewPool(0) })
}

func TestPropertyPool_IDsUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 64).Draw(t, "capacity")
		p := netid.NewPool(capacity)
		held := map[netid.ID]bool{}
		steps := rapid.IntRange(1, 200).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(t, "acquire") {
				id, err := p.Acquire()
				if len(held) == capacity {
					require.ErrorIs(t, err, netid.ErrExhausted)
					continue
				}
				require.NoError(t, err)
				require.False(t, held[id], "id %d handed out twice", id)
				held[id] = true
				continue
			}
			for id := range held {
				require.NoError(t, p.Release(id))
				delete(held, id)
				break
			}
		}
		assert.Equal(t, len(held), p.InUse())
	})
}
