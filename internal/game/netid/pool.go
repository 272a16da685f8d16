// Package netid allocates the network-visible ids that snapshot items are
// keyed by. Ids are a bounded resource shared by every entity in the world.
package netid

import (
	"errors"
	"fmt"
)

// ID is a snapshot item id.
type ID int32

var (
	// ErrExhausted is returned by Acquire when every id is in use.
	ErrExhausted = errors.New("netid: pool exhausted")
	// ErrNotAllocated is returned by Release for an id that is not in use.
	ErrNotAllocated = errors.New("netid: id not allocated")
)

// Pool hands out ids in [0, capacity) with a LIFO free list.
// It is not safe for concurrent use.
type Pool struct {
	inUse    []bool
	freeList []ID
	next     ID
	used     int
}

// NewPool creates a Pool of capacity ids.
//
// Precondition: capacity must be > 0.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		panic("netid.NewPool: capacity must be > 0")
	}
	return &Pool{
		inUse:    make([]bool, capacity),
		freeList: make([]ID, 0, 64),
	}
}

// Acquire returns an unused id.
//
// Postcondition: Returns ErrExhausted when InUse() == Capacity().
func (p *Pool) Acquire() (ID, error) {
	if n := len(p.freeList); n > 0 {
		id := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.inUse[id] = true
		p.used++
		return id, nil
	}
	if int(p.next) >= len(p.inUse) {
		return -1, ErrExhausted
	}
	id := p.next
	p.next++
	p.inUse[id] = true
	p.used++
	return id, nil
}

// AcquireN fills dst with fresh ids. On failure every id acquired by this
// call is released again before the error is returned.
func (p *Pool) AcquireN(dst []ID) error {
	for i := range dst {
		id, err := p.Acquire()
		if err != nil {
			for _, got := range dst[:i] {
				_ = p.Release(got)
			}
			return fmt.Errorf("acquiring id %d of %d: %w", i+1, len(dst), err)
		}
		dst[i] = id
	}
	return nil
}

// Release returns id to the pool.
//
// Postcondition: Returns ErrNotAllocated if id is out of range or already free.
func (p *Pool) Release(id ID) error {
	if id < 0 || int(id) >= len(p.inUse) || !p.inUse[id] {
		return fmt.Errorf("releasing %d: %w", id, ErrNotAllocated)
	}
	p.inUse[id] = false
	p.used--
	p.freeList = append(p.freeList, id)
	return nil
}

// InUse returns the number of ids currently allocated.
func (p *Pool) InUse() int { return p.used }

// Capacity returns the total number of ids the pool manages.
func (p *Pool) Capacity() int { return len(p.inUse) }
