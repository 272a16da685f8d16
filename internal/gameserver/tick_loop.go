package gameserver

import (
	"context"
	"sync"
	"time"
)

// TickLoop drives a World at a fixed rate. Commands submitted from other
// goroutines are applied at the start of the next tick, and registered
// observers run after it, all on the loop goroutine.
//
// Invariant: the World is only touched by one goroutine at a time.
type TickLoop struct {
	world     *World
	interval  time.Duration
	mu        sync.Mutex
	pending   []func(*World)
	observers map[string]func(*World)
	stepMu    sync.Mutex
}

// IntervalForTickRate converts ticks per second to a tick interval.
//
// Precondition: rate must be > 0.
func IntervalForTickRate(rate int) time.Duration {
	if rate <= 0 {
		panic("gameserver.IntervalForTickRate: rate must be > 0")
	}
	return time.Second / time.Duration(rate)
}

// NewTickLoop returns a loop that advances world every interval.
//
// Precondition: world must be non-nil; interval must be > 0.
func NewTickLoop(world *World, interval time.Duration) *TickLoop {
	if world == nil {
		panic("gameserver.NewTickLoop: world must not be nil")
	}
	if interval <= 0 {
		panic("gameserver.NewTickLoop: interval must be > 0")
	}
	return &TickLoop{
		world:     world,
		interval:  interval,
		observers: make(map[string]func(*World)),
	}
}

// Submit queues cmd for the next tick.
func (l *TickLoop) Submit(cmd func(*World)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, cmd)
}

// RegisterObserver registers fn to run after every tick under name.
// Replaces any existing observer with that name.
func (l *TickLoop) RegisterObserver(name string, fn func(*World)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers[name] = fn
}

// Unregister removes the observer registered under name.
func (l *TickLoop) Unregister(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.observers, name)
}

// Step applies pending commands, advances the world one tick and runs the
// observers.
func (l *TickLoop) Step() {
	l.stepMu.Lock()
	defer l.stepMu.Unlock()

	l.mu.Lock()
	cmds := l.pending
	l.pending = nil
	observers := make([]func(*World), 0, len(l.observers))
	for _, fn := range l.observers {
		observers = append(observers, fn)
	}
	l.mu.Unlock()

	for _, cmd := range cmds {
		cmd(l.world)
	}
	l.world.Tick()
	for _, fn := range observers {
		fn(l.world)
	}
}

// Start begins the tick loop. Runs until ctx is cancelled.
//
// Postcondition: Step is invoked once per interval.
func (l *TickLoop) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Step()
			}
		}
	}()
}
