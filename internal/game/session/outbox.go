// Package session tracks connected players: identity, selected class,
// cosmetic state and the outbox that carries broadcasts to the network layer.
package session

import (
	"fmt"
	"sync"
)

// Outbox routes broadcast text for one player to a buffered channel the
// network layer drains.
type Outbox struct {
	owner    int
	messages chan string
	mu       sync.Mutex
	closed   bool
	last     string
}

// NewOutbox creates an Outbox for player owner.
//
// Postcondition: Returns an Outbox with an open messages channel.
func NewOutbox(owner, bufferSize int) *Outbox {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Outbox{
		owner:    owner,
		messages: make(chan string, bufferSize),
	}
}

// Push enqueues text. Repeating the previous message is dropped, so state
// broadcasts sent every tick reach the client once.
//
// Postcondition: Returns an error if the outbox is closed or full.
func (o *Outbox) Push(text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return fmt.Errorf("outbox of player %d is closed", o.owner)
	}
	if text == o.last {
		return nil
	}
	select {
	case o.messages <- text:
		o.last = text
		return nil
	default:
		return fmt.Errorf("outbox of player %d is full", o.owner)
	}
}

// Messages returns the read-only message channel.
func (o *Outbox) Messages() <-chan string {
	return o.messages
}

// Close closes the message channel. Calling it again is a no-op.
//
// Postcondition: Further Push calls return an error.
func (o *Outbox) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.closed = true
		close(o.messages)
	}
	return nil
}

// IsClosed reports whether the outbox has been closed.
func (o *Outbox) IsClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}
