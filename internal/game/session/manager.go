package session

import (
	"fmt"
	"slices"
	"sync"

	"github.com/cory-johannsen/infclass/internal/game/arena"
	"github.com/cory-johannsen/infclass/internal/game/character"
	"github.com/cory-johannsen/infclass/internal/game/playerclass"
)

// Player is one connected client.
type Player struct {
	ID   character.PlayerID
	Name string
	// Class is the currently selected class kind.
	Class playerclass.Kind
	Skin  string
	// HookProtection keeps other players' hooks from grabbing this player.
	HookProtection bool
	// FloatingPoints is currency collected from pickups.
	FloatingPoints int
	Kills          int
	// Instance is the handle of the player's class instance, or arena.None.
	Instance arena.Handle
	// Character is the handle of the player's living body, or arena.None.
	Character arena.Handle
	Outbox    *Outbox
}

// Manager tracks all connected players by id.
// All methods are safe for concurrent use; the returned *Player must only be
// mutated by the simulation goroutine.
type Manager struct {
	mu         sync.RWMutex
	players    map[character.PlayerID]*Player
	maxPlayers int
}

// NewManager creates an empty Manager accepting ids in [0, maxPlayers).
//
// Precondition: maxPlayers > 0.
func NewManager(maxPlayers int) *Manager {
	if maxPlayers <= 0 {
		panic("session.NewManager: maxPlayers must be > 0")
	}
	return &Manager{
		players:    make(map[character.PlayerID]*Player, maxPlayers),
		maxPlayers: maxPlayers,
	}
}

// AddPlayer registers a new player with no class.
//
// Precondition: name must be non-empty.
// Postcondition: Returns the created Player, or an error if id is out of range or taken.
func (m *Manager) AddPlayer(id character.PlayerID, name string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id < 0 || int(id) >= m.maxPlayers {
		return nil, fmt.Errorf("player id %d out of range [0, %d)", id, m.maxPlayers)
	}
	if _, exists := m.players[id]; exists {
		return nil, fmt.Errorf("player %d already connected", id)
	}
	p := &Player{
		ID:        id,
		Name:      name,
		Class:     playerclass.KindNone,
		Skin:      "default",
		Instance:  arena.None,
		Character: arena.None,
		Outbox:    NewOutbox(int(id), 16),
	}
	m.players[id] = p
	return p, nil
}

// RemovePlayer removes a player and closes its outbox.
//
// Postcondition: Returns an error if id is not connected.
func (m *Manager) RemovePlayer(id character.PlayerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.players[id]
	if !exists {
		return fmt.Errorf("player %d not found", id)
	}
	_ = p.Outbox.Close()
	delete(m.players, id)
	return nil
}

// GetPlayer returns the player with id.
//
// Postcondition: Returns (player, true) if found, or (nil, false) otherwise.
func (m *Manager) GetPlayer(id character.PlayerID) (*Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[id]
	return p, ok
}

// GetPlayerByName returns the first player named name.
func (m *Manager) GetPlayerByName(name string) (*Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Class returns the selected class of id.
func (m *Manager) Class(id character.PlayerID) (playerclass.Kind, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[id]
	if !ok {
		return playerclass.KindNone, false
	}
	return p.Class, true
}

// SetClass records kind as the selected class of id.
//
// Postcondition: Returns an error if id is not connected.
func (m *Manager) SetClass(id character.PlayerID, kind playerclass.Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return fmt.Errorf("player %d not found", id)
	}
	p.Class = kind
	return nil
}

// IDs returns every connected player id in ascending order.
func (m *Manager) IDs() []character.PlayerID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]character.PlayerID, 0, len(m.players))
	for id := range m.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// CountByTeam returns how many players hold a human and an infected class.
func (m *Manager) CountByTeam() (humans, infected int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.players {
		switch {
		case p.Class.IsHuman():
			humans++
		case p.Class.IsInfected():
			infected++
		}
	}
	return humans, infected
}

// PlayerCount returns the total number of connected players.
func (m *Manager) PlayerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}
