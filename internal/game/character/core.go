package character

import "github.com/cory-johannsen/infclass/internal/game/geom"

// CoreEvent is a bit set of things that happened during one physics step.
type CoreEvent uint32

const (
	EventGroundJump CoreEvent = 1 << iota
	EventAirJump
	EventHookLaunch
	EventHookAttachPlayer
	EventHookAttachGround
	EventHookHitNoHook
)

// HookState is the state of a character's grappling hook.
type HookState int

const (
	HookIdle HookState = iota
	HookFlying
	HookGrabbed
	HookRetracted
)

// Input is one tick of player input.
type Input struct {
	// Direction is -1, 0 or 1 for left, none, right.
	Direction int
	Jump      bool
	Hook      bool
	Fire      bool
	Target    geom.Vec2
}

// Core is the physics state the movement step reads and writes.
type Core struct {
	Vel geom.Vec2
	// Jumps is the jump allowance: ground jump plus Jumps-1 air jumps.
	Jumps int
	// JumpedTotal counts jumps since the character last touched ground.
	JumpedTotal int
	Grounded    bool

	HookState    HookState
	HookedPlayer PlayerID

	// TriggeredEvents is rebuilt by every physics step.
	TriggeredEvents CoreEvent
}

const (
	groundSpeed    = 10.0
	jumpImpulse    = -13.2
	airJumpImpulse = -12.0
)

// Has reports whether every bit of ev was triggered this step.
func (c *Core) Has(ev CoreEvent) bool { return c.TriggeredEvents&ev == ev }
