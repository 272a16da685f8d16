package tuning

import "math"

// SecondsToTicks converts a duration in seconds to whole ticks, truncating.
//
// Precondition: tickSpeed > 0.
func SecondsToTicks(seconds float64, tickSpeed int) int {
	return int(seconds * float64(tickSpeed))
}

// MillisToTicks converts milliseconds to whole ticks, truncating.
func MillisToTicks(ms float64, tickSpeed int) int {
	return int(ms * float64(tickSpeed) / 1000)
}

// CentisToTicks converts centiseconds to whole ticks, truncating.
func CentisToTicks(cs float64, tickSpeed int) int {
	return int(cs * float64(tickSpeed) / 100)
}

// PoisonInterval returns the number of ticks between two poison damage
// applications: ceil(duration ticks / damage), at least 1.
//
// Precondition: tickSpeed > 0.
// Postcondition: Returns >= 1.
func PoisonInterval(p *Params, tickSpeed int) int {
	damage := max(p.Int(PoisonDamage), 1)
	durationTicks := p.Float(PoisonDuration) / 1000 * float64(tickSpeed)
	interval := int(math.Ceil(durationTicks / float64(damage)))
	return max(interval, 1)
}
