// Package geom provides the 2D vector math used by characters and placed entities.
package geom

import "math"

// Vec2 is a point or direction in world units.
type Vec2 struct {
	X, Y float64
}

// V returns the vector (x, y).
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Mul returns v scaled by s.
func (v Vec2) Mul(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Length returns the Euclidean length of v.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// IsZero reports whether v is the zero vector.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Normalized returns v scaled to unit length.
//
// Postcondition: Returns the zero vector when v has zero length.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Perpendicular returns v rotated by 90 degrees counter-clockwise.
func (v Vec2) Perpendicular() Vec2 { return Vec2{X: -v.Y, Y: v.X} }

// Distance returns the distance between points a and b.
func Distance(a, b Vec2) float64 { return b.Sub(a).Length() }

// Lerp returns the point at fraction t along the segment a→b.
func Lerp(a, b Vec2, t float64) Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// ClosestPointOnSegment returns the point of segment a→b nearest to p.
//
// Postcondition: Returns a when a == b.
func ClosestPointOnSegment(a, b, p Vec2) Vec2 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / denom
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return a.Add(ab.Mul(t))
}
