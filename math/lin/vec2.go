// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "math"

// V2 is a 2 element vector used for planar positions, velocities, and
// forces. This can also be used as a point.
type V2 struct {
	X float64
	Y float64
}

// Vec2 is a convenience constructor for a V2.
func Vec2(x, y float64) V2 { return V2{X: x, Y: y} }

// Add returns v+a.
func (v V2) Add(a V2) V2 { return V2{v.X + a.X, v.Y + a.Y} }

// Sub returns v-a.
func (v V2) Sub(a V2) V2 { return V2{v.X - a.X, v.Y - a.Y} }

// Scale returns v*s.
func (v V2) Scale(s float64) V2 { return V2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and a.
func (v V2) Dot(a V2) float64 { return v.X*a.X + v.Y*a.Y }

// Cross returns the scalar (z-component) of the 3D cross product v×a.
// Positive when a is counter-clockwise from v.
func (v V2) Cross(a V2) float64 { return v.X*a.Y - v.Y*a.X }

// LenSqr returns the square of the length of v. Cheaper than Len when only
// comparing distances.
func (v V2) LenSqr() float64 { return v.Dot(v) }

// Len returns the length (magnitude) of v.
func (v V2) Len() float64 { return math.Sqrt(v.LenSqr()) }

// Unit returns v scaled to unit length. The zero vector is returned
// unchanged since it has no direction.
func (v V2) Unit() V2 {
	l := v.Len()
	if l < Epsilon {
		return V2{}
	}
	return v.Scale(1 / l)
}

// Perp returns the vector rotated +90 degrees, i.e. the tangent direction
// for v used as a contact normal.
func (v V2) Perp() V2 { return V2{-v.Y, v.X} }

// Neg returns -v.
func (v V2) Neg() V2 { return V2{-v.X, -v.Y} }

// AeqZ reports whether v is close enough to the zero vector to be treated
// as such.
func (v V2) AeqZ() bool { return v.LenSqr() < Epsilon*Epsilon }

// CrossScalar returns the planar cross product of an angular velocity (or
// torque) ω about the Z axis with the planar vector r: ω×r = (-ω·r.Y, ω·r.X).
// Used to turn a body's angular velocity and a lever arm into a tangential
// linear velocity contribution.
func CrossScalar(omega float64, r V2) V2 {
	return V2{-omega * r.Y, omega * r.X}
}

// Rot2 rotates v by angle radians counter-clockwise about the origin.
// Rotation matrices are recomputed from cos/sin on every call rather than
// cached, matching how the solver re-derives disk offsets each sub-step.
func Rot2(v V2, angle float64) V2 {
	c, s := math.Cos(angle), math.Sin(angle)
	return V2{c*v.X - s*v.Y, s*v.X + c*v.Y}
}

// SegPointDist returns the distance from point p to the closest point on
// the segment [a,b], along with that closest point.
func SegPointDist(a, b, p V2) (dist float64, closest V2) {
	ab := b.Sub(a)
	lenSqr := ab.LenSqr()
	if lenSqr < Epsilon*Epsilon {
		closest = a
		return p.Sub(a).Len(), closest
	}
	t := p.Sub(a).Dot(ab) / lenSqr
	t = Clamp(t, 0, 1)
	closest = a.Add(ab.Scale(t))
	return p.Sub(closest).Len(), closest
}

// Wrap folds a signed axis distance d into the range [-half, half], treating
// the axis as periodic with total length 2*half. Used only for the coarse
// neighbor-distance pruning described by the scene's toroidal domain; real
// contact geometry is never wrapped this way.
func Wrap(d, half float64) float64 {
	for d > half {
		d -= 2 * half
	}
	for d < -half {
		d += 2 * half
	}
	return d
}
