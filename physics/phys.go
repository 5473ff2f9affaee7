// Package physics holds the physical state of ball and cars and the
// perspective/scale normalization applied before values enter an observation.
package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Scale coefficients mapping raw game units to roughly unit range.
const (
	PosCoef    = 1.0 / 5000.0 // field extent
	VelCoef    = 1.0 / 2300.0 // max car speed
	AngVelCoef = 1.0 / 3.0    // max spin rate
)

// invVec mirrors a vector across the field's long axis.
var invVec = r3.Vec{X: -1, Y: -1, Z: 1}

// RotMat is an orientation basis. Rows are unit vectors in world space.
type RotMat struct {
	Forward r3.Vec
	Right   r3.Vec
	Up      r3.Vec
}

// Identity returns the basis of a car facing +X with its roof toward +Z.
func Identity() RotMat {
	return RotMat{
		Forward: r3.Vec{X: 1},
		Right:   r3.Vec{Y: 1},
		Up:      r3.Vec{Z: 1},
	}
}

// RotMatFromEuler builds a basis from game Euler angles in radians.
func RotMatFromEuler(pitch, yaw, roll float64) RotMat {
	cp, sp := math.Cos(pitch), math.Sin(pitch)
	cy, sy := math.Cos(yaw), math.Sin(yaw)
	cr, sr := math.Cos(roll), math.Sin(roll)

	return RotMat{
		Forward: r3.Vec{X: cp * cy, Y: cp * sy, Z: sp},
		Right:   r3.Vec{X: cy*sp*sr - cr*sy, Y: sy*sp*sr + cr*cy, Z: -cp * sr},
		Up:      r3.Vec{X: -cr*cy*sp - sr*sy, Y: -cr*sy*sp + sr*cy, Z: cp * cr},
	}
}

// Dot expresses v in the local frame of the basis.
func (m RotMat) Dot(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: r3.Dot(m.Forward, v),
		Y: r3.Dot(m.Right, v),
		Z: r3.Dot(m.Up, v),
	}
}

// PhysState is the instantaneous physical state of a ball or car.
type PhysState struct {
	Pos    r3.Vec
	Vel    r3.Vec
	AngVel r3.Vec
	RotMat RotMat
}

// InvertPhys mirrors p across the field's long axis when invert is set,
// so the acting team always attacks the same goal. p is never modified.
func InvertPhys(p PhysState, invert bool) PhysState {
	if !invert {
		return p
	}
	return PhysState{
		Pos:    mirror(p.Pos),
		Vel:    mirror(p.Vel),
		AngVel: mirror(p.AngVel),
		RotMat: RotMat{
			Forward: mirror(p.RotMat.Forward),
			Right:   mirror(p.RotMat.Right),
			Up:      mirror(p.RotMat.Up),
		},
	}
}

func mirror(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X * invVec.X, Y: v.Y * invVec.Y, Z: v.Z * invVec.Z}
}

// AppendVec appends v*scale to dst as three float32 values.
func AppendVec(dst []float32, v r3.Vec, scale float64) []float32 {
	s := r3.Scale(scale, v)
	return append(dst, float32(s.X), float32(s.Y), float32(s.Z))
}

// AppendBool appends 1 for true and 0 for false.
func AppendBool(dst []float32, b bool) []float32 {
	if b {
		return append(dst, 1)
	}
	return append(dst, 0)
}
