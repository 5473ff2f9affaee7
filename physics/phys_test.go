package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func vecNear(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestInvertPhysPassthrough(t *testing.T) {
	p := PhysState{
		Pos:    r3.Vec{X: 100, Y: -2000, Z: 17},
		Vel:    r3.Vec{X: 5, Y: 6, Z: 7},
		AngVel: r3.Vec{X: 0.1, Y: 0.2, Z: 0.3},
		RotMat: RotMatFromEuler(0.1, 1.2, -0.4),
	}

	if got := InvertPhys(p, false); got != p {
		t.Errorf("expected unchanged state, got %+v", got)
	}
}

func TestInvertPhysMirrorsLongAxis(t *testing.T) {
	p := PhysState{
		Pos:    r3.Vec{X: 100, Y: -2000, Z: 17},
		Vel:    r3.Vec{X: 5, Y: 6, Z: 7},
		AngVel: r3.Vec{X: 0.1, Y: 0.2, Z: 0.3},
		RotMat: Identity(),
	}

	got := InvertPhys(p, true)

	if got.Pos != (r3.Vec{X: -100, Y: 2000, Z: 17}) {
		t.Errorf("pos: got %+v", got.Pos)
	}
	if got.Vel != (r3.Vec{X: -5, Y: -6, Z: 7}) {
		t.Errorf("vel: got %+v", got.Vel)
	}
	if got.AngVel != (r3.Vec{X: -0.1, Y: -0.2, Z: 0.3}) {
		t.Errorf("ang vel: got %+v", got.AngVel)
	}
	if got.RotMat.Forward != (r3.Vec{X: -1, Y: 0, Z: 0}) {
		t.Errorf("forward: got %+v", got.RotMat.Forward)
	}
	if got.RotMat.Up != (r3.Vec{X: 0, Y: 0, Z: 1}) {
		t.Errorf("up: got %+v", got.RotMat.Up)
	}

	// Input must not be touched.
	if p.Pos.X != 100 || p.RotMat.Forward.X != 1 {
		t.Error("InvertPhys modified its input")
	}
}

func TestInvertPhysIsInvolution(t *testing.T) {
	p := PhysState{
		Pos:    r3.Vec{X: 1234.5, Y: -321.25, Z: 93},
		Vel:    r3.Vec{X: -400, Y: 1500, Z: -20},
		AngVel: r3.Vec{X: 1, Y: -2, Z: 3},
		RotMat: RotMatFromEuler(-0.3, 2.5, 0.9),
	}

	if got := InvertPhys(InvertPhys(p, true), true); got != p {
		t.Errorf("double inversion: got %+v, want %+v", got, p)
	}
}

func TestRotMatFromEulerIdentity(t *testing.T) {
	got := RotMatFromEuler(0, 0, 0)
	want := Identity()

	if !vecNear(got.Forward, want.Forward, 1e-12) ||
		!vecNear(got.Right, want.Right, 1e-12) ||
		!vecNear(got.Up, want.Up, 1e-12) {
		t.Errorf("expected identity basis, got %+v", got)
	}
}

func TestRotMatFromEulerOrthonormal(t *testing.T) {
	angles := []struct{ pitch, yaw, roll float64 }{
		{0, math.Pi / 2, 0},
		{0.4, -1.1, 2.0},
		{-1.2, 3.0, -0.7},
	}

	for _, a := range angles {
		m := RotMatFromEuler(a.pitch, a.yaw, a.roll)
		for _, v := range []r3.Vec{m.Forward, m.Right, m.Up} {
			if math.Abs(r3.Norm(v)-1) > 1e-9 {
				t.Errorf("%+v: basis row %+v is not unit length", a, v)
			}
		}
		if math.Abs(r3.Dot(m.Forward, m.Up)) > 1e-9 ||
			math.Abs(r3.Dot(m.Forward, m.Right)) > 1e-9 ||
			math.Abs(r3.Dot(m.Right, m.Up)) > 1e-9 {
			t.Errorf("%+v: basis is not orthogonal", a)
		}
	}
}

func TestRotMatDotLocalFrame(t *testing.T) {
	// Facing +Y: a point straight ahead in world space is +X locally.
	m := RotMatFromEuler(0, math.Pi/2, 0)
	local := m.Dot(r3.Vec{Y: 500})

	if !vecNear(local, r3.Vec{X: 500}, 1e-9) {
		t.Errorf("expected (500, 0, 0) in local frame, got %+v", local)
	}
}

func TestAppendVecScales(t *testing.T) {
	dst := AppendVec(nil, r3.Vec{X: 5000, Y: -2500, Z: 0}, PosCoef)

	if len(dst) != 3 {
		t.Fatalf("expected 3 values, got %d", len(dst))
	}
	if dst[0] != 1 || dst[1] != -0.5 || dst[2] != 0 {
		t.Errorf("expected [1 -0.5 0], got %v", dst)
	}
}

func TestAppendBool(t *testing.T) {
	dst := AppendBool(nil, true)
	dst = AppendBool(dst, false)

	if dst[0] != 1 || dst[1] != 0 {
		t.Errorf("expected [1 0], got %v", dst)
	}
}
