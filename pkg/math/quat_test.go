package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)
	if math.Abs(length-1.0) > 1e-12 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatFromEulerSingleAxis(t *testing.T) {
	s := math.Sin(math.Pi / 4)
	tests := []struct {
		name  string
		euler Vec3
		want  Quat
	}{
		{"x90", Vec3{X: 90}, Quat{X: s, W: s}},
		{"y90", Vec3{Y: 90}, Quat{Y: s, W: s}},
		{"z90", Vec3{Z: 90}, Quat{Z: s, W: s}},
		{"zero", Vec3{}, QuatIdentity()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuatFromEuler(tt.euler)
			if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 ||
				math.Abs(got.Z-tt.want.Z) > 1e-12 || math.Abs(got.W-tt.want.W) > 1e-12 {
				t.Errorf("QuatFromEuler(%v) = %+v, want %+v", tt.euler, got, tt.want)
			}
		})
	}
}

func TestQuatFromEulerOrderZYX(t *testing.T) {
	// ZYX means the X rotation is applied to the vector first.
	euler := Vec3{X: 30, Y: 45, Z: 60}
	qx := QuatFromEuler(Vec3{X: 30})
	qy := QuatFromEuler(Vec3{Y: 45})
	qz := QuatFromEuler(Vec3{Z: 60})
	composed := qz.Mul(qy).Mul(qx)

	if !QuatFromEuler(euler).SameRotation(composed, 1e-12) {
		t.Errorf("QuatFromEuler(%v) does not equal Rz*Ry*Rx", euler)
	}
}

func TestEulerRoundTrip(t *testing.T) {
	for x := -180.0; x <= 180; x += 15 {
		for y := -180.0; y <= 180; y += 15 {
			for z := -180.0; z <= 180; z += 15 {
				in := Vec3{x, y, z}
				q := QuatFromEuler(in)
				back := QuatFromEuler(q.Euler())
				if !q.SameRotation(back, 1e-9) {
					t.Fatalf("euler %v: round trip through %v changed the rotation", in, q.Euler())
				}
			}
		}
	}
}

func TestEulerRecoversAuthoredAngles(t *testing.T) {
	tests := []Vec3{
		{0, 0, 0},
		{-90, 0, 0},
		{90, 0, 0},
		{0, 90, 0},
		{0, -90, 0},
		{0, 180, 0},
		{12.5, -33, 71},
	}

	for _, in := range tests {
		got := SnapDegrees(QuatFromEuler(in).Euler())
		if in.Y == 180 {
			// Represented as X=180, Z=180 by the ZYX decomposition.
			if !QuatFromEuler(got).SameRotation(QuatFromEuler(in), 1e-9) {
				t.Errorf("euler %v: got %v with a different rotation", in, got)
			}
			continue
		}
		if !got.ApproxEqual(in, 1e-9) {
			t.Errorf("euler %v: got %v", in, got)
		}
	}
}

func TestSnapDegrees(t *testing.T) {
	got := SnapDegrees(Vec3{X: -89.99999999999999, Y: math.Copysign(0, -1), Z: 12.5})
	if got.X != -90 {
		t.Errorf("X = %v, want -90", got.X)
	}
	if got.Y != 0 || math.Signbit(got.Y) {
		t.Errorf("Y = %v, want +0", got.Y)
	}
	if got.Z != 12.5 {
		t.Errorf("Z = %v, want 12.5", got.Z)
	}
}

func TestQuatSlerp(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/2)

	if r := q1.Slerp(q2, 0); math.Abs(r.W-q1.W) > 1e-9 {
		t.Errorf("Slerp at t=0 should equal q1, got %+v", r)
	}
	if r := q1.Slerp(q2, 1); math.Abs(r.W-q2.W) > 1e-9 {
		t.Errorf("Slerp at t=1 should equal q2, got %+v", r)
	}

	r := q1.Slerp(q2, 0.5)
	expectedW := math.Cos(math.Pi / 8)
	if math.Abs(r.W-expectedW) > 1e-6 {
		t.Errorf("Slerp at t=0.5: expected W ~%v, got %v", expectedW, r.W)
	}
}

func TestQuatSlerpShortestArc(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/2)
	neg := Quat{X: -q2.X, Y: -q2.Y, Z: -q2.Z, W: -q2.W}

	a := q1.Slerp(q2, 0.5)
	b := q1.Slerp(neg, 0.5)
	if !a.SameRotation(b, 1e-9) {
		t.Errorf("slerp towards -q should follow the same arc: %+v vs %+v", a, b)
	}
}

func TestQuatRotate(t *testing.T) {
	q := QuatFromEuler(Vec3{Y: 90})
	got := q.Rotate(Vec3{X: 1})
	if !got.ApproxEqual(Vec3{Z: -1}, 1e-9) {
		t.Errorf("Y90 applied to +X = %v, want (0,0,-1)", got)
	}
}

func TestQuatInverse(t *testing.T) {
	q := QuatFromEuler(Vec3{X: 20, Y: -35, Z: 110})
	if got := q.Mul(q.Inverse()); !got.SameRotation(QuatIdentity(), 1e-12) {
		t.Errorf("q * q^-1 = %+v, want identity", got)
	}

	v := Vec3{X: 1, Y: 2, Z: 3}
	if got := q.Inverse().Rotate(q.Rotate(v)); !got.ApproxEqual(v, 1e-12) {
		t.Errorf("inverse rotation = %v, want %v", got, v)
	}
}

func TestLerpVec3(t *testing.T) {
	got := LerpVec3(Vec3{}, Vec3{10, 20, 30}, 0.5)
	if got != (Vec3{5, 10, 15}) {
		t.Errorf("LerpVec3 = %v, want (5,10,15)", got)
	}
}
