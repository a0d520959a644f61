package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part, matching
// the {x,y,z,w} objects of the model files.
type Quat struct {
	X, Y, Z, W float64
}

// snapEpsilon is the distance to an integer degree below which recovered
// Euler angles are snapped.
const snapEpsilon = 1e-9

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromMGL converts an mgl64 quaternion.
func QuatFromMGL(q mgl64.Quat) Quat {
	return Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

// MGL converts q to an mgl64 quaternion.
func (q Quat) MGL() mgl64.Quat {
	return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}}
}

// QuatFromEuler converts Euler angles in degrees to a quaternion using the
// ZYX order (R = Rz * Ry * Rx). This is the only Euler convention used by the
// model and animation codecs.
func QuatFromEuler(deg Vec3) Quat {
	q := mgl64.AnglesToQuat(
		mgl64.DegToRad(deg.Z),
		mgl64.DegToRad(deg.Y),
		mgl64.DegToRad(deg.X),
		mgl64.ZYX,
	)
	return QuatFromMGL(q)
}

// Euler converts q to Euler angles in degrees using the ZYX order. It is the
// inverse of QuatFromEuler up to gimbal-equivalent representations. When the
// Y rotation reaches ±90 degrees the X angle is fixed at zero.
func (q Quat) Euler() Vec3 {
	m := q.Normalize().Mat4()

	m11, m12 := m.At(0, 0), m.At(0, 1)
	m21, m22 := m.At(1, 0), m.At(1, 1)
	m31, m32, m33 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	var x, y, z float64
	y = math.Asin(-mgl64.Clamp(m31, -1, 1))
	if math.Abs(m31) < 0.9999999 {
		x = math.Atan2(m32, m33)
		z = math.Atan2(m21, m11)
	} else {
		z = math.Atan2(-m12, m22)
	}

	return Vec3{
		X: mgl64.RadToDeg(x),
		Y: mgl64.RadToDeg(y),
		Z: mgl64.RadToDeg(z),
	}
}

// SnapDegrees rounds each component to the nearest integer when it is within
// floating point noise of it. Negative zero becomes zero.
func SnapDegrees(v Vec3) Vec3 {
	return Vec3{snap(v.X), snap(v.Y), snap(v.Z)}
}

func snap(a float64) float64 {
	r := math.Round(a)
	if math.Abs(a-r) < snapEpsilon {
		a = r
	}
	if a == 0 {
		return 0
	}
	return a
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	return QuatFromMGL(mgl64.QuatRotate(angle, axis.MGL()))
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if length < 1e-12 {
		return QuatIdentity()
	}
	inv := 1 / length
	return Quat{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float64 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Slerp performs spherical linear interpolation along the shorter arc.
// t should be in range [0, 1].
func (q Quat) Slerp(other Quat, t float64) Quat {
	if q.Dot(other) < 0 {
		other = Quat{X: -other.X, Y: -other.Y, Z: -other.Z, W: -other.W}
	}
	return QuatFromMGL(mgl64.QuatSlerp(q.MGL(), other.MGL(), t))
}

// Mul multiplies two quaternions (combines rotations).
func (q Quat) Mul(other Quat) Quat {
	return QuatFromMGL(q.MGL().Mul(other.MGL()))
}

// Inverse returns the rotation that undoes q.
func (q Quat) Inverse() Quat {
	return QuatFromMGL(q.Normalize().MGL().Inverse())
}

// Mat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) Mat4() mgl64.Mat4 {
	return q.Normalize().MGL().Mat4()
}

// Rotate applies the rotation to a vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	return FromMGL(q.Normalize().MGL().Rotate(v.MGL()))
}

// SameRotation reports whether q and other describe the same rotation by
// comparing their rotation matrices element-wise.
func (q Quat) SameRotation(other Quat, eps float64) bool {
	a, b := q.Mat4(), other.Mat4()
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// LerpVec3 performs linear interpolation between two vectors.
func LerpVec3(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + t*(b.X-a.X),
		a.Y + t*(b.Y-a.Y),
		a.Z + t*(b.Z-a.Z),
	}
}
