// Package preview samples bone animators for display. Nothing here changes
// stored keyframes or exported files.
package preview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Faultbox/blockyforge/pkg/formats"
	"github.com/Faultbox/blockyforge/pkg/math"
	"github.com/Faultbox/blockyforge/pkg/scene"
)

// Control points and weights of the rational cubic Bézier the game uses
// between two smooth rotation keyframes.
var (
	bezierPoints  = [4]float64{0, 0.05, 0.95, 1}
	bezierWeights = [4]float64{2, 1, 2, 1}
)

// WeightedBezier maps a linear blend factor in [0, 1] onto the game's smooth
// rotation curve.
func WeightedBezier(t float64) float64 {
	u := 1 - t
	basis := [4]float64{u * u * u, 3 * u * u * t, 3 * u * t * t, t * t * t}

	var num, den float64
	for i, b := range basis {
		w := b * bezierWeights[i]
		num += w * bezierPoints[i]
		den += w
	}
	return num / den
}

// SmoothEase is WeightedBezier as a tween easing.
var SmoothEase ease.TweenFunc = func(t, b, c, d float32) float32 {
	return b + c*float32(WeightedBezier(float64(t/d)))
}

// Pose is the sampled state of one bone.
type Pose struct {
	Position math.Vec3 // offset from the rest pose
	Rotation math.Quat // on top of the rest rotation
	Scale    math.Vec3
	Visible  bool
}

// RestPose is the pose of a bone without keyframes.
func RestPose() Pose {
	return Pose{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		Visible:  true,
	}
}

// Sample evaluates every channel of a at time t in seconds.
func Sample(a *scene.BoneAnimator, t float64) Pose {
	p := RestPose()
	if a == nil {
		return p
	}
	p.Position = InterpolateVec3(a.Sorted(scene.ChannelPosition), t, math.Vec3{})
	p.Rotation = InterpolateRotation(a.Sorted(scene.ChannelRotation), t)
	p.Scale = InterpolateVec3(a.Sorted(scene.ChannelScale), t, math.Vec3{X: 1, Y: 1, Z: 1})
	p.Visible = Visibility(a.Sorted(scene.ChannelVisibility), t)
	return p
}

// surrounding returns the indices of the keyframes before and after t in a
// time-sorted list. prev == next when t is outside the keyframe range.
func surrounding(keys []*scene.Keyframe, t float64) (prev, next int) {
	for i := range keys {
		if keys[i].Time > t {
			next = i
			return prev, next
		}
		prev = i
		next = i
	}
	return prev, next
}

func blend(k0, k1 *scene.Keyframe, t float64) float64 {
	if k1.Time == k0.Time {
		return 0
	}
	return (t - k0.Time) / (k1.Time - k0.Time)
}

// InterpolateRotation interpolates rotation keyframes at time t. Between two
// smooth keyframes the blend factor follows the weighted Bézier curve.
func InterpolateRotation(keys []*scene.Keyframe, t float64) math.Quat {
	if len(keys) == 0 {
		return math.QuatIdentity()
	}

	prev, next := surrounding(keys, t)
	k0 := keys[prev]
	if prev == next || k0.Interpolation == scene.InterpolationStep {
		return math.QuatFromEuler(k0.Value)
	}

	k1 := keys[next]
	f := blend(k0, k1, t)
	if f != 0 && f != 1 &&
		k0.Interpolation == scene.InterpolationCatmullRom &&
		k1.Interpolation == scene.InterpolationCatmullRom {
		tween := gween.New(0, 1, float32(k1.Time-k0.Time), SmoothEase)
		eased, _ := tween.Set(float32(t - k0.Time))
		f = float64(eased)
	}

	q0 := math.QuatFromEuler(k0.Value)
	q1 := math.QuatFromEuler(k1.Value)
	return q0.Slerp(q1, f)
}

// InterpolateVec3 interpolates position or scale keyframes at time t. Smooth
// keyframes use a Catmull-Rom spline through their neighbours; rest is
// returned when there are no keyframes.
func InterpolateVec3(keys []*scene.Keyframe, t float64, rest math.Vec3) math.Vec3 {
	if len(keys) == 0 {
		return rest
	}

	prev, next := surrounding(keys, t)
	k0 := keys[prev]
	if prev == next || k0.Interpolation == scene.InterpolationStep {
		return k0.Value
	}

	k1 := keys[next]
	f := blend(k0, k1, t)
	if k0.Interpolation != scene.InterpolationCatmullRom && k1.Interpolation != scene.InterpolationCatmullRom {
		return math.LerpVec3(k0.Value, k1.Value, f)
	}

	before, after := k0.Value, k1.Value
	if prev > 0 {
		before = keys[prev-1].Value
	}
	if next+1 < len(keys) {
		after = keys[next+1].Value
	}
	return catmullRom(before, k0.Value, k1.Value, after, f)
}

func catmullRom(p0, p1, p2, p3 math.Vec3, t float64) math.Vec3 {
	axis := func(a, b, c, d float64) float64 {
		t2 := t * t
		t3 := t2 * t
		return 0.5 * (2*b + (c-a)*t + (2*a-5*b+4*c-d)*t2 + (3*b-a-3*c+d)*t3)
	}
	return math.Vec3{
		X: axis(p0.X, p1.X, p2.X, p3.X),
		Y: axis(p0.Y, p1.Y, p2.Y, p3.Y),
		Z: axis(p0.Z, p1.Z, p2.Z, p3.Z),
	}
}

// Visibility returns the value of the latest keyframe at or before t. A bone
// with no such keyframe is visible.
func Visibility(keys []*scene.Keyframe, t float64) bool {
	var latest *scene.Keyframe
	for _, k := range keys {
		if k.Time <= t && (latest == nil || k.Time > latest.Time) {
			latest = k
		}
	}
	if latest == nil {
		return true
	}
	return latest.Visible
}

// DisplayStretch returns the stretch to draw a bone's main shape with while
// the bone is scaled. Scale multiplies the shape's own stretch, weighted by
// multiplier for blended animations. ok is false when the bone has no main
// shape.
func DisplayStretch(b *scene.Bone, policy formats.MainShapePolicy, scale math.Vec3, multiplier float64) (stretch math.Vec3, ok bool) {
	main := formats.FindMainShape(b, policy)
	if main == nil {
		return math.Vec3{}, false
	}
	s := main.Stretch
	return math.Vec3{
		X: s.X * (1 + (scale.X-1)*multiplier),
		Y: s.Y * (1 + (scale.Y-1)*multiplier),
		Z: s.Z * (1 + (scale.Z-1)*multiplier),
	}, true
}

// HasAnimation reports whether an animation moves anything.
func HasAnimation(an *scene.Animation) bool {
	if an == nil || an.Length <= 0 {
		return false
	}
	for _, a := range an.Animators {
		if len(a.Keyframes()) > 0 {
			return true
		}
	}
	return false
}
