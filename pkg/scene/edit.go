package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/blockyforge/pkg/math"
)

// pivot returns the transform rotating about origin.
func pivot(origin, rotation math.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(origin.X, origin.Y, origin.Z).
		Mul4(math.QuatFromEuler(rotation).Mat4()).
		Mul4(mgl64.Translate3D(-origin.X, -origin.Y, -origin.Z))
}

func transformOf(n Node) (origin, rotation math.Vec3) {
	switch n := n.(type) {
	case *Bone:
		return n.Origin, n.Rotation
	case *Primitive:
		return n.Origin, n.Rotation
	}
	return math.Vec3{}, math.Vec3{}
}

// WorldMatrix maps the rest coordinates of n into posed scene space by
// composing the pivot rotations of n and every ancestor.
func WorldMatrix(n Node) mgl64.Mat4 {
	m := pivot(transformOf(n))
	for b := n.Parent(); b != nil; b = b.Parent() {
		m = pivot(b.Origin, b.Rotation).Mul4(m)
	}
	return m
}

func worldRotation(n Node) math.Quat {
	_, r := transformOf(n)
	q := math.QuatFromEuler(r)
	for b := n.Parent(); b != nil; b = b.Parent() {
		q = math.QuatFromEuler(b.Rotation).Mul(q)
	}
	return q
}

func worldPoint(m mgl64.Mat4, v math.Vec3) math.Vec3 {
	return math.FromMGL(m.Mul4x1(v.MGL().Vec4(1)).Vec3())
}

// localTransform expresses a posed pivot position and rotation as an origin
// and Euler rotation under parent. A nil parent means the scene root.
func localTransform(parent *Bone, worldOrigin math.Vec3, worldRot math.Quat) (origin, rotation math.Vec3) {
	if parent == nil {
		return worldOrigin, math.SnapDegrees(worldRot.Euler())
	}
	parentPos := worldPoint(WorldMatrix(parent), parent.Origin)
	inv := worldRotation(parent).Inverse()

	origin = inv.Rotate(worldOrigin.Sub(parentPos)).Add(parent.Origin)
	rotation = math.SnapDegrees(inv.Mul(worldRot).Euler())
	return origin, rotation
}

// setPivot moves p's pivot to origin, carrying From and To along, and sets
// its rotation.
func (p *Primitive) setPivot(origin, rotation math.Vec3) {
	d := origin.Sub(p.Origin)
	p.From = p.From.Add(d)
	p.To = p.To.Add(d)
	p.Origin = origin
	p.Rotation = rotation
}

// TopmostBone returns the first bone that does not descend from another bone
// of the list.
func TopmostBone(bones []*Bone) *Bone {
	if len(bones) == 0 {
		return nil
	}
	for _, b := range bones {
		nested := false
		for _, other := range bones {
			if other != b && b.IsChildOf(other) {
				nested = true
				break
			}
		}
		if !nested {
			return b
		}
	}
	return bones[0]
}

func depth(b *Bone) int {
	d := 0
	for p := b.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// MergeBones moves the primitives directly under bones into the topmost of
// them. Every moved primitive is re-expressed in the target's frame so it
// keeps its posed placement. Merged bones left without children are removed,
// deepest first. It returns the target, or nil when bones is empty.
func MergeBones(s *Scene, bones []*Bone) *Bone {
	target := TopmostBone(bones)
	if target == nil {
		return nil
	}

	var moved []*Primitive
	for _, b := range bones {
		if b == target {
			continue
		}
		moved = append(moved, b.Primitives()...)
	}
	for _, p := range moved {
		worldOrigin := worldPoint(WorldMatrix(p), p.Origin)
		origin, rotation := localTransform(target, worldOrigin, worldRotation(p))
		p.setPivot(origin, rotation)
		target.Add(p)
	}

	rest := make([]*Bone, 0, len(bones))
	for _, b := range bones {
		if b != target {
			rest = append(rest, b)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return depth(rest[i]) > depth(rest[j])
	})
	for _, b := range rest {
		if len(b.Children) == 0 {
			s.Remove(b)
		}
	}
	return target
}

// BoneFromPrimitive wraps p in a new bone that takes over its rotation. The
// bone is named after p and appended to p's parent, or to the scene root. p
// keeps its posed placement and ends up with zero rotation, which makes it
// the bone's main shape.
func BoneFromPrimitive(s *Scene, p *Primitive) *Bone {
	parent := p.Parent()
	worldOrigin := worldPoint(WorldMatrix(p), p.Origin)
	origin, rotation := localTransform(parent, worldOrigin, worldRotation(p))

	b := NewBone(p.Name, origin, rotation)
	s.Add(b, parent)

	s.Remove(p)
	p.setPivot(origin, math.Vec3{})
	b.Add(p)
	return b
}
