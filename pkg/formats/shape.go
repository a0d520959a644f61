package formats

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/blockyforge/pkg/math"
	"github.com/Faultbox/blockyforge/pkg/scene"
)

// Normal is the facing of a quad shape.
type Normal string

const (
	NormalPosX Normal = "+X"
	NormalNegX Normal = "-X"
	NormalPosY Normal = "+Y"
	NormalNegY Normal = "-Y"
	NormalPosZ Normal = "+Z"
	NormalNegZ Normal = "-Z"
)

// Normals lists every quad normal.
var Normals = []Normal{NormalPosX, NormalNegX, NormalPosY, NormalNegY, NormalPosZ, NormalNegZ}

// Valid reports whether n is one of the six normals.
func (n Normal) Valid() bool {
	for _, v := range Normals {
		if n == v {
			return true
		}
	}
	return false
}

// Rotation returns the editor rotation, in Euler degrees, that turns a +Z
// quad to face n.
func (n Normal) Rotation() math.Vec3 {
	switch n {
	case NormalPosY:
		return math.Vec3{X: -90}
	case NormalNegY:
		return math.Vec3{X: 90}
	case NormalPosX:
		return math.Vec3{Y: 90}
	case NormalNegX:
		return math.Vec3{Y: -90}
	case NormalNegZ:
		return math.Vec3{Y: 180}
	default:
		return math.Vec3{}
	}
}

// SwapStretch exchanges the stretch axes that trade places when a quad is
// turned to face n. Applying it twice is the identity.
func (n Normal) SwapStretch(s math.Vec3) math.Vec3 {
	switch n {
	case NormalPosY, NormalNegY:
		return s.Swap(1, 2)
	case NormalPosX, NormalNegX:
		return s.Swap(0, 2)
	default:
		return s
	}
}

// NormalFor derives the normal of a quad from its editor rotation. The first
// matching component wins; anything else faces +Z.
func NormalFor(rotation math.Vec3) Normal {
	switch {
	case rotation.X == -90:
		return NormalPosY
	case rotation.X == 90:
		return NormalNegY
	case rotation.Y == 90:
		return NormalPosX
	case rotation.Y == -90:
		return NormalNegX
	case rotation.Y == 180:
		return NormalNegZ
	default:
		return NormalPosZ
	}
}

// IsMainShape reports whether the primitive's rotation is exactly zero.
func IsMainShape(p *scene.Primitive) bool {
	return p.Rotation == (math.Vec3{})
}

// IsQuad reports whether exactly one size axis of the primitive is zero.
func IsQuad(p *scene.Primitive) bool {
	size := p.Size()
	zero := 0
	for i := 0; i < 3; i++ {
		if size.At(i) == 0 {
			zero++
		}
	}
	return zero == 1
}

// IsQuadStrict reports whether the primitive is a quad with at most one
// textured face.
func IsQuadStrict(p *scene.Primitive) bool {
	return IsQuad(p) && p.TexturedFaces() <= 1
}

// IsPlanarQuad reports whether the primitive is a quad flat along its local
// Z axis, the only quad orientation the model format can store.
func IsPlanarQuad(p *scene.Primitive) bool {
	return IsQuad(p) && p.Size().Z == 0
}

// isAlignedQuad reports whether a planar quad is rotated exactly onto one of
// the six normals about its own centre.
func isAlignedQuad(p *scene.Primitive) bool {
	if !IsPlanarQuad(p) {
		return false
	}
	if p.Rotation != NormalFor(p.Rotation).Rotation() {
		return false
	}
	return p.Origin.ApproxEqual(p.Center(), 1e-9)
}

// MainShapePolicy decides which child primitive of a bone is folded into the
// bone's own node.
type MainShapePolicy int

const (
	// PolicyZeroRotationOrAlignedQuad folds zero-rotation primitives and
	// planar quads rotated exactly onto a normal.
	PolicyZeroRotationOrAlignedQuad MainShapePolicy = iota
	// PolicyZeroRotation folds zero-rotation primitives only.
	PolicyZeroRotation
	// PolicySoleChild folds a zero-rotation primitive only when it is the
	// bone's single primitive.
	PolicySoleChild
)

var policyNames = map[MainShapePolicy]string{
	PolicyZeroRotationOrAlignedQuad: "zero-rotation-or-aligned-quad",
	PolicyZeroRotation:              "zero-rotation",
	PolicySoleChild:                 "sole-child",
}

// DefaultPolicy is the main-shape policy used when none is configured.
const DefaultPolicy = PolicyZeroRotationOrAlignedQuad

func (p MainShapePolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParsePolicy resolves a policy name. The empty string selects DefaultPolicy.
func ParsePolicy(name string) (MainShapePolicy, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return DefaultPolicy, nil
	}
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return DefaultPolicy, errors.Errorf("unknown main shape policy %q", name)
}

// Qualifies reports whether prim may be folded into bone under the policy.
func (p MainShapePolicy) Qualifies(prim *scene.Primitive, bone *scene.Bone) bool {
	if !prim.Exported() {
		return false
	}
	switch p {
	case PolicyZeroRotation:
		return IsMainShape(prim)
	case PolicySoleChild:
		return IsMainShape(prim) && len(bone.Primitives()) == 1
	default:
		return IsMainShape(prim) || isAlignedQuad(prim)
	}
}

// FindMainShape returns the first child primitive of b that qualifies under
// the policy, or nil.
func FindMainShape(b *scene.Bone, policy MainShapePolicy) *scene.Primitive {
	for _, prim := range b.Primitives() {
		if policy.Qualifies(prim, b) {
			return prim
		}
	}
	return nil
}

// FaceUVSize returns the UV extent of one side of a box of the given size,
// before face rotation.
func FaceUVSize(dir Direction, size math.Vec3) math.Vec2 {
	switch dir {
	case DirLeft, DirRight:
		return math.Vec2{X: size.Z, Y: size.Y}
	case DirTop, DirBottom:
		return math.Vec2{X: size.X, Y: size.Z}
	default:
		return math.Vec2{X: size.X, Y: size.Y}
	}
}
