package formats

import (
	stdmath "math"

	"github.com/Faultbox/blockyforge/pkg/math"
	"github.com/Faultbox/blockyforge/pkg/scene"
)

// DefaultQuadSize is the edge length of a quad created without a size.
const DefaultQuadSize = 8

// normalAxes maps each normal to the axis it zeroes and the face it shows.
var normalAxes = map[Normal]struct {
	axis int
	face scene.FaceName
}{
	NormalPosX: {0, scene.East},
	NormalNegX: {0, scene.West},
	NormalPosY: {1, scene.Up},
	NormalNegY: {1, scene.Down},
	NormalPosZ: {2, scene.South},
	NormalNegZ: {2, scene.North},
}

// NewQuad creates a double-sided, axis-aligned quad facing normal. The axis
// of the normal is flattened to zero, the quad stands on Y=0 and is centred
// on X and Z. Only the face looking along the normal is textured, with the
// default texture and a UV rectangle of its size. A size of zero or less
// uses DefaultQuadSize and an invalid normal faces +Z.
func NewQuad(normal Normal, size float64) *scene.Primitive {
	if size <= 0 {
		size = DefaultQuadSize
	}
	na, ok := normalAxes[normal]
	if !ok {
		na = normalAxes[NormalPosZ]
	}

	dims := math.Vec3{X: size, Y: size, Z: size}.With(na.axis, 0)
	from := math.Vec3{X: -dims.X / 2, Z: -dims.Z / 2}
	to := math.Vec3{X: dims.X / 2, Y: dims.Y, Z: dims.Z / 2}

	p := scene.NewPrimitive("quad", from, to)
	p.Origin = math.Vec3{}
	p.DoubleSided = true
	for i := range p.Faces {
		p.Faces[i] = scene.Face{Texture: scene.NoTexture}
	}

	uv := FaceUVSize(DirectionOf(na.face), dims)
	p.Faces[na.face] = scene.Face{
		UV:      scene.UVRect{0, 0, stdmath.Abs(uv.X), stdmath.Abs(uv.Y)},
		Texture: scene.DefaultTexture,
	}
	return p
}
