package scene

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Faultbox/blockyforge/pkg/math"
)

// FaceName identifies one side of a primitive.
type FaceName int

const (
	North FaceName = iota
	East
	South
	West
	Up
	Down
)

// FaceNames lists the faces in the host's canonical order.
var FaceNames = [6]FaceName{North, East, South, West, Up, Down}

// String returns the host's face key.
func (f FaceName) String() string {
	switch f {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("face(%d)", int(f))
	}
}

// Texture references stored on a face.
const (
	NoTexture      = ""  // face is transparent and not exported
	DefaultTexture = "*" // face uses the model's default texture
)

// UVRect is a face rectangle [u0, v0, u1, v1]. Corner order carries the
// mirroring: u0 > u1 mirrors horizontally, v0 > v1 vertically.
type UVRect [4]float64

// Width returns the absolute horizontal extent.
func (r UVRect) Width() float64 {
	if r[2] > r[0] {
		return r[2] - r[0]
	}
	return r[0] - r[2]
}

// Height returns the absolute vertical extent.
func (r UVRect) Height() float64 {
	if r[3] > r[1] {
		return r[3] - r[1]
	}
	return r[1] - r[3]
}

// Normalized returns the rectangle with min corner first.
func (r UVRect) Normalized() UVRect {
	return UVRect{min(r[0], r[2]), min(r[1], r[3]), max(r[0], r[2]), max(r[1], r[3])}
}

// Face is one textured side of a primitive.
type Face struct {
	UV       UVRect
	Rotation int    // 0, 90, 180 or 270
	Texture  string // NoTexture, DefaultTexture or a texture UUID
}

// HasTexture reports whether the face carries any texture.
func (f Face) HasTexture() bool {
	return f.Texture != NoTexture
}

// ShadingMode values accepted by the model format.
const (
	ShadingFlat       = "flat"
	ShadingStandard   = "standard"
	ShadingFullbright = "fullbright"
	ShadingReflective = "reflective"
)

// Primitive is a cuboid, or a quad when one size axis is zero.
type Primitive struct {
	Name        string
	UUID        uuid.UUID
	From        math.Vec3
	To          math.Vec3
	Origin      math.Vec3 // rotation pivot
	Rotation    math.Vec3 // Euler degrees, ZYX order
	Stretch     math.Vec3
	Faces       [6]Face // indexed by FaceName
	ShadingMode string
	DoubleSided bool
	NoExport    bool

	parent *Bone
}

// NewPrimitive creates a primitive spanning from..to with unit stretch, the
// pivot at its centre and every face using the default texture.
func NewPrimitive(name string, from, to math.Vec3) *Primitive {
	p := &Primitive{
		Name:        name,
		UUID:        uuid.New(),
		From:        from,
		To:          to,
		Origin:      from.Mid(to),
		Stretch:     math.Vec3{X: 1, Y: 1, Z: 1},
		ShadingMode: ShadingFlat,
	}
	for i := range p.Faces {
		p.Faces[i].Texture = DefaultTexture
	}
	return p
}

func (p *Primitive) NodeName() string    { return p.Name }
func (p *Primitive) NodeUUID() uuid.UUID { return p.UUID }
func (p *Primitive) Parent() *Bone       { return p.parent }
func (p *Primitive) Exported() bool      { return !p.NoExport }
func (p *Primitive) setParent(b *Bone)   { p.parent = b }

// Size returns To - From per axis.
func (p *Primitive) Size() math.Vec3 {
	return p.To.Sub(p.From)
}

// Center returns the midpoint of From and To.
func (p *Primitive) Center() math.Vec3 {
	return p.From.Mid(p.To)
}

// Face returns a pointer to the named face.
func (p *Primitive) Face(name FaceName) *Face {
	return &p.Faces[name]
}

// TexturedFaces counts faces that carry a texture.
func (p *Primitive) TexturedFaces() int {
	n := 0
	for _, f := range p.Faces {
		if f.HasTexture() {
			n++
		}
	}
	return n
}
