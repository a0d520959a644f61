package formats

import "github.com/Faultbox/blockyforge/pkg/math"

// Model is the root of a blockymodel file.
type Model struct {
	Nodes  []*Node     `json:"nodes"`
	Format ModelFormat `json:"format,omitempty"`
	LOD    string      `json:"lod,omitempty"`
}

// Node is one entry of the node tree.
type Node struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Position    Vector      `json:"position"`
	Orientation *Quaternion `json:"orientation"`
	Shape       *Shape      `json:"shape"`
	Children    []*Node     `json:"children,omitempty"`
}

// ShapeType is the kind of geometry a node carries.
type ShapeType string

const (
	ShapeNone ShapeType = "none"
	ShapeBox  ShapeType = "box"
	ShapeQuad ShapeType = "quad"
)

// Shape is the geometry of a node, relative to the node's pivot.
type Shape struct {
	Type          ShapeType     `json:"type"`
	Offset        Vector        `json:"offset"`
	Stretch       *Vector       `json:"stretch"`
	Settings      Settings      `json:"settings"`
	TextureLayout TextureLayout `json:"textureLayout"`
	UnwrapMode    string        `json:"unwrapMode"`
	Visible       bool          `json:"visible"`
	DoubleSided   bool          `json:"doubleSided"`
	ShadingMode   string        `json:"shadingMode"`
}

// Settings holds the type specific shape properties.
type Settings struct {
	IsPiece     bool    `json:"isPiece"`
	Size        *Vector `json:"size,omitempty"`
	Normal      Normal  `json:"normal,omitempty"`
	IsStaticBox bool    `json:"isStaticBox,omitempty"`
}

// TextureLayout holds the UV placement of each textured side. A nil entry
// means the side is not textured.
type TextureLayout struct {
	Back   *FaceLayout `json:"back,omitempty"`
	Right  *FaceLayout `json:"right,omitempty"`
	Front  *FaceLayout `json:"front,omitempty"`
	Left   *FaceLayout `json:"left,omitempty"`
	Top    *FaceLayout `json:"top,omitempty"`
	Bottom *FaceLayout `json:"bottom,omitempty"`
}

func (l *TextureLayout) slot(dir Direction) **FaceLayout {
	switch dir {
	case DirBack:
		return &l.Back
	case DirRight:
		return &l.Right
	case DirFront:
		return &l.Front
	case DirLeft:
		return &l.Left
	case DirTop:
		return &l.Top
	case DirBottom:
		return &l.Bottom
	}
	return nil
}

// Get returns the layout of a side, or nil.
func (l *TextureLayout) Get(dir Direction) *FaceLayout {
	if s := l.slot(dir); s != nil {
		return *s
	}
	return nil
}

// Set stores the layout of a side.
func (l *TextureLayout) Set(dir Direction, f *FaceLayout) {
	if s := l.slot(dir); s != nil {
		*s = f
	}
}

// Len returns the number of textured sides.
func (l *TextureLayout) Len() int {
	n := 0
	for _, d := range Directions {
		if l.Get(d) != nil {
			n++
		}
	}
	return n
}

// FaceLayout is the UV placement of one side: the texture pixel the face's
// first corner maps to, per-axis mirroring and a clockwise angle.
type FaceLayout struct {
	Offset UV     `json:"offset"`
	Mirror Mirror `json:"mirror"`
	Angle  int    `json:"angle"`
}

// UV is a texture-space point.
type UV struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Mirror flags per UV axis.
type Mirror struct {
	X bool `json:"x"`
	Y bool `json:"y"`
}

// Vector is a JSON {x,y,z} object.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// VectorOf converts a math vector.
func VectorOf(v math.Vec3) Vector {
	return Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// Vec3 converts to a math vector.
func (v Vector) Vec3() math.Vec3 {
	return math.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Quaternion is a JSON {x,y,z,w} object.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// QuaternionOf converts a math quaternion.
func QuaternionOf(q math.Quat) Quaternion {
	return Quaternion{X: q.X, Y: q.Y, Z: q.Z, W: q.W}
}

// Quat converts to a math quaternion.
func (q Quaternion) Quat() math.Quat {
	return math.Quat{X: q.X, Y: q.Y, Z: q.Z, W: q.W}
}

// Walk visits every node depth first, parents before children.
func (m *Model) Walk(fn func(n *Node, depth int)) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, n := range m.Nodes {
		visit(n, 0)
	}
}

// Count returns the number of nodes in the tree.
func (m *Model) Count() int {
	n := 0
	m.Walk(func(*Node, int) { n++ })
	return n
}
