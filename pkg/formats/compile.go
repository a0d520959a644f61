package formats

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/blockyforge/internal/logger"
	"github.com/Faultbox/blockyforge/pkg/math"
	"github.com/Faultbox/blockyforge/pkg/scene"
)

// CompileOptions controls Compile.
type CompileOptions struct {
	// Attachment compiles only the bones of this collection. When nil, every
	// root bone is compiled and collection members are skipped.
	Attachment *scene.Collection
	Policy     MainShapePolicy
	Format     ModelFormat
}

// compiler carries the per-call state of one Compile.
type compiler struct {
	opts   CompileOptions
	scene  *scene.Scene
	nextID int
	log    *zap.Logger
}

// Compile converts a scene into a blockymodel node tree.
func Compile(s *scene.Scene, opts CompileOptions) (*Model, error) {
	if s == nil {
		return nil, ErrNilScene
	}
	if opts.Format == "" {
		opts.Format = FormatCharacter
	}

	c := &compiler{
		opts:   opts,
		scene:  s,
		nextID: 1,
		log:    logger.Named("compile"),
	}

	roots := s.RootBones()
	if opts.Attachment != nil {
		roots = opts.Attachment.Bones()
	}

	m := &Model{Nodes: []*Node{}, Format: opts.Format, LOD: "auto"}
	for _, b := range roots {
		if n := c.compileNode(b); n != nil {
			m.Nodes = append(m.Nodes, n)
		}
	}

	c.log.Debug("compiled model",
		zap.Int("nodes", c.nextID-1),
		zap.String("format", string(opts.Format)),
		zap.Stringer("policy", opts.Policy))
	return m, nil
}

// CompileJSON compiles a scene and serializes it.
func CompileJSON(s *scene.Scene, opts CompileOptions, jopts JSONOptions) ([]byte, error) {
	m, err := Compile(s, opts)
	if err != nil {
		return nil, err
	}
	return MarshalJSON(m, jopts)
}

func (c *compiler) compileNode(n scene.Node) *Node {
	if !n.Exported() {
		return nil
	}
	if c.opts.Attachment == nil && c.scene.CollectionOf(n) != nil {
		return nil
	}

	switch n := n.(type) {
	case *scene.Bone:
		return c.compileBone(n)
	case *scene.Primitive:
		return c.compilePrimitive(n)
	}
	return nil
}

func (c *compiler) compileBone(b *scene.Bone) *Node {
	node := c.newNode(b.Name, b, b.Origin, b.Rotation, b.IsPiece)

	main := FindMainShape(b, c.opts.Policy)
	for _, child := range b.Children {
		if p, ok := child.(*scene.Primitive); ok && p == main {
			c.fillShape(node, p, b.Origin, false)
			continue
		}
		if out := c.compileNode(child); out != nil {
			node.Children = append(node.Children, out)
		}
	}
	return node
}

func (c *compiler) compilePrimitive(p *scene.Primitive) *Node {
	rotation := p.Rotation
	if IsPlanarQuad(p) {
		// The parser re-applies the normal rotation on top of the
		// orientation, so only the residual goes into the file.
		rotation = rotation.Sub(NormalFor(p.Rotation).Rotation())
	}
	node := c.newNode(p.Name, p, p.Origin, rotation, false)
	c.fillShape(node, p, p.Origin, true)
	return node
}

// newNode creates a node with an empty shape. origin is in scene space and is
// made relative to the parent's pivot, or to the parent's main shape centre
// when the parent has one.
func (c *compiler) newNode(name string, n scene.Node, origin, rotation math.Vec3, isPiece bool) *Node {
	if parent := n.Parent(); parent != nil {
		origin = origin.Sub(parent.Origin)
		if main := FindMainShape(parent, c.opts.Policy); main != nil {
			origin = origin.Sub(main.Center().Sub(parent.Origin))
		}
	}

	q := QuaternionOf(math.QuatFromEuler(rotation))
	node := &Node{
		ID:          strconv.Itoa(c.nextID),
		Name:        exportName(name),
		Position:    VectorOf(origin),
		Orientation: &q,
		Shape: &Shape{
			Type:        ShapeNone,
			Stretch:     &Vector{},
			Settings:    Settings{IsPiece: isPiece},
			UnwrapMode:  "custom",
			Visible:     true,
			ShadingMode: scene.ShadingFlat,
		},
	}
	c.nextID++
	return node
}

// fillShape turns the node's shape into the box or quad of p. pivot is the
// scene-space point the shape offset is measured from.
func (c *compiler) fillShape(node *Node, p *scene.Primitive, pivot math.Vec3, static bool) {
	shape := node.Shape
	size := VectorOf(p.Size())
	stretch := p.Stretch

	shape.Type = ShapeBox
	shape.Settings.Size = &size
	shape.Offset = VectorOf(p.Center().Sub(pivot))
	shape.Settings.IsStaticBox = static

	faces := scene.FaceNames[:]
	if IsPlanarQuad(p) {
		normal := NormalFor(p.Rotation)
		shape.Type = ShapeQuad
		shape.Settings.Normal = normal
		stretch = normal.SwapStretch(stretch)
		faces = []scene.FaceName{scene.South, scene.North}
	}

	st := VectorOf(stretch)
	shape.Stretch = &st
	shape.Visible = true
	shape.DoubleSided = p.DoubleSided
	shape.ShadingMode = p.ShadingMode
	if shape.ShadingMode == "" {
		shape.ShadingMode = scene.ShadingFlat
	}

	for _, f := range faces {
		face := p.Faces[f]
		if !face.HasTexture() {
			continue
		}
		if !ValidAngle(face.Rotation) {
			c.log.Warn("unsupported face rotation, exporting as 0",
				zap.String("primitive", p.Name),
				zap.Stringer("face", f),
				zap.Int("rotation", face.Rotation))
		}
		layout := EncodeFace(face.UV, face.Rotation)
		shape.TextureLayout.Set(DirectionOf(f), &layout)
	}
}

// exportName drops the "<collection>:" prefix given to attachment bones.
func exportName(name string) string {
	if i := strings.LastIndex(name, ":"); i > 0 {
		return name[i+1:]
	}
	return name
}
