package formats

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/blockyforge/internal/logger"
	"github.com/Faultbox/blockyforge/pkg/math"
	"github.com/Faultbox/blockyforge/pkg/scene"
)

// TextureResolver finds and loads the textures that belong to a model file.
// The returned textures are not yet part of any scene; at most one of them
// has UseAsDefault set.
type TextureResolver interface {
	ResolveTextures(modelPath, modelName, preferred string) ([]*scene.Texture, error)
}

// ParseOptions controls Parse.
type ParseOptions struct {
	// Attachment imports the tree as an attachment with this name. Piece
	// roots are grafted onto existing bones of the same name and new root
	// bones are renamed "<attachment>:<name>".
	Attachment string
	// Policy locates the main shape of existing bones in attachment mode.
	Policy MainShapePolicy
	// Textures is consulted when a source path is given. May be nil.
	Textures TextureResolver
}

// ParseResult lists what Parse added to the scene.
type ParseResult struct {
	NewBones      []*scene.Bone
	NewPrimitives []*scene.Primitive
	NewTextures   []*scene.Texture
	// MissingTextures is set when a full model import found no textures; the
	// host should ask the user to pick some.
	MissingTextures bool
}

// RootBones returns the new bones whose parent was not created by the same
// parse. For an attachment these are the collection members.
func (r *ParseResult) RootBones() []*scene.Bone {
	created := make(map[*scene.Bone]bool, len(r.NewBones))
	for _, b := range r.NewBones {
		created[b] = true
	}
	var out []*scene.Bone
	for _, b := range r.NewBones {
		if !created[b.Parent()] {
			out = append(out, b)
		}
	}
	return out
}

// DecodeModel unmarshals and validates a blockymodel file.
func DecodeModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "decoding blockymodel")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the structure of every node. The first problem is returned
// as a *FormatError.
func (m *Model) Validate() error {
	var check func(nodes []*Node, parent string) error
	check = func(nodes []*Node, parent string) error {
		for i, n := range nodes {
			if n == nil {
				return &FormatError{Path: nodePath(parent, i, ""), Err: ErrNullNode}
			}
			path := nodePath(parent, i, n.Name)
			if n.Orientation == nil {
				return &FormatError{Path: path, Err: ErrMissingOrientation}
			}
			if n.Shape == nil {
				return &FormatError{Path: path, Err: ErrMissingShape}
			}
			switch n.Shape.Type {
			case ShapeNone:
			case ShapeBox, ShapeQuad:
				if n.Shape.Settings.Size == nil {
					return &FormatError{Path: path, Err: ErrMissingSize}
				}
			default:
				return &FormatError{Path: path, Err: errors.Wrapf(ErrUnknownShapeType, "%q", n.Shape.Type)}
			}
			if err := check(n.Children, path); err != nil {
				return err
			}
		}
		return nil
	}
	return check(m.Nodes, "")
}

// parser carries the per-call state of one Parse.
type parser struct {
	scene    *scene.Scene
	opts     ParseOptions
	existing []*scene.Bone
	result   *ParseResult
	log      *zap.Logger
}

// Parse adds the bones and primitives of a node tree to the scene. sourcePath
// is the model file location used for texture discovery; it may be empty.
func Parse(s *scene.Scene, m *Model, sourcePath string, opts ParseOptions) (*ParseResult, error) {
	if s == nil {
		return nil, ErrNilScene
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	p := &parser{
		scene:    s,
		opts:     opts,
		existing: s.Bones(),
		result:   &ParseResult{},
		log:      logger.Named("parse"),
	}

	for _, n := range m.Nodes {
		p.parseNode(n, nil, nil, nil)
	}

	if opts.Textures != nil && sourcePath != "" {
		p.resolveTextures(sourcePath)
	}

	p.log.Debug("parsed model",
		zap.String("path", sourcePath),
		zap.Int("bones", len(p.result.NewBones)),
		zap.Int("primitives", len(p.result.NewPrimitives)),
		zap.Int("textures", len(p.result.NewTextures)))
	return p.result, nil
}

// parseNode adds one node below parent. parentNode is the node parent was
// created from, nil for roots and grafted attachment pieces. parentOffset is
// the shape offset folded into parentNode, nil when it had no shape.
func (p *parser) parseNode(n, parentNode *Node, parent *scene.Bone, parentOffset *math.Vec3) {
	attachment := p.opts.Attachment != ""

	if attachment && n.Shape.Settings.IsPiece && len(p.existing) > 0 {
		if target := p.findExisting(n.Name); target != nil {
			parent = target
			parentNode = nil
			parentOffset = nil
		}
	}

	rotation := math.SnapDegrees(n.Orientation.Quat().Normalize().Euler())
	origin := n.Position.Vec3()

	switch {
	case attachment && parentNode == nil && parent != nil:
		if main := FindMainShape(parent, p.opts.Policy); main != nil {
			origin, rotation = main.Origin, main.Rotation
		} else {
			origin, rotation = parent.Origin, parent.Rotation
		}
	case parent != nil:
		origin = origin.Add(parent.Origin)
		if parentOffset != nil {
			origin = origin.Add(*parentOffset)
		}
	}

	var bone *scene.Bone
	if !n.Shape.Settings.IsStaticBox {
		bone = scene.NewBone(n.Name, origin, rotation)
		bone.IsPiece = n.Shape.Settings.IsPiece
		if attachment && parentNode == nil {
			bone.Name = p.opts.Attachment + ":" + n.Name
		}
		p.scene.Add(bone, parent)
		p.result.NewBones = append(p.result.NewBones, bone)
	}

	var folded *math.Vec3
	if n.Shape.Type != ShapeNone {
		prim := p.buildPrimitive(n, origin, rotation, bone != nil)
		if bone != nil {
			bone.Add(prim)
			offset := n.Shape.Offset.Vec3()
			folded = &offset
		} else {
			p.scene.Add(prim, parent)
		}
		p.result.NewPrimitives = append(p.result.NewPrimitives, prim)
	}

	if bone == nil {
		if len(n.Children) > 0 {
			p.log.Warn("static box has children, skipping them",
				zap.String("node", n.Name), zap.Int("children", len(n.Children)))
		}
		return
	}
	for _, child := range n.Children {
		p.parseNode(child, n, bone, folded)
	}
}

// buildPrimitive creates the primitive of a node's shape. A folded shape gets
// its pivot at its centre and no rotation of its own; a static box keeps the
// node's pivot and rotation.
func (p *parser) buildPrimitive(n *Node, origin, rotation math.Vec3, folded bool) *scene.Primitive {
	shape := n.Shape
	size := shape.Settings.Size.Vec3()
	if shape.Type == ShapeQuad {
		size.Z = 0
	}
	stretch := math.Vec3{X: 1, Y: 1, Z: 1}
	if shape.Stretch != nil {
		stretch = shape.Stretch.Vec3()
	}

	center := origin.Add(shape.Offset.Vec3())
	half := size.Scale(0.5)
	prim := scene.NewPrimitive(n.Name, center.Sub(half), center.Add(half))
	prim.Stretch = stretch
	if !folded {
		prim.Origin = origin
		prim.Rotation = rotation
	}
	prim.DoubleSided = shape.DoubleSided
	if shape.ShadingMode != "" {
		prim.ShadingMode = shape.ShadingMode
	}

	if normal := p.normal(n); normal != NormalPosZ {
		prim.Rotation = math.SnapDegrees(prim.Rotation.Add(normal.Rotation()))
		prim.Stretch = normal.SwapStretch(prim.Stretch)
	}

	for _, dir := range Directions {
		name, _ := FaceOf(dir)
		face := prim.Face(name)
		layout := shape.TextureLayout.Get(dir)
		if layout == nil {
			face.Texture = scene.NoTexture
			face.UV = scene.UVRect{}
			continue
		}
		if !ValidAngle(layout.Angle) {
			p.log.Warn("unsupported layout angle, importing as 0",
				zap.String("node", n.Name),
				zap.String("direction", string(dir)),
				zap.Int("angle", layout.Angle))
		}
		face.UV, face.Rotation = DecodeFace(*layout, FaceUVSize(dir, size))
	}
	return prim
}

func (p *parser) normal(n *Node) Normal {
	normal := n.Shape.Settings.Normal
	switch {
	case normal == "":
		return NormalPosZ
	case normal.Valid():
		return normal
	default:
		p.log.Warn("unknown quad normal, importing as +Z",
			zap.String("node", n.Name), zap.String("normal", string(normal)))
		return NormalPosZ
	}
}

func (p *parser) findExisting(name string) *scene.Bone {
	for _, b := range p.existing {
		if b.Name == name {
			return b
		}
	}
	return nil
}

func (p *parser) resolveTextures(sourcePath string) {
	modelName := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	preferred := ""
	if p.opts.Attachment == "" {
		preferred = ProjectName(sourcePath)
	}

	found, err := p.opts.Textures.ResolveTextures(sourcePath, modelName, preferred)
	if err != nil {
		p.log.Warn("texture discovery failed", zap.String("path", sourcePath), zap.Error(err))
		found = nil
	}

	hasDefault := false
	for _, t := range p.scene.Textures {
		if t.UseAsDefault {
			hasDefault = true
		}
	}

	for _, t := range found {
		if existing := p.textureByPath(t.Path); existing != nil {
			p.result.NewTextures = append(p.result.NewTextures, existing)
			continue
		}
		if hasDefault {
			t.UseAsDefault = false
		}
		if p.opts.Attachment == "" {
			p.scene.Textures = append(p.scene.Textures, t)
		}
		p.result.NewTextures = append(p.result.NewTextures, t)
	}

	if len(p.result.NewTextures) == 0 && p.opts.Attachment == "" {
		p.result.MissingTextures = true
		p.log.Info("no textures found next to model", zap.String("path", sourcePath))
	}
}

func (p *parser) textureByPath(path string) *scene.Texture {
	for _, t := range p.scene.Textures {
		if t.Path == path {
			return t
		}
	}
	return nil
}
