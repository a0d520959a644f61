// Package scene is the editor-side model the codecs read from and write to:
// a tree of bones and primitives, the textures applied to it, attachment
// collections and keyframe animations.
//
// A host integration layer mirrors its own outliner into these types before a
// compile call and applies the objects returned by a parse call back to its
// outliner.
package scene

import (
	"github.com/google/uuid"

	"github.com/Faultbox/blockyforge/pkg/math"
)

// Node is an entry of the outliner tree. It is implemented only by *Bone and
// *Primitive, so a type switch over those two cases is exhaustive.
type Node interface {
	NodeName() string
	NodeUUID() uuid.UUID
	Parent() *Bone
	Exported() bool

	setParent(*Bone)
}

// Scene holds the outliner roots and the project resources.
type Scene struct {
	Roots       []Node
	Textures    []*Texture
	Collections []*Collection
	Animations  []*Animation
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// AddRoot appends n at the root level of the outliner.
func (s *Scene) AddRoot(n Node) {
	detach(n)
	s.Roots = append(s.Roots, n)
}

// Add places n under parent, or at the root level when parent is nil.
func (s *Scene) Add(n Node, parent *Bone) {
	if parent == nil {
		s.AddRoot(n)
		return
	}
	parent.Add(n)
}

// Remove detaches n from the tree.
func (s *Scene) Remove(n Node) {
	if p := n.Parent(); p != nil {
		p.remove(n)
		return
	}
	for i, r := range s.Roots {
		if r == n {
			s.Roots = append(s.Roots[:i], s.Roots[i+1:]...)
			return
		}
	}
}

// RootBones returns the bones at the root level in outliner order.
func (s *Scene) RootBones() []*Bone {
	var bones []*Bone
	for _, n := range s.Roots {
		if b, ok := n.(*Bone); ok {
			bones = append(bones, b)
		}
	}
	return bones
}

// Walk visits every node depth-first in outliner order. Returning false from
// fn skips the children of that node.
func (s *Scene) Walk(fn func(Node) bool) {
	for _, n := range s.Roots {
		walk(n, fn)
	}
}

func walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	if b, ok := n.(*Bone); ok {
		for _, c := range b.Children {
			walk(c, fn)
		}
	}
}

// Bones returns all bones depth-first.
func (s *Scene) Bones() []*Bone {
	var bones []*Bone
	s.Walk(func(n Node) bool {
		if b, ok := n.(*Bone); ok {
			bones = append(bones, b)
		}
		return true
	})
	return bones
}

// Primitives returns all primitives depth-first.
func (s *Scene) Primitives() []*Primitive {
	var prims []*Primitive
	s.Walk(func(n Node) bool {
		if p, ok := n.(*Primitive); ok {
			prims = append(prims, p)
		}
		return true
	})
	return prims
}

// FindBone returns the first bone with the given name, or nil.
func (s *Scene) FindBone(name string) *Bone {
	for _, b := range s.Bones() {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// BonesNamed returns every bone with the given name.
func (s *Scene) BonesNamed(name string) []*Bone {
	var out []*Bone
	for _, b := range s.Bones() {
		if b.Name == name {
			out = append(out, b)
		}
	}
	return out
}

// BoneByUUID returns the bone with the given identity, or nil.
func (s *Scene) BoneByUUID(id uuid.UUID) *Bone {
	for _, b := range s.Bones() {
		if b.UUID == id {
			return b
		}
	}
	return nil
}

// CollectionOf returns the first collection containing n, or nil.
func (s *Scene) CollectionOf(n Node) *Collection {
	for _, c := range s.Collections {
		if c.Contains(n) {
			return c
		}
	}
	return nil
}

// Collection returns the collection with the given name, creating it when it
// does not exist yet.
func (s *Scene) Collection(name string) *Collection {
	for _, c := range s.Collections {
		if c.Name == name {
			return c
		}
	}
	c := NewCollection(name)
	s.Collections = append(s.Collections, c)
	return c
}

// DefaultTexture returns the texture marked as default, or the first texture.
func (s *Scene) DefaultTexture() *Texture {
	for _, t := range s.Textures {
		if t.UseAsDefault {
			return t
		}
	}
	if len(s.Textures) > 0 {
		return s.Textures[0]
	}
	return nil
}

// Bone is a named pivot that parents other bones and primitives.
type Bone struct {
	Name     string
	UUID     uuid.UUID
	Origin   math.Vec3
	Rotation math.Vec3 // Euler degrees, ZYX order
	IsPiece  bool      // attaches to a same-named bone when used as an attachment
	NoExport bool
	Children []Node

	parent *Bone
}

// NewBone creates a bone with a fresh identity.
func NewBone(name string, origin, rotation math.Vec3) *Bone {
	return &Bone{
		Name:     name,
		UUID:     uuid.New(),
		Origin:   origin,
		Rotation: rotation,
	}
}

func (b *Bone) NodeName() string    { return b.Name }
func (b *Bone) NodeUUID() uuid.UUID { return b.UUID }
func (b *Bone) Parent() *Bone       { return b.parent }
func (b *Bone) Exported() bool      { return !b.NoExport }
func (b *Bone) setParent(p *Bone)   { b.parent = p }

// Add appends n to the bone's children, detaching it from its previous parent.
func (b *Bone) Add(n Node) {
	detach(n)
	n.setParent(b)
	b.Children = append(b.Children, n)
}

func (b *Bone) remove(n Node) {
	for i, c := range b.Children {
		if c == n {
			b.Children = append(b.Children[:i], b.Children[i+1:]...)
			n.setParent(nil)
			return
		}
	}
}

// Primitives returns the direct primitive children.
func (b *Bone) Primitives() []*Primitive {
	var out []*Primitive
	for _, c := range b.Children {
		if p, ok := c.(*Primitive); ok {
			out = append(out, p)
		}
	}
	return out
}

// IsChildOf reports whether other is an ancestor of b.
func (b *Bone) IsChildOf(other *Bone) bool {
	for p := b.parent; p != nil; p = p.parent {
		if p == other {
			return true
		}
	}
	return false
}

func detach(n Node) {
	if p := n.Parent(); p != nil {
		p.remove(n)
	}
}
