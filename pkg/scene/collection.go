package scene

import "github.com/google/uuid"

// Collection groups outliner nodes that form an attachment, such as a held
// item or a hat, grafted onto the base rig.
type Collection struct {
	Name       string
	UUID       uuid.UUID
	ExportPath string
	// TexturePath is a texture file or a folder of textures. SelectedTexture
	// names the file picked from a folder.
	TexturePath     string
	SelectedTexture string
	members         []Node
}

// NewCollection creates an empty collection.
func NewCollection(name string) *Collection {
	return &Collection{Name: name, UUID: uuid.New()}
}

// Add registers n as a direct member.
func (c *Collection) Add(n Node) {
	for _, m := range c.members {
		if m == n {
			return
		}
	}
	c.members = append(c.members, n)
}

// Members returns the direct members in insertion order.
func (c *Collection) Members() []Node {
	return c.members
}

// Bones returns the direct members that are bones.
func (c *Collection) Bones() []*Bone {
	var out []*Bone
	for _, m := range c.members {
		if b, ok := m.(*Bone); ok {
			out = append(out, b)
		}
	}
	return out
}

// Contains reports whether n or one of its ancestors is a member.
func (c *Collection) Contains(n Node) bool {
	for _, m := range c.members {
		if m == n {
			return true
		}
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		for _, m := range c.members {
			if m == Node(p) {
				return true
			}
		}
	}
	return false
}
