package formats

import (
	"fmt"

	"github.com/Faultbox/blockyforge/pkg/scene"
)

// Warning is a soft validation finding. It never blocks export.
type Warning struct {
	Check   string
	Message string
	// Fix applies the suggested correction, when there is one.
	Fix func()
}

func (w Warning) String() string {
	return w.Check + ": " + w.Message
}

// Validation check identifiers.
const (
	CheckNodeCountID = "node_count"
	CheckUVSizeID    = "uv_size"
)

// CountNodes returns the number of nodes Compile would emit for s: one per
// exported bone outside any collection, plus one per exported primitive
// outside any collection that is not its bone's main shape.
func CountNodes(s *scene.Scene, policy MainShapePolicy) int {
	count := 0
	for _, b := range s.Bones() {
		if !exportedChain(b) || s.CollectionOf(b) != nil {
			continue
		}
		count++
		main := FindMainShape(b, policy)
		for _, p := range b.Primitives() {
			if p.Exported() && p != main && s.CollectionOf(p) == nil {
				count++
			}
		}
	}
	return count
}

func exportedChain(b *scene.Bone) bool {
	for ; b != nil; b = b.Parent() {
		if b.NoExport {
			return false
		}
	}
	return true
}

// CheckNodeCount warns when the scene has more nodes than the game displays.
func CheckNodeCount(s *scene.Scene, policy MainShapePolicy) []Warning {
	n := CountNodes(s, policy)
	if n <= MaxNodeCount {
		return nil
	}
	return []Warning{{
		Check: CheckNodeCountID,
		Message: fmt.Sprintf("The model contains %d nodes, which exceeds the maximum of %d that the game will display.",
			n, MaxNodeCount),
	}}
}

// NodeStats formats the node count for a model statistics panel.
func NodeStats(s *scene.Scene, policy MainShapePolicy) string {
	return fmt.Sprintf("%d / %d", CountNodes(s, policy), MaxNodeCount)
}

// CheckUVSize warns about every texture whose UV size differs from its pixel
// size. Each warning's Fix resizes the UV space to the pixel size.
func CheckUVSize(textures []*scene.Texture) []Warning {
	var out []Warning
	for _, t := range textures {
		if t.UVWidth == t.Width && t.UVHeight == t.Height {
			continue
		}
		t := t
		out = append(out, Warning{
			Check: CheckUVSizeID,
			Message: fmt.Sprintf("The UV size of texture %q (%dx%d) does not match its resolution (%dx%d).",
				t.Name, t.UVWidth, t.UVHeight, t.Width, t.Height),
			Fix: t.FitUVSize,
		})
	}
	return out
}

// Check runs every validation check over the scene.
func Check(s *scene.Scene, policy MainShapePolicy) []Warning {
	var out []Warning
	out = append(out, CheckNodeCount(s, policy)...)
	out = append(out, CheckUVSize(s.Textures)...)
	return out
}
