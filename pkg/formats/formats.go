// Package formats implements the blockymodel and blockyanim codecs.
//
// A blockymodel file is a JSON node tree in which every node carries a
// position, an orientation quaternion and at most one box or quad shape. The
// editor side is the bone/primitive tree of package scene. Compile turns a
// scene into a node tree, Parse grafts a node tree into a scene. The two are
// inverses for every scene whose primitives are either folded into their bone
// (the main shape) or exported as standalone static boxes.
//
// A blockyanim file holds per-node keyframe tracks at a fixed 60 frames per
// second.
package formats

import "github.com/Faultbox/blockyforge/pkg/scene"

// FPS is the frame rate of blockyanim time values.
const FPS = 60

// MaxNodeCount is the number of nodes the game client displays.
const MaxNodeCount = 255

// ModelFormat is the "format" field of a blockymodel.
type ModelFormat string

const (
	FormatCharacter ModelFormat = "character"
	FormatProp      ModelFormat = "prop"
)

// Direction is a texture layout key of the model format.
type Direction string

const (
	DirBack   Direction = "back"
	DirFront  Direction = "front"
	DirLeft   Direction = "left"
	DirRight  Direction = "right"
	DirTop    Direction = "top"
	DirBottom Direction = "bottom"
)

// faceDirections maps editor faces to model directions. It is the only table
// of the mapping; DirectionOf and FaceOf both read it.
var faceDirections = [6]struct {
	face scene.FaceName
	dir  Direction
}{
	{scene.North, DirBack},
	{scene.East, DirRight},
	{scene.South, DirFront},
	{scene.West, DirLeft},
	{scene.Up, DirTop},
	{scene.Down, DirBottom},
}

// Directions lists the layout keys in editor face order.
var Directions = [6]Direction{DirBack, DirRight, DirFront, DirLeft, DirTop, DirBottom}

// DirectionOf returns the model direction of an editor face.
func DirectionOf(face scene.FaceName) Direction {
	for _, fd := range faceDirections {
		if fd.face == face {
			return fd.dir
		}
	}
	return DirFront
}

// FaceOf returns the editor face of a model direction.
func FaceOf(dir Direction) (scene.FaceName, bool) {
	for _, fd := range faceDirections {
		if fd.dir == dir {
			return fd.face, true
		}
	}
	return 0, false
}
