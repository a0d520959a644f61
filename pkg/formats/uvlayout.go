package formats

import (
	stdmath "math"

	"github.com/Faultbox/blockyforge/pkg/math"
	"github.com/Faultbox/blockyforge/pkg/scene"
)

// EncodeFace converts an editor face rectangle and rotation into a model
// face layout.
//
// The offset starts at the rectangle's minimum corner. Each mirrored axis and
// each axis flipped by the rotation toggles that coordinate between the
// minimum and the maximum edge. Editor rotations run the other way round from
// model angles, so 90 and 270 trade places unless exactly one axis is
// mirrored.
func EncodeFace(uv scene.UVRect, rotation int) FaceLayout {
	var (
		flipX, flipY     bool
		mirrorX, mirrorY bool
		x                = min(uv[0], uv[2])
		y                = min(uv[1], uv[3])
	)

	flip := func(axis int) {
		if axis == 0 {
			flipX = !flipX
			if flipX {
				x = max(uv[0], uv[2])
			} else {
				x = min(uv[0], uv[2])
			}
			return
		}
		flipY = !flipY
		if flipY {
			y = max(uv[1], uv[3])
		} else {
			y = min(uv[1], uv[3])
		}
	}

	if uv[0] > uv[2] {
		mirrorX = true
		flip(0)
	}
	if uv[1] > uv[3] {
		mirrorY = true
		flip(1)
	}

	angle := 0
	switch rotation {
	case 90:
		angle = 270
		if mirrorX != mirrorY {
			angle = 90
		}
		flip(1)
	case 180:
		angle = 180
		flip(1)
		flip(0)
	case 270:
		angle = 90
		if mirrorX != mirrorY {
			angle = 270
		}
		flip(0)
	}

	return FaceLayout{
		Offset: UV{X: stdmath.Trunc(x), Y: stdmath.Trunc(y)},
		Mirror: Mirror{X: mirrorX, Y: mirrorY},
		Angle:  angle,
	}
}

// ValidAngle reports whether a is one of the four layout angles.
func ValidAngle(a int) bool {
	return a == 0 || a == 90 || a == 180 || a == 270
}

// DecodeFace converts a model face layout back into an editor rectangle and
// rotation. size is the face's UV extent from FaceUVSize. Unknown angles
// decode as 0.
func DecodeFace(l FaceLayout, size math.Vec2) (scene.UVRect, int) {
	ox, oy := l.Offset.X, l.Offset.Y
	w, h := size.X, size.Y
	mx, my := 1.0, 1.0
	if l.Mirror.X {
		mx = -1
	}
	if l.Mirror.Y {
		my = -1
	}

	switch l.Angle {
	case 90:
		w, h = h, w
		mx, my = my, mx
		mx = -mx
		return scene.UVRect{ox, oy + h*my, ox + w*mx, oy}, 90
	case 270:
		w, h = h, w
		mx, my = my, mx
		my = -my
		return scene.UVRect{ox + w*mx, oy, ox, oy + h*my}, 270
	case 180:
		mx, my = -mx, -my
		return scene.UVRect{ox + w*mx, oy + h*my, ox, oy}, 180
	default:
		return scene.UVRect{ox, oy, ox + w*mx, oy + h*my}, 0
	}
}
