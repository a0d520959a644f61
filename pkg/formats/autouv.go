package formats

import (
	stdmath "math"

	"github.com/Faultbox/blockyforge/pkg/scene"
)

// faceAxes lists, per editor face, the primitive axes spanning its UV width
// and height.
var faceAxes = [6][2]int{
	scene.North: {0, 1},
	scene.East:  {2, 1},
	scene.South: {0, 1},
	scene.West:  {2, 1},
	scene.Up:    {0, 2},
	scene.Down:  {0, 2},
}

// FitFaceUV resizes every face rectangle of p to the primitive's size. Each
// rectangle keeps its start corner and mirroring, and is shifted back inside
// the uvWidth x uvHeight texture space when it overflows.
func FitFaceUV(p *scene.Primitive, uvWidth, uvHeight float64) {
	size := p.Size()
	for _, name := range scene.FaceNames {
		face := &p.Faces[name]
		axes := faceAxes[name]
		w := stdmath.Abs(size.At(axes[0]))
		h := stdmath.Abs(size.At(axes[1]))
		if face.Rotation == 90 || face.Rotation == 270 {
			w, h = h, w
		}

		prevW := face.UV[2] - face.UV[0]
		prevH := face.UV[3] - face.UV[1]
		w = clamp(w, -uvWidth, uvWidth) * signOr1(prevW)
		h = clamp(h, -uvHeight, uvHeight) * signOr1(prevH)

		sx := max(face.UV[0], 0)
		sy := max(face.UV[1], 0)
		ex, ey := sx+w, sy+h
		if ex > uvWidth {
			sx = uvWidth - (ex - sx)
			ex = uvWidth
		}
		if ey > uvHeight {
			sy = uvHeight - (ey - sy)
			ey = uvHeight
		}
		face.UV = scene.UVRect{sx, sy, ex, ey}
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

func signOr1(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
