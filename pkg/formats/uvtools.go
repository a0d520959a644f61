package formats

import (
	stdmath "math"

	"github.com/Faultbox/blockyforge/pkg/scene"
)

// RotateRect turns r a quarter turn about its centre. Width and height trade
// places and the result has its minimum corner first, so a clockwise and a
// counter-clockwise quarter turn produce the same rectangle.
func RotateRect(r scene.UVRect) scene.UVRect {
	cx, cy := (r[0]+r[2])/2, (r[1]+r[3])/2
	hw, hh := stdmath.Abs(r[2]-r[0])/2, stdmath.Abs(r[3]-r[1])/2
	return scene.UVRect{cx - hh, cy - hw, cx + hh, cy + hw}
}

// FlipRectH mirrors r horizontally by swapping its U coordinates.
func FlipRectH(r scene.UVRect) scene.UVRect {
	return scene.UVRect{r[2], r[1], r[0], r[3]}
}

// FlipRectV mirrors r vertically by swapping its V coordinates.
func FlipRectV(r scene.UVRect) scene.UVRect {
	return scene.UVRect{r[0], r[3], r[2], r[1]}
}

// RotateFaceCW rotates a face's UV region clockwise. The face rotation moves
// a quarter turn back so the texel content, rotated in the image the same
// way, keeps its on-model orientation.
func RotateFaceCW(f *scene.Face) {
	f.UV = RotateRect(f.UV)
	f.Rotation = (f.Rotation + 270) % 360
}

// RotateFaceCCW is the counter-clockwise twin of RotateFaceCW.
func RotateFaceCCW(f *scene.Face) {
	f.UV = RotateRect(f.UV)
	f.Rotation = (f.Rotation + 90) % 360
}

// FlipFaceH mirrors a face's UV horizontally.
func FlipFaceH(f *scene.Face) { f.UV = FlipRectH(f.UV) }

// FlipFaceV mirrors a face's UV vertically.
func FlipFaceV(f *scene.Face) { f.UV = FlipRectV(f.UV) }
