package formats

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Faultbox/blockyforge/pkg/math"
	"github.com/Faultbox/blockyforge/pkg/scene"
)

func TestDeltaUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		check func(Delta) bool
	}{
		{"bool", `true`, func(d Delta) bool { return d.Visible != nil && *d.Visible }},
		{"false", `false`, func(d Delta) bool { return d.Visible != nil && !*d.Visible }},
		{"vector", `{"x":1,"y":2,"z":3}`, func(d Delta) bool {
			return d.Vector != nil && *d.Vector == Vector{X: 1, Y: 2, Z: 3} && d.Quaternion == nil
		}},
		{"quaternion", `{"x":0,"y":0,"z":0,"w":1}`, func(d Delta) bool {
			return d.Quaternion != nil && d.Quaternion.W == 1 && d.Vector == nil
		}},
		{"null", `null`, func(d Delta) bool { return d.empty() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Delta
			if err := json.Unmarshal([]byte(tt.json), &d); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !tt.check(d) {
				t.Errorf("unexpected delta %+v", d)
			}
		})
	}
}

func TestDecodeAnimationErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{"vector on orientation", `{"nodeAnimations":{"arm":{"orientation":[{"time":0,"delta":{"x":0,"y":0,"z":0}}]}}}`, ErrDeltaKind},
		{"bool on position", `{"nodeAnimations":{"arm":{"position":[{"time":0,"delta":true}]}}}`, ErrDeltaKind},
		{"missing delta", `{"nodeAnimations":{"arm":{"shapeStretch":[{"time":0}]}}}`, ErrMissingDelta},
		{"null node", `{"nodeAnimations":{"arm":null}}`, ErrNullNodeAnimation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAnimation([]byte(tt.json))
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var ferr *FormatError
			if !errors.As(err, &ferr) || !strings.HasPrefix(ferr.Path, "nodeAnimations.arm") {
				t.Errorf("unexpected error path in %v", err)
			}
		})
	}
}

func animScene() (*scene.Scene, *scene.Bone) {
	s := scene.New()
	arm := scene.NewBone("arm", math.Vec3{}, math.Vec3{})
	s.AddRoot(arm)
	return s, arm
}

func TestAnimationRoundTrip(t *testing.T) {
	_, arm := animScene()
	an := scene.NewAnimation("wave", 1.5)
	an.Loop = scene.LoopHold
	a := an.Animator(arm)
	a.AddKeyframe(&scene.Keyframe{Channel: scene.ChannelRotation, Time: 0.5, Interpolation: scene.InterpolationCatmullRom, Value: math.Vec3{X: 30, Y: -45, Z: 10}}, uuid.Nil)
	a.AddKeyframe(&scene.Keyframe{Channel: scene.ChannelPosition, Time: 1.5, Interpolation: scene.InterpolationLinear, Value: math.Vec3{X: 1, Y: 2, Z: 3}}, uuid.Nil)
	a.AddKeyframe(&scene.Keyframe{Channel: scene.ChannelScale, Time: 0.25, Interpolation: scene.InterpolationStep, Value: math.Vec3{X: 1, Y: 2, Z: 1}}, uuid.Nil)
	a.AddKeyframe(&scene.Keyframe{Channel: scene.ChannelVisibility, Time: 1, Interpolation: scene.InterpolationLinear}, uuid.Nil)

	f := CompileAnimation(an)
	if f.Duration != 90 || !f.HoldLastKeyframe || f.FormatVersion != 1 {
		t.Fatalf("header = %+v", f)
	}
	na := f.NodeAnimations["arm"]
	if na == nil {
		t.Fatal("arm not exported")
	}
	if na.Orientation[0].Time != 30 || na.Orientation[0].InterpolationType != InterpolationSmooth {
		t.Errorf("orientation keyframe = %+v", na.Orientation[0])
	}
	if na.ShapeStretch[0].InterpolationType != InterpolationLinear {
		t.Errorf("non-smooth interpolation should export as linear, got %q", na.ShapeStretch[0].InterpolationType)
	}

	data, err := CompileAnimationJSON(an, DefaultJSONOptions())
	if err != nil {
		t.Fatalf("CompileAnimationJSON: %v", err)
	}
	decoded, err := DecodeAnimation(data)
	if err != nil {
		t.Fatalf("DecodeAnimation: %v", err)
	}

	dst, _ := animScene()
	got := ParseAnimation(dst, "wave.blockyanim", "/Animations/Idle/wave.blockyanim", decoded)
	if got.Name != "wave" || got.Length != 1.5 || got.Loop != scene.LoopHold || got.Snapping != FPS {
		t.Errorf("animation = %+v", got)
	}
	if len(dst.Animations) != 1 {
		t.Errorf("scene has %d animations, want 1", len(dst.Animations))
	}

	ga := got.Animator(dst.FindBone("arm"))
	rot := ga.Rotation[0]
	if rot.Time != 0.5 || rot.Interpolation != scene.InterpolationCatmullRom || rot.Value != (math.Vec3{X: 30, Y: -45, Z: 10}) {
		t.Errorf("rotation keyframe = %+v", rot)
	}
	if pos := ga.Position[0]; pos.Time != 1.5 || pos.Value != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("position keyframe = %+v", pos)
	}
	if sc := ga.Scale[0]; sc.Interpolation != scene.InterpolationLinear || sc.Value != (math.Vec3{X: 1, Y: 2, Z: 1}) {
		t.Errorf("scale keyframe = %+v", sc)
	}
	if vis := ga.Visibility[0]; vis.Visible || vis.Time != 1 {
		t.Errorf("visibility keyframe = %+v", vis)
	}
}

func TestCompileAnimationOmitsEmpty(t *testing.T) {
	s, arm := animScene()
	leg := scene.NewBone("leg", math.Vec3{}, math.Vec3{})
	s.AddRoot(leg)

	an := scene.NewAnimation("walk", 1)
	an.Animator(leg)
	a := an.Animator(arm)
	a.AddKeyframe(&scene.Keyframe{Channel: scene.ChannelPosition, Time: 1, Value: math.Vec3{X: 2}}, uuid.Nil)
	a.AddKeyframe(&scene.Keyframe{Channel: scene.ChannelPosition, Time: 0, Value: math.Vec3{X: 1}}, uuid.Nil)
	an.AddAnimator(&scene.BoneAnimator{Name: "ghost", Position: []*scene.Keyframe{{Channel: scene.ChannelPosition}}})

	f := CompileAnimation(an)
	if len(f.NodeAnimations) != 1 {
		t.Fatalf("exported %v, want only arm", f.NodeNames())
	}
	na := f.NodeAnimations["arm"]
	if na.Position[0].Time != 0 || na.Position[1].Time != 60 {
		t.Errorf("keyframes not sorted by time: %+v", na.Position)
	}
	if na.Orientation == nil || len(na.Orientation) != 0 || na.ShapeUVOffset == nil {
		t.Error("empty tracks should be present as empty lists")
	}

	data, err := MarshalJSON(f, DefaultJSONOptions())
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	for _, want := range []string{`"shapeUvOffset": []`, `"orientation": []`, `"holdLastKeyframe": false`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("output lacks %s:\n%s", want, data)
		}
	}
}

func TestParseAnimationSharedNamesAndUnknownBones(t *testing.T) {
	s := scene.New()
	left := scene.NewBone("finger", math.Vec3{}, math.Vec3{})
	right := scene.NewBone("finger", math.Vec3{X: 4}, math.Vec3{})
	s.AddRoot(left)
	s.AddRoot(right)

	visible := true
	f := &AnimationFile{
		Duration: 60,
		NodeAnimations: map[string]*NodeAnimation{
			"finger": {ShapeVisible: []AnimKeyframe{{Time: 30, Delta: Delta{Visible: &visible}}}},
			"tail":   {Position: []AnimKeyframe{{Time: 0, Delta: Delta{Vector: &Vector{Y: 1}}}}},
		},
	}

	an := ParseAnimation(s, "flick", "", f)
	if an.Loop != scene.LoopLoop {
		t.Errorf("loop = %q, want loop", an.Loop)
	}
	for _, b := range []*scene.Bone{left, right} {
		vis := an.Animator(b).Visibility
		if len(vis) != 1 || !vis[0].Visible || vis[0].Time != 0.5 {
			t.Errorf("bone at %v visibility = %+v", b.Origin, vis)
		}
	}
	if an.Animator(left).Visibility[0].UUID == an.Animator(right).Visibility[0].UUID {
		t.Error("copied keyframes need their own identity")
	}

	var tail *scene.BoneAnimator
	for _, a := range an.Animators {
		if a.Name == "tail" {
			tail = a
		}
	}
	if tail == nil || tail.Bone != nil || len(tail.Position) != 1 {
		t.Fatalf("unknown bone animator = %+v", tail)
	}

	out := CompileAnimation(an)
	if _, ok := out.NodeAnimations["tail"]; ok {
		t.Error("animators without a bone are not exported")
	}
	if len(out.NodeAnimations["finger"].ShapeVisible) != 1 {
		t.Error("finger visibility lost on export")
	}
}
