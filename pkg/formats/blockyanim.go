package formats

import (
	"bytes"
	"encoding/json"
	stdmath "math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/blockyforge/internal/logger"
	"github.com/Faultbox/blockyforge/pkg/math"
	"github.com/Faultbox/blockyforge/pkg/scene"
)

// ErrDeltaKind is returned when a keyframe delta does not match its track.
var ErrDeltaKind = errors.New("keyframe delta has the wrong kind for its track")

// AnimationFile is the root of a blockyanim file. Times are in frames.
type AnimationFile struct {
	FormatVersion    int                       `json:"formatVersion"`
	Duration         float64                   `json:"duration"`
	HoldLastKeyframe bool                      `json:"holdLastKeyframe"`
	NodeAnimations   map[string]*NodeAnimation `json:"nodeAnimations"`
}

// NodeAnimation holds the tracks of one bone name.
type NodeAnimation struct {
	Position      []AnimKeyframe    `json:"position"`
	Orientation   []AnimKeyframe    `json:"orientation"`
	ShapeStretch  []AnimKeyframe    `json:"shapeStretch"`
	ShapeVisible  []AnimKeyframe    `json:"shapeVisible"`
	ShapeUVOffset []json.RawMessage `json:"shapeUvOffset"`
}

// AnimKeyframe is one keyframe of a track.
type AnimKeyframe struct {
	Time              float64 `json:"time"`
	Delta             Delta   `json:"delta"`
	InterpolationType string  `json:"interpolationType"`
}

// Interpolation types of the animation format.
const (
	InterpolationSmooth = "smooth"
	InterpolationLinear = "linear"
)

// Delta is a keyframe value: a vector, a quaternion or a visibility flag.
// Exactly one field is set.
type Delta struct {
	Vector     *Vector
	Quaternion *Quaternion
	Visible    *bool
}

// MarshalJSON writes whichever value is set.
func (d Delta) MarshalJSON() ([]byte, error) {
	switch {
	case d.Quaternion != nil:
		return json.Marshal(d.Quaternion)
	case d.Vector != nil:
		return json.Marshal(d.Vector)
	case d.Visible != nil:
		return json.Marshal(*d.Visible)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a bool, an {x,y,z} or an {x,y,z,w} object.
func (d *Delta) UnmarshalJSON(data []byte) error {
	*d = Delta{}
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		v := data[0] == 't'
		d.Visible = &v
		return nil
	}

	var fields map[string]float64
	if err := json.Unmarshal(data, &fields); err != nil {
		return errors.Wrap(err, "decoding keyframe delta")
	}
	if _, ok := fields["w"]; ok {
		d.Quaternion = &Quaternion{X: fields["x"], Y: fields["y"], Z: fields["z"], W: fields["w"]}
		return nil
	}
	d.Vector = &Vector{X: fields["x"], Y: fields["y"], Z: fields["z"]}
	return nil
}

func (d Delta) empty() bool {
	return d.Vector == nil && d.Quaternion == nil && d.Visible == nil
}

// track pairs an editor channel with its file track.
type track struct {
	channel scene.Channel
	key     string
	get     func(*NodeAnimation) *[]AnimKeyframe
}

// tracks lists the channel mapping in the order the editor imports them.
var tracks = []track{
	{scene.ChannelRotation, "orientation", func(n *NodeAnimation) *[]AnimKeyframe { return &n.Orientation }},
	{scene.ChannelPosition, "position", func(n *NodeAnimation) *[]AnimKeyframe { return &n.Position }},
	{scene.ChannelScale, "shapeStretch", func(n *NodeAnimation) *[]AnimKeyframe { return &n.ShapeStretch }},
	{scene.ChannelVisibility, "shapeVisible", func(n *NodeAnimation) *[]AnimKeyframe { return &n.ShapeVisible }},
}

// DecodeAnimation unmarshals and validates a blockyanim file.
func DecodeAnimation(data []byte) (*AnimationFile, error) {
	var f AnimationFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decoding blockyanim")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks that every keyframe has a delta of the right kind.
func (f *AnimationFile) Validate() error {
	for _, name := range f.NodeNames() {
		na := f.NodeAnimations[name]
		if na == nil {
			return &FormatError{Path: "nodeAnimations." + name, Err: ErrNullNodeAnimation}
		}
		for _, tr := range tracks {
			for i, kf := range *tr.get(na) {
				path := "nodeAnimations." + name + "." + tr.key + "[" + strconv.Itoa(i) + "]"
				if kf.Delta.empty() {
					return &FormatError{Path: path, Err: ErrMissingDelta}
				}
				if !deltaMatches(tr.channel, kf.Delta) {
					return &FormatError{Path: path, Err: ErrDeltaKind}
				}
			}
		}
	}
	return nil
}

func deltaMatches(ch scene.Channel, d Delta) bool {
	switch ch {
	case scene.ChannelRotation:
		return d.Quaternion != nil
	case scene.ChannelVisibility:
		return d.Visible != nil
	default:
		return d.Vector != nil
	}
}

// NodeNames returns the animated node names in sorted order.
func (f *AnimationFile) NodeNames() []string {
	names := make([]string, 0, len(f.NodeAnimations))
	for name := range f.NodeAnimations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KeyframeCount returns the number of keyframes across all tracks.
func (n *NodeAnimation) KeyframeCount() int {
	return len(n.Position) + len(n.Orientation) + len(n.ShapeStretch) + len(n.ShapeVisible)
}

// ParseAnimation builds an editor animation from a decoded file and adds it to
// the scene. fileName names the animation after stripping its extension.
// Keyframes of a bone are copied to every other bone with the same name.
func ParseAnimation(s *scene.Scene, fileName, path string, f *AnimationFile) *scene.Animation {
	log := logger.Named("anim")

	an := scene.NewAnimation(strings.TrimSuffix(fileName, filepath.Ext(fileName)), f.Duration/FPS)
	an.Path = path
	an.Snapping = FPS
	if f.HoldLastKeyframe {
		an.Loop = scene.LoopHold
	}

	for _, name := range f.NodeNames() {
		na := f.NodeAnimations[name]
		if na == nil {
			continue
		}

		bone := s.FindBone(name)
		var animator *scene.BoneAnimator
		if bone != nil {
			animator = an.Animator(bone)
		} else {
			animator = &scene.BoneAnimator{UUID: uuid.New(), Name: name}
			an.AddAnimator(animator)
			log.Debug("animation targets unknown bone", zap.String("bone", name))
		}

		for _, tr := range tracks {
			for _, kf := range *tr.get(na) {
				if !deltaMatches(tr.channel, kf.Delta) {
					log.Warn("skipping keyframe with mismatched delta",
						zap.String("bone", name), zap.String("track", tr.key))
					continue
				}
				animator.AddKeyframe(decodeKeyframe(tr.channel, kf), uuid.Nil)
			}
		}

		if bone != nil {
			scene.CopyToSameNamedBones(s, an, bone)
		}
	}

	s.Animations = append(s.Animations, an)
	return an
}

func decodeKeyframe(ch scene.Channel, kf AnimKeyframe) *scene.Keyframe {
	out := &scene.Keyframe{
		Channel:       ch,
		Time:          kf.Time / FPS,
		Interpolation: scene.InterpolationLinear,
	}
	if kf.InterpolationType == InterpolationSmooth {
		out.Interpolation = scene.InterpolationCatmullRom
	}

	switch ch {
	case scene.ChannelVisibility:
		out.Visible = *kf.Delta.Visible
	case scene.ChannelRotation:
		out.Value = math.SnapDegrees(kf.Delta.Quaternion.Quat().Normalize().Euler())
	default:
		out.Value = kf.Delta.Vector.Vec3()
	}
	return out
}

// CompileAnimation converts an editor animation into a blockyanim file.
// Animators not bound to a bone, and bones without keyframes, are left out.
func CompileAnimation(an *scene.Animation) *AnimationFile {
	f := &AnimationFile{
		FormatVersion:    1,
		Duration:         an.Length * FPS,
		HoldLastKeyframe: an.Loop == scene.LoopHold,
		NodeAnimations:   make(map[string]*NodeAnimation),
	}

	for _, a := range an.Animators {
		if a.Bone == nil {
			continue
		}
		na := &NodeAnimation{}
		hasData := false
		for _, tr := range tracks {
			out := tr.get(na)
			*out = []AnimKeyframe{}
			for _, kf := range a.Sorted(tr.channel) {
				*out = append(*out, encodeKeyframe(kf))
				hasData = true
			}
		}
		if !hasData {
			continue
		}
		na.ShapeUVOffset = []json.RawMessage{}

		name := a.Name
		if name == "" {
			name = a.Bone.Name
		}
		f.NodeAnimations[name] = na
	}
	return f
}

// CompileAnimationJSON compiles and serializes an animation.
func CompileAnimationJSON(an *scene.Animation, opts JSONOptions) ([]byte, error) {
	return MarshalJSON(CompileAnimation(an), opts)
}

func encodeKeyframe(kf *scene.Keyframe) AnimKeyframe {
	out := AnimKeyframe{
		Time:              stdmath.Round(kf.Time * FPS),
		InterpolationType: InterpolationLinear,
	}
	if kf.Interpolation == scene.InterpolationCatmullRom {
		out.InterpolationType = InterpolationSmooth
	}

	switch kf.Channel {
	case scene.ChannelVisibility:
		v := kf.Visible
		out.Delta.Visible = &v
	case scene.ChannelRotation:
		q := QuaternionOf(math.QuatFromEuler(kf.Value))
		out.Delta.Quaternion = &q
	default:
		v := VectorOf(kf.Value)
		out.Delta.Vector = &v
	}
	return out
}
