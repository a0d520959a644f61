package scene

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Faultbox/blockyforge/pkg/math"
)

// Channel names a keyframe track of a bone animator.
type Channel string

const (
	ChannelPosition   Channel = "position"
	ChannelRotation   Channel = "rotation"
	ChannelScale      Channel = "scale"
	ChannelVisibility Channel = "visibility"
)

// Channels lists the animator channels in export order.
var Channels = []Channel{ChannelPosition, ChannelRotation, ChannelScale, ChannelVisibility}

// Interpolation is the keyframe easing mode of the editor.
type Interpolation string

const (
	InterpolationLinear     Interpolation = "linear"
	InterpolationCatmullRom Interpolation = "catmullrom"
	InterpolationStep       Interpolation = "step"
	InterpolationBezier     Interpolation = "bezier"
)

// LoopMode controls playback after the last keyframe.
type LoopMode string

const (
	LoopOnce LoopMode = "once"
	LoopLoop LoopMode = "loop"
	LoopHold LoopMode = "hold"
)

// Keyframe is one data point on a channel. Value holds x/y/z for the vector
// channels (degrees for rotation); Visible is used by the visibility channel.
type Keyframe struct {
	UUID          uuid.UUID
	Channel       Channel
	Time          float64 // seconds
	Interpolation Interpolation
	Value         math.Vec3
	Visible       bool
}

// Clone returns a copy of kf with a fresh identity.
func (kf *Keyframe) Clone() *Keyframe {
	c := *kf
	c.UUID = uuid.New()
	return &c
}

// SameData reports whether two keyframes carry the same time, channel,
// interpolation and value, ignoring identity.
func (kf *Keyframe) SameData(other *Keyframe) bool {
	return kf.Channel == other.Channel &&
		kf.Time == other.Time &&
		kf.Interpolation == other.Interpolation &&
		kf.Value == other.Value &&
		kf.Visible == other.Visible
}

// BoneAnimator holds the keyframes of one bone in one animation.
type BoneAnimator struct {
	UUID       uuid.UUID // identity of the animated bone
	Name       string
	Bone       *Bone // nil when no bone of that name exists in the scene
	Position   []*Keyframe
	Rotation   []*Keyframe
	Scale      []*Keyframe
	Visibility []*Keyframe
}

// Track returns a pointer to the keyframe list of a channel.
func (a *BoneAnimator) Track(ch Channel) *[]*Keyframe {
	switch ch {
	case ChannelPosition:
		return &a.Position
	case ChannelRotation:
		return &a.Rotation
	case ChannelScale:
		return &a.Scale
	default:
		return &a.Visibility
	}
}

// AddKeyframe stores a copy of kf with the given identity on its channel and
// returns it. A zero id gets a fresh identity.
func (a *BoneAnimator) AddKeyframe(kf *Keyframe, id uuid.UUID) *Keyframe {
	if id == uuid.Nil {
		id = uuid.New()
	}
	c := *kf
	c.UUID = id
	track := a.Track(c.Channel)
	*track = append(*track, &c)
	return &c
}

// Keyframes returns every keyframe across all channels.
func (a *BoneAnimator) Keyframes() []*Keyframe {
	var out []*Keyframe
	for _, ch := range Channels {
		out = append(out, *a.Track(ch)...)
	}
	return out
}

// Clear removes all keyframes.
func (a *BoneAnimator) Clear() {
	a.Position, a.Rotation, a.Scale, a.Visibility = nil, nil, nil, nil
}

// Sorted returns the keyframes of a channel ordered by time. The stored order
// is left untouched.
func (a *BoneAnimator) Sorted(ch Channel) []*Keyframe {
	list := append([]*Keyframe(nil), *a.Track(ch)...)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Time < list[j].Time })
	return list
}

// Animation is a named set of bone animators.
type Animation struct {
	Name      string
	Path      string
	Length    float64 // seconds
	Loop      LoopMode
	Snapping  int // keyframe snapping in frames per second
	Animators []*BoneAnimator
}

// NewAnimation creates an empty looping animation.
func NewAnimation(name string, length float64) *Animation {
	return &Animation{Name: name, Length: length, Loop: LoopLoop}
}

// Animator returns the animator of a bone, creating it when needed.
func (an *Animation) Animator(b *Bone) *BoneAnimator {
	for _, a := range an.Animators {
		if a.Bone == b || a.UUID == b.UUID {
			a.Bone = b
			return a
		}
	}
	a := &BoneAnimator{UUID: b.UUID, Name: b.Name, Bone: b}
	an.Animators = append(an.Animators, a)
	return a
}

// AddAnimator registers an animator that may not be bound to a bone.
func (an *Animation) AddAnimator(a *BoneAnimator) {
	an.Animators = append(an.Animators, a)
}

// CopyToSameNamedBones replaces the keyframes of every other bone named like
// source with copies of the source animator's keyframes. Each copy gets a new
// identity.
func CopyToSameNamedBones(s *Scene, an *Animation, source *Bone) {
	src := an.Animator(source)
	keyframes := src.Keyframes()
	for _, other := range s.BonesNamed(source.Name) {
		if other == source {
			continue
		}
		dst := an.Animator(other)
		dst.Clear()
		for _, kf := range keyframes {
			dst.AddKeyframe(kf, uuid.New())
		}
	}
}

// SyncSharedNames keeps bones that share a name animated in lockstep. The
// host calls it after every finalized keyframe edit. For each name used by two
// or more bones the first bone is the source, except that the bone of the
// selected animator wins for its own name. It reports whether any of the
// synchronized bones is the selected one.
func SyncSharedNames(s *Scene, an *Animation, selected *Bone) bool {
	if an == nil {
		return false
	}

	groups := make(map[string][]*Bone)
	var order []string
	if selected != nil {
		groups[selected.Name] = []*Bone{selected}
		order = append(order, selected.Name)
	}
	for _, b := range s.Bones() {
		if _, ok := groups[b.Name]; !ok {
			order = append(order, b.Name)
		}
		if b == selected {
			continue
		}
		groups[b.Name] = append(groups[b.Name], b)
	}

	changed := false
	for _, name := range order {
		bones := groups[name]
		if len(bones) < 2 {
			continue
		}
		CopyToSameNamedBones(s, an, bones[0])
		if selected != nil && selected.Name == name {
			changed = true
		}
	}
	return changed
}
