package main

import (
	"flag"
	"fmt"
	"path"
	"sort"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/blockyforge/internal/logger"
	"github.com/Faultbox/blockyforge/internal/preview"
	"github.com/Faultbox/blockyforge/pkg/formats"
	"github.com/Faultbox/blockyforge/pkg/math"
	"github.com/Faultbox/blockyforge/pkg/scene"
	"github.com/Faultbox/blockyforge/pkg/texture"
)

var commands map[string]func(*app, []string) error

func init() {
	commands = map[string]func(*app, []string) error{
		"info":      cmdInfo,
		"check":     cmdCheck,
		"roundtrip": cmdRoundtrip,
		"attach":    cmdAttach,
		"anim":      cmdAnim,
		"sample":    cmdSample,
		"dump":      cmdDump,
	}
}

var errUsage = errors.New("wrong arguments")

func usage(text string) error {
	return errors.Wrap(errUsage, "usage: blockytool "+text)
}

func cmdInfo(a *app, args []string) error {
	if len(args) < 1 {
		return usage("info <model>")
	}
	m, err := a.loadModel(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Model:      %s\n", args[0])
	fmt.Fprintf(a.out, "Project:    %s\n", m.result.ProjectName)
	fmt.Fprintf(a.out, "Format:     %s\n", a.format(m))
	fmt.Fprintf(a.out, "Nodes:      %s\n", formats.NodeStats(m.scene, a.policy))
	fmt.Fprintf(a.out, "Bones:      %d\n", len(m.scene.Bones()))
	fmt.Fprintf(a.out, "Primitives: %d\n", len(m.scene.Primitives()))

	fmt.Fprintln(a.out)
	if m.result.MissingTextures {
		fmt.Fprintln(a.out, "Textures:   none found next to the model")
	} else {
		fmt.Fprintln(a.out, "Textures:")
		for _, t := range m.scene.Textures {
			mark := ""
			if t.UseAsDefault {
				mark = " (default)"
			}
			fmt.Fprintf(a.out, "  %-24s %dx%d%s\n", t.Name, t.Width, t.Height, mark)
		}
	}

	if !a.cfg.Animation.Discover {
		return nil
	}
	anims, err := texture.DiscoverAnimations(a.assets, path.Dir(m.path))
	if err != nil {
		logger.Warn("animation discovery failed", zap.Error(err))
		return nil
	}
	if len(anims) > 0 {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Animations:")
		for _, an := range anims {
			fmt.Fprintf(a.out, "  %-12s %s\n", an.Folder, path.Base(an.Path))
		}
	}
	return nil
}

func cmdCheck(a *app, args []string) error {
	if len(args) < 1 {
		return usage("check <model>")
	}
	m, err := a.loadModel(args[0])
	if err != nil {
		return err
	}

	var warnings []formats.Warning
	if a.cfg.Validation.NodeCount {
		warnings = append(warnings, formats.CheckNodeCount(m.scene, a.policy)...)
	}
	if a.cfg.Validation.UVSize {
		warnings = append(warnings, formats.CheckUVSize(m.scene.Textures)...)
	}

	if len(warnings) == 0 {
		fmt.Fprintln(a.out, "No problems found")
		return nil
	}
	for _, w := range warnings {
		fix := ""
		if w.Fix != nil {
			fix = " (fixable)"
		}
		fmt.Fprintf(a.out, "warning: %s%s\n", w, fix)
	}
	fmt.Fprintf(a.out, "\n(%d warnings)\n", len(warnings))
	return nil
}

func cmdRoundtrip(a *app, args []string) error {
	fs := flag.NewFlagSet("roundtrip", flag.ContinueOnError)
	out := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return usage("roundtrip [-o out] <model>")
	}

	m, err := a.loadModel(fs.Arg(0))
	if err != nil {
		return err
	}
	data, err := formats.CompileJSON(m.scene, formats.CompileOptions{
		Policy: a.policy,
		Format: a.format(m),
	}, a.cfg.JSONOptions())
	if err != nil {
		return err
	}
	return a.writeOutput(*out, data)
}

func cmdAttach(a *app, args []string) error {
	fs := flag.NewFlagSet("attach", flag.ContinueOnError)
	out := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return usage("attach [-o out] <model> <attachment> [name]")
	}

	base, err := a.loadModel(fs.Arg(0))
	if err != nil {
		return err
	}

	p, err := a.assetPath(fs.Arg(1))
	if err != nil {
		return err
	}
	data, err := a.assets.ReadFile(p)
	if err != nil {
		return errors.Wrapf(err, "reading %s", fs.Arg(1))
	}
	tree, err := formats.DecodeModel(data)
	if err != nil {
		return errors.Wrapf(err, "loading %s", fs.Arg(1))
	}

	name := baseName(p)
	if fs.NArg() > 2 {
		name = fs.Arg(2)
	}
	col, res, err := formats.ImportAttachment(base.scene, tree, p, name, formats.ParseOptions{
		Policy:   a.policy,
		Textures: texture.DirResolver{FS: a.assets},
	})
	if err != nil {
		return err
	}

	var paths []string
	for _, t := range res.NewTextures {
		paths = append(paths, t.Path)
	}
	col.TexturePath, col.SelectedTexture = texture.AttachmentSource(a.assets, path.Dir(p), name, paths)
	logger.Info("attachment imported",
		zap.String("name", col.Name),
		zap.Int("bones", len(res.NewBones)),
		zap.String("textures", col.TexturePath))

	exported, err := formats.CompileJSON(base.scene, formats.CompileOptions{
		Attachment: col,
		Policy:     a.policy,
		Format:     a.format(base),
	}, a.cfg.JSONOptions())
	if err != nil {
		return err
	}
	return a.writeOutput(*out, exported)
}

func cmdAnim(a *app, args []string) error {
	fs := flag.NewFlagSet("anim", flag.ContinueOnError)
	modelPath := fs.String("model", "", "Model the animation targets")
	out := fs.String("o", "", "Re-encode the animation to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return usage("anim [-model m] [-o out] <anim>")
	}

	p, f, err := a.loadAnimation(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Animation: %s\n", fs.Arg(0))
	fmt.Fprintf(a.out, "Duration:  %g frames (%.3fs)\n", f.Duration, f.Duration/formats.FPS)
	fmt.Fprintf(a.out, "Hold last: %v\n", f.HoldLastKeyframe)
	fmt.Fprintf(a.out, "Nodes:     %d\n", len(f.NodeAnimations))
	for _, name := range f.NodeNames() {
		na := f.NodeAnimations[name]
		fmt.Fprintf(a.out, "  %-20s pos %-3d rot %-3d scale %-3d vis %d\n",
			name, len(na.Position), len(na.Orientation), len(na.ShapeStretch), len(na.ShapeVisible))
	}

	s := scene.New()
	if *modelPath != "" {
		m, err := a.loadModel(*modelPath)
		if err != nil {
			return err
		}
		s = m.scene
	}
	an := formats.ParseAnimation(s, path.Base(p), p, f)

	unbound := 0
	for _, animator := range an.Animators {
		if animator.Bone == nil {
			unbound++
		}
	}
	if *modelPath != "" && unbound > 0 {
		fmt.Fprintf(a.out, "\n(%d nodes do not exist in the model)\n", unbound)
	}

	if *out == "" {
		return nil
	}
	if *modelPath == "" {
		return errors.New("re-encoding needs -model to bind the tracks to bones")
	}
	data, err := formats.CompileAnimationJSON(an, a.cfg.JSONOptions())
	if err != nil {
		return err
	}
	return a.writeOutput(*out, data)
}

func cmdSample(a *app, args []string) error {
	if len(args) < 3 {
		return usage("sample <model> <anim> <seconds>")
	}
	at, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return errors.Wrapf(err, "parsing time %q", args[2])
	}

	m, err := a.loadModel(args[0])
	if err != nil {
		return err
	}
	p, f, err := a.loadAnimation(args[1])
	if err != nil {
		return err
	}
	an := formats.ParseAnimation(m.scene, path.Base(p), p, f)

	bones := m.scene.Bones()
	sort.SliceStable(bones, func(i, j int) bool { return bones[i].Name < bones[j].Name })
	for _, b := range bones {
		var animator *scene.BoneAnimator
		for _, candidate := range an.Animators {
			if candidate.Bone == b {
				animator = candidate
			}
		}
		pose := preview.Sample(animator, at)
		rot := math.SnapDegrees(pose.Rotation.Euler())
		fmt.Fprintf(a.out, "%-20s pos (%g, %g, %g) rot (%.2f, %.2f, %.2f) visible %v",
			b.Name, pose.Position.X, pose.Position.Y, pose.Position.Z, rot.X, rot.Y, rot.Z, pose.Visible)
		if stretch, ok := preview.DisplayStretch(b, a.policy, pose.Scale, 1); ok {
			fmt.Fprintf(a.out, " stretch (%g, %g, %g)", stretch.X, stretch.Y, stretch.Z)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func cmdDump(a *app, args []string) error {
	if len(args) < 1 {
		return usage("dump <file>")
	}
	p, err := a.assetPath(args[0])
	if err != nil {
		return err
	}
	data, err := a.assets.ReadFile(p)
	if err != nil {
		return errors.Wrapf(err, "reading %s", args[0])
	}

	var v any
	switch path.Ext(p) {
	case ".blockyanim":
		v, err = formats.DecodeAnimation(data)
	default:
		v, err = formats.DecodeModel(data)
	}
	if err != nil {
		return err
	}

	cfg := spew.NewDefaultConfig()
	cfg.DisableCapacities = true
	cfg.DisablePointerAddresses = true
	cfg.SortKeys = true
	fmt.Fprint(a.out, cfg.Sdump(v))
	return nil
}
