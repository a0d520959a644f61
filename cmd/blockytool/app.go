package main

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/blockyforge/internal/assets"
	"github.com/Faultbox/blockyforge/internal/config"
	"github.com/Faultbox/blockyforge/pkg/formats"
	"github.com/Faultbox/blockyforge/pkg/scene"
	"github.com/Faultbox/blockyforge/pkg/texture"
)

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	policy formats.MainShapePolicy
	assets *assets.Manager
	out    io.Writer
}

// newApp layers the configured asset directories over the file system root.
func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	m := assets.NewManager()
	m.AddRoot(os.DirFS("/"))
	for _, dir := range cfg.Assets.Dirs {
		if err := m.AddDir(dir); err != nil {
			m.Close()
			return nil, err
		}
	}
	return &app{cfg: cfg, policy: policy, assets: m, out: out}, nil
}

func (a *app) close() {
	a.assets.Close()
}

// assetPath turns a command line path into a path in the asset file system.
// Existing files are addressed from the root; anything else is looked up
// relative to the asset directories.
func (a *app) assetPath(arg string) (string, error) {
	if _, err := os.Stat(arg); err == nil {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return "", errors.Wrapf(err, "resolving %s", arg)
		}
		return texture.FSPath(abs), nil
	}
	p := strings.TrimLeft(filepath.ToSlash(filepath.Clean(arg)), "/")
	if !fsValid(p) {
		return "", errors.Errorf("invalid asset path %s", arg)
	}
	return p, nil
}

func fsValid(p string) bool {
	return p != "" && !strings.HasPrefix(p, "../") && p != ".."
}

// model is an opened blockymodel file.
type model struct {
	path   string // asset path
	scene  *scene.Scene
	result *formats.LoadResult
}

func (a *app) loadModel(arg string) (*model, error) {
	p, err := a.assetPath(arg)
	if err != nil {
		return nil, err
	}
	data, err := a.assets.ReadFile(p)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", arg)
	}

	s := scene.New()
	res, err := formats.Load(s, data, p, formats.ParseOptions{
		Policy:   a.policy,
		Textures: texture.DirResolver{FS: a.assets},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", arg)
	}
	return &model{path: p, scene: s, result: res}, nil
}

func (a *app) loadAnimation(arg string) (string, *formats.AnimationFile, error) {
	p, err := a.assetPath(arg)
	if err != nil {
		return "", nil, err
	}
	data, err := a.assets.ReadFile(p)
	if err != nil {
		return "", nil, errors.Wrapf(err, "reading %s", arg)
	}
	f, err := formats.DecodeAnimation(data)
	if err != nil {
		return "", nil, errors.Wrapf(err, "loading %s", arg)
	}
	return p, f, nil
}

// format is the configured format, or the one detected on load.
func (a *app) format(m *model) formats.ModelFormat {
	if f := a.cfg.Format(); f != "" {
		return f
	}
	return m.result.Format
}

// writeOutput writes data to path, or to the app output when path is empty.
func (a *app) writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := a.out.Write(data)
		if err == nil && !a.cfg.Codec.FinalNewline {
			_, err = io.WriteString(a.out, "\n")
		}
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		a.assets.Invalidate(texture.FSPath(abs))
	}
	return nil
}

func baseName(p string) string {
	return strings.TrimSuffix(path.Base(p), path.Ext(p))
}
