// Package texture finds the textures and animations stored next to a model
// file and loads them as scene textures.
//
// All lookups go through an fs.FS, so paths use forward slashes and are
// relative to the file system root. Use FSPath to turn an operating system
// path into a path for os.DirFS("/").
package texture

import (
	"image"
	_ "image/png"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/blockyforge/internal/logger"
	"github.com/Faultbox/blockyforge/pkg/scene"
)

// DefaultName is the texture file name picked up for any model in a
// directory.
const DefaultName = "Texture.png"

// FSPath converts an absolute operating system path into a path for an
// fs.FS rooted at the file system root.
func FSPath(p string) string {
	p = filepath.ToSlash(filepath.Clean(p))
	if vol := filepath.VolumeName(p); vol != "" {
		p = p[len(vol):]
	}
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "."
	}
	return p
}

// TexturesDir returns the folder holding the extra textures of a model.
func TexturesDir(dir, modelName string) string {
	return path.Join(dir, modelName+"_Textures")
}

// Discover lists the png files in dir that start with modelName or are named
// Texture.png, followed by every png in the model's _Textures folder.
func Discover(fsys fs.FS, dir, modelName string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", dir)
	}

	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !isPNG(name) {
			continue
		}
		if strings.HasPrefix(name, modelName) || name == DefaultName {
			add(path.Join(dir, name))
		}
	}

	folder := TexturesDir(dir, modelName)
	if isDir(fsys, folder) {
		extra, err := fs.ReadDir(fsys, folder)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", folder)
		}
		for _, e := range extra {
			if !e.IsDir() && isPNG(e.Name()) {
				add(path.Join(folder, e.Name()))
			}
		}
	}
	return paths, nil
}

// Load reads the dimensions of each png and returns one texture per path.
// The first texture whose name starts with preferred, or the first texture
// when none does, is marked as default. Files that cannot be read are
// skipped; their errors are combined into the returned error.
func Load(fsys fs.FS, paths []string, preferred string) ([]*scene.Texture, error) {
	var (
		out  []*scene.Texture
		errs error
	)
	for _, p := range paths {
		t, err := loadOne(fsys, p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, t)
	}

	if len(out) > 0 {
		primary := out[0]
		if preferred != "" {
			for _, t := range out {
				if strings.HasPrefix(t.Name, preferred) {
					primary = t
					break
				}
			}
		}
		primary.UseAsDefault = true
	}
	return out, errs
}

func loadOne(fsys fs.FS, p string) (*scene.Texture, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return nil, errors.Wrapf(err, "opening texture %s", p)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding texture %s", p)
	}
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	return scene.NewTexture(name, p, cfg.Width, cfg.Height), nil
}

// AnimationFile is a blockyanim file found next to a model.
type AnimationFile struct {
	Folder string
	Path   string
}

// DiscoverAnimations lists the blockyanim files in the sibling Animations
// directory of dir, one level of sub-folders deep. Folders with a dot in
// their name are ignored. A missing Animations directory yields no files.
func DiscoverAnimations(fsys fs.FS, dir string) ([]AnimationFile, error) {
	root := path.Join(path.Dir(dir), "Animations")
	if !isDir(fsys, root) {
		return nil, nil
	}

	folders, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", root)
	}

	var out []AnimationFile
	for _, folder := range folders {
		if !folder.IsDir() || strings.Contains(folder.Name(), ".") {
			continue
		}
		sub := path.Join(root, folder.Name())
		files, err := fs.ReadDir(fsys, sub)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", sub)
		}
		for _, f := range files {
			if !f.IsDir() && strings.EqualFold(path.Ext(f.Name()), ".blockyanim") {
				out = append(out, AnimationFile{Folder: folder.Name(), Path: path.Join(sub, f.Name())})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// AttachmentSource decides where the textures of an attachment come from.
// With a _Textures folder the folder is the source and its first png is
// selected; a single texture is used directly; several loose textures select
// the first one from dir.
func AttachmentSource(fsys fs.FS, dir, name string, paths []string) (texturePath, selected string) {
	if len(paths) == 0 {
		return "", ""
	}
	folder := TexturesDir(dir, name)
	if isDir(fsys, folder) {
		for _, p := range paths {
			if strings.HasPrefix(p, folder+"/") {
				return folder, path.Base(p)
			}
		}
		return folder, ""
	}
	if len(paths) == 1 {
		return paths[0], ""
	}
	return dir, path.Base(paths[0])
}

// DirResolver resolves model textures from the directory holding the model.
// It implements formats.TextureResolver.
type DirResolver struct {
	FS fs.FS
}

// ResolveTextures discovers and loads the textures of modelPath. Unreadable
// files are logged and skipped.
func (r DirResolver) ResolveTextures(modelPath, modelName, preferred string) ([]*scene.Texture, error) {
	dir := path.Dir(modelPath)
	paths, err := Discover(r.FS, dir, modelName)
	if err != nil {
		return nil, err
	}

	textures, err := Load(r.FS, paths, preferred)
	if err != nil {
		log := logger.Named("texture")
		for _, e := range multierr.Errors(err) {
			log.Warn("skipping texture", zap.Error(e))
		}
	}
	return textures, nil
}

func isPNG(name string) bool {
	return strings.EqualFold(path.Ext(name), ".png")
}

func isDir(fsys fs.FS, p string) bool {
	info, err := fs.Stat(fsys, p)
	return err == nil && info.IsDir()
}
