package formats

import (
	"strings"

	"github.com/Faultbox/blockyforge/pkg/scene"
)

// DetectFormat decides whether a model is a prop or a character. An explicit
// "prop" in the file wins; without a format field, models stored below a
// "Blocks" directory are props.
func DetectFormat(m *Model, path string) ModelFormat {
	if m != nil && m.Format != "" {
		if m.Format == FormatProp {
			return FormatProp
		}
		return FormatCharacter
	}
	for _, seg := range splitPath(path) {
		if seg == "Blocks" {
			return FormatProp
		}
	}
	return FormatCharacter
}

// ProjectName derives a project name from a model path: the file name
// without extension, or the nearest directory above it when the file is
// called Model, Models or Attachments.
func ProjectName(path string) string {
	segs := splitPath(path)
	if len(segs) == 0 {
		return "Model"
	}
	last := segs[len(segs)-1]
	if i := strings.Index(last, "."); i >= 0 {
		segs[len(segs)-1] = last[:i]
	}
	for i := len(segs) - 1; i >= 0; i-- {
		switch segs[i] {
		case "Model", "Models", "Attachments":
			continue
		}
		return segs[i]
	}
	return "Model"
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' })
}

// LoadResult is what Load reports about an opened model file.
type LoadResult struct {
	*ParseResult
	Format      ModelFormat
	ProjectName string
}

// Load decodes a blockymodel file and parses it into s.
func Load(s *scene.Scene, data []byte, path string, opts ParseOptions) (*LoadResult, error) {
	m, err := DecodeModel(data)
	if err != nil {
		return nil, err
	}
	res, err := Parse(s, m, path, opts)
	if err != nil {
		return nil, err
	}
	return &LoadResult{
		ParseResult: res,
		Format:      DetectFormat(m, path),
		ProjectName: ProjectName(path),
	}, nil
}

// ImportAttachment parses a node tree as an attachment named name and
// registers its root bones in the collection of that name, creating it when
// needed.
func ImportAttachment(s *scene.Scene, m *Model, path, name string, opts ParseOptions) (*scene.Collection, *ParseResult, error) {
	opts.Attachment = name
	res, err := Parse(s, m, path, opts)
	if err != nil {
		return nil, nil, err
	}

	col := s.Collection(name)
	col.ExportPath = path
	for _, b := range res.RootBones() {
		col.Add(b)
	}
	return col, res, nil
}
