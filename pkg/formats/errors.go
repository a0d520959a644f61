package formats

import (
	"fmt"

	"github.com/pkg/errors"
)

// Structural problems found while decoding a node tree.
var (
	ErrNullNode           = errors.New("null node")
	ErrMissingOrientation = errors.New("missing orientation")
	ErrMissingShape       = errors.New("missing shape")
	ErrUnknownShapeType   = errors.New("unknown shape type")
	ErrMissingSize        = errors.New("shape has no size")
	ErrNullNodeAnimation  = errors.New("null node animation")
	ErrMissingDelta       = errors.New("keyframe has no delta")
	ErrNilScene           = errors.New("nil scene")
)

// FormatError reports a malformed node tree. Path locates the node, e.g.
// `nodes[0].children[2] "Head"`.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed node %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Cause lets errors.Cause reach the sentinel.
func (e *FormatError) Cause() error { return e.Err }

func nodePath(parent string, index int, name string) string {
	if parent == "" {
		return fmt.Sprintf("nodes[%d] %q", index, name)
	}
	return fmt.Sprintf("%s.children[%d] %q", parent, index, name)
}
