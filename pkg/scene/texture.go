package scene

import "github.com/google/uuid"

// Texture is an image applied to the model. UVWidth and UVHeight define the
// UV space the face rectangles are expressed in.
type Texture struct {
	Name         string
	UUID         uuid.UUID
	Path         string
	Width        int
	Height       int
	UVWidth      int
	UVHeight     int
	UseAsDefault bool
}

// NewTexture creates a texture whose UV size matches its pixel size.
func NewTexture(name, path string, width, height int) *Texture {
	return &Texture{
		Name:     name,
		UUID:     uuid.New(),
		Path:     path,
		Width:    width,
		Height:   height,
		UVWidth:  width,
		UVHeight: height,
	}
}

// FitUVSize sets the UV size to the pixel size.
func (t *Texture) FitUVSize() {
	t.UVWidth = t.Width
	t.UVHeight = t.Height
}
