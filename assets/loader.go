// Package assets loads shader sources and TGA images from an asset tree.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io/fs"
	"os"
	"path"

	"github.com/ftrvxmtrx/tga"
)

// ErrAsset is wrapped by every load failure.
var ErrAsset = errors.New("asset load failed")

// Cube face suffixes in upload order.
var CubeFaceSuffixes = [6]string{"RT", "LF", "DN", "UP", "FR", "BK"}

// Loader reads assets from a file system rooted at the asset directory.
type Loader struct {
	fsys fs.FS
}

// NewLoader returns a Loader reading from fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// DirLoader returns a Loader reading from the directory dir on disk.
func DirLoader(dir string) *Loader {
	return NewLoader(os.DirFS(dir))
}

// ReadText returns the contents of name as a string.
func (l *Loader) ReadText(name string) (string, error) {
	b, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrAsset, name, err)
	}
	return string(b), nil
}

// LoadTGA decodes a truecolor TGA file into an RGBA image, top row first.
func (l *Loader) LoadTGA(name string) (*image.RGBA, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAsset, name, err)
	}
	defer f.Close()

	img, err := tga.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAsset, name, err)
	}
	return toRGBA(img), nil
}

// CubeFaceNames returns the six face file names for the cube map called
// name, in RT, LF, DN, UP, FR, BK order.
func CubeFaceNames(name string) [6]string {
	var names [6]string
	for i, suffix := range CubeFaceSuffixes {
		names[i] = name + "_" + suffix + ".tga"
	}
	return names
}

// LoadCubeFaces loads the six faces of the cube map called name from dir.
// The first missing or unreadable face aborts the load.
func (l *Loader) LoadCubeFaces(dir, name string) ([6]*image.RGBA, error) {
	var faces [6]*image.RGBA
	for i, file := range CubeFaceNames(name) {
		img, err := l.LoadTGA(path.Join(dir, file))
		if err != nil {
			return [6]*image.RGBA{}, err
		}
		faces[i] = img
	}
	return faces, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
