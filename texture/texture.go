// Package texture wraps GPU textures in reference-counted handles so several
// materials can share one upload.
package texture

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/richinsley/glscenes/graphics"
	xdraw "golang.org/x/image/draw"
)

// ErrCubeFace is wrapped when a cube map face is missing or not square.
var ErrCubeFace = errors.New("invalid cube map face")

type refCount struct {
	refs int
}

func (r *refCount) retain() { r.refs++ }

// release drops one reference and reports whether it was the last one.
func (r *refCount) release() bool {
	if r.refs <= 0 {
		return false
	}
	r.refs--
	return r.refs == 0
}

// Texture2D is a 2D texture. The source image is kept while any reference is
// held.
type Texture2D struct {
	refCount
	dev   graphics.Device
	id    graphics.TextureID
	image *image.RGBA
}

// NewTexture2D uploads img and returns a texture holding one reference.
func NewTexture2D(dev graphics.Device, img *image.RGBA) (*Texture2D, error) {
	if img == nil {
		return nil, fmt.Errorf("input image for 2D texture is nil")
	}
	id, err := dev.CreateTexture2D(vflip(img))
	if err != nil {
		return nil, fmt.Errorf("failed to create 2D texture: %w", err)
	}
	t := &Texture2D{dev: dev, id: id, image: img}
	t.retain()
	return t, nil
}

func (t *Texture2D) ID() graphics.TextureID { return t.id }

// Image returns the source image, top row first.
func (t *Texture2D) Image() *image.RGBA { return t.image }

// Retain adds a reference and returns t.
func (t *Texture2D) Retain() *Texture2D {
	t.retain()
	return t
}

// Release drops a reference; the GPU texture is deleted with the last one.
func (t *Texture2D) Release() {
	if t == nil || !t.release() {
		return
	}
	t.dev.DeleteTexture(t.id)
	t.image = nil
}

// TextureCube is a cube map built from six faces in RT, LF, DN, UP, FR, BK
// order.
type TextureCube struct {
	refCount
	dev   graphics.Device
	id    graphics.TextureID
	faces [6]*image.RGBA
	size  int
}

// NewTextureCube validates the faces, resamples any face whose size differs
// from the first one, and uploads them in the order given.
func NewTextureCube(dev graphics.Device, faces [6]*image.RGBA) (*TextureCube, error) {
	for i, img := range faces {
		if img == nil {
			return nil, fmt.Errorf("%w: face %d is nil", ErrCubeFace, i)
		}
		if b := img.Bounds(); b.Dx() != b.Dy() || b.Dx() == 0 {
			return nil, fmt.Errorf("%w: face %d is %dx%d, want square", ErrCubeFace, i, b.Dx(), b.Dy())
		}
	}

	size := faces[0].Bounds().Dx()
	var upload [6]*image.RGBA
	for i, img := range faces {
		if img.Bounds().Dx() != size {
			log.Printf("CubeMap: resampling face %d from %d to %d", i, img.Bounds().Dx(), size)
			img = resample(img, size)
		}
		upload[i] = vflip(img)
	}

	id, err := dev.CreateTextureCube(upload)
	if err != nil {
		return nil, fmt.Errorf("failed to create cube texture: %w", err)
	}
	t := &TextureCube{dev: dev, id: id, faces: faces, size: size}
	t.retain()
	return t, nil
}

func (t *TextureCube) ID() graphics.TextureID { return t.id }

// Size returns the edge length of every uploaded face.
func (t *TextureCube) Size() int { return t.size }

// Face returns the source image of face i.
func (t *TextureCube) Face(i int) *image.RGBA { return t.faces[i] }

func (t *TextureCube) Retain() *TextureCube {
	t.retain()
	return t
}

func (t *TextureCube) Release() {
	if t == nil || !t.release() {
		return
	}
	t.dev.DeleteTexture(t.id)
	t.faces = [6]*image.RGBA{}
}

func resample(src *image.RGBA, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// vflip returns a copy of src with its rows reversed, so the first row in
// memory is the bottom of the image as OpenGL expects.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	height := bounds.Dy()
	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[src.PixOffset(bounds.Min.X, bounds.Max.Y-1-y):]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}
