package gldevice

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/glscenes/graphics"
)

// CreateTexture2D uploads img as RGBA8 with trilinear filtering and repeat
// wrapping. Rows are taken as given; the caller flips them.
func (d *Device) CreateTexture2D(img *image.RGBA) (graphics.TextureID, error) {
	if img == nil {
		return 0, fmt.Errorf("texture image is nil")
	}
	width := int32(img.Rect.Dx())
	height := int32(img.Rect.Dy())

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(packed(img)))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return graphics.TextureID(textureID), nil
}

// CreateTextureCube uploads face i to TEXTURE_CUBE_MAP_POSITIVE_X+i.
func (d *Device) CreateTextureCube(faces [6]*image.RGBA) (graphics.TextureID, error) {
	for i, img := range faces {
		if img == nil {
			return 0, fmt.Errorf("input image for cube map face %d is nil", i)
		}
	}

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, textureID)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for i, img := range faces {
		gl.TexImage2D(
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i),
			0,
			gl.RGBA8,
			int32(img.Rect.Dx()),
			int32(img.Rect.Dy()),
			0,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(packed(img)),
		)
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return graphics.TextureID(textureID), nil
}

func (d *Device) BindTexture(unit int, target graphics.TextureTarget, t graphics.TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	if target == graphics.TextureCube {
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, uint32(t))
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) DeleteTexture(t graphics.TextureID) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

// packed returns the pixel rows of img without stride padding, the layout
// TexImage2D expects.
func packed(img *image.RGBA) []uint8 {
	rowSize := img.Rect.Dx() * 4
	if img.Stride == rowSize && img.Rect.Min == (image.Point{}) {
		return img.Pix
	}
	height := img.Rect.Dy()
	out := make([]uint8, rowSize*height)
	for y := 0; y < height; y++ {
		src := img.Pix[img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y):]
		copy(out[y*rowSize:], src[:rowSize])
	}
	return out
}
