// Package assetstest builds in-memory asset trees for tests.
package assetstest

import (
	"bytes"
	"image"
	"image/color"
	"testing/fstest"

	"github.com/ftrvxmtrx/tga"
)

// EncodeTGA writes img with the same TGA codec the loader decodes with.
// It panics on encoder failure, which only happens on a broken image.
func EncodeTGA(img image.Image) []byte {
	var buf bytes.Buffer
	if err := tga.Encode(&buf, img); err != nil {
		panic("assetstest: encode tga: " + err.Error())
	}
	return buf.Bytes()
}

// Solid returns a size x size image filled with c.
func Solid(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// FaceColors are distinct opaque colours for the RT, LF, DN, UP, FR, BK faces.
var FaceColors = [6]color.RGBA{
	{255, 0, 0, 255},
	{0, 255, 0, 255},
	{0, 0, 255, 255},
	{255, 255, 0, 255},
	{0, 255, 255, 255},
	{255, 0, 255, 255},
}

// SceneFS returns an asset tree holding everything the cube map scene loads:
// both shader sources, the two checkerboard maps and the six faces of the
// cube map called cubeName, each face filled with FaceColors[i].
func SceneFS(cubeName string) fstest.MapFS {
	fsys := fstest.MapFS{
		"cubeMap.vs":                {Data: []byte("#version 300 es\nin vec3 g_vPositionOS;\nvoid main() {}\n")},
		"cubeMap.fs":                {Data: []byte("#version 300 es\nprecision mediump float;\nvoid main() {}\n")},
		"CheckerBoard.tga":          {Data: EncodeTGA(checker(8))},
		"CheckerBoardGlossyMap.tga": {Data: EncodeTGA(checker(4))},
	}
	suffixes := [6]string{"RT", "LF", "DN", "UP", "FR", "BK"}
	for i, s := range suffixes {
		fsys[cubeName+"_"+s+".tga"] = &fstest.MapFile{Data: EncodeTGA(Solid(4, FaceColors[i]))}
	}
	return fsys
}

func checker(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}
