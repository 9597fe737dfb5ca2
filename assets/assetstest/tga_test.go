package assetstest

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/ftrvxmtrx/tga"
)

func TestEncodeTGARoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 5, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			src.SetRGBA(x, y, color.RGBA{uint8(x * 50), uint8(y * 100), uint8(x + y), 255})
		}
	}

	img, err := tga.Decode(bytes.NewReader(EncodeTGA(src)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
		t.Fatalf("bounds %v, want 5x3", b)
	}
	b := img.Bounds()
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			got := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			if want := src.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSceneFSDecodes(t *testing.T) {
	for name, f := range SceneFS("Room") {
		if !bytes.HasSuffix([]byte(name), []byte(".tga")) {
			continue
		}
		if _, err := tga.Decode(bytes.NewReader(f.Data)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
