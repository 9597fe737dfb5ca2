package material

import (
	"errors"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glscenes/assets/assetstest"
	"github.com/richinsley/glscenes/graphics"
	"github.com/richinsley/glscenes/graphics/graphicstest"
	"github.com/richinsley/glscenes/shader"
	"github.com/richinsley/glscenes/texture"
)

func newMaterial(t *testing.T, dev *graphicstest.Device, shared *SharedShaderValues) *CubeMapMaterial {
	t.Helper()
	s, err := shader.Compile(dev, "vs", "fs", nil, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m := NewCubeMapMaterial(s, shared)
	s.Release()

	diffuse, err := texture.NewTexture2D(dev, assetstest.Solid(2, assetstest.FaceColors[0]))
	if err != nil {
		t.Fatalf("NewTexture2D: %v", err)
	}
	glossy, err := texture.NewTexture2D(dev, assetstest.Solid(2, assetstest.FaceColors[1]))
	if err != nil {
		t.Fatalf("NewTexture2D: %v", err)
	}
	var faces [6]*image.RGBA
	for i := range faces {
		faces[i] = assetstest.Solid(2, assetstest.FaceColors[i])
	}
	cube, err := texture.NewTextureCube(dev, faces)
	if err != nil {
		t.Fatalf("NewTextureCube: %v", err)
	}
	m.DiffuseMap, m.GlossyMap, m.CubeMap = diffuse, glossy, cube
	return m
}

func TestBindUploadsEverything(t *testing.T) {
	dev := graphicstest.NewDevice()
	shared := &SharedShaderValues{
		MatModel:  mgl32.Scale3D(2, 2, 2),
		LightPos:  mgl32.Vec3{0, 1, 2},
		CamPos:    mgl32.Vec3{0, 0.7, 2},
		TotalTime: 3.5,
	}
	m := newMaterial(t, dev, shared)
	m.Ambient = mgl32.Vec4{1, 1, 1, 1}
	m.Specular = mgl32.Vec4{1, 1, 1, 50}

	if err := m.Bind(dev); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if got := dev.Uniforms[UniformMatModel]; got != shared.MatModel {
		t.Errorf("%s = %v", UniformMatModel, got)
	}
	if got := dev.Uniforms[UniformLightPos]; got != shared.LightPos {
		t.Errorf("%s = %v", UniformLightPos, got)
	}
	if got := dev.Uniforms[UniformCamPos]; got != shared.CamPos {
		t.Errorf("%s = %v", UniformCamPos, got)
	}
	if got := dev.Uniforms[UniformTotalTime]; got != float32(3.5) {
		t.Errorf("%s = %v", UniformTotalTime, got)
	}
	if got := dev.Uniforms[UniformSpecular]; got != m.Specular {
		t.Errorf("%s = %v", UniformSpecular, got)
	}
	for name, unit := range map[string]int32{
		UniformDiffuseMap: DiffuseMapUnit,
		UniformGlossyMap:  GlossyMapUnit,
		UniformCubeMap:    CubeMapUnit,
	} {
		if got := dev.Uniforms[name]; got != unit {
			t.Errorf("%s = %v, want unit %d", name, got, unit)
		}
	}
	if dev.Bound[CubeMapUnit] != m.CubeMap.ID() || dev.Bound[DiffuseMapUnit] != m.DiffuseMap.ID() {
		t.Errorf("textures bound %v", dev.Bound)
	}

	// Values written after the first bind are seen by the next one.
	shared.TotalTime = 4
	if err := m.Bind(dev); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got := dev.Uniforms[UniformTotalTime]; got != float32(4) {
		t.Errorf("%s after update = %v", UniformTotalTime, got)
	}
}

func TestBindSkipsInactiveUniforms(t *testing.T) {
	dev := graphicstest.NewDevice()
	inactive := []string{UniformMatView, UniformMatProj, UniformMatModelView}
	for _, name := range inactive {
		dev.Inactive[name] = true
	}
	shared := &SharedShaderValues{MatModel: mgl32.Ident4()}
	m := newMaterial(t, dev, shared)
	for i := 0; i < 2; i++ {
		if err := m.Bind(dev); err != nil {
			t.Fatalf("Bind: %v", err)
		}
	}
	for _, name := range inactive {
		if v, ok := dev.Uniforms[name]; ok {
			t.Errorf("inactive %s uploaded as %v", name, v)
		}
		if n := dev.Queries[name]; n != 1 {
			t.Errorf("%s queried %d times over two binds", name, n)
		}
	}
	if got := dev.Uniforms[UniformMatModel]; got != shared.MatModel {
		t.Errorf("%s = %v", UniformMatModel, got)
	}
}

func TestBindReportsGPUError(t *testing.T) {
	dev := graphicstest.NewDevice()
	m := newMaterial(t, dev, &SharedShaderValues{})
	dev.ErrorAfter["material bind"] = errors.New("GL_INVALID_OPERATION")
	if err := m.Bind(dev); !errors.Is(err, graphics.ErrGPUState) {
		t.Fatalf("Bind: err %v, want ErrGPUState", err)
	}
}

func TestBindMissingTexture(t *testing.T) {
	dev := graphicstest.NewDevice()
	m := newMaterial(t, dev, &SharedShaderValues{})
	m.GlossyMap.Release()
	m.GlossyMap = nil
	if err := m.Bind(dev); err == nil {
		t.Fatalf("Bind succeeded without a glossy map")
	}
}

func TestRelease(t *testing.T) {
	dev := graphicstest.NewDevice()
	m := newMaterial(t, dev, &SharedShaderValues{})
	m.Release()
	if dev.Live() != 0 {
		t.Fatalf("%d GPU objects left after Release", dev.Live())
	}
	m.Release()
}
