package scene

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glscenes/assets"
	"github.com/richinsley/glscenes/assets/assetstest"
	"github.com/richinsley/glscenes/graphics"
	"github.com/richinsley/glscenes/graphics/graphicstest"
	"github.com/richinsley/glscenes/material"
)

func newTestScene(t *testing.T) (*CubeMapScene, *graphicstest.Device) {
	t.Helper()
	dev := graphicstest.NewDevice()
	sc, err := NewCubeMapScene(dev, Config{Assets: assets.NewLoader(assetstest.SceneFS(DefaultCubeMapName))})
	if err != nil {
		t.Fatalf("NewCubeMapScene: %v", err)
	}
	return sc, dev
}

func indexOf(calls []string, prefix string) int {
	for i, c := range calls {
		if strings.HasPrefix(c, prefix) {
			return i
		}
	}
	return -1
}

func TestConstruct(t *testing.T) {
	sc, dev := newTestScene(t)
	defer sc.Destroy()

	if sc.Shader() == nil || sc.Material() == nil || sc.Mesh() == nil || sc.CubeMap() == nil {
		t.Fatal("scene resources not created")
	}
	info, ok := dev.Programs[sc.Shader().Program()]
	if !ok {
		t.Fatal("program not on device")
	}
	want := map[string]graphics.AttribSlot{
		"g_vPositionOS": graphics.AttribPosition,
		"g_vNormalOS":   graphics.AttribNormal,
		"g_vTexCoordOS": graphics.AttribUV,
	}
	for _, a := range info.Attributes {
		if want[a.Name] != a.Slot {
			t.Errorf("attribute %s bound to %d, want %d", a.Name, a.Slot, want[a.Name])
		}
		delete(want, a.Name)
	}
	if len(want) != 0 {
		t.Errorf("attributes not bound: %v", want)
	}

	m := sc.Material()
	checks := []struct {
		name      string
		got, want mgl32.Vec4
	}{
		{"ambient", m.Ambient, mgl32.Vec4{1, 1, 1, 1}},
		{"diffuse", m.Diffuse, mgl32.Vec4{1, 1, 1, 1}},
		{"specular", m.Specular, mgl32.Vec4{1, 1, 1, 50}},
		{"glossyness", m.Glossyness, mgl32.Vec4{0.8, 0.8, 0.8, 0.8}},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if m.Shared() != sc.Shared() {
		t.Error("material does not share the scene's shader values")
	}
}

func TestCubeFacesUploadedInOrder(t *testing.T) {
	sc, dev := newTestScene(t)
	defer sc.Destroy()

	faces, ok := dev.Cubes[sc.CubeMap().ID()]
	if !ok {
		t.Fatal("cube map not on device")
	}
	for i, face := range faces {
		if got := face.RGBAAt(0, 0); got != assetstest.FaceColors[i] {
			t.Errorf("face %d (%s) = %v, want %v", i, assets.CubeFaceSuffixes[i], got, assetstest.FaceColors[i])
		}
	}
}

func TestConstructMissingFace(t *testing.T) {
	fsys := assetstest.SceneFS(DefaultCubeMapName)
	delete(fsys, DefaultCubeMapName+"_UP.tga")
	dev := graphicstest.NewDevice()

	sc, err := NewCubeMapScene(dev, Config{Assets: assets.NewLoader(fsys)})
	if err == nil {
		t.Fatal("expected error")
	}
	if sc != nil {
		t.Error("scene returned alongside error")
	}
	if !errors.Is(err, assets.ErrAsset) {
		t.Errorf("error %v does not wrap ErrAsset", err)
	}
	if !strings.Contains(err.Error(), "_UP.tga") {
		t.Errorf("error %q does not name the missing face", err)
	}
	if n := dev.Live(); n != 0 {
		t.Errorf("%d GPU objects leaked", n)
	}
}

func TestConstructFailures(t *testing.T) {
	tests := []struct {
		name   string
		modify func(dev *graphicstest.Device, cfg *Config)
	}{
		{"no loader", func(dev *graphicstest.Device, cfg *Config) { cfg.Assets = nil }},
		{"missing shader", func(dev *graphicstest.Device, cfg *Config) {
			fsys := assetstest.SceneFS(DefaultCubeMapName)
			delete(fsys, "cubeMap.fs")
			cfg.Assets = assets.NewLoader(fsys)
		}},
		{"link error", func(dev *graphicstest.Device, cfg *Config) { dev.ProgramErr = errors.New("link failed") }},
		{"missing glossy map", func(dev *graphicstest.Device, cfg *Config) {
			fsys := assetstest.SceneFS(DefaultCubeMapName)
			delete(fsys, "CheckerBoardGlossyMap.tga")
			cfg.Assets = assets.NewLoader(fsys)
		}},
		{"unknown cube map", func(dev *graphicstest.Device, cfg *Config) { cfg.CubeMapName = "Nowhere" }},
		{"gpu error on mesh upload", func(dev *graphicstest.Device, cfg *Config) {
			dev.ErrorAfter["mesh upload"] = errors.New("GL_OUT_OF_MEMORY")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := graphicstest.NewDevice()
			cfg := Config{Assets: assets.NewLoader(assetstest.SceneFS(DefaultCubeMapName))}
			tt.modify(dev, &cfg)
			if _, err := NewCubeMapScene(dev, cfg); err == nil {
				t.Fatal("expected error")
			}
			if n := dev.Live(); n != 0 {
				t.Errorf("%d GPU objects leaked", n)
			}
		})
	}
}

func TestCustomCubeMapName(t *testing.T) {
	dev := graphicstest.NewDevice()
	sc, err := NewCubeMapScene(dev, Config{
		Assets:      assets.NewLoader(assetstest.SceneFS("Yokohama")),
		CubeMapName: "Yokohama",
	})
	if err != nil {
		t.Fatalf("NewCubeMapScene: %v", err)
	}
	sc.Destroy()
}

func TestConstructFromShippedAssets(t *testing.T) {
	dev := graphicstest.NewDevice()
	sc, err := NewCubeMapScene(dev, Config{Assets: assets.DirLoader("../assets")})
	if err != nil {
		t.Fatalf("NewCubeMapScene with the default cube map: %v", err)
	}
	defer sc.Destroy()

	faces := dev.Cubes[sc.CubeMap().ID()]
	size := faces[0].Bounds()
	for i, face := range faces {
		if face.Bounds() != size || size.Dx() != size.Dy() {
			t.Errorf("face %d (%s) is %v, want square %v", i, assets.CubeFaceSuffixes[i], face.Bounds(), size)
		}
	}
	rc := graphics.RenderContext{Width: 64, Height: 64}
	sc.Update(rc, 0)
	if err := sc.Render(dev, rc); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func TestUpdateCamera(t *testing.T) {
	sc, _ := newTestScene(t)
	defer sc.Destroy()

	rc := graphics.RenderContext{Width: 800, Height: 600}
	var total float32
	for _, dt := range []float32{0.25, 0.5, 1.0 / 60} {
		sc.Update(rc, dt)
		total += dt
	}
	if sc.TotalTime() != total {
		t.Errorf("TotalTime = %v, want %v", sc.TotalTime(), total)
	}
	if sc.Shared().TotalTime != total {
		t.Errorf("shared TotalTime = %v, want %v", sc.Shared().TotalTime, total)
	}

	cam := sc.Camera()
	wantZ := float32(math.Cos(float64(total))) + 1.01
	if cam[0] != 0 || cam[1] != 0.7 || math.Abs(float64(cam[2]-wantZ)) > 1e-6 {
		t.Errorf("camera = %v, want (0, 0.7, %v)", cam, wantZ)
	}
	if sc.Light() != (mgl32.Vec3{0, 1, 2}) {
		t.Errorf("light = %v", sc.Light())
	}
	if sc.Shared().CamPos != cam || sc.Shared().LightPos != sc.Light() {
		t.Error("shared values not updated with camera and light")
	}
	wantView := mgl32.LookAtV(cam, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	if !sc.View().ApproxEqual(wantView) {
		t.Errorf("view = %v, want %v", sc.View(), wantView)
	}
}

func TestUpdateMatrices(t *testing.T) {
	sc, _ := newTestScene(t)
	defer sc.Destroy()

	rc := graphics.RenderContext{Width: 1280, Height: 720}
	sc.Update(rc, 0.1)
	model := sc.Model()
	proj := sc.Projection()

	wantModel := mgl32.Scale3D(0.01, 0.01, 0.01).Mul4(mgl32.HomogRotate3DX(-3.1415 * 0.5))
	if !model.ApproxEqual(wantModel) {
		t.Errorf("model = %v, want %v", model, wantModel)
	}
	wantProj := mgl32.Perspective(mgl32.DegToRad(45), 1280.0/720.0, 0.1, 1000)
	if !proj.ApproxEqual(wantProj) {
		t.Errorf("projection = %v, want %v", proj, wantProj)
	}

	sc.Update(rc, 2.3)
	if sc.Model() != model {
		t.Error("model matrix changed between frames")
	}
	if sc.Projection() != proj {
		t.Error("projection changed without an aspect change")
	}

	shared := sc.Shared()
	mv := sc.View().Mul4(sc.Model())
	if !shared.MatModelView.ApproxEqual(mv) {
		t.Error("model-view is not view * model")
	}
	if !shared.MatModelViewProj.ApproxEqual(sc.Projection().Mul4(mv)) {
		t.Error("model-view-projection is not projection * model-view")
	}
	if !shared.MatNormal.ApproxEqualThreshold(mv.Inv().Transpose(), 1e-3) {
		t.Error("normal matrix is not transpose(inverse(model-view))")
	}
	if shared.MatModel != sc.Model() || shared.MatView != sc.View() || shared.MatProj != sc.Projection() {
		t.Error("shared matrices not updated")
	}

	sc.Update(graphics.RenderContext{Width: 600, Height: 600}, 0.1)
	if sc.Projection() == proj {
		t.Error("projection did not follow the aspect change")
	}
	square := sc.Projection()
	sc.Update(graphics.RenderContext{Width: 600, Height: 0}, 0.1)
	if sc.Projection() != square {
		t.Error("zero height changed the projection")
	}
}

func TestCountWraps(t *testing.T) {
	sc, _ := newTestScene(t)
	defer sc.Destroy()

	rc := graphics.RenderContext{Width: 4, Height: 4}
	sc.Update(rc, 7.5)
	if got := sc.Count(); math.Abs(float64(got-0.5)) > 1e-6 {
		t.Errorf("count = %v, want 0.5", got)
	}
	sc.Update(rc, 9)
	if got := sc.Count(); got != 0 {
		t.Errorf("count = %v, want wrap to 0", got)
	}
}

func TestRenderOrder(t *testing.T) {
	sc, dev := newTestScene(t)
	defer sc.Destroy()

	rc := graphics.RenderContext{Width: 640, Height: 480}
	sc.Update(rc, 0.5)
	dev.Reset()
	if err := sc.Render(dev, rc); err != nil {
		t.Fatalf("Render: %v", err)
	}

	sequence := []string{
		"Viewport(0,0,640,480)",
		"ClearColor(0,0,0,1)",
		"Clear(3)",
		"Disable(blend)",
		"Enable(cull_face)",
		"Enable(depth_test)",
		"DepthFunc(1)",
		"UseProgram(",
		"BindTexture(0,",
		"BindTexture(1,",
		"BindTexture(2,",
		"DrawMesh(",
	}
	last := -1
	for _, step := range sequence {
		i := indexOf(dev.Calls, step)
		if i < 0 {
			t.Fatalf("%s not issued; calls: %v", step, dev.Calls)
		}
		if i <= last {
			t.Errorf("%s issued out of order; calls: %v", step, dev.Calls)
		}
		last = i
	}

	draw := dev.Calls[indexOf(dev.Calls, "DrawMesh(")]
	if !strings.HasSuffix(draw, ","+strconv.Itoa(sc.Mesh().IndexCount())+")") {
		t.Errorf("draw = %s, want %d indices", draw, sc.Mesh().IndexCount())
	}

	if dev.Bound[material.CubeMapUnit] != sc.CubeMap().ID() {
		t.Error("cube map not bound to its unit")
	}
	if dev.Uniforms["g_camPos"] != sc.Camera() {
		t.Errorf("g_camPos = %v, want %v", dev.Uniforms["g_camPos"], sc.Camera())
	}
	if dev.Uniforms["g_matModelViewProj"] != sc.Shared().MatModelViewProj {
		t.Error("g_matModelViewProj not uploaded")
	}
}

func TestRenderStopsOnGPUError(t *testing.T) {
	for _, op := range []string{"viewport", "clear", "pipeline state", "material bind"} {
		t.Run(op, func(t *testing.T) {
			sc, dev := newTestScene(t)
			defer sc.Destroy()

			rc := graphics.RenderContext{Width: 32, Height: 32}
			sc.Update(rc, 0.1)
			dev.ErrorAfter[op] = errors.New("GL_INVALID_OPERATION")
			dev.Reset()

			err := sc.Render(dev, rc)
			if !errors.Is(err, graphics.ErrGPUState) {
				t.Fatalf("Render error = %v, want ErrGPUState", err)
			}
			if indexOf(dev.Calls, "DrawMesh(") >= 0 {
				t.Error("mesh drawn after a GPU error")
			}
		})
	}
}

func TestDestroy(t *testing.T) {
	sc, dev := newTestScene(t)
	sc.Update(graphics.RenderContext{Width: 8, Height: 8}, 0.1)

	sc.Destroy()
	if n := dev.Live(); n != 0 {
		t.Errorf("%d GPU objects alive after Destroy", n)
	}
	deletes := 0
	for _, c := range dev.Calls {
		if strings.HasPrefix(c, "DeleteProgram(") {
			deletes++
		}
	}
	if deletes != 1 {
		t.Errorf("program deleted %d times, want 1", deletes)
	}

	dev.Reset()
	sc.Destroy()
	if len(dev.Calls) != 0 {
		t.Errorf("second Destroy issued %v", dev.Calls)
	}
	if err := sc.Render(dev, graphics.RenderContext{Width: 8, Height: 8}); err == nil {
		t.Error("Render after Destroy succeeded")
	}
}

func TestRegistry(t *testing.T) {
	dev := graphicstest.NewDevice()
	cfg := Config{Assets: assets.NewLoader(assetstest.SceneFS(DefaultCubeMapName))}

	sc, err := New("cubemap", dev, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := sc.(*CubeMapScene); !ok {
		t.Errorf("New(cubemap) = %T", sc)
	}
	sc.Destroy()

	if _, err := New("nope", dev, cfg); err == nil {
		t.Error("unknown scene accepted")
	}
	found := false
	for _, n := range Names() {
		found = found || n == "cubemap"
	}
	if !found {
		t.Errorf("Names() = %v, missing cubemap", Names())
	}
}
