package scene

import (
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glscenes/graphics"
	"github.com/richinsley/glscenes/material"
	"github.com/richinsley/glscenes/mesh"
	"github.com/richinsley/glscenes/model"
	"github.com/richinsley/glscenes/shader"
	"github.com/richinsley/glscenes/texture"
)

const (
	cubeMapVertexShader   = "cubeMap.vs"
	cubeMapFragmentShader = "cubeMap.fs"
	checkerBoardMap       = "CheckerBoard.tga"
	checkerBoardGlossyMap = "CheckerBoardGlossyMap.tga"

	// DefaultCubeMapName is used when Config.CubeMapName is empty.
	DefaultCubeMapName = "BedroomCubeMap"
)

// CubeMapAttributes binds the cube map shader inputs to their slots.
var CubeMapAttributes = []graphics.Attribute{
	{Name: "g_vPositionOS", Slot: graphics.AttribPosition},
	{Name: "g_vNormalOS", Slot: graphics.AttribNormal},
	{Name: "g_vTexCoordOS", Slot: graphics.AttribUV},
}

func init() {
	Register("cubemap", func(dev graphics.Device, cfg Config) (Scene, error) {
		return NewCubeMapScene(dev, cfg)
	})
}

// CubeMapScene draws the teapot with a diffuse map, a glossy map and an
// environment cube map while the camera swings in and out along z.
type CubeMapScene struct {
	count     float32
	totalTime float32

	camera mgl32.Vec3
	light  mgl32.Vec3

	shader   *shader.Shader
	shared   material.SharedShaderValues
	material *material.CubeMapMaterial
	mesh     *mesh.Mesh

	diffuseMap *texture.Texture2D
	glossyMap  *texture.Texture2D
	cubeMap    *texture.TextureCube

	matProjection mgl32.Mat4
	matView       mgl32.Mat4
	matModel      mgl32.Mat4

	destroyed bool
}

// NewCubeMapScene compiles the cube map shader, loads the checkerboard maps
// and the cube map faces, and builds the teapot mesh. Any failure releases
// what was already created.
func NewCubeMapScene(dev graphics.Device, cfg Config) (sc *CubeMapScene, err error) {
	log.Println("CubeMapScene construct")
	if cfg.Assets == nil {
		return nil, fmt.Errorf("cube map scene: no asset loader")
	}
	name := cfg.CubeMapName
	if name == "" {
		name = DefaultCubeMapName
	}

	s := &CubeMapScene{
		matProjection: mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 1000),
		matView:       mgl32.Ident4(),
		matModel:      mgl32.Ident4(),
	}
	defer func() {
		if err != nil {
			s.Destroy()
		}
	}()

	if err := dev.CheckError("construct"); err != nil {
		return nil, err
	}

	s.shader, err = shader.New(dev, cfg.Assets, cubeMapVertexShader, cubeMapFragmentShader, CubeMapAttributes, cfg.Translator)
	if err != nil {
		return nil, fmt.Errorf("cube map scene: %w", err)
	}

	m := material.NewCubeMapMaterial(s.shader, &s.shared)
	m.Ambient = mgl32.Vec4{1, 1, 1, 1}
	m.Diffuse = mgl32.Vec4{1, 1, 1, 1}
	m.Specular = mgl32.Vec4{1, 1, 1, 50}
	m.Glossyness = mgl32.Vec4{0.8, 0.8, 0.8, 0.8}
	s.material = m

	if s.diffuseMap, err = loadTexture2D(dev, cfg, checkerBoardMap); err != nil {
		return nil, err
	}
	m.DiffuseMap = s.diffuseMap.Retain()

	if s.glossyMap, err = loadTexture2D(dev, cfg, checkerBoardGlossyMap); err != nil {
		return nil, err
	}
	m.GlossyMap = s.glossyMap.Retain()

	faces, err := cfg.Assets.LoadCubeFaces(".", name)
	if err != nil {
		return nil, fmt.Errorf("cube map scene: %w", err)
	}
	if s.cubeMap, err = texture.NewTextureCube(dev, faces); err != nil {
		return nil, fmt.Errorf("cube map scene: %w", err)
	}
	m.CubeMap = s.cubeMap.Retain()
	if err := dev.CheckError("cube map upload"); err != nil {
		return nil, err
	}

	if s.mesh, err = createTeapotMesh(dev); err != nil {
		return nil, fmt.Errorf("cube map scene: %w", err)
	}
	if err := dev.CheckError("mesh upload"); err != nil {
		return nil, err
	}
	return s, nil
}

func loadTexture2D(dev graphics.Device, cfg Config, file string) (*texture.Texture2D, error) {
	img, err := cfg.Assets.LoadTGA(file)
	if err != nil {
		return nil, fmt.Errorf("cube map scene: %w", err)
	}
	tex, err := texture.NewTexture2D(dev, img)
	if err != nil {
		return nil, fmt.Errorf("cube map scene: %w", err)
	}
	if err := dev.CheckError("texture upload " + file); err != nil {
		tex.Release()
		return nil, err
	}
	return tex, nil
}

func createTeapotMesh(dev graphics.Device) (*mesh.Mesh, error) {
	data := model.Teapot()
	ib := &mesh.IndexBuffer{Indices: data.Indices}
	vb := &mesh.VertexBuffer{Arrays: []graphics.VertexArray{
		{Slot: graphics.AttribPosition, Components: 3, Data: model.Flatten3(data.Positions)},
		{Slot: graphics.AttribNormal, Components: 3, Data: model.Flatten3(data.Normals)},
		{Slot: graphics.AttribUV, Components: 2, Data: model.Flatten2(data.TexCoords)},
	}}
	return mesh.New(dev, ib, vb)
}

// Update advances time and recomputes the camera, light and transforms in
// the shared block. A zero-height surface keeps the previous projection.
func (s *CubeMapScene) Update(rc graphics.RenderContext, deltaTime float32) {
	s.count += deltaTime / 15
	if s.count > 1 {
		s.count = 0
	}
	s.totalTime += deltaTime
	s.shared.TotalTime += deltaTime

	if aspect := rc.Aspect(); aspect > 0 {
		s.matProjection = mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 1000)
	}

	s.camera = mgl32.Vec3{0, 0.7, float32(math.Cos(float64(s.totalTime))) + 1.01}
	s.light = mgl32.Vec3{0, 1, 2}

	s.matView = mgl32.LookAtV(s.camera, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	s.matModel = mgl32.HomogRotate3DX(-3.1415 * 0.5)
	s.matModel = mgl32.HomogRotate3DY(0).Mul4(s.matModel)
	s.matModel = mgl32.Translate3D(0, 0, 0).Mul4(s.matModel)
	s.matModel = mgl32.Scale3D(0.01, 0.01, 0.01).Mul4(s.matModel)

	modelView := s.matView.Mul4(s.matModel)

	s.shared.MatModel = s.matModel
	s.shared.MatView = s.matView
	s.shared.MatProj = s.matProjection
	s.shared.MatModelView = modelView
	s.shared.MatModelViewProj = s.matProjection.Mul4(modelView)
	s.shared.MatNormal = modelView.Inv().Transpose()
	s.shared.LightPos = s.light
	s.shared.CamPos = s.camera
}

// Render clears the surface and draws the teapot. The first GPU error
// aborts the frame and is returned.
func (s *CubeMapScene) Render(dev graphics.Device, rc graphics.RenderContext) error {
	if s.destroyed {
		return fmt.Errorf("cube map scene: render after destroy")
	}
	if err := dev.CheckError("render begin"); err != nil {
		return err
	}

	dev.Viewport(0, 0, rc.Width, rc.Height)
	if err := dev.CheckError("viewport"); err != nil {
		return err
	}

	dev.ClearColor(0, 0, 0, 1)
	dev.Clear(graphics.ColorBuffer | graphics.DepthBuffer)
	if err := dev.CheckError("clear"); err != nil {
		return err
	}

	dev.Disable(graphics.Blend)
	dev.Enable(graphics.CullFace)
	dev.Enable(graphics.DepthTest)
	dev.DepthFunc(graphics.LessEqual)
	if err := dev.CheckError("pipeline state"); err != nil {
		return err
	}

	if err := s.material.Bind(dev); err != nil {
		return fmt.Errorf("cube map scene: %w", err)
	}

	s.mesh.Render()
	return dev.CheckError("mesh render")
}

// Destroy deletes the shader program and drops every resource reference.
// It is safe to call more than once.
func (s *CubeMapScene) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true

	s.shader.Destroy()
	if s.material != nil {
		s.material.Release()
	}
	s.mesh.Release()
	s.diffuseMap.Release()
	s.glossyMap.Release()
	s.cubeMap.Release()
	log.Println("CubeMapScene destruct")
}

// Count is a 0..1 ramp advancing by deltaTime/15 per update.
func (s *CubeMapScene) Count() float32 { return s.count }

func (s *CubeMapScene) TotalTime() float32 { return s.totalTime }

func (s *CubeMapScene) Camera() mgl32.Vec3 { return s.camera }

func (s *CubeMapScene) Light() mgl32.Vec3 { return s.light }

func (s *CubeMapScene) Projection() mgl32.Mat4 { return s.matProjection }

func (s *CubeMapScene) View() mgl32.Mat4 { return s.matView }

func (s *CubeMapScene) Model() mgl32.Mat4 { return s.matModel }

// Shared returns the uniform block the material uploads.
func (s *CubeMapScene) Shared() *material.SharedShaderValues { return &s.shared }

func (s *CubeMapScene) Shader() *shader.Shader { return s.shader }

func (s *CubeMapScene) Material() *material.CubeMapMaterial { return s.material }

func (s *CubeMapScene) Mesh() *mesh.Mesh { return s.mesh }

func (s *CubeMapScene) CubeMap() *texture.TextureCube { return s.cubeMap }
