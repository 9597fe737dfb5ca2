package material

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glscenes/graphics"
	"github.com/richinsley/glscenes/shader"
	"github.com/richinsley/glscenes/texture"
)

// Uniform names of CubeMapMaterial.
const (
	UniformAmbient    = "g_vAmbient"
	UniformDiffuse    = "g_vDiffuse"
	UniformSpecular   = "g_vSpecular"
	UniformGlossyness = "g_vGlossyness"
	UniformDiffuseMap = "s_diffuseMap"
	UniformGlossyMap  = "s_glossyMap"
	UniformCubeMap    = "s_cubeMap"
)

// Texture units used by CubeMapMaterial.
const (
	DiffuseMapUnit = 0
	GlossyMapUnit  = 1
	CubeMapUnit    = 2
)

// CubeMapMaterial is a Phong material with a diffuse map, a glossy map
// weighting an environment cube map reflection. Specular.W is the specular
// exponent.
type CubeMapMaterial struct {
	shader *shader.Shader
	shared *SharedShaderValues

	Ambient    mgl32.Vec4
	Diffuse    mgl32.Vec4
	Specular   mgl32.Vec4
	Glossyness mgl32.Vec4

	DiffuseMap *texture.Texture2D
	GlossyMap  *texture.Texture2D
	CubeMap    *texture.TextureCube
}

// NewCubeMapMaterial returns a material drawing with s and reading the shared
// block. It takes its own reference on s.
func NewCubeMapMaterial(s *shader.Shader, shared *SharedShaderValues) *CubeMapMaterial {
	return &CubeMapMaterial{
		shader: s.Retain(),
		shared: shared,
	}
}

func (m *CubeMapMaterial) Shader() *shader.Shader { return m.shader }

func (m *CubeMapMaterial) Shared() *SharedShaderValues { return m.shared }

// Bind makes the program current and uploads the shared block, the material
// constants and the three textures.
func (m *CubeMapMaterial) Bind(dev graphics.Device) error {
	if m.DiffuseMap == nil || m.GlossyMap == nil || m.CubeMap == nil {
		return fmt.Errorf("cube map material is missing a texture")
	}
	m.shader.Use()

	sv := m.shared
	for _, u := range []struct {
		name string
		v    mgl32.Mat4
	}{
		{UniformMatModel, sv.MatModel},
		{UniformMatView, sv.MatView},
		{UniformMatProj, sv.MatProj},
		{UniformMatModelView, sv.MatModelView},
		{UniformMatModelViewProj, sv.MatModelViewProj},
		{UniformMatNormal, sv.MatNormal},
	} {
		if loc := m.shader.Uniform(u.name); loc != -1 {
			dev.UniformMatrix4(loc, u.v)
		}
	}
	if loc := m.shader.Uniform(UniformLightPos); loc != -1 {
		dev.Uniform3f(loc, sv.LightPos)
	}
	if loc := m.shader.Uniform(UniformCamPos); loc != -1 {
		dev.Uniform3f(loc, sv.CamPos)
	}
	if loc := m.shader.Uniform(UniformTotalTime); loc != -1 {
		dev.Uniform1f(loc, sv.TotalTime)
	}

	for _, u := range []struct {
		name string
		v    mgl32.Vec4
	}{
		{UniformAmbient, m.Ambient},
		{UniformDiffuse, m.Diffuse},
		{UniformSpecular, m.Specular},
		{UniformGlossyness, m.Glossyness},
	} {
		if loc := m.shader.Uniform(u.name); loc != -1 {
			dev.Uniform4f(loc, u.v)
		}
	}

	m.bindSampler(dev, UniformDiffuseMap, DiffuseMapUnit, graphics.Texture2D, m.DiffuseMap.ID())
	m.bindSampler(dev, UniformGlossyMap, GlossyMapUnit, graphics.Texture2D, m.GlossyMap.ID())
	m.bindSampler(dev, UniformCubeMap, CubeMapUnit, graphics.TextureCube, m.CubeMap.ID())

	return dev.CheckError("material bind")
}

func (m *CubeMapMaterial) bindSampler(dev graphics.Device, name string, unit int, target graphics.TextureTarget, id graphics.TextureID) {
	loc := m.shader.Uniform(name)
	if loc == -1 {
		return
	}
	dev.BindTexture(unit, target, id)
	dev.Uniform1i(loc, int32(unit))
}

// Release drops the material's texture and shader references.
func (m *CubeMapMaterial) Release() {
	m.DiffuseMap.Release()
	m.GlossyMap.Release()
	m.CubeMap.Release()
	m.shader.Release()
	m.DiffuseMap, m.GlossyMap, m.CubeMap = nil, nil, nil
	m.shader = nil
}
