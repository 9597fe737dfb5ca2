// Package material binds shader programs together with their uniform values
// and textures.
package material

import "github.com/go-gl/mathgl/mgl32"

// SharedShaderValues is the per-frame uniform block a scene writes in Update
// and its materials upload in Bind.
type SharedShaderValues struct {
	MatModel         mgl32.Mat4
	MatView          mgl32.Mat4
	MatProj          mgl32.Mat4
	MatModelView     mgl32.Mat4
	MatModelViewProj mgl32.Mat4
	MatNormal        mgl32.Mat4

	LightPos mgl32.Vec3
	CamPos   mgl32.Vec3

	TotalTime float32
}

// Uniform names of the shared block.
const (
	UniformMatModel         = "g_matModel"
	UniformMatView          = "g_matView"
	UniformMatProj          = "g_matProj"
	UniformMatModelView     = "g_matModelView"
	UniformMatModelViewProj = "g_matModelViewProj"
	UniformMatNormal        = "g_matNormal"
	UniformLightPos         = "g_lightPos"
	UniformCamPos           = "g_camPos"
	UniformTotalTime        = "g_totalTime"
)
