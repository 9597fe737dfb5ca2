// Package gldevice implements graphics.Device on top of OpenGL 4.1 core.
// Every method must be called on the thread that owns the current context.
package gldevice

import (
	"fmt"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glscenes/graphics"
)

var glInitOnce sync.Once

// Device is the OpenGL graphics.Device.
type Device struct {
	meshes map[graphics.MeshID]*glMesh
}

var _ graphics.Device = (*Device)(nil)

// New loads the OpenGL function pointers once per process. The caller's
// context must already be current.
func New() (*Device, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return &Device{meshes: make(map[graphics.MeshID]*glMesh)}, nil
}

// Version reports the driver's GL_VERSION string.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (d *Device) Clear(mask graphics.ClearMask) {
	var bits uint32
	if mask&graphics.ColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&graphics.DepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func capability(c graphics.Capability) uint32 {
	switch c {
	case graphics.Blend:
		return gl.BLEND
	case graphics.CullFace:
		return gl.CULL_FACE
	default:
		return gl.DEPTH_TEST
	}
}

func (d *Device) Enable(c graphics.Capability) { gl.Enable(capability(c)) }
func (d *Device) Disable(c graphics.Capability) { gl.Disable(capability(c)) }

func (d *Device) DepthFunc(f graphics.DepthFunc) {
	switch f {
	case graphics.Less:
		gl.DepthFunc(gl.LESS)
	case graphics.Always:
		gl.DepthFunc(gl.ALWAYS)
	default:
		gl.DepthFunc(gl.LEQUAL)
	}
}

// CheckError drains glGetError and reports the first code seen.
func (d *Device) CheckError(op string) error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	for gl.GetError() != gl.NO_ERROR {
	}
	return fmt.Errorf("%w: %s: %s (0x%04x)", graphics.ErrGPUState, op, errorName(code), code)
}

func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	default:
		return "unknown GL error"
	}
}

func (d *Device) UseProgram(p graphics.Program) { gl.UseProgram(uint32(p)) }

func (d *Device) UniformLocation(p graphics.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) Uniform1f(loc int32, v float32) { gl.Uniform1f(loc, v) }
func (d *Device) Uniform1i(loc int32, v int32) { gl.Uniform1i(loc, v) }

func (d *Device) Uniform3f(loc int32, v mgl32.Vec3) { gl.Uniform3f(loc, v[0], v[1], v[2]) }

func (d *Device) Uniform4f(loc int32, v mgl32.Vec4) { gl.Uniform4f(loc, v[0], v[1], v[2], v[3]) }

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (d *Device) DeleteProgram(p graphics.Program) { gl.DeleteProgram(uint32(p)) }
