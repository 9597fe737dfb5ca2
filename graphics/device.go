package graphics

import (
	"errors"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrGPUState is wrapped by every error returned from Device.CheckError.
var ErrGPUState = errors.New("inconsistent GPU state")

// Program is a linked shader program handle.
type Program uint32

// TextureID is a GPU texture handle.
type TextureID uint32

// MeshID is a GPU vertex array handle.
type MeshID uint32

// AttribSlot is a fixed vertex attribute location.
type AttribSlot uint32

const (
	AttribPosition AttribSlot = iota
	AttribNormal
	AttribUV
)

// Attribute binds a named shader input to a slot before the program is linked.
type Attribute struct {
	Name string
	Slot AttribSlot
}

// VertexArray is one attribute stream of a mesh. Data holds Components
// floats per vertex.
type VertexArray struct {
	Slot       AttribSlot
	Components int
	Data       []float32
}

// Len returns the number of vertices in the array.
func (va VertexArray) Len() int {
	if va.Components <= 0 {
		return 0
	}
	return len(va.Data) / va.Components
}

type Capability int

const (
	Blend Capability = iota
	CullFace
	DepthTest
)

func (c Capability) String() string {
	switch c {
	case Blend:
		return "blend"
	case CullFace:
		return "cull_face"
	case DepthTest:
		return "depth_test"
	}
	return "unknown"
}

type DepthFunc int

const (
	Less DepthFunc = iota
	LessEqual
	Always
)

type ClearMask uint32

const (
	ColorBuffer ClearMask = 1 << iota
	DepthBuffer
)

type TextureTarget int

const (
	Texture2D TextureTarget = iota
	TextureCube
)

// Stage identifies a shader stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	if s == VertexStage {
		return "vertex"
	}
	return "fragment"
}

// Device is the GPU capability a scene renders through. Implementations are
// not safe for concurrent use; every call happens on the thread that owns the
// context.
type Device interface {
	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	Enable(c Capability)
	Disable(c Capability)
	DepthFunc(f DepthFunc)

	// CheckError reports a pending GPU error raised since the last check.
	// op names the step that was just issued.
	CheckError(op string) error

	CreateProgram(vertexSource, fragmentSource string, attributes []Attribute) (Program, error)
	UseProgram(p Program)
	UniformLocation(p Program, name string) int32
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform3f(loc int32, v mgl32.Vec3)
	Uniform4f(loc int32, v mgl32.Vec4)
	UniformMatrix4(loc int32, m mgl32.Mat4)
	DeleteProgram(p Program)

	// CreateTexture2D uploads img. Rows are uploaded in the order given.
	CreateTexture2D(img *image.RGBA) (TextureID, error)
	// CreateTextureCube uploads faces[i] to cube face POSITIVE_X+i.
	CreateTextureCube(faces [6]*image.RGBA) (TextureID, error)
	BindTexture(unit int, target TextureTarget, t TextureID)
	DeleteTexture(t TextureID)

	CreateMesh(indices []uint16, arrays []VertexArray) (MeshID, error)
	DrawMesh(m MeshID, indexCount int)
	DeleteMesh(m MeshID)

	NewRenderTarget(width, height int) (RenderTarget, error)
}

// RenderTarget is an offscreen colour+depth surface.
type RenderTarget interface {
	Bind()
	Unbind()
	Size() (int, int)
	// ReadPixels returns the colour attachment as tightly packed RGBA rows,
	// bottom row first.
	ReadPixels() ([]byte, error)
	Destroy()
}
