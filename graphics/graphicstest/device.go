// Package graphicstest provides a recording graphics.Device for tests that
// run without a GPU context.
package graphicstest

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glscenes/graphics"
)

// ProgramInfo is what the device saw when a program was created.
type ProgramInfo struct {
	VertexSource   string
	FragmentSource string
	Attributes     []graphics.Attribute
}

// MeshInfo is what the device saw when a mesh was created.
type MeshInfo struct {
	Indices []uint16
	Arrays  []graphics.VertexArray
}

// Device records every call it receives. The zero value is not usable; call
// NewDevice.
type Device struct {
	// Calls is the ordered call log, one entry per call, e.g. "Enable(cull_face)".
	Calls []string

	Programs   map[graphics.Program]ProgramInfo
	Textures2D map[graphics.TextureID]*image.RGBA
	Cubes      map[graphics.TextureID][6]*image.RGBA
	Meshes     map[graphics.MeshID]MeshInfo

	// Uniforms holds the last value uploaded per uniform name of the
	// program in use.
	Uniforms map[string]interface{}

	// Bound maps texture unit to the texture bound there.
	Bound map[int]graphics.TextureID

	// ErrorAfter makes CheckError fail for the named op.
	ErrorAfter map[string]error
	// ProgramErr, when set, is returned by CreateProgram.
	ProgramErr error
	// Inactive names uniforms that UniformLocation reports as -1.
	Inactive map[string]bool
	// Queries counts UniformLocation calls per name.
	Queries map[string]int

	nextID       uint32
	current      graphics.Program
	locations    map[int32]string
	locationByID map[string]int32
}

func NewDevice() *Device {
	return &Device{
		Programs:     make(map[graphics.Program]ProgramInfo),
		Textures2D:   make(map[graphics.TextureID]*image.RGBA),
		Cubes:        make(map[graphics.TextureID][6]*image.RGBA),
		Meshes:       make(map[graphics.MeshID]MeshInfo),
		Uniforms:     make(map[string]interface{}),
		Bound:        make(map[int]graphics.TextureID),
		ErrorAfter:   make(map[string]error),
		Inactive:     make(map[string]bool),
		Queries:      make(map[string]int),
		locations:    make(map[int32]string),
		locationByID: make(map[string]int32),
	}
}

func (d *Device) record(format string, args ...interface{}) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

// Live returns the number of programs, textures and meshes not yet deleted.
func (d *Device) Live() int {
	return len(d.Programs) + len(d.Textures2D) + len(d.Cubes) + len(d.Meshes)
}

// Reset clears the call log.
func (d *Device) Reset() { d.Calls = nil }

func (d *Device) Viewport(x, y, width, height int) {
	d.record("Viewport(%d,%d,%d,%d)", x, y, width, height)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.record("ClearColor(%g,%g,%g,%g)", r, g, b, a)
}

func (d *Device) Clear(mask graphics.ClearMask) {
	d.record("Clear(%d)", mask)
}

func (d *Device) Enable(c graphics.Capability) { d.record("Enable(%s)", c) }
func (d *Device) Disable(c graphics.Capability) { d.record("Disable(%s)", c) }

func (d *Device) DepthFunc(f graphics.DepthFunc) { d.record("DepthFunc(%d)", f) }

func (d *Device) CheckError(op string) error {
	if err, ok := d.ErrorAfter[op]; ok {
		return fmt.Errorf("%w: %s: %v", graphics.ErrGPUState, op, err)
	}
	return nil
}

func (d *Device) CreateProgram(vs, fs string, attributes []graphics.Attribute) (graphics.Program, error) {
	if d.ProgramErr != nil {
		return 0, d.ProgramErr
	}
	p := graphics.Program(d.id())
	d.Programs[p] = ProgramInfo{VertexSource: vs, FragmentSource: fs, Attributes: attributes}
	d.record("CreateProgram(%d)", p)
	return p, nil
}

func (d *Device) UseProgram(p graphics.Program) {
	d.current = p
	d.record("UseProgram(%d)", p)
}

// UniformLocation hands out a stable location for every name not listed in
// Inactive.
func (d *Device) UniformLocation(p graphics.Program, name string) int32 {
	d.Queries[name]++
	if d.Inactive[name] {
		return -1
	}
	if loc, ok := d.locationByID[name]; ok {
		return loc
	}
	loc := int32(len(d.locations))
	d.locations[loc] = name
	d.locationByID[name] = loc
	return loc
}

func (d *Device) set(loc int32, v interface{}) {
	if name, ok := d.locations[loc]; ok {
		d.Uniforms[name] = v
	}
}

func (d *Device) Uniform1f(loc int32, v float32) { d.set(loc, v) }
func (d *Device) Uniform1i(loc int32, v int32) { d.set(loc, v) }
func (d *Device) Uniform3f(loc int32, v mgl32.Vec3) { d.set(loc, v) }
func (d *Device) Uniform4f(loc int32, v mgl32.Vec4) { d.set(loc, v) }
func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) { d.set(loc, m) }

func (d *Device) DeleteProgram(p graphics.Program) {
	delete(d.Programs, p)
	d.record("DeleteProgram(%d)", p)
}

func (d *Device) CreateTexture2D(img *image.RGBA) (graphics.TextureID, error) {
	t := graphics.TextureID(d.id())
	d.Textures2D[t] = img
	d.record("CreateTexture2D(%d)", t)
	return t, nil
}

func (d *Device) CreateTextureCube(faces [6]*image.RGBA) (graphics.TextureID, error) {
	t := graphics.TextureID(d.id())
	d.Cubes[t] = faces
	d.record("CreateTextureCube(%d)", t)
	return t, nil
}

func (d *Device) BindTexture(unit int, target graphics.TextureTarget, t graphics.TextureID) {
	d.Bound[unit] = t
	d.record("BindTexture(%d,%d)", unit, t)
}

func (d *Device) DeleteTexture(t graphics.TextureID) {
	delete(d.Textures2D, t)
	delete(d.Cubes, t)
	d.record("DeleteTexture(%d)", t)
}

func (d *Device) CreateMesh(indices []uint16, arrays []graphics.VertexArray) (graphics.MeshID, error) {
	m := graphics.MeshID(d.id())
	d.Meshes[m] = MeshInfo{Indices: indices, Arrays: arrays}
	d.record("CreateMesh(%d)", m)
	return m, nil
}

func (d *Device) DrawMesh(m graphics.MeshID, indexCount int) {
	d.record("DrawMesh(%d,%d)", m, indexCount)
}

func (d *Device) DeleteMesh(m graphics.MeshID) {
	delete(d.Meshes, m)
	d.record("DeleteMesh(%d)", m)
}

func (d *Device) NewRenderTarget(width, height int) (graphics.RenderTarget, error) {
	d.record("NewRenderTarget(%d,%d)", width, height)
	return &RenderTarget{Width: width, Height: height}, nil
}

// RenderTarget is an in-memory graphics.RenderTarget.
type RenderTarget struct {
	Width, Height int
	Binds         int
	Reads         int
	Destroyed     bool
}

func (t *RenderTarget) Bind() { t.Binds++ }
func (t *RenderTarget) Unbind() {}
func (t *RenderTarget) Size() (int, int) { return t.Width, t.Height }

func (t *RenderTarget) ReadPixels() ([]byte, error) {
	t.Reads++
	return make([]byte, t.Width*t.Height*4), nil
}

func (t *RenderTarget) Destroy() { t.Destroyed = true }
