// Package mesh uploads indexed triangle meshes.
package mesh

import (
	"errors"
	"fmt"

	"github.com/richinsley/glscenes/graphics"
)

// ErrIndexRange is wrapped when an index or attribute array does not fit the
// vertex count.
var ErrIndexRange = errors.New("mesh index out of range")

// IndexBuffer holds triangle list indices.
type IndexBuffer struct {
	Indices []uint16
}

// VertexBuffer holds parallel attribute arrays of equal vertex count.
type VertexBuffer struct {
	Arrays []graphics.VertexArray
}

// VertexCount returns the vertex count of the first array.
func (vb *VertexBuffer) VertexCount() int {
	if len(vb.Arrays) == 0 {
		return 0
	}
	return vb.Arrays[0].Len()
}

// Mesh is an uploaded index and vertex buffer pair.
type Mesh struct {
	dev        graphics.Device
	id         graphics.MeshID
	indexCount int
	refs       int
}

// New validates ib against vb and uploads both.
func New(dev graphics.Device, ib *IndexBuffer, vb *VertexBuffer) (*Mesh, error) {
	if err := validate(ib, vb); err != nil {
		return nil, err
	}
	id, err := dev.CreateMesh(ib.Indices, vb.Arrays)
	if err != nil {
		return nil, fmt.Errorf("failed to create mesh: %w", err)
	}
	return &Mesh{dev: dev, id: id, indexCount: len(ib.Indices), refs: 1}, nil
}

func validate(ib *IndexBuffer, vb *VertexBuffer) error {
	n := vb.VertexCount()
	if n == 0 {
		return fmt.Errorf("%w: empty vertex buffer", ErrIndexRange)
	}
	for _, va := range vb.Arrays {
		if va.Components <= 0 || len(va.Data) != n*va.Components {
			return fmt.Errorf("%w: attribute %d holds %d floats, want %d vertices of %d",
				ErrIndexRange, va.Slot, len(va.Data), n, va.Components)
		}
	}
	if len(ib.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a triangle list", ErrIndexRange, len(ib.Indices))
	}
	for i, idx := range ib.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d is %d, vertex count %d", ErrIndexRange, i, idx, n)
		}
	}
	return nil
}

func (m *Mesh) ID() graphics.MeshID { return m.id }

func (m *Mesh) IndexCount() int { return m.indexCount }

// Render draws the mesh with the program and textures currently bound.
func (m *Mesh) Render() {
	m.dev.DrawMesh(m.id, m.indexCount)
}

func (m *Mesh) Retain() *Mesh {
	m.refs++
	return m
}

func (m *Mesh) Release() {
	if m == nil || m.refs <= 0 {
		return
	}
	m.refs--
	if m.refs == 0 {
		m.dev.DeleteMesh(m.id)
	}
}
