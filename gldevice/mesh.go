package gldevice

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/glscenes/graphics"
)

type glMesh struct {
	vao  uint32
	ebo  uint32
	vbos []uint32
}

// CreateMesh uploads one VBO per vertex array, bound to the array's slot, and
// a uint16 element buffer, all recorded in a fresh VAO.
func (d *Device) CreateMesh(indices []uint16, arrays []graphics.VertexArray) (graphics.MeshID, error) {
	if len(indices) == 0 {
		return 0, fmt.Errorf("mesh has no indices")
	}
	m := &glMesh{vbos: make([]uint32, len(arrays))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	if len(arrays) > 0 {
		gl.GenBuffers(int32(len(m.vbos)), &m.vbos[0])
	}
	for i, a := range arrays {
		if len(a.Data) == 0 {
			continue
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, m.vbos[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(a.Data)*4, gl.Ptr(a.Data), gl.STATIC_DRAW)
		gl.EnableVertexAttribArray(uint32(a.Slot))
		gl.VertexAttribPointer(uint32(a.Slot), int32(a.Components), gl.FLOAT, false, 0, gl.PtrOffset(0))
	}

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	id := graphics.MeshID(m.vao)
	d.meshes[id] = m
	return id, nil
}

func (d *Device) DrawMesh(id graphics.MeshID, indexCount int) {
	m, ok := d.meshes[id]
	if !ok {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_SHORT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (d *Device) DeleteMesh(id graphics.MeshID) {
	m, ok := d.meshes[id]
	if !ok {
		return
	}
	delete(d.meshes, id)
	if len(m.vbos) > 0 {
		gl.DeleteBuffers(int32(len(m.vbos)), &m.vbos[0])
	}
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteVertexArrays(1, &m.vao)
}
