// Package model holds the built-in model data used by the test scenes.
package model

import "github.com/go-gl/mathgl/mgl32"

// Data is an indexed triangle list with parallel per-vertex attributes.
type Data struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Indices   []uint16
}

// NumVertices returns the length shared by every attribute array.
func (d *Data) NumVertices() int { return len(d.Positions) }

func (d *Data) add(p, n mgl32.Vec3, uv mgl32.Vec2) {
	d.Positions = append(d.Positions, p)
	d.Normals = append(d.Normals, n)
	d.TexCoords = append(d.TexCoords, uv)
}

// grid appends the triangles of a (rows+1) x (cols+1) vertex grid starting at
// base. Row i runs along the surface, column j around it; triangles wind
// counter-clockwise seen from the side the normals point to.
func (d *Data) grid(base, rows, cols int) {
	stride := cols + 1
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			a := uint16(base + i*stride + j)
			b := a + uint16(stride)
			c := a + 1
			e := b + 1
			d.Indices = append(d.Indices, a, b, c, c, b, e)
		}
	}
}

// Flatten3 returns vs as a packed float slice.
func Flatten3(vs []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// Flatten2 returns vs as a packed float slice.
func Flatten2(vs []mgl32.Vec2) []float32 {
	out := make([]float32, 0, len(vs)*2)
	for _, v := range vs {
		out = append(out, v[0], v[1])
	}
	return out
}
