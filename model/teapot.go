package model

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// teapotUnits scales the classic teapot proportions so that a 0.01 model
// scale gives a teapot about 0.3 units in radius.
const teapotUnits = 15

const (
	latheSlices = 32
	latheSteps  = 16
	tubeSides   = 16
	tubeSteps   = 16
)

type bezier [4]mgl32.Vec2

func (b bezier) at(t float32) mgl32.Vec2 {
	s := 1 - t
	return b[0].Mul(s * s * s).
		Add(b[1].Mul(3 * s * s * t)).
		Add(b[2].Mul(3 * s * t * t)).
		Add(b[3].Mul(t * t * t))
}

func (b bezier) tangent(t float32) mgl32.Vec2 {
	s := 1 - t
	d := b[1].Sub(b[0]).Mul(3 * s * s).
		Add(b[2].Sub(b[1]).Mul(6 * s * t)).
		Add(b[3].Sub(b[2]).Mul(3 * t * t))
	if d.Len() > 1e-6 {
		return d.Normalize()
	}
	lo, hi := t-1e-3, t+1e-3
	if lo < 0 {
		lo = 0
	}
	if hi > 1 {
		hi = 1
	}
	return b.at(hi).Sub(b.at(lo)).Normalize()
}

// Rotationally symmetric parts as (radius, height) profiles, top to bottom.
var teapotProfile = []bezier{
	// lid
	{{0, 3.15}, {0.8, 3.15}, {0, 2.85}, {0.2, 2.7}},
	{{0.2, 2.7}, {0.4, 2.55}, {1.3, 2.4}, {1.3, 2.25}},
	// rim
	{{1.4, 2.4}, {1.3375, 2.53125}, {1.4375, 2.53125}, {1.5, 2.4}},
	// body
	{{1.5, 2.4}, {1.75, 1.875}, {2, 1.35}, {2, 0.9}},
	{{2, 0.9}, {2, 0.45}, {1.5, 0.225}, {1.5, 0.15}},
	// bottom
	{{1.5, 0.15}, {1.5, 0.075}, {1, 0}, {0, 0}},
}

type tube struct {
	path   []bezier // centreline in the (x, z) plane
	r0, r1 float32  // radius at the start and end of the path
}

var teapotTubes = []tube{
	{ // handle
		path: []bezier{
			{{-1.6, 2.025}, {-2.3, 2.025}, {-2.7, 2.025}, {-2.7, 1.65}},
			{{-2.7, 1.65}, {-2.7, 1.275}, {-2.5, 0.975}, {-2, 0.75}},
		},
		r0: 0.15, r1: 0.15,
	},
	{ // spout
		path: []bezier{
			{{1.7, 0.675}, {2.6, 0.675}, {2.3, 1.95}, {2.7, 2.25}},
			{{2.7, 2.25}, {2.8, 2.325}, {2.9, 2.325}, {3, 2.25}},
		},
		r0: 0.4, r1: 0.15,
	},
}

var (
	teapotOnce sync.Once
	teapot     *Data
)

// Teapot returns the built-in teapot, Z up, resting on z = 0. The data is
// built on first use and shared; callers must not modify it.
func Teapot() *Data {
	teapotOnce.Do(func() {
		teapot = buildTeapot()
	})
	return teapot
}

func buildTeapot() *Data {
	d := &Data{}
	for _, piece := range teapotProfile {
		lathe(d, piece)
	}
	for _, tb := range teapotTubes {
		sweep(d, tb)
	}
	return d
}

// lathe revolves a profile piece around the z axis.
func lathe(d *Data, piece bezier) {
	base := d.NumVertices()
	for i := 0; i <= latheSteps; i++ {
		t := float32(i) / latheSteps
		p := piece.at(t)
		tan := piece.tangent(t)
		nr, nz := -tan[1], tan[0]
		for j := 0; j <= latheSlices; j++ {
			u := float32(j) / latheSlices
			phi := float64(u) * 2 * math.Pi
			c, s := float32(math.Cos(phi)), float32(math.Sin(phi))
			pos := mgl32.Vec3{p[0] * c, p[0] * s, p[1]}.Mul(teapotUnits)
			n := mgl32.Vec3{nr * c, nr * s, nz}.Normalize()
			d.add(pos, n, mgl32.Vec2{u, t})
		}
	}
	d.grid(base, latheSteps, latheSlices)
}

// sweep extrudes a circle along a tube's centreline.
func sweep(d *Data, tb tube) {
	up := mgl32.Vec3{0, 1, 0}
	segments := float32(len(tb.path))
	for k, seg := range tb.path {
		base := d.NumVertices()
		for i := 0; i <= tubeSteps; i++ {
			t := float32(i) / tubeSteps
			along := (float32(k) + t) / segments
			radius := tb.r0 + (tb.r1-tb.r0)*along

			c2 := seg.at(t)
			t2 := seg.tangent(t)
			centre := mgl32.Vec3{c2[0], 0, c2[1]}
			tangent := mgl32.Vec3{t2[0], 0, t2[1]}
			side := tangent.Cross(up).Normalize()

			for j := 0; j <= tubeSides; j++ {
				u := float32(j) / tubeSides
				theta := float64(u) * 2 * math.Pi
				c, s := float32(math.Cos(theta)), float32(math.Sin(theta))
				n := side.Mul(c).Add(up.Mul(s))
				pos := centre.Add(n.Mul(radius)).Mul(teapotUnits)
				d.add(pos, n, mgl32.Vec2{u, along})
			}
		}
		d.grid(base, tubeSteps, tubeSides)
	}
}
