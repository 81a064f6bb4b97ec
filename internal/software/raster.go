package software

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"deferred-fbo/gpu"
)

// subpixel is the fixed-point precision of window coordinates. Snapping
// makes edge functions exact, so triangles sharing an edge never both
// cover a pixel center lying on it.
const subpixel = 256

// clipVertex is a vertex after the vertex shader.
type clipVertex struct {
	pos  mgl32.Vec4
	vary Varyings
}

// windowVertex is a vertex after perspective divide and viewport mapping.
type windowVertex struct {
	x, y int64   // fixed point
	z    float64 // window depth, 0..1
	invW float64
	vary Varyings
}

// drawTarget collects the attachments a draw call writes.
type drawTarget struct {
	colors [MaxOutputs]*texture
	depth  *texture
	width  int
	height int
}

func (d *Device) target() (drawTarget, bool) {
	f := d.framebuffers[d.bound]
	var dt drawTarget
	dt.width = -1
	for i := 0; i < f.drawBuffers; i++ {
		t := d.textures[f.attachments[gpu.ColorAttachment(i)]]
		dt.colors[i] = t
		if t != nil && dt.width < 0 {
			dt.width, dt.height = t.desc.Width, t.desc.Height
		}
	}
	dt.depth = d.textures[f.attachments[gpu.Depth]]
	if dt.width < 0 && dt.depth != nil {
		dt.width, dt.height = dt.depth.desc.Width, dt.depth.desc.Height
	}
	return dt, dt.width > 0
}

// Draw renders the mesh as a triangle list with the current state.
func (d *Device) Draw(m gpu.Mesh) {
	vertices, ok := d.meshes[m]
	if !ok || d.current == nil {
		d.fail(errInvalidOperation)
		return
	}
	if d.bound != gpu.DefaultFramebuffer && d.CheckFramebuffer(d.bound) != gpu.StatusComplete {
		d.fail("INVALID_FRAMEBUFFER_OPERATION")
		return
	}
	dt, ok := d.target()
	if !ok {
		return
	}

	u := &Uniforms{dev: d, prog: d.current}
	var tri [3]clipVertex
	for i := 0; i+2 < len(vertices); i += 3 {
		for k := 0; k < 3; k++ {
			tri[k].vary = Varyings{}
			tri[k].pos = d.current.vertex(u, vertices[i+k], &tri[k].vary)
		}
		poly := clipNear(tri[:])
		for k := 1; k+1 < len(poly); k++ {
			d.rasterize(u, &dt, poly[0], poly[k], poly[k+1])
		}
	}
}

// clipNear clips a polygon against the z >= -w plane.
func clipNear(in []clipVertex) []clipVertex {
	inside := true
	for _, v := range in {
		if v.pos.Z() < -v.pos.W() {
			inside = false
			break
		}
	}
	if inside {
		return in
	}

	out := make([]clipVertex, 0, len(in)+1)
	for i := range in {
		a, b := in[i], in[(i+1)%len(in)]
		da := float64(a.pos.Z() + a.pos.W())
		db := float64(b.pos.Z() + b.pos.W())
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			t := float32(da / (da - db))
			var v clipVertex
			v.pos = a.pos.Add(b.pos.Sub(a.pos).Mul(t))
			for k := range v.vary {
				v.vary[k] = a.vary[k] + (b.vary[k]-a.vary[k])*t
			}
			out = append(out, v)
		}
	}
	return out
}

func (d *Device) toWindow(c clipVertex) windowVertex {
	w := float64(c.pos.W())
	nx := float64(c.pos.X()) / w
	ny := float64(c.pos.Y()) / w
	nz := float64(c.pos.Z()) / w
	vp := d.viewport
	x := float64(vp.X) + (nx+1)*0.5*float64(vp.Width)
	y := float64(vp.Y) + (ny+1)*0.5*float64(vp.Height)
	return windowVertex{
		x:    int64(math.Round(x * subpixel)),
		y:    int64(math.Round(y * subpixel)),
		z:    (nz + 1) * 0.5,
		invW: 1 / w,
		vary: c.vary,
	}
}

// edge is twice the signed area of (a, b, p); positive when p lies to the
// left of a→b in a y-up frame.
func edge(ax, ay, bx, by, px, py int64) int64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether pixel centers exactly on a→b belong to the
// triangle. Triangles are counter-clockwise here, so left edges run
// downward and top edges run right to left.
func topLeft(a, b windowVertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return dy < 0 || (dy == 0 && dx < 0)
}

func (d *Device) rasterize(u *Uniforms, dt *drawTarget, c0, c1, c2 clipVertex) {
	v0, v1, v2 := d.toWindow(c0), d.toWindow(c1), d.toWindow(c2)

	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return
	}
	front := area > 0
	if (d.cull == gpu.CullBack && !front) || (d.cull == gpu.CullFront && front) {
		return
	}
	if !front {
		v1, v2 = v2, v1
		area = -area
	}

	vp := d.viewport
	minX := max(int(floorDiv(min(v0.x, v1.x, v2.x), subpixel)), vp.X, 0)
	maxX := min(int(floorDiv(max(v0.x, v1.x, v2.x), subpixel)), vp.X+vp.Width-1, dt.width-1)
	minY := max(int(floorDiv(min(v0.y, v1.y, v2.y), subpixel)), vp.Y, 0)
	maxY := min(int(floorDiv(max(v0.y, v1.y, v2.y), subpixel)), vp.Y+vp.Height-1, dt.height-1)

	tl0, tl1, tl2 := topLeft(v1, v2), topLeft(v2, v0), topLeft(v0, v1)
	fa := float64(area)

	var vary Varyings
	var out Outputs
	for y := minY; y <= maxY; y++ {
		py := int64(y)*subpixel + subpixel/2
		for x := minX; x <= maxX; x++ {
			px := int64(x)*subpixel + subpixel/2

			w0 := edge(v1.x, v1.y, v2.x, v2.y, px, py)
			w1 := edge(v2.x, v2.y, v0.x, v0.y, px, py)
			w2 := edge(v0.x, v0.y, v1.x, v1.y, px, py)
			if !covers(w0, tl0) || !covers(w1, tl1) || !covers(w2, tl2) {
				continue
			}

			b0, b1, b2 := float64(w0)/fa, float64(w1)/fa, float64(w2)/fa
			z := b0*v0.z + b1*v1.z + b2*v2.z
			if z < 0 || z > 1 {
				continue
			}

			idx := y*dt.width + x
			if d.depthTest && dt.depth != nil {
				if float32(z) > dt.depth.f32[idx] {
					continue
				}
				dt.depth.f32[idx] = float32(z)
			}

			p0, p1, p2 := b0*v0.invW, b1*v1.invW, b2*v2.invW
			iw := p0 + p1 + p2
			for k := range vary {
				vary[k] = float32((p0*float64(v0.vary[k]) + p1*float64(v1.vary[k]) + p2*float64(v2.vary[k])) / iw)
			}

			out = Outputs{}
			coord := mgl32.Vec4{float32(x) + 0.5, float32(y) + 0.5, float32(z), float32(iw)}
			d.current.fragment(u, &vary, coord, &out)

			for i, t := range dt.colors {
				if t != nil {
					t.write(idx, out[i], d.blend)
				}
			}
		}
	}
}

func covers(w int64, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
