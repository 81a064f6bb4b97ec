package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"deferred-fbo/gpu"
)

const (
	// CubeHalfSize is half the edge length of the demo cube.
	CubeHalfSize float32 = 0.5

	// LightSlices and LightStacks tessellate every light volume.
	LightSlices = 16
	LightStacks = 16
)

// cubeFaces lists each face's outward normal and its horizontal axis. The
// vertical axis is normal × horizontal, which keeps every face
// counter-clockwise when seen from outside.
var cubeFaces = [6][2]mgl32.Vec3{
	{{1, 0, 0}, {0, 0, -1}},
	{{-1, 0, 0}, {0, 0, 1}},
	{{0, 1, 0}, {1, 0, 0}},
	{{0, -1, 0}, {1, 0, 0}},
	{{0, 0, 1}, {1, 0, 0}},
	{{0, 0, -1}, {-1, 0, 0}},
}

// CubeVertices returns the 36 vertices of the demo cube as a triangle list,
// each face carrying its own normal and a full 0..1 texture mapping.
func CubeVertices() []gpu.Vertex {
	vertices := make([]gpu.Vertex, 0, 36)
	for _, face := range cubeFaces {
		n, u := face[0], face[1]
		v := n.Cross(u)
		center := n.Mul(CubeHalfSize)
		u = u.Mul(CubeHalfSize)
		v = v.Mul(CubeHalfSize)

		corners := [4]gpu.Vertex{
			{Position: center.Sub(u).Sub(v), Normal: n, UV: mgl32.Vec2{0, 0}},
			{Position: center.Add(u).Sub(v), Normal: n, UV: mgl32.Vec2{1, 0}},
			{Position: center.Add(u).Add(v), Normal: n, UV: mgl32.Vec2{1, 1}},
			{Position: center.Sub(u).Add(v), Normal: n, UV: mgl32.Vec2{0, 1}},
		}
		vertices = appendQuad(vertices, corners)
	}
	return vertices
}

// SphereVertices generates a UV-sphere of the given radius as a triangle
// list of slices×stacks quads. Vertex (i, j) sits at horizontal angle
// 2π·i/slices and vertical angle π·j/stacks. Faces wind counter-clockwise
// seen from outside. Seam and pole vertices are bit-identical wherever they
// are shared, and quads touching a pole contain one degenerate triangle.
func SphereVertices(radius float32, slices, stacks int) []gpu.Vertex {
	if slices < 3 {
		slices = 3
	}
	if stacks < 2 {
		stacks = 2
	}

	at := func(i, j int) gpu.Vertex {
		h := 2 * math32.Pi * float32(i%slices) / float32(slices)
		v := math32.Pi * float32(j) / float32(stacks)
		n := sphericalPoint(h, v)
		switch j {
		case 0:
			n = mgl32.Vec3{0, 1, 0}
		case stacks:
			n = mgl32.Vec3{0, -1, 0}
		}
		return gpu.Vertex{
			Position: n.Mul(radius),
			Normal:   n,
			UV:       mgl32.Vec2{float32(i) / float32(slices), float32(j) / float32(stacks)},
		}
	}

	vertices := make([]gpu.Vertex, 0, slices*stacks*6)
	for i := 0; i < slices; i++ {
		for j := 0; j < stacks; j++ {
			vertices = appendQuad(vertices, [4]gpu.Vertex{
				at(i, j),
				at(i, j+1),
				at(i+1, j+1),
				at(i+1, j),
			})
		}
	}
	return vertices
}

// QuadVertices returns a full-screen quad in normalized device coordinates
// with texture coordinates spanning 0..1.
func QuadVertices() []gpu.Vertex {
	n := mgl32.Vec3{0, 0, 1}
	return appendQuad(nil, [4]gpu.Vertex{
		{Position: mgl32.Vec3{-1, -1, 0}, Normal: n, UV: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{1, -1, 0}, Normal: n, UV: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{1, 1, 0}, Normal: n, UV: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{-1, 1, 0}, Normal: n, UV: mgl32.Vec2{0, 1}},
	})
}

func appendQuad(dst []gpu.Vertex, q [4]gpu.Vertex) []gpu.Vertex {
	return append(dst, q[0], q[1], q[2], q[0], q[2], q[3])
}
