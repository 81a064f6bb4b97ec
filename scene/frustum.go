package scene

import "github.com/go-gl/mathgl/mgl32"

// Plane represents a half-space: ax + by + cz + d = 0
// Normal (a, b, c) points into the "inside" of the frustum.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the "inside" (same side as Normal).
func (p Plane) DistanceTo(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts the six frustum planes from a view-projection
// matrix (Gribb/Hartmann). The planes are normalized so DistanceTo returns a
// true distance in world units.
func FrustumFromVP(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.Planes[0] = normalizePlane(r3.Add(r0)) // left
	f.Planes[1] = normalizePlane(r3.Sub(r0)) // right
	f.Planes[2] = normalizePlane(r3.Add(r1)) // bottom
	f.Planes[3] = normalizePlane(r3.Sub(r1)) // top
	f.Planes[4] = normalizePlane(r3.Add(r2)) // near
	f.Planes[5] = normalizePlane(r3.Sub(r2)) // far
	return f
}

func normalizePlane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v.W() / l}
}

// IntersectsSphere returns false if the sphere is completely outside the
// frustum. Spheres straddling a plane, or containing the eye, count as
// inside.
func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.DistanceTo(center) < -radius {
			return false
		}
	}
	return true
}

// VisibleLights returns the indices of the lights whose volume can touch
// the current view.
func (s *Scene) VisibleLights() []int {
	f := FrustumFromVP(s.ViewProjection())
	visible := make([]int, 0, len(s.Lights))
	for i, l := range s.Lights {
		if f.IntersectsSphere(l.Position, l.Radius) {
			visible = append(visible, i)
		}
	}
	return visible
}
