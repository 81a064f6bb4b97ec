package scene

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	lightOrbit      float32 = 0.9
	lightMinRadius  float32 = 0.1
	lightRadiusSpan float32 = 0.7
)

// PointLight is a colored light with a hard cutoff radius.
type PointLight struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3 // unit length
	Radius   float32
}

// World is the light volume's model matrix. The sphere mesh already has
// the radius baked in, so only a translation is needed.
func (l PointLight) World() mgl32.Mat4 {
	return mgl32.Translate3D(l.Position.X(), l.Position.Y(), l.Position.Z())
}

// GenerateLights scatters n lights on a sphere of radius 0.9 around the
// origin. Angles are sampled uniformly, which clusters lights toward the
// poles; the demo keeps that look.
func GenerateLights(rng *rand.Rand, n int) []PointLight {
	lights := make([]PointLight, n)
	for i := range lights {
		var color mgl32.Vec3
		for color.Len() == 0 {
			color = mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()}
		}

		h := rng.Float32() * 2 * math32.Pi
		v := rng.Float32() * math32.Pi

		lights[i] = PointLight{
			Position: sphericalPoint(h, v).Mul(lightOrbit),
			Color:    color.Normalize(),
			Radius:   lightMinRadius + rng.Float32()*lightRadiusSpan,
		}
	}
	return lights
}

// sphericalPoint maps horizontal angle h and vertical angle v (0 at +Y) to
// the unit sphere.
func sphericalPoint(h, v float32) mgl32.Vec3 {
	sinV := math32.Sin(v)
	return mgl32.Vec3{math32.Sin(h) * sinV, math32.Cos(v), math32.Cos(h) * sinV}
}
