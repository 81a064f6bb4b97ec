package scene

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DepthFarPlane scales the linear depth written to the geometry buffer.
	// It is deliberately much shorter than the projection far plane.
	DepthFarPlane float32 = 6.0

	ProjectionNear float32 = 1.0
	ProjectionFar  float32 = 64.0

	// DefaultLightCount is the number of point lights in the demo.
	DefaultLightCount = 100
)

var (
	cameraPosition = mgl32.Vec3{0, 1, 3}
	cameraTarget   = mgl32.Vec3{0, 0, 0}
)

// Scene holds everything the demo animates or lights: a fixed camera, the
// rotation angle of the cube and an immutable set of point lights.
type Scene struct {
	Camera *Camera
	Lights []PointLight

	angle float32
}

// New builds the demo scene with lightCount lights drawn from rng. The
// projection starts square; call Resize once the window size is known.
func New(rng *rand.Rand, lightCount int) *Scene {
	return NewWithLights(GenerateLights(rng, lightCount))
}

// NewWithLights builds the demo scene around a caller-supplied light set.
func NewWithLights(lights []PointLight) *Scene {
	cam := NewCamera(mgl32.DegToRad(45), 1, ProjectionNear, ProjectionFar)
	cam.SetPosition(cameraPosition)
	cam.LookAt(cameraTarget, mgl32.Vec3{0, 1, 0})
	return &Scene{Camera: cam, Lights: lights}
}

// Advance moves the cube rotation forward by dt seconds. The angle is
// unbounded; trigonometric functions handle wraparound.
func (s *Scene) Advance(dt float32) {
	s.angle += dt
}

// Angle returns the accumulated rotation in radians.
func (s *Scene) Angle() float32 { return s.angle }

// Resize rebuilds the projection for a window of w×h pixels.
func (s *Scene) Resize(w, h int) {
	s.Camera.UpdateAspectRatio(float32(w), float32(h))
}

// CubeWorld is the cube's model matrix for the current angle.
func (s *Scene) CubeWorld() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(s.angle)
}

func (s *Scene) ViewProjection() mgl32.Mat4 { return s.Camera.GetViewProjectionMatrix() }

func (s *Scene) CameraPosition() mgl32.Vec3 { return s.Camera.Position }
