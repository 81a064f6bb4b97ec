package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a fixed look-at camera with a perspective projection.
type Camera struct {
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	Up          mgl32.Vec3
	FOV         float32 // vertical, radians
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	// Cached matrices
	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4
	dirty            bool
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Up:          mgl32.Vec3{0, 1, 0},
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		dirty:       true,
	}
}

// UpdateAspectRatio ignores a zero height (minimized window).
func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.Position = pos
	c.dirty = true
}

func (c *Camera) LookAt(target, up mgl32.Vec3) {
	c.Target = target
	c.Up = up
	c.dirty = true
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewMatrix
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.projectionMatrix
}

// GetViewProjectionMatrix returns projection·view, so that a shader computing
// ViewProjection * World * p yields clip space.
func (c *Camera) GetViewProjectionMatrix() mgl32.Mat4 {
	return c.GetProjectionMatrix().Mul4(c.GetViewMatrix())
}

func (c *Camera) GetForward() mgl32.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

func (c *Camera) updateMatrices() {
	c.viewMatrix = mgl32.LookAtV(c.Position, c.Target, c.Up)
	c.projectionMatrix = mgl32.Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
	c.dirty = false
}
