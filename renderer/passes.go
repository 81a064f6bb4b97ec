package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"deferred-fbo/gpu"
	"deferred-fbo/scene"
)

// Texture units used by the passes.
const (
	unitDiffuse  = 0
	unitDepth    = 0
	unitNormal   = 1
	unitColor    = 0
	unitLighting = 1
	unitSource   = 0
)

// debugQuadrant places one target in a quarter of the screen.
type debugQuadrant struct {
	offset    mgl32.Vec2
	grayscale bool
	target    func(*State) gpu.Texture
}

var debugQuadrants = [4]debugQuadrant{
	{mgl32.Vec2{-0.5, -0.5}, false, func(s *State) gpu.Texture { return s.Geometry.Color.Texture }},
	{mgl32.Vec2{0.5, -0.5}, true, func(s *State) gpu.Texture { return s.Geometry.Depth.Texture }},
	{mgl32.Vec2{-0.5, 0.5}, false, func(s *State) gpu.Texture { return s.Geometry.Normal.Texture }},
	{mgl32.Vec2{0.5, 0.5}, false, func(s *State) gpu.Texture { return s.Lighting.Lighting.Texture }},
}

// bindOffscreen binds b with a viewport covering its targets and returns
// the viewport to restore afterwards.
func (s *State) bindOffscreen(b *Binding) gpu.Viewport {
	saved := s.dev.Viewport()
	w, h := b.Size()
	s.dev.BindFramebuffer(b.FBO)
	s.dev.SetViewport(gpu.Viewport{Width: w, Height: h})
	s.dev.DrawBuffers(b.DrawBuffers)
	s.dev.ClearColor(0, 0, 0, 0)
	s.dev.Clear(gpu.ClearColor | gpu.ClearDepth)
	return saved
}

// GeometryPass renders the rotating cube into the geometry buffer.
func (s *State) GeometryPass() {
	saved := s.bindOffscreen(s.Geometry.Binding)

	u := use(s.dev, s.Programs.Cube)
	u.mat4(UniformViewProjection, s.scene.ViewProjection())
	u.mat4(UniformWorld, s.scene.CubeWorld())
	u.vec3(UniformCameraPosition, s.scene.CameraPosition())
	u.float(UniformFarPlane, scene.DepthFarPlane)
	u.sampler(UniformDiffuseTexture, unitDiffuse, s.texture)

	s.dev.SetDepthTest(true)
	s.dev.SetCullFace(gpu.CullBack)
	s.dev.Draw(s.cube)

	s.dev.SetViewport(saved)
}

// LightingPass accumulates every visible light into the lighting buffer.
// Only the back faces of each light volume are drawn, so a pixel inside the
// volume's screen footprint receives that light exactly once, even with the
// camera inside the volume. Volumes entirely outside the view are skipped.
func (s *State) LightingPass() {
	saved := s.bindOffscreen(s.Lighting.Binding)

	s.dev.SetDepthTest(false)
	s.dev.SetBlend(gpu.BlendAdditive)

	u := use(s.dev, s.Programs.Lighting)
	u.mat4(UniformViewProjection, s.scene.ViewProjection())
	u.vec3(UniformCameraPosition, s.scene.CameraPosition())
	u.float(UniformFarPlane, scene.DepthFarPlane)
	u.sampler(UniformDepthBuffer, unitDepth, s.Geometry.Depth.Texture)
	u.sampler(UniformNormalBuffer, unitNormal, s.Geometry.Normal.Texture)

	s.dev.SetCullFace(gpu.CullFront)
	for _, i := range s.scene.VisibleLights() {
		l := s.scene.Lights[i]
		u.vec3(UniformLightColor, l.Color)
		u.vec3(UniformLightPosition, l.Position)
		u.float(UniformLightRadius, l.Radius)
		u.mat4(UniformWorld, l.World())
		s.dev.Draw(s.lightMeshes[i])
	}

	s.dev.SetBlend(gpu.BlendNone)
	s.dev.SetDepthTest(true)
	s.dev.SetViewport(saved)
	s.dev.BindFramebuffer(gpu.DefaultFramebuffer)
}

// CompositePass draws to the window: color × lighting, or in debug mode
// the four intermediate targets, one per quadrant. It never writes an
// offscreen target.
func (s *State) CompositePass(mode ViewMode) {
	s.dev.BindFramebuffer(gpu.DefaultFramebuffer)
	s.dev.ClearColor(0, 0, 0, 0)
	s.dev.Clear(gpu.ClearColor | gpu.ClearDepth)
	s.dev.SetCullFace(gpu.CullBack)

	if mode == ViewDebug {
		s.drawDebugQuadrants()
		return
	}

	u := use(s.dev, s.Programs.Composite)
	u.sampler(UniformColorBuffer, unitColor, s.Geometry.Color.Texture)
	u.sampler(UniformLightingBuffer, unitLighting, s.Lighting.Lighting.Texture)
	s.dev.Draw(s.quad)
}

func (s *State) drawDebugQuadrants() {
	u := use(s.dev, s.Programs.Blit)
	u.vec2(UniformScale, mgl32.Vec2{0.5, 0.5})
	for _, q := range debugQuadrants {
		u.vec2(UniformOffset, q.offset)
		gray := int32(0)
		if q.grayscale {
			gray = 1
		}
		u.int(UniformGrayscale, gray)
		u.sampler(UniformSource, unitSource, q.target(s))
		s.dev.Draw(s.quad)
	}
}
