package renderer

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"deferred-fbo/assets"
	"deferred-fbo/gpu"
	"deferred-fbo/internal/software"
)

// demoRoot holds the shader and texture files the demo ships with.
var demoRoot = os.DirFS(filepath.Join("..", "cmd", "demo"))

// Go renditions of the GLSL programs, keyed by the file they stand in for.
// Varying layout is noted per program.
var referencePrograms = map[string]software.Shader{
	// 0..2 world position, 3..5 world normal, 6..7 uv
	"CubeVS": software.VertexShader(func(u *software.Uniforms, in gpu.Vertex, out *software.Varyings) mgl32.Vec4 {
		world := u.Mat4("WorldMatrix")
		p := world.Mul4x1(in.Position.Vec4(1))
		n := world.Mat3().Mul3x1(in.Normal)
		copy(out[0:3], p[:3])
		copy(out[3:6], n[:])
		copy(out[6:8], in.UV[:])
		return u.Mat4("ViewProjectionMatrix").Mul4x1(p)
	}),
	"CubePS": software.FragmentShader(func(u *software.Uniforms, in *software.Varyings, _ mgl32.Vec4, out *software.Outputs) {
		pos := mgl32.Vec3{in[0], in[1], in[2]}
		n := mgl32.Vec3{in[3], in[4], in[5]}.Normalize()
		out[0] = u.Sample("DiffuseTexture", mgl32.Vec2{in[6], in[7]})
		out[1] = n.Mul(0.5).Add(mgl32.Vec3{0.5, 0.5, 0.5}).Vec4(1)
		out[2] = mgl32.Vec4{pos.Sub(u.Vec3("CameraPosition")).Len() / u.Float("FarPlane"), 0, 0, 1}
	}),

	// 0..2 world position
	"LightingVS": software.VertexShader(func(u *software.Uniforms, in gpu.Vertex, out *software.Varyings) mgl32.Vec4 {
		p := u.Mat4("WorldMatrix").Mul4x1(in.Position.Vec4(1))
		copy(out[0:3], p[:3])
		return u.Mat4("ViewProjectionMatrix").Mul4x1(p)
	}),
	"LightingPS": software.FragmentShader(func(u *software.Uniforms, in *software.Varyings, frag mgl32.Vec4, out *software.Outputs) {
		size := u.TextureSize("DepthBuffer")
		uv := mgl32.Vec2{frag.X() / size.X(), frag.Y() / size.Y()}
		depth := u.Sample("DepthBuffer", uv).X()
		normal := u.Sample("NormalBuffer", uv).Vec3().Mul(2).Sub(mgl32.Vec3{1, 1, 1}).Normalize()

		cam := u.Vec3("CameraPosition")
		ray := mgl32.Vec3{in[0], in[1], in[2]}.Sub(cam).Normalize()
		surface := cam.Add(ray.Mul(depth * u.Float("FarPlane")))

		toLight := u.Vec3("Position").Sub(surface)
		dist := toLight.Len()
		attenuation := mgl32.Clamp(1-dist/u.Float("Radius"), 0, 1)
		lambert := math32.Max(normal.Dot(toLight.Mul(1/math32.Max(dist, 1e-5))), 0)

		out[0] = u.Vec3("Color").Mul(attenuation * lambert).Vec4(1)
	}),

	// 0..1 uv
	"CompositeVS": software.VertexShader(func(u *software.Uniforms, in gpu.Vertex, out *software.Varyings) mgl32.Vec4 {
		copy(out[0:2], in.UV[:])
		return mgl32.Vec4{in.Position.X(), in.Position.Y(), 0, 1}
	}),
	"CompositePS": software.FragmentShader(func(u *software.Uniforms, in *software.Varyings, _ mgl32.Vec4, out *software.Outputs) {
		uv := mgl32.Vec2{in[0], in[1]}
		albedo := u.Sample("ColorBuffer", uv).Vec3()
		light := u.Sample("LightingBuffer", uv).Vec3()
		out[0] = mgl32.Vec3{albedo[0] * light[0], albedo[1] * light[1], albedo[2] * light[2]}.Vec4(1)
	}),
}

var referenceBlit = map[string]software.Shader{
	blitVertSrc: software.VertexShader(func(u *software.Uniforms, in gpu.Vertex, out *software.Varyings) mgl32.Vec4 {
		copy(out[0:2], in.UV[:])
		scale, offset := u.Vec2("Scale"), u.Vec2("Offset")
		return mgl32.Vec4{in.Position.X()*scale.X() + offset.X(), in.Position.Y()*scale.Y() + offset.Y(), 0, 1}
	}),
	blitFragSrc: software.FragmentShader(func(u *software.Uniforms, in *software.Varyings, _ mgl32.Vec4, out *software.Outputs) {
		s := u.Sample("Source", mgl32.Vec2{in[0], in[1]})
		if u.Int("Grayscale") != 0 {
			out[0] = mgl32.Vec4{s.X(), s.X(), s.X(), 1}
			return
		}
		out[0] = s.Vec3().Vec4(1)
	}),
}

// constantLightSrc replaces LightingPS in tests that count how often each
// pixel is lit.
const constantLightSrc = "constant light"

const constantLightLevel = 51 // quantized 0.2

var constantLight = software.FragmentShader(func(u *software.Uniforms, in *software.Varyings, _ mgl32.Vec4, out *software.Outputs) {
	out[0] = mgl32.Vec4{0.2, 0.2, 0.2, 0.2}
})

// newLoader searches overrides first, then the demo's own files.
func newLoader(overrides fstest.MapFS) *assets.Loader {
	if overrides == nil {
		return assets.NewLoader(nil, demoRoot)
	}
	return assets.NewLoader(nil, overrides, demoRoot)
}

// referenceShaders maps the demo's shader sources to their Go renditions,
// plus any extra sources a test substitutes.
func referenceShaders(t *testing.T, extra map[string]software.Shader) map[string]software.Shader {
	t.Helper()
	demo := assets.NewLoader(nil, demoRoot)
	shaders := map[string]software.Shader{}
	for name, sh := range referencePrograms {
		src, err := demo.ShaderSource(name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		shaders[src] = sh
	}
	for src, sh := range referenceBlit {
		shaders[src] = sh
	}
	for src, sh := range extra {
		shaders[src] = sh
	}
	return shaders
}
