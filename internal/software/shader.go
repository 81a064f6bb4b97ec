package software

import (
	"github.com/go-gl/mathgl/mgl32"

	"deferred-fbo/gpu"
)

// MaxVaryings is the number of scalar values a vertex shader can hand to
// the fragment stage.
const MaxVaryings = 16

// MaxOutputs is the number of fragment outputs (draw buffers).
const MaxOutputs = 4

// Varyings are interpolated perspective-correctly across a triangle.
type Varyings [MaxVaryings]float32

// Outputs are the fragment shader's color outputs, one per draw buffer.
type Outputs [MaxOutputs]mgl32.Vec4

// VertexFunc transforms one vertex and returns its clip-space position.
type VertexFunc func(u *Uniforms, in gpu.Vertex, out *Varyings) mgl32.Vec4

// FragmentFunc shades one fragment. fragCoord holds the window-space pixel
// center in X and Y, window depth in Z and 1/w in W.
type FragmentFunc func(u *Uniforms, in *Varyings, fragCoord mgl32.Vec4, out *Outputs)

// Shader is the Go stand-in for one compiled GLSL stage. Exactly one of
// Vertex or Fragment is set.
type Shader struct {
	Vertex   VertexFunc
	Fragment FragmentFunc
}

// VertexShader wraps fn as a vertex stage.
func VertexShader(fn VertexFunc) Shader { return Shader{Vertex: fn} }

// FragmentShader wraps fn as a fragment stage.
func FragmentShader(fn FragmentFunc) Shader { return Shader{Fragment: fn} }

func (s Shader) stage() (gpu.ShaderStage, bool) {
	switch {
	case s.Vertex != nil && s.Fragment == nil:
		return gpu.StageVertex, true
	case s.Fragment != nil && s.Vertex == nil:
		return gpu.StageFragment, true
	}
	return 0, false
}

type program struct {
	vertex   VertexFunc
	fragment FragmentFunc
	locs     map[string]int32
	names    []string
	values   map[string]any
}

func (p *program) location(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := int32(len(p.names))
	p.locs[name] = loc
	p.names = append(p.names, name)
	return loc
}

func (p *program) set(loc int32, v any) {
	if loc < 0 || int(loc) >= len(p.names) {
		return
	}
	p.values[p.names[loc]] = v
}

// Uniforms gives shader functions read access to the current program's
// uniform values and the bound texture units. Unset uniforms read as zero.
type Uniforms struct {
	dev  *Device
	prog *program
}

func (u *Uniforms) Mat4(name string) mgl32.Mat4 {
	m, _ := u.prog.values[name].(mgl32.Mat4)
	return m
}

func (u *Uniforms) Vec3(name string) mgl32.Vec3 {
	v, _ := u.prog.values[name].(mgl32.Vec3)
	return v
}

func (u *Uniforms) Vec2(name string) mgl32.Vec2 {
	v, _ := u.prog.values[name].(mgl32.Vec2)
	return v
}

func (u *Uniforms) Float(name string) float32 {
	v, _ := u.prog.values[name].(float32)
	return v
}

func (u *Uniforms) Int(name string) int32 {
	v, _ := u.prog.values[name].(int32)
	return v
}

// Sample reads the texture bound to the unit named by the sampler uniform.
// Sampling is always nearest; callers that need exact results sample at
// texel centers.
func (u *Uniforms) Sample(sampler string, uv mgl32.Vec2) mgl32.Vec4 {
	t := u.dev.unitTexture(int(u.Int(sampler)))
	if t == nil {
		return mgl32.Vec4{0, 0, 0, 1}
	}
	return t.sample(uv)
}

// TextureSize returns the size of the texture behind a sampler uniform.
func (u *Uniforms) TextureSize(sampler string) mgl32.Vec2 {
	t := u.dev.unitTexture(int(u.Int(sampler)))
	if t == nil {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{float32(t.desc.Width), float32(t.desc.Height)}
}
