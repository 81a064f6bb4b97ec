package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"deferred-fbo/gpu"
)

// Uniform is the semantic role of a shader uniform. The GLSL names in
// uniformNames are the contract with the shader files.
type Uniform int

const (
	UniformViewProjection Uniform = iota
	UniformWorld
	UniformCameraPosition
	UniformFarPlane
	UniformDiffuseTexture
	UniformLightColor
	UniformLightPosition
	UniformLightRadius
	UniformDepthBuffer
	UniformNormalBuffer
	UniformColorBuffer
	UniformLightingBuffer
	UniformScale
	UniformOffset
	UniformSource
	UniformGrayscale
	uniformCount
)

var uniformNames = [uniformCount]string{
	UniformViewProjection: "ViewProjectionMatrix",
	UniformWorld:          "WorldMatrix",
	UniformCameraPosition: "CameraPosition",
	UniformFarPlane:       "FarPlane",
	UniformDiffuseTexture: "DiffuseTexture",
	UniformLightColor:     "Color",
	UniformLightPosition:  "Position",
	UniformLightRadius:    "Radius",
	UniformDepthBuffer:    "DepthBuffer",
	UniformNormalBuffer:   "NormalBuffer",
	UniformColorBuffer:    "ColorBuffer",
	UniformLightingBuffer: "LightingBuffer",
	UniformScale:          "Scale",
	UniformOffset:         "Offset",
	UniformSource:         "Source",
	UniformGrayscale:      "Grayscale",
}

func (u Uniform) String() string {
	if u < 0 || u >= uniformCount {
		return "unknown"
	}
	return uniformNames[u]
}

// Program is a linked shader program with its uniform locations resolved
// once at link time.
type Program struct {
	Name   string
	Handle gpu.Program
	locs   [uniformCount]int32
}

func newProgram(dev gpu.Device, log *zap.Logger, name string, handle gpu.Program, roles []Uniform) *Program {
	p := &Program{Name: name, Handle: handle}
	for i := range p.locs {
		p.locs[i] = -1
	}
	for _, role := range roles {
		loc := dev.UniformLocation(handle, uniformNames[role])
		if loc < 0 {
			log.Warn("uniform not active", zap.String("program", name), zap.Stringer("uniform", role))
		}
		p.locs[role] = loc
	}
	return p
}

// Location returns the cached location of role, or -1.
func (p *Program) Location(role Uniform) int32 { return p.locs[role] }

// uniformSetter binds a device to the current program so passes can set
// uniforms by role.
type uniformSetter struct {
	dev  gpu.Device
	prog *Program
}

func use(dev gpu.Device, p *Program) uniformSetter {
	dev.UseProgram(p.Handle)
	return uniformSetter{dev: dev, prog: p}
}

func (s uniformSetter) mat4(role Uniform, m mgl32.Mat4) {
	s.dev.UniformMatrix4(s.prog.locs[role], m)
}

func (s uniformSetter) vec3(role Uniform, v mgl32.Vec3) {
	s.dev.Uniform3f(s.prog.locs[role], v)
}

func (s uniformSetter) vec2(role Uniform, v mgl32.Vec2) {
	s.dev.Uniform2f(s.prog.locs[role], v.X(), v.Y())
}

func (s uniformSetter) float(role Uniform, v float32) {
	s.dev.Uniform1f(s.prog.locs[role], v)
}

func (s uniformSetter) int(role Uniform, v int32) {
	s.dev.Uniform1i(s.prog.locs[role], v)
}

// sampler binds tex to unit and points the sampler uniform at it.
func (s uniformSetter) sampler(role Uniform, unit int, tex gpu.Texture) {
	s.dev.BindTexture(unit, tex)
	s.dev.Uniform1i(s.prog.locs[role], int32(unit))
}
