package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"deferred-fbo/gpu"
)

// Assets supplies shader sources and images.
type Assets interface {
	ShaderSource(name string) (string, error)
}

// ProgramSet holds every program the pipeline uses.
type ProgramSet struct {
	Cube      *Program
	Lighting  *Program
	Composite *Program
	// Blit draws one texture into a rectangle of the bound framebuffer.
	Blit *Program
}

// ── Shaders ───────────────────────────────────────────────────────────────────

// blitVertSrc scales and offsets the unit quad into one screen quadrant.
const blitVertSrc = `
#version 410 core
layout(location = 0) in vec3 VertexPosition;
layout(location = 2) in vec2 VertexUV;

uniform vec2 Scale;
uniform vec2 Offset;

out vec2 UV;

void main() {
    UV = VertexUV;
    gl_Position = vec4(VertexPosition.xy * Scale + Offset, 0.0, 1.0);
}
`

// blitFragSrc shows single-channel targets as grey.
const blitFragSrc = `
#version 410 core
in  vec2 UV;
out vec4 OutColor;

uniform sampler2D Source;
uniform int       Grayscale;

void main() {
    vec4 s = texture(Source, UV);
    OutColor = Grayscale != 0 ? vec4(s.rrr, 1.0) : vec4(s.rgb, 1.0);
}
`

var (
	cubeUniforms = []Uniform{
		UniformViewProjection, UniformWorld, UniformCameraPosition,
		UniformFarPlane, UniformDiffuseTexture,
	}
	lightingUniforms = []Uniform{
		UniformViewProjection, UniformWorld, UniformCameraPosition,
		UniformFarPlane, UniformDepthBuffer, UniformNormalBuffer,
		UniformLightColor, UniformLightPosition, UniformLightRadius,
	}
	compositeUniforms = []Uniform{UniformColorBuffer, UniformLightingBuffer}
	blitUniforms      = []Uniform{UniformScale, UniformOffset, UniformSource, UniformGrayscale}
)

// LoadPrograms compiles and links the cube, lighting and composite programs
// from Shaders/<Name>{VS,PS}.glsl plus the built-in blit program. Programs
// linked before a failure are released.
func LoadPrograms(dev gpu.Device, assets Assets, log *zap.Logger) (*ProgramSet, error) {
	ps := &ProgramSet{}
	var err error
	if ps.Cube, err = loadProgram(dev, assets, log, "Cube", cubeUniforms); err != nil {
		return nil, err
	}
	if ps.Lighting, err = loadProgram(dev, assets, log, "Lighting", lightingUniforms); err != nil {
		ps.Destroy(dev)
		return nil, err
	}
	if ps.Composite, err = loadProgram(dev, assets, log, "Composite", compositeUniforms); err != nil {
		ps.Destroy(dev)
		return nil, err
	}
	if ps.Blit, err = buildProgram(dev, log, "Blit", blitVertSrc, blitFragSrc, blitUniforms); err != nil {
		ps.Destroy(dev)
		return nil, err
	}
	return ps, nil
}

func loadProgram(dev gpu.Device, assets Assets, log *zap.Logger, name string, roles []Uniform) (*Program, error) {
	vsSrc, err := readShader(assets, name+"VS")
	if err != nil {
		return nil, err
	}
	fsSrc, err := readShader(assets, name+"PS")
	if err != nil {
		return nil, err
	}
	return buildProgram(dev, log, name, vsSrc, fsSrc, roles)
}

func readShader(assets Assets, name string) (string, error) {
	src, err := assets.ShaderSource(name)
	if err != nil {
		return "", &InitError{Kind: AssetNotFound, Op: "load shader " + name, Err: err}
	}
	return src, nil
}

func buildProgram(dev gpu.Device, log *zap.Logger, name, vsSrc, fsSrc string, roles []Uniform) (*Program, error) {
	vert, err := dev.CompileShader(gpu.StageVertex, vsSrc)
	if err != nil {
		return nil, &InitError{Kind: ShaderCompile, Op: name + " program", Err: fmt.Errorf("vertex: %w", err)}
	}
	frag, err := dev.CompileShader(gpu.StageFragment, fsSrc)
	if err != nil {
		dev.DeleteShader(vert)
		return nil, &InitError{Kind: ShaderCompile, Op: name + " program", Err: fmt.Errorf("fragment: %w", err)}
	}
	handle, err := dev.LinkProgram(vert, frag)
	if err != nil {
		return nil, &InitError{Kind: ShaderCompile, Op: name + " program", Err: err}
	}
	log.Debug("linked program", zap.String("program", name), zap.Uint32("handle", uint32(handle)))
	return newProgram(dev, log, name, handle, roles), nil
}

// Destroy deletes every linked program.
func (ps *ProgramSet) Destroy(dev gpu.Device) {
	for _, p := range []**Program{&ps.Cube, &ps.Lighting, &ps.Composite, &ps.Blit} {
		if *p != nil {
			dev.DeleteProgram((*p).Handle)
			*p = nil
		}
	}
}
