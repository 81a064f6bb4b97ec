// Package software is a CPU implementation of gpu.Device. It rasterizes
// triangles with a top-left fill rule, supports multiple render targets,
// depth testing, face culling and additive blending, and runs shaders
// written as Go functions. Tests use it as a reference device.
package software

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"deferred-fbo/gpu"
)

const (
	errNone             = "NO_ERROR"
	errInvalidValue     = "INVALID_VALUE"
	errInvalidOperation = "INVALID_OPERATION"

	maxTextureUnits = 16
)

type framebuffer struct {
	attachments map[gpu.Attachment]gpu.Texture
	drawBuffers int
}

type compiledShader struct {
	stage gpu.ShaderStage
	src   Shader
}

var _ gpu.Device = (*Device)(nil)

// Device is a software rendering context. The zero value is not usable;
// call New.
type Device struct {
	// Framebuffers is what SupportsFramebuffers reports.
	Framebuffers bool

	shaders map[string]Shader

	nextID       uint32
	textures     map[gpu.Texture]*texture
	framebuffers map[gpu.Framebuffer]*framebuffer
	compiled     map[gpu.Shader]compiledShader
	programs     map[gpu.Program]*program
	meshes       map[gpu.Mesh][]gpu.Vertex

	bound      gpu.Framebuffer
	viewport   gpu.Viewport
	clearColor mgl32.Vec4
	depthTest  bool
	blend      gpu.BlendMode
	cull       gpu.CullMode
	current    *program
	units      [maxTextureUnits]gpu.Texture
	lastErr    string
}

// New creates a device whose default framebuffer is width×height. shaders
// maps shader source text (surrounding whitespace ignored) to the Go
// function that stands in for it; any other source fails to compile.
func New(width, height int, shaders map[string]Shader) *Device {
	d := &Device{
		Framebuffers: true,
		shaders:      make(map[string]Shader, len(shaders)),
		textures:     map[gpu.Texture]*texture{},
		framebuffers: map[gpu.Framebuffer]*framebuffer{},
		compiled:     map[gpu.Shader]compiledShader{},
		programs:     map[gpu.Program]*program{},
		meshes:       map[gpu.Mesh][]gpu.Vertex{},
		lastErr:      errNone,
	}
	for src, sh := range shaders {
		d.shaders[strings.TrimSpace(src)] = sh
	}
	d.Resize(width, height)
	d.viewport = gpu.Viewport{Width: width, Height: height}
	return d
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) fail(code string) {
	if d.lastErr == errNone {
		d.lastErr = code
	}
}

// Resize reallocates the default framebuffer. The viewport is left alone,
// as a windowing system would.
func (d *Device) Resize(width, height int) {
	if old := d.framebuffers[gpu.DefaultFramebuffer]; old != nil {
		for _, tex := range old.attachments {
			delete(d.textures, tex)
		}
	}
	color := gpu.Texture(d.id())
	depth := gpu.Texture(d.id())
	d.textures[color] = newTexture(gpu.TextureDesc{Width: width, Height: height, Format: gpu.FormatRGBA8})
	d.textures[depth] = newTexture(gpu.TextureDesc{Width: width, Height: height, Format: gpu.FormatDepth32F})
	d.framebuffers[gpu.DefaultFramebuffer] = &framebuffer{
		attachments: map[gpu.Attachment]gpu.Texture{gpu.Color0: color, gpu.Depth: depth},
		drawBuffers: 1,
	}
}

func (d *Device) SupportsFramebuffers() bool { return d.Framebuffers }

func (d *Device) Capabilities() gpu.Capabilities {
	return gpu.Capabilities{
		Version:             "software",
		Framebuffers:        d.Framebuffers,
		MaxColorAttachments: MaxOutputs,
		MaxDrawBuffers:      MaxOutputs,
		Samples:             0,
		DoubleBuffer:        true,
	}
}

func (d *Device) CreateTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	if desc.Width < 0 || desc.Height < 0 {
		d.fail(errInvalidValue)
		return 0, fmt.Errorf("invalid texture size %dx%d", desc.Width, desc.Height)
	}
	if desc.Pixels != nil && (desc.Format != gpu.FormatRGBA8 || len(desc.Pixels) < desc.Width*desc.Height*4) {
		d.fail(errInvalidValue)
		return 0, fmt.Errorf("pixel data does not match %dx%d %v", desc.Width, desc.Height, desc.Format)
	}
	tex := gpu.Texture(d.id())
	d.textures[tex] = newTexture(desc)
	return tex, nil
}

func (d *Device) DeleteTexture(tex gpu.Texture) {
	delete(d.textures, tex)
	for i, t := range d.units {
		if t == tex {
			d.units[i] = 0
		}
	}
}

func (d *Device) CreateFramebuffer() (gpu.Framebuffer, error) {
	if !d.Framebuffers {
		d.fail(errInvalidOperation)
		return 0, fmt.Errorf("framebuffer objects not supported")
	}
	fb := gpu.Framebuffer(d.id())
	d.framebuffers[fb] = &framebuffer{attachments: map[gpu.Attachment]gpu.Texture{}, drawBuffers: 1}
	return fb, nil
}

func (d *Device) AttachTexture(fb gpu.Framebuffer, at gpu.Attachment, tex gpu.Texture) {
	f := d.framebuffers[fb]
	if f == nil || fb == gpu.DefaultFramebuffer {
		d.fail(errInvalidOperation)
		return
	}
	if tex == 0 {
		delete(f.attachments, at)
		return
	}
	if d.textures[tex] == nil {
		d.fail(errInvalidValue)
		return
	}
	f.attachments[at] = tex
}

// CheckFramebuffer reports dimension mismatches like the EXT framebuffer
// extension did, in addition to the core statuses.
func (d *Device) CheckFramebuffer(fb gpu.Framebuffer) gpu.FramebufferStatus {
	f := d.framebuffers[fb]
	if f == nil {
		d.fail(errInvalidValue)
		return gpu.StatusUnknown
	}
	if len(f.attachments) == 0 {
		return gpu.StatusMissingAttachment
	}

	width, height := -1, -1
	for at, tex := range f.attachments {
		t := d.textures[tex]
		if t == nil || (at == gpu.Depth) != t.desc.Format.IsDepth() {
			return gpu.StatusIncompleteAttachment
		}
		if t.desc.Width == 0 || t.desc.Height == 0 {
			return gpu.StatusIncompleteDimensions
		}
		if width < 0 {
			width, height = t.desc.Width, t.desc.Height
		} else if t.desc.Width != width || t.desc.Height != height {
			return gpu.StatusIncompleteDimensions
		}
	}
	for i := 0; i < f.drawBuffers; i++ {
		if _, ok := f.attachments[gpu.ColorAttachment(i)]; !ok {
			return gpu.StatusIncompleteDrawBuffer
		}
	}
	return gpu.StatusComplete
}

func (d *Device) DeleteFramebuffer(fb gpu.Framebuffer) {
	if fb == gpu.DefaultFramebuffer {
		return
	}
	delete(d.framebuffers, fb)
	if d.bound == fb {
		d.bound = gpu.DefaultFramebuffer
	}
}

func (d *Device) CompileShader(stage gpu.ShaderStage, src string) (gpu.Shader, error) {
	sh, ok := d.shaders[strings.TrimSpace(src)]
	if !ok {
		return 0, &gpu.CompileError{Stage: stage, Log: "0:1: unrecognized shader source"}
	}
	if got, ok := sh.stage(); !ok || got != stage {
		return 0, &gpu.CompileError{Stage: stage, Log: fmt.Sprintf("0:1: source is not a %s shader", stage)}
	}
	id := gpu.Shader(d.id())
	d.compiled[id] = compiledShader{stage: stage, src: sh}
	return id, nil
}

func (d *Device) DeleteShader(s gpu.Shader) { delete(d.compiled, s) }

func (d *Device) LinkProgram(vs, fs gpu.Shader) (gpu.Program, error) {
	v, okV := d.compiled[vs]
	f, okF := d.compiled[fs]
	delete(d.compiled, vs)
	delete(d.compiled, fs)
	if !okV || !okF || v.stage != gpu.StageVertex || f.stage != gpu.StageFragment {
		return 0, &gpu.CompileError{Link: true, Log: "program needs one vertex and one fragment shader"}
	}
	p := gpu.Program(d.id())
	d.programs[p] = &program{
		vertex:   v.src.Vertex,
		fragment: f.src.Fragment,
		locs:     map[string]int32{},
		values:   map[string]any{},
	}
	return p, nil
}

// UniformLocation hands out a location for any name; the software device
// has no way to tell which uniforms a Go shader reads.
func (d *Device) UniformLocation(p gpu.Program, name string) int32 {
	prog := d.programs[p]
	if prog == nil {
		d.fail(errInvalidValue)
		return -1
	}
	return prog.location(name)
}

func (d *Device) DeleteProgram(p gpu.Program) {
	if prog := d.programs[p]; prog != nil && prog == d.current {
		d.current = nil
	}
	delete(d.programs, p)
}

func (d *Device) CreateMesh(vertices []gpu.Vertex) (gpu.Mesh, error) {
	if len(vertices)%3 != 0 {
		d.fail(errInvalidValue)
		return 0, fmt.Errorf("vertex count %d is not a triangle list", len(vertices))
	}
	m := gpu.Mesh(d.id())
	d.meshes[m] = append([]gpu.Vertex(nil), vertices...)
	return m, nil
}

func (d *Device) DeleteMesh(m gpu.Mesh) { delete(d.meshes, m) }

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) {
	if d.framebuffers[fb] == nil {
		d.fail(errInvalidOperation)
		return
	}
	d.bound = fb
}

func (d *Device) DrawBuffers(n int) {
	if n < 1 || n > MaxOutputs {
		d.fail(errInvalidValue)
		return
	}
	if d.bound == gpu.DefaultFramebuffer {
		return
	}
	d.framebuffers[d.bound].drawBuffers = n
}

func (d *Device) Viewport() gpu.Viewport { return d.viewport }
func (d *Device) SetViewport(vp gpu.Viewport) { d.viewport = vp }
func (d *Device) ClearColor(r, g, b, a float32) { d.clearColor = mgl32.Vec4{r, g, b, a} }
func (d *Device) SetDepthTest(enabled bool) { d.depthTest = enabled }
func (d *Device) SetBlend(mode gpu.BlendMode) { d.blend = mode }
func (d *Device) SetCullFace(mode gpu.CullMode) { d.cull = mode }

// Clear ignores the viewport, like glClear without a scissor.
func (d *Device) Clear(mask gpu.ClearMask) {
	f := d.framebuffers[d.bound]
	if mask&gpu.ClearColor != 0 {
		for i := 0; i < f.drawBuffers; i++ {
			if t := d.textures[f.attachments[gpu.ColorAttachment(i)]]; t != nil {
				t.fill(d.clearColor)
			}
		}
	}
	if mask&gpu.ClearDepth != 0 {
		if t := d.textures[f.attachments[gpu.Depth]]; t != nil {
			t.fill(mgl32.Vec4{1})
		}
	}
}

func (d *Device) UseProgram(p gpu.Program) {
	if p == 0 {
		d.current = nil
		return
	}
	prog := d.programs[p]
	if prog == nil {
		d.fail(errInvalidOperation)
		return
	}
	d.current = prog
}

func (d *Device) uniform(loc int32, v any) {
	if d.current == nil {
		d.fail(errInvalidOperation)
		return
	}
	d.current.set(loc, v)
}

func (d *Device) Uniform1i(loc int32, v int32) { d.uniform(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32) { d.uniform(loc, v) }
func (d *Device) Uniform2f(loc int32, x, y float32) { d.uniform(loc, mgl32.Vec2{x, y}) }
func (d *Device) Uniform3f(loc int32, v mgl32.Vec3) { d.uniform(loc, v) }
func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) { d.uniform(loc, m) }

func (d *Device) BindTexture(unit int, tex gpu.Texture) {
	if unit < 0 || unit >= maxTextureUnits {
		d.fail(errInvalidValue)
		return
	}
	if tex != 0 && d.textures[tex] == nil {
		d.fail(errInvalidOperation)
		return
	}
	d.units[unit] = tex
}

func (d *Device) unitTexture(unit int) *texture {
	if unit < 0 || unit >= maxTextureUnits {
		return nil
	}
	return d.textures[d.units[unit]]
}

// LastError returns and clears the first error recorded since the last
// call.
func (d *Device) LastError() string {
	err := d.lastErr
	d.lastErr = errNone
	return err
}

// Counts is a census of live objects, excluding the default framebuffer.
type Counts struct {
	Textures     int
	Framebuffers int
	Shaders      int
	Programs     int
	Meshes       int
}

func (d *Device) Live() Counts {
	return Counts{
		Textures:     len(d.textures) - 2,
		Framebuffers: len(d.framebuffers) - 1,
		Shaders:      len(d.compiled),
		Programs:     len(d.programs),
		Meshes:       len(d.meshes),
	}
}

// TextureDesc returns the description a texture was created with.
func (d *Device) TextureDesc(tex gpu.Texture) (gpu.TextureDesc, bool) {
	t := d.textures[tex]
	if t == nil {
		return gpu.TextureDesc{}, false
	}
	return t.desc, true
}

// Texel reads one texel of tex as floats in the layout a shader would
// sample. Rows count from the bottom.
func (d *Device) Texel(tex gpu.Texture, x, y int) mgl32.Vec4 {
	t := d.textures[tex]
	if t == nil || x < 0 || y < 0 || x >= t.desc.Width || y >= t.desc.Height {
		return mgl32.Vec4{}
	}
	return t.texel(x, y)
}

// Snapshot copies the raw contents of tex: bytes for RGBA8, float bits
// otherwise.
func (d *Device) Snapshot(tex gpu.Texture) []byte {
	t := d.textures[tex]
	if t == nil {
		return nil
	}
	if t.rgba != nil {
		return append([]byte(nil), t.rgba...)
	}
	out := make([]byte, 0, len(t.f32)*4)
	for _, f := range t.f32 {
		b := math.Float32bits(f)
		out = append(out, byte(b), byte(b>>8), byte(b>>16), byte(b>>24))
	}
	return out
}

// WindowTexture returns the default framebuffer's color buffer.
func (d *Device) WindowTexture() gpu.Texture {
	return d.framebuffers[gpu.DefaultFramebuffer].attachments[gpu.Color0]
}
