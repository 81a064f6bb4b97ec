// Package opengl implements gpu.Device on an OpenGL 4.1 core context.
package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"deferred-fbo/gpu"
)

var _ gpu.Device = (*Device)(nil)

// Device drives the context current on the calling thread.
type Device struct {
	meshes   map[gpu.Mesh]*glMesh
	bound    gpu.Framebuffer
	viewport gpu.Viewport
}

// New loads the GL entry points. Must be called after the GLFW window
// context is made current.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.ClearDepth(1)

	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])

	return &Device{
		meshes:   make(map[gpu.Mesh]*glMesh),
		viewport: gpu.Viewport{X: int(vp[0]), Y: int(vp[1]), Width: int(vp[2]), Height: int(vp[3])},
	}, nil
}

// SupportsFramebuffers is true on any 3.x+ context, or on older ones that
// expose the ARB or EXT framebuffer object extension.
func (d *Device) SupportsFramebuffers() bool {
	var major int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	if major >= 3 {
		return true
	}
	return hasExtension("GL_ARB_framebuffer_object") || hasExtension("GL_EXT_framebuffer_object")
}

func hasExtension(name string) bool {
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	for i := uint32(0); i < uint32(n); i++ {
		if gl.GoStr(gl.GetStringi(gl.EXTENSIONS, i)) == name {
			return true
		}
	}
	return false
}

// Capabilities queries the context. Core profiles have no auxiliary
// buffers, so AuxBuffers is always 0.
func (d *Device) Capabilities() gpu.Capabilities {
	geti := func(pname uint32) int {
		var v int32
		gl.GetIntegerv(pname, &v)
		return int(v)
	}
	getb := func(pname uint32) bool {
		var v bool
		gl.GetBooleanv(pname, &v)
		return v
	}
	return gpu.Capabilities{
		Version:             gl.GoStr(gl.GetString(gl.VERSION)),
		Framebuffers:        d.SupportsFramebuffers(),
		MaxColorAttachments: geti(gl.MAX_COLOR_ATTACHMENTS),
		MaxDrawBuffers:      geti(gl.MAX_DRAW_BUFFERS),
		Stereo:              getb(gl.STEREO),
		Samples:             geti(gl.SAMPLES),
		DoubleBuffer:        getb(gl.DOUBLEBUFFER),
	}
}

// LastError returns and clears the oldest pending GL error.
func (d *Device) LastError() string {
	return errorName(gl.GetError())
}

func errorName(code uint32) string {
	switch code {
	case gl.NO_ERROR:
		return "NO_ERROR"
	case gl.INVALID_ENUM:
		return "INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	}
	return fmt.Sprintf("0x%X", code)
}

// ── State ─────────────────────────────────────────────────────────────────────

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	d.bound = fb
}

func (d *Device) DrawBuffers(n int) {
	if d.bound == gpu.DefaultFramebuffer {
		gl.DrawBuffer(gl.BACK)
		return
	}
	bufs := make([]uint32, n)
	for i := range bufs {
		bufs[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	gl.DrawBuffers(int32(n), &bufs[0])
}

func (d *Device) Viewport() gpu.Viewport { return d.viewport }

func (d *Device) SetViewport(vp gpu.Viewport) {
	d.viewport = vp
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
}

func (d *Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (d *Device) Clear(mask gpu.ClearMask) {
	var bits uint32
	if mask&gpu.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (d *Device) SetBlend(mode gpu.BlendMode) {
	if mode == gpu.BlendAdditive {
		gl.Enable(gl.BLEND)
		gl.BlendEquation(gl.FUNC_ADD)
		gl.BlendFunc(gl.ONE, gl.ONE)
		return
	}
	gl.Disable(gl.BLEND)
}

func (d *Device) SetCullFace(mode gpu.CullMode) {
	switch mode {
	case gpu.CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case gpu.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Disable(gl.CULL_FACE)
	}
}

func (d *Device) BindTexture(unit int, tex gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}
