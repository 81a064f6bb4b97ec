package gpu

import "github.com/go-gl/mathgl/mgl32"

// Device is a current rendering context. Methods must be called from the
// thread that owns the context.
type Device interface {
	// SupportsFramebuffers reports whether framebuffer objects are usable.
	SupportsFramebuffers() bool
	Capabilities() Capabilities

	CreateTexture(desc TextureDesc) (Texture, error)
	DeleteTexture(tex Texture)

	CreateFramebuffer() (Framebuffer, error)
	AttachTexture(fb Framebuffer, at Attachment, tex Texture)
	// CheckFramebuffer returns the driver's completeness status of fb
	// without changing the current binding.
	CheckFramebuffer(fb Framebuffer) FramebufferStatus
	DeleteFramebuffer(fb Framebuffer)

	// CompileShader returns a *CompileError when the driver rejects src.
	CompileShader(stage ShaderStage, src string) (Shader, error)
	DeleteShader(s Shader)
	// LinkProgram consumes both shaders.
	LinkProgram(vs, fs Shader) (Program, error)
	// UniformLocation returns -1 for unknown or inactive uniforms.
	UniformLocation(p Program, name string) int32
	DeleteProgram(p Program)

	CreateMesh(vertices []Vertex) (Mesh, error)
	DeleteMesh(m Mesh)

	BindFramebuffer(fb Framebuffer)
	// DrawBuffers routes fragment outputs 0..n-1 to color attachments
	// 0..n-1 of the bound framebuffer.
	DrawBuffers(n int)
	Viewport() Viewport
	SetViewport(vp Viewport)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	SetDepthTest(enabled bool)
	SetBlend(mode BlendMode)
	SetCullFace(mode CullMode)

	UseProgram(p Program)
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, x, y float32)
	Uniform3f(loc int32, v mgl32.Vec3)
	UniformMatrix4(loc int32, m mgl32.Mat4)
	BindTexture(unit int, tex Texture)
	Draw(m Mesh)

	// LastError returns the name of the most recent API error, or
	// "NO_ERROR".
	LastError() string
}
