package opengl

import (
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"deferred-fbo/gpu"
)

func (d *Device) CompileShader(stage gpu.ShaderStage, src string) (gpu.Shader, error) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == gpu.StageFragment {
		shaderType = gl.FRAGMENT_SHADER
	}

	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &gpu.CompileError{Stage: stage, Log: strings.TrimRight(log, "\x00")}
	}
	return gpu.Shader(shader), nil
}

func (d *Device) DeleteShader(s gpu.Shader) { gl.DeleteShader(uint32(s)) }

// LinkProgram deletes both shaders whether or not linking succeeds.
func (d *Device) LinkProgram(vs, fs gpu.Shader) (gpu.Program, error) {
	prog := gl.CreateProgram()
	gl.AttachShader(prog, uint32(vs))
	gl.AttachShader(prog, uint32(fs))
	gl.LinkProgram(prog)
	gl.DetachShader(prog, uint32(vs))
	gl.DetachShader(prog, uint32(fs))
	gl.DeleteShader(uint32(vs))
	gl.DeleteShader(uint32(fs))

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, &gpu.CompileError{Link: true, Log: strings.TrimRight(log, "\x00")}
	}
	return gpu.Program(prog), nil
}

func (d *Device) UniformLocation(p gpu.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) DeleteProgram(p gpu.Program) { gl.DeleteProgram(uint32(p)) }

func (d *Device) UseProgram(p gpu.Program) { gl.UseProgram(uint32(p)) }

func (d *Device) Uniform1i(loc int32, v int32) { gl.Uniform1i(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32) { gl.Uniform1f(loc, v) }
func (d *Device) Uniform2f(loc int32, x, y float32) { gl.Uniform2f(loc, x, y) }
func (d *Device) Uniform3f(loc int32, v mgl32.Vec3) { gl.Uniform3f(loc, v.X(), v.Y(), v.Z()) }

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}
