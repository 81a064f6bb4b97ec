package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"deferred-fbo/gpu"
)

// glMesh holds the OpenGL buffer objects for an uploaded triangle list.
type glMesh struct {
	VAO   uint32
	VBO   uint32
	Count int32
}

// CreateMesh uploads vertices with position, normal and UV at attribute
// locations 0, 1 and 2.
func (d *Device) CreateMesh(vertices []gpu.Vertex) (gpu.Mesh, error) {
	if len(vertices) == 0 || len(vertices)%3 != 0 {
		return 0, fmt.Errorf("vertex count %d is not a triangle list", len(vertices))
	}

	var v gpu.Vertex
	stride := int32(unsafe.Sizeof(v))
	m := &glMesh{Count: int32(len(vertices))}

	gl.GenVertexArrays(1, &m.VAO)
	gl.GenBuffers(1, &m.VBO)
	gl.BindVertexArray(m.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(stride), unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Position))))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Normal))))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.UV))))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	d.meshes[gpu.Mesh(m.VAO)] = m
	return gpu.Mesh(m.VAO), nil
}

func (d *Device) DeleteMesh(h gpu.Mesh) {
	m, ok := d.meshes[h]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &m.VBO)
	gl.DeleteVertexArrays(1, &m.VAO)
	delete(d.meshes, h)
}

func (d *Device) Draw(h gpu.Mesh) {
	m, ok := d.meshes[h]
	if !ok {
		return
	}
	gl.BindVertexArray(m.VAO)
	gl.DrawArrays(gl.TRIANGLES, 0, m.Count)
	gl.BindVertexArray(0)
}
