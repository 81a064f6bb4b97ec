package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"deferred-fbo/gpu"
)

// Statuses core GL dropped but older drivers still return from
// glCheckFramebufferStatus.
const (
	framebufferIncompleteDimensions = 0x8CD9
	framebufferIncompleteFormats    = 0x8CDA
)

func (d *Device) CreateFramebuffer() (gpu.Framebuffer, error) {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	if fbo == 0 {
		return 0, fmt.Errorf("glGenFramebuffers: %s", errorName(gl.GetError()))
	}
	return gpu.Framebuffer(fbo), nil
}

func attachmentPoint(at gpu.Attachment) uint32 {
	if at == gpu.Depth {
		return gl.DEPTH_ATTACHMENT
	}
	return gl.COLOR_ATTACHMENT0 + uint32(at)
}

// AttachTexture binds fb only for the duration of the call.
func (d *Device) AttachTexture(fb gpu.Framebuffer, at gpu.Attachment, tex gpu.Texture) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachmentPoint(at), gl.TEXTURE_2D, uint32(tex), 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(d.bound))
}

func (d *Device) CheckFramebuffer(fb gpu.Framebuffer) gpu.FramebufferStatus {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(d.bound))
	return statusFromGL(status)
}

func statusFromGL(status uint32) gpu.FramebufferStatus {
	switch status {
	case gl.FRAMEBUFFER_COMPLETE:
		return gpu.StatusComplete
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return gpu.StatusIncompleteAttachment
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return gpu.StatusMissingAttachment
	case framebufferIncompleteDimensions:
		return gpu.StatusIncompleteDimensions
	case framebufferIncompleteFormats:
		return gpu.StatusIncompleteFormats
	case gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:
		return gpu.StatusIncompleteDrawBuffer
	case gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:
		return gpu.StatusIncompleteReadBuffer
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return gpu.StatusUnsupported
	}
	return gpu.StatusUnknown
}

func (d *Device) DeleteFramebuffer(fb gpu.Framebuffer) {
	if fb == gpu.DefaultFramebuffer {
		return
	}
	if d.bound == fb {
		d.BindFramebuffer(gpu.DefaultFramebuffer)
	}
	id := uint32(fb)
	gl.DeleteFramebuffers(1, &id)
}
