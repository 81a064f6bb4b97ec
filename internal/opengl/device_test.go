package opengl

import (
	"testing"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"deferred-fbo/gpu"
)

func TestStatusFromGL(t *testing.T) {
	cases := []struct {
		code     uint32
		expected gpu.FramebufferStatus
	}{
		{gl.FRAMEBUFFER_COMPLETE, gpu.StatusComplete},
		{gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT, gpu.StatusIncompleteAttachment},
		{gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT, gpu.StatusMissingAttachment},
		{0x8CD9, gpu.StatusIncompleteDimensions},
		{0x8CDA, gpu.StatusIncompleteFormats},
		{gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER, gpu.StatusIncompleteDrawBuffer},
		{gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER, gpu.StatusIncompleteReadBuffer},
		{gl.FRAMEBUFFER_UNSUPPORTED, gpu.StatusUnsupported},
		{gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE, gpu.StatusUnknown},
		{0, gpu.StatusUnknown},
	}
	for _, tc := range cases {
		if got := statusFromGL(tc.code); got != tc.expected {
			t.Errorf("0x%X: expected %v, got %v", tc.code, tc.expected, got)
		}
	}
}

func TestFormatOf(t *testing.T) {
	cases := []struct {
		format   gpu.Format
		internal int32
		xtype    uint32
	}{
		{gpu.FormatRGBA8, gl.RGBA8, gl.UNSIGNED_BYTE},
		{gpu.FormatR32F, gl.R32F, gl.FLOAT},
		{gpu.FormatDepth32F, gl.DEPTH_COMPONENT32F, gl.FLOAT},
	}
	for _, tc := range cases {
		tf, err := formatOf(tc.format)
		if err != nil {
			t.Fatalf("%v: %v", tc.format, err)
		}
		if tf.internal != tc.internal || tf.xtype != tc.xtype {
			t.Errorf("%v: got internal 0x%X type 0x%X", tc.format, tf.internal, tf.xtype)
		}
	}
	if _, err := formatOf(gpu.Format(99)); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestAttachmentPoint(t *testing.T) {
	if got := attachmentPoint(gpu.Depth); got != gl.DEPTH_ATTACHMENT {
		t.Errorf("depth: got 0x%X", got)
	}
	if got := attachmentPoint(gpu.Color2); got != gl.COLOR_ATTACHMENT2 {
		t.Errorf("color2: got 0x%X", got)
	}
}

func TestErrorName(t *testing.T) {
	if got := errorName(gl.NO_ERROR); got != "NO_ERROR" {
		t.Errorf("expected NO_ERROR, got %s", got)
	}
	if got := errorName(gl.INVALID_FRAMEBUFFER_OPERATION); got != "INVALID_FRAMEBUFFER_OPERATION" {
		t.Errorf("expected INVALID_FRAMEBUFFER_OPERATION, got %s", got)
	}
	if got := errorName(0x1234); got != "0x1234" {
		t.Errorf("expected 0x1234, got %s", got)
	}
}
