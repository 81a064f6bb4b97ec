package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"deferred-fbo/gpu"
)

type textureFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

func formatOf(f gpu.Format) (textureFormat, error) {
	switch f {
	case gpu.FormatRGBA8:
		return textureFormat{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE}, nil
	case gpu.FormatR32F:
		return textureFormat{gl.R32F, gl.RED, gl.FLOAT}, nil
	case gpu.FormatDepth32F:
		return textureFormat{gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT}, nil
	}
	return textureFormat{}, fmt.Errorf("unsupported texture format %v", f)
}

func filterOf(f gpu.Filter) int32 {
	if f == gpu.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func wrapOf(w gpu.Wrap) int32 {
	if w == gpu.WrapRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_BORDER
}

// CreateTexture allocates a 2D texture without mipmaps. Pixels, when set,
// are RGBA8 rows from the bottom up.
func (d *Device) CreateTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	tf, err := formatOf(desc.Format)
	if err != nil {
		return 0, err
	}
	if desc.Pixels != nil && (desc.Format != gpu.FormatRGBA8 || len(desc.Pixels) < desc.Width*desc.Height*4) {
		return 0, fmt.Errorf("pixel data does not match %dx%d %v", desc.Width, desc.Height, desc.Format)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	filter, wrap := filterOf(desc.Filter), wrapOf(desc.Wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	border := [4]float32{0, 0, 0, 0}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	var pixels unsafe.Pointer
	if len(desc.Pixels) > 0 {
		pixels = unsafe.Pointer(&desc.Pixels[0])
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, tf.internal,
		int32(desc.Width), int32(desc.Height), 0, tf.format, tf.xtype, pixels)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &id)
		return 0, fmt.Errorf("create %dx%d %v texture: %s", desc.Width, desc.Height, desc.Format, errorName(code))
	}
	return gpu.Texture(id), nil
}

func (d *Device) DeleteTexture(tex gpu.Texture) {
	id := uint32(tex)
	gl.DeleteTextures(1, &id)
}
