package software

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"deferred-fbo/gpu"
)

type texture struct {
	desc gpu.TextureDesc
	rgba []uint8   // FormatRGBA8
	f32  []float32 // FormatR32F and FormatDepth32F
}

func newTexture(desc gpu.TextureDesc) *texture {
	t := &texture{desc: desc}
	n := desc.Width * desc.Height
	if desc.Format == gpu.FormatRGBA8 {
		t.rgba = make([]uint8, n*4)
		copy(t.rgba, desc.Pixels)
	} else {
		t.f32 = make([]float32, n)
	}
	t.desc.Pixels = nil
	return t
}

func quantize(v float32) uint8 {
	if v <= 0 || v != v {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(float64(v) * 255))
}

func saturatingAdd(a, b uint8) uint8 {
	s := int(a) + int(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

func (t *texture) fill(v mgl32.Vec4) {
	if t.rgba != nil {
		q := [4]uint8{quantize(v[0]), quantize(v[1]), quantize(v[2]), quantize(v[3])}
		for i := 0; i < len(t.rgba); i += 4 {
			copy(t.rgba[i:i+4], q[:])
		}
		return
	}
	for i := range t.f32 {
		t.f32[i] = v[0]
	}
}

// write stores a fragment output at pixel index i. Additive blending adds
// the quantized source to the destination, so accumulation is exact in
// the integer domain.
func (t *texture) write(i int, v mgl32.Vec4, blend gpu.BlendMode) {
	if t.rgba != nil {
		px := t.rgba[i*4 : i*4+4]
		for c := 0; c < 4; c++ {
			q := quantize(v[c])
			if blend == gpu.BlendAdditive {
				q = saturatingAdd(px[c], q)
			}
			px[c] = q
		}
		return
	}
	if blend == gpu.BlendAdditive {
		t.f32[i] += v[0]
	} else {
		t.f32[i] = v[0]
	}
}

func (t *texture) texel(x, y int) mgl32.Vec4 {
	i := y*t.desc.Width + x
	if t.rgba != nil {
		px := t.rgba[i*4 : i*4+4]
		return mgl32.Vec4{
			float32(px[0]) / 255, float32(px[1]) / 255,
			float32(px[2]) / 255, float32(px[3]) / 255,
		}
	}
	return mgl32.Vec4{t.f32[i], 0, 0, 1}
}

func (t *texture) sample(uv mgl32.Vec2) mgl32.Vec4 {
	w, h := t.desc.Width, t.desc.Height
	if w == 0 || h == 0 {
		return mgl32.Vec4{}
	}
	x, okX := wrapCoord(uv[0], w, t.desc.Wrap)
	y, okY := wrapCoord(uv[1], h, t.desc.Wrap)
	if !okX || !okY {
		return mgl32.Vec4{} // transparent black border
	}
	return t.texel(x, y)
}

func wrapCoord(c float32, size int, wrap gpu.Wrap) (int, bool) {
	if wrap == gpu.WrapRepeat {
		c -= float32(math.Floor(float64(c)))
	} else if c < 0 || c > 1 {
		return 0, false
	}
	i := int(math.Floor(float64(c) * float64(size)))
	if i >= size {
		i = size - 1
	}
	if i < 0 {
		i = 0
	}
	return i, true
}
